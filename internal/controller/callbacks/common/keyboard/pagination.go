package keyboard

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// PageSize количество элементов на странице списка
const PageSize = 8

// PaginationButtons создаёт ряд кнопок пагинации
// prefix - префикс для callback (например "gyms_page:")
// currentPage - текущая страница (0-based)
func PaginationButtons(prefix string, currentPage, totalPages int) []models.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	var buttons []models.InlineKeyboardButton

	if currentPage > 0 {
		buttons = append(buttons, Button("⬅️", fmt.Sprintf("%s%d", prefix, currentPage-1)))
	}

	buttons = append(buttons, Button(
		fmt.Sprintf("📄 %d/%d", currentPage+1, totalPages),
		"noop",
	))

	if currentPage < totalPages-1 {
		buttons = append(buttons, Button("➡️", fmt.Sprintf("%s%d", prefix, currentPage+1)))
	}

	return buttons
}

// AddPagination добавляет пагинацию к builder
func (b *Builder) AddPagination(prefix string, currentPage, totalPages int) *Builder {
	buttons := PaginationButtons(prefix, currentPage, totalPages)
	if len(buttons) > 0 {
		b.Row(buttons...)
	}
	return b
}

// PageBounds возвращает границы страницы [start, end) и число страниц.
// Страница за пределами списка прижимается к последней
func PageBounds(total, page int) (start, end, pages int) {
	pages = (total + PageSize - 1) / PageSize
	if pages == 0 {
		return 0, 0, 0
	}
	if page >= pages {
		page = pages - 1
	}
	if page < 0 {
		page = 0
	}
	start = page * PageSize
	end = start + PageSize
	if end > total {
		end = total
	}
	return start, end, pages
}
