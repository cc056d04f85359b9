package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageBounds(t *testing.T) {
	tests := []struct {
		total, page            int
		wantStart, wantEnd, wp int
	}{
		{0, 0, 0, 0, 0},
		{3, 0, 0, 3, 1},
		{PageSize, 0, 0, PageSize, 1},
		{PageSize + 1, 1, PageSize, PageSize + 1, 2},
		{PageSize + 1, 5, PageSize, PageSize + 1, 2},
	}

	for _, tt := range tests {
		start, end, pages := PageBounds(tt.total, tt.page)
		assert.Equal(t, tt.wantStart, start)
		assert.Equal(t, tt.wantEnd, end)
		assert.Equal(t, tt.wp, pages)
	}
}

func TestPaginationButtons(t *testing.T) {
	assert.Nil(t, PaginationButtons("gyms_page:", 0, 1))

	first := PaginationButtons("gyms_page:", 0, 3)
	assert.Len(t, first, 2)
	assert.Equal(t, "noop", first[0].CallbackData)
	assert.Equal(t, "gyms_page:1", first[1].CallbackData)

	middle := PaginationButtons("gyms_page:", 1, 3)
	assert.Len(t, middle, 3)
	assert.Equal(t, "gyms_page:0", middle[0].CallbackData)
	assert.Equal(t, "📄 2/3", middle[1].Text)
}

func TestBuilder(t *testing.T) {
	kb := NewBuilder().
		Row(Button("a", "a")).
		Row().
		AddBackToMainButton().
		Build()

	assert.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "back_to_main", kb.InlineKeyboard[1][0].CallbackData)
}
