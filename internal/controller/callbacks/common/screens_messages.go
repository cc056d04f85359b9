package common

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

const previewLength = 30

// BuildInboxScreen формирует список входящих сообщений
func BuildInboxScreen(messages []*model.Message, unread int) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString("✉️ <b>Входящие</b>\n\n")

	switch {
	case len(messages) == 0:
		sb.WriteString("Сообщений пока нет.")
	case unread > 0:
		sb.WriteString(fmt.Sprintf("%d %s не прочитано.", unread, formatting.PluralizeMessages(unread)))
	default:
		sb.WriteString("Все сообщения прочитаны.")
	}

	kb := keyboard.NewBuilder()
	for _, msg := range messages {
		mark := "📭"
		if !msg.IsRead {
			mark = "📩"
		}
		from := "?"
		if msg.From != nil {
			from = plainName(msg.From)
		}
		kb.Row(keyboard.Button(fmt.Sprintf("%s %s: %s", mark, from, preview(msg.Text)), Data(CbMsgRead, msg.ID)))
	}
	kb.AddBackToMainButton()

	return sb.String(), kb.Build()
}

// BuildMessageScreen формирует экран одного сообщения
func BuildMessageScreen(msg *model.Message) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✉️ <b>От:</b> %s\n", formatting.FormatUser(msg.From)))
	sb.WriteString(fmt.Sprintf("📅 %s\n\n", formatting.FormatDateTime(msg.CreatedAt)))
	sb.WriteString(html.EscapeString(msg.Text))

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("↩️ Ответить", Data(CbMsgWrite, msg.FromUserID)),
			keyboard.Button("💬 Переписка", Data(CbMsgConv, msg.FromUserID)),
		).
		AddBackButton(CbInbox).
		Build()

	return sb.String(), kb
}

// BuildConversationScreen формирует переписку с other (сообщения по возрастанию времени)
func BuildConversationScreen(other *model.User, messages []*model.Message, viewerID uuid.UUID) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💬 <b>Переписка с %s</b>\n\n", formatting.FormatUser(other)))

	if len(messages) == 0 {
		sb.WriteString("Сообщений пока нет.")
	}
	for _, msg := range messages {
		who := "👤"
		if msg.FromUserID == viewerID {
			who = "➡️ Вы"
		}
		sb.WriteString(fmt.Sprintf("%s <i>%s</i>\n%s\n\n", who,
			formatting.FormatDateTime(msg.CreatedAt), html.EscapeString(msg.Text)))
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("✍️ Написать", Data(CbMsgWrite, other.ID))).
		AddBackButton(CbInbox).
		Build()

	return strings.TrimRight(sb.String(), "\n"), kb
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewLength]) + "…"
}
