package requests

import (
	"fmt"
	"html"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common/formatting"
)

func decisionText(view common.RequestView) string {
	status := formatting.GetRequestStatusDisplay(view.Request.Status)
	role := formatting.GetRoleDisplay(view.Request.RequestedRole)

	gym := "удалённый зал"
	if view.Gym != nil {
		gym = html.EscapeString(view.Gym.Name)
	}

	text := fmt.Sprintf("%s <b>%s: %s</b>\n\n🏟 %s\n👤 %s (%s)",
		status.Emoji,
		formatting.RequestDirection(view.Request.RequestType),
		status.Text,
		gym,
		formatting.FormatUser(view.Person),
		role.Text,
	)
	if view.Request.IsAccepted() {
		text += "\n\nОткройте /profile, чтобы увидеть изменения."
	}
	return text
}
