package formatting

import (
	"testing"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestPluralize(t *testing.T) {
	cases := map[int]string{
		0:   "заявок",
		1:   "заявка",
		2:   "заявки",
		5:   "заявок",
		11:  "заявок",
		21:  "заявка",
		22:  "заявки",
		112: "заявок",
	}
	for n, want := range cases {
		assert.Equal(t, want, PluralizeRequests(n), n)
	}

	assert.Equal(t, "ученика", PluralizeStudents(3))
	assert.Equal(t, "сообщений", PluralizeMessages(14))
}

func TestGetRequestStatusDisplay(t *testing.T) {
	assert.Equal(t, "⏳", GetRequestStatusDisplay(model.RequestStatusPending).Emoji)
	assert.Equal(t, "Принята", GetRequestStatusDisplay(model.RequestStatusAccepted).Text)
	assert.Equal(t, "❓", GetRequestStatusDisplay("archived").Emoji)
}
