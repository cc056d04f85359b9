package common

import (
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/Freeeeeet/gym_bot/internal/service"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callbacks(kb *models.InlineKeyboardMarkup) []string {
	var data []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			data = append(data, btn.CallbackData)
		}
	}
	return data
}

func newUser(role model.Role) *model.User {
	return &model.User{
		ID:          uuid.New(),
		TelegramID:  42,
		Username:    "ivan",
		DisplayName: "Ivan",
		Role:        role,
		CreatedAt:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildMainMenu(t *testing.T) {
	t.Run("student sees counters", func(t *testing.T) {
		text, kb := BuildMainMenu(MainMenuData{User: newUser(model.RoleStudent), PendingRequests: 2, UnreadMessages: 5})

		assert.Contains(t, text, "2 заявки ждут ответа")
		assert.Contains(t, text, "5 сообщений не прочитано")
		assert.Contains(t, callbacks(kb), CbRoutines)
		assert.NotContains(t, callbacks(kb), CbMyGyms+"0")
	})

	t.Run("admin gets own gyms", func(t *testing.T) {
		text, kb := BuildMainMenu(MainMenuData{User: newUser(model.RoleAdmin)})

		assert.NotContains(t, text, "ждут ответа")
		assert.Contains(t, callbacks(kb), CbMyGyms+"0")
	})

	t.Run("professor gets students", func(t *testing.T) {
		_, kb := BuildMainMenu(MainMenuData{User: newUser(model.RoleProfessor)})
		assert.Contains(t, callbacks(kb), CbMyStudents)
	})
}

func TestBuildProfileScreen(t *testing.T) {
	user := newUser(model.RoleStudent)

	tests := []struct {
		name string
		gym  service.GymName
		want string
	}{
		{"loading", service.GymName{State: service.GymNameLoading}, "⏳ загрузка..."},
		{"resolved", service.GymName{State: service.GymNameResolved, Name: "Iron & Co"}, "Iron &amp; Co"},
		{"no gym", service.GymName{State: service.GymNameNone}, "нет зала"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, _ := BuildProfileScreen(user, tt.gym, nil)
			assert.Contains(t, text, "🏟 Зал: "+tt.want)
			assert.Contains(t, text, "нет тренера")
		})
	}

	t.Run("with professor", func(t *testing.T) {
		gymID := uuid.New()
		bound := newUser(model.RoleStudent)
		bound.GymID = &gymID
		prof := newUser(model.RoleProfessor)
		prof.DisplayName = "Coach"

		text, kb := BuildProfileScreen(bound, service.GymName{State: service.GymNameResolved, Name: "Iron"}, prof)

		assert.Contains(t, text, "Coach (@ivan)")
		assert.Contains(t, callbacks(kb), Data(CbMsgWrite, prof.ID))
		assert.Contains(t, callbacks(kb), Data(CbGymView, gymID))
	})
}

func TestBuildGymListScreen(t *testing.T) {
	var gyms []*model.Gym
	for i := 0; i < 10; i++ {
		gyms = append(gyms, &model.Gym{ID: uuid.New(), Name: "Gym"})
	}

	_, kb := BuildGymListScreen(gyms, 1, CbGymsPage, true)
	data := callbacks(kb)

	assert.Contains(t, data, Data(CbGymView, gyms[8].ID))
	assert.NotContains(t, data, Data(CbGymView, gyms[0].ID))
	assert.Contains(t, data, CbGymsPage+"0")
	assert.Contains(t, data, CbNewGym)

	text, kb := BuildGymListScreen(nil, 0, CbGymsPage, false)
	assert.Contains(t, text, "Пока нет ни одного зала")
	assert.NotContains(t, callbacks(kb), CbNewGym)
}

func TestBuildGymScreen(t *testing.T) {
	gym := &model.Gym{ID: uuid.New(), Name: "<Iron>", Address: "Lenina 1"}

	t.Run("visitor can join", func(t *testing.T) {
		text, kb := BuildGymScreen(GymScreenData{Gym: gym, Viewer: newUser(model.RoleStudent)})

		assert.Contains(t, text, "&lt;Iron&gt;")
		assert.Contains(t, callbacks(kb), Data(CbGymJoin, gym.ID))
		assert.NotContains(t, callbacks(kb), Data(CbGymEdit, gym.ID))
	})

	t.Run("member cannot join again", func(t *testing.T) {
		member := newUser(model.RoleStudent)
		member.GymID = &gym.ID

		text, kb := BuildGymScreen(GymScreenData{Gym: gym, Viewer: member})

		assert.Contains(t, text, "Вы занимаетесь в этом зале")
		assert.NotContains(t, callbacks(kb), Data(CbGymJoin, gym.ID))
	})

	t.Run("owner manages", func(t *testing.T) {
		text, kb := BuildGymScreen(GymScreenData{Gym: gym, Viewer: newUser(model.RoleAdmin), CanManage: true, PendingCount: 3})

		assert.Contains(t, text, "3 заявки ждут ответа")
		data := callbacks(kb)
		assert.Contains(t, data, Data(CbGymRequests, gym.ID))
		assert.Contains(t, data, Data(CbGymInvite, gym.ID))
		assert.Contains(t, data, Data(CbGymDelete, gym.ID))
		assert.NotContains(t, data, Data(CbGymJoin, gym.ID))
	})
}

func TestBuildJoinGymScreen(t *testing.T) {
	gym := &model.Gym{ID: uuid.New(), Name: "Iron"}
	prof := newUser(model.RoleProfessor)

	_, kb := BuildJoinGymScreen(gym, newUser(model.RoleStudent), []*model.User{prof})
	assert.Equal(t, []string{
		Data(CbJoinPlain, gym.ID),
		Data(CbJoinWith, prof.ID),
		Data(CbGymView, gym.ID),
	}, callbacks(kb))

	_, kb = BuildJoinGymScreen(gym, prof, []*model.User{prof})
	assert.NotContains(t, callbacks(kb), Data(CbJoinWith, prof.ID))
}

func TestRequestViewActions(t *testing.T) {
	owner := newUser(model.RoleAdmin)
	student := newUser(model.RoleStudent)
	outsider := newUser(model.RoleStudent)
	gym := &model.Gym{ID: uuid.New(), Name: "Iron", AdminID: owner.ID}

	req := &model.GymRequest{
		ID:            uuid.New(),
		RequestType:   model.RequestTypePersonToGym,
		RequestedRole: model.RoleStudent,
		Status:        model.RequestStatusPending,
		FromID:        student.ID,
		ToID:          gym.ID,
		Message:       "hi <b>",
	}
	view := RequestView{Request: req, Gym: gym, Person: student}

	t.Run("gym owner decides", func(t *testing.T) {
		text, kb := BuildRequestScreen(view, owner)

		assert.Contains(t, text, "hi &lt;b&gt;")
		assert.Contains(t, callbacks(kb), Data(CbReqAccept, req.ID))
		assert.Contains(t, callbacks(kb), Data(CbReqReject, req.ID))
	})

	t.Run("only the counterpart accepts from the bot", func(t *testing.T) {
		assert.NoError(t, view.CheckAccept(owner))
		assert.ErrorIs(t, view.CheckAccept(student), model.ErrForbidden)
		assert.ErrorIs(t, view.CheckAccept(outsider), model.ErrForbidden)

		done := *req
		done.Status = model.RequestStatusRejected
		decided := RequestView{Request: &done, Gym: gym, Person: student}
		assert.ErrorIs(t, decided.CheckAccept(owner), model.ErrInvalidState)
	})

	t.Run("author withdraws", func(t *testing.T) {
		assert.True(t, view.IsAuthor(student))
		_, kb := BuildRequestScreen(view, student)

		assert.NotContains(t, callbacks(kb), Data(CbReqAccept, req.ID))
		assert.Contains(t, callbacks(kb), Data(CbReqReject, req.ID))
	})

	t.Run("outsider only looks", func(t *testing.T) {
		_, kb := BuildRequestScreen(view, outsider)
		assert.Equal(t, []string{CbRequests}, callbacks(kb))
	})

	t.Run("decided request has no actions", func(t *testing.T) {
		done := *req
		done.Status = model.RequestStatusAccepted
		_, kb := BuildRequestScreen(RequestView{Request: &done, Gym: gym, Person: student}, owner)
		assert.Equal(t, []string{CbRequests}, callbacks(kb))
	})

	t.Run("invite is decided by the person", func(t *testing.T) {
		invite := &model.GymRequest{
			ID:            uuid.New(),
			RequestType:   model.RequestTypeGymToPerson,
			RequestedRole: model.RoleStudent,
			Status:        model.RequestStatusPending,
			FromID:        gym.ID,
			ToID:          student.ID,
		}
		v := RequestView{Request: invite, Gym: gym, Person: student}

		assert.True(t, v.IsAuthor(owner))
		assert.False(t, v.CanDecide(owner))
		assert.True(t, v.CanDecide(student))
	})
}

func TestBuildRequestListScreen(t *testing.T) {
	text, kb := BuildRequestListScreen("Заявки", nil, false, CbBackToMain)
	assert.Contains(t, text, "Нет заявок, ожидающих ответа")
	assert.Equal(t, []string{CbRequestsAll, CbBackToMain}, callbacks(kb))

	gymID := uuid.New()
	text, kb = BuildRequestListScreen("Заявки зала", nil, false, Data(CbGymView, gymID))
	assert.Contains(t, text, "Заявки зала")
	assert.Equal(t, []string{Data(CbGymView, gymID)}, callbacks(kb))
}

func TestBuildInboxScreen(t *testing.T) {
	sender := newUser(model.RoleProfessor)
	msg := &model.Message{
		ID:   uuid.New(),
		Text: strings.Repeat("очень длинное сообщение ", 5),
		From: sender,
	}

	text, kb := BuildInboxScreen([]*model.Message{msg}, 1)

	assert.Contains(t, text, "1 сообщение не прочитано")
	require.Len(t, kb.InlineKeyboard, 2)
	btn := kb.InlineKeyboard[0][0]
	assert.True(t, strings.HasPrefix(btn.Text, "📩 Ivan: "))
	assert.True(t, strings.HasSuffix(btn.Text, "…"))
	assert.Equal(t, Data(CbMsgRead, msg.ID), btn.CallbackData)
}

func TestBuildConversationScreen(t *testing.T) {
	me := newUser(model.RoleStudent)
	other := newUser(model.RoleProfessor)
	messages := []*model.Message{
		{FromUserID: other.ID, ToUserID: me.ID, Text: "привет"},
		{FromUserID: me.ID, ToUserID: other.ID, Text: "здравствуйте"},
	}

	text, kb := BuildConversationScreen(other, messages, me.ID)

	assert.Less(t, strings.Index(text, "привет"), strings.Index(text, "здравствуйте"))
	assert.Contains(t, text, "➡️ Вы")
	assert.Contains(t, callbacks(kb), Data(CbMsgWrite, other.ID))
}

func TestBuildRoutineScreen(t *testing.T) {
	prof := newUser(model.RoleProfessor)
	student := newUser(model.RoleStudent)
	r := &model.Routine{ID: uuid.New(), StudentID: student.ID, ProfessorID: prof.ID, Name: "Ноги", Description: "присед 5x5"}

	_, kb := BuildRoutineScreen(r, prof, student, prof)
	assert.Contains(t, callbacks(kb), Data(CbRoutineEdit, r.ID))
	assert.Contains(t, callbacks(kb), Data(CbStudentRoutines, student.ID))

	text, kb := BuildRoutineScreen(r, student, student, prof)
	assert.Contains(t, text, "присед 5x5")
	assert.NotContains(t, callbacks(kb), Data(CbRoutineEdit, r.ID))
	assert.Contains(t, callbacks(kb), Data(CbMsgWrite, prof.ID))
}

func TestBuildRoutineListScreen(t *testing.T) {
	prof := newUser(model.RoleProfessor)
	prof.DisplayName = "Coach"
	student := newUser(model.RoleStudent)
	r := &model.Routine{ID: uuid.New(), StudentID: student.ID, ProfessorID: prof.ID, Name: "Ноги"}

	_, kb := BuildRoutineListScreen("Мои программы", []*model.Routine{r},
		map[uuid.UUID]*model.User{prof.ID: prof}, student, CbBackToMain)

	require.NotEmpty(t, kb.InlineKeyboard)
	assert.Equal(t, "📋 Ноги · Coach", kb.InlineKeyboard[0][0].Text)
}
