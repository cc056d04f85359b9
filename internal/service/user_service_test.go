package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterUser(t *testing.T) {
	users := newFakeUsers()
	svc := NewUserService(users, &fakeInvalidator{}, []int64{777}, zap.NewNop())
	ctx := context.Background()

	student, err := svc.RegisterUser(ctx, 100, "ivan", "Иван")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, student.Role)

	again, err := svc.RegisterUser(ctx, 100, "ivan_new", "Иван П.")
	require.NoError(t, err)
	assert.Equal(t, student.ID, again.ID)
	assert.Equal(t, "ivan_new", users.get(student.ID).Username)

	admin, err := svc.RegisterUser(ctx, 777, "boss", "Босс")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
}

func TestRegisterUser_PromotesListedAdmin(t *testing.T) {
	existing := &model.User{TelegramID: 777, Username: "boss", Role: model.RoleStudent}
	users := newFakeUsers(existing)
	svc := NewUserService(users, &fakeInvalidator{}, []int64{777}, zap.NewNop())

	user, err := svc.RegisterUser(context.Background(), 777, "boss", "Босс")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
	assert.Equal(t, model.RoleAdmin, users.get(existing.ID).Role)
}

func TestGetByUsername_StripsAt(t *testing.T) {
	users := newFakeUsers(&model.User{Username: "Coach"})
	svc := NewUserService(users, &fakeInvalidator{}, nil, zap.NewNop())

	u, err := svc.GetByUsername(context.Background(), " @coach ")
	require.NoError(t, err)
	assert.Equal(t, "Coach", u.Username)

	_, err = svc.GetByUsername(context.Background(), "@")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestUpdateEmail(t *testing.T) {
	user := &model.User{Username: "ivan"}
	users := newFakeUsers(user)
	svc := NewUserService(users, &fakeInvalidator{}, nil, zap.NewNop())
	ctx := context.Background()

	updated, err := svc.UpdateEmail(ctx, user.ID, " ivan@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "ivan@example.com", updated.Email)
	assert.Equal(t, "ivan@example.com", users.get(user.ID).Email)

	for _, bad := range []string{"ivan", "Ivan <ivan@example.com>", "ivan@"} {
		_, err := svc.UpdateEmail(ctx, user.ID, bad)
		assert.ErrorIs(t, err, model.ErrInvalidInput, bad)
	}
	assert.Equal(t, "ivan@example.com", users.get(user.ID).Email)

	// Пустая строка удаляет email
	updated, err = svc.UpdateEmail(ctx, user.ID, "  ")
	require.NoError(t, err)
	assert.Empty(t, updated.Email)
	assert.Empty(t, users.get(user.ID).Email)
}

func TestBecomeProfessor(t *testing.T) {
	student := &model.User{Role: model.RoleStudent}
	admin := &model.User{Role: model.RoleAdmin}
	users := newFakeUsers(student, admin)
	svc := NewUserService(users, &fakeInvalidator{}, nil, zap.NewNop())
	ctx := context.Background()

	u, err := svc.BecomeProfessor(ctx, student.ID)
	require.NoError(t, err)
	assert.True(t, u.IsProfessor())

	// Повторно - без изменений
	u, err = svc.BecomeProfessor(ctx, student.ID)
	require.NoError(t, err)
	assert.True(t, u.IsProfessor())

	_, err = svc.BecomeProfessor(ctx, admin.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestBecomeProfessor_DropsBindings(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	gymID := f.gym.ID
	profID := f.professor.ID
	member := &model.User{Username: "u2", Role: model.RoleStudent, GymID: &gymID, ProfessorID: &profID}
	f.users.put(member)

	svc := NewUserService(f.users, f.relations, nil, zap.NewNop())
	u, err := svc.BecomeProfessor(ctx, member.ID)
	require.NoError(t, err)
	assert.True(t, u.IsProfessor())
	assert.Nil(t, u.GymID)
	assert.Nil(t, u.ProfessorID)

	stored := f.users.get(member.ID)
	assert.Nil(t, stored.GymID)
	assert.Nil(t, stored.ProfessorID)
	assert.Contains(t, f.relations.invalidated(), member.ID)

	// Без принятой заявки professor он не тренер этого зала
	promotedID := member.ID
	_, err = f.svc.CreateRequest(ctx, CreateRequestParams{
		RequestType:   model.RequestTypePersonToGym,
		RequestedRole: model.RoleStudent,
		FromID:        f.student.ID,
		ToID:          f.gym.ID,
		ProfessorID:   &promotedID,
		ActingUserID:  f.student.ID,
	})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestListMembers(t *testing.T) {
	gymID := uuid.New()
	professor := &model.User{Role: model.RoleProfessor, GymID: &gymID}
	users := newFakeUsers(professor)
	student := &model.User{Role: model.RoleStudent, GymID: &gymID, ProfessorID: &professor.ID}
	users.put(student)
	svc := NewUserService(users, &fakeInvalidator{}, nil, zap.NewNop())
	ctx := context.Background()

	students, err := svc.ListGymMembers(ctx, gymID, model.RoleStudent)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, student.ID, students[0].ID)

	trainees, err := svc.ListProfessorStudents(ctx, professor.ID)
	require.NoError(t, err)
	require.Len(t, trainees, 1)
	assert.Equal(t, student.ID, trainees[0].ID)
}
