package service

import (
	"context"
	"strings"
	"testing"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGymFixture() (*GymService, *fakeGyms, *fakeInvalidator, *model.User, *model.User) {
	admin := &model.User{Role: model.RoleAdmin}
	student := &model.User{Role: model.RoleStudent}
	users := newFakeUsers(admin, student)
	gyms := newFakeGyms()
	relations := &fakeInvalidator{}
	return NewGymService(gyms, users, relations, zap.NewNop()), gyms, relations, admin, student
}

func TestCreateGym(t *testing.T) {
	svc, _, _, admin, student := newGymFixture()
	ctx := context.Background()

	gym, err := svc.CreateGym(ctx, admin.ID, GymParams{Name: "  Iron Temple ", Phone: "+7 999 000-00-00"})
	require.NoError(t, err)
	assert.Equal(t, "Iron Temple", gym.Name)
	assert.Equal(t, admin.ID, gym.AdminID)

	_, err = svc.CreateGym(ctx, student.ID, GymParams{Name: "Garage"})
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = svc.CreateGym(ctx, admin.ID, GymParams{Name: "x"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.CreateGym(ctx, admin.ID, GymParams{Name: "Gym", Address: strings.Repeat("a", GymContactMaxLength+1)})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	list, err := svc.ListAdminGyms(ctx, admin.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateAndDeleteGym(t *testing.T) {
	svc, gyms, relations, admin, student := newGymFixture()
	ctx := context.Background()

	gym, err := svc.CreateGym(ctx, admin.ID, GymParams{Name: "Iron Temple"})
	require.NoError(t, err)

	_, err = svc.UpdateGym(ctx, gym.ID, student.ID, GymParams{Name: "Hijacked"})
	assert.ErrorIs(t, err, model.ErrForbidden)

	ok, err := svc.IsGymAdmin(ctx, gym.ID, student.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	updated, err := svc.UpdateGym(ctx, gym.ID, admin.ID, GymParams{Name: "Steel Hall", Address: "ул. Ленина, 1"})
	require.NoError(t, err)
	assert.Equal(t, "Steel Hall", updated.Name)
	assert.Equal(t, []uuid.UUID{gym.ID}, relations.invalidated())

	require.NoError(t, svc.DeleteGym(ctx, gym.ID, admin.ID))
	_, err = gyms.GetByID(ctx, gym.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Len(t, relations.invalidated(), 2)

	err = svc.DeleteGym(ctx, gym.ID, admin.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
