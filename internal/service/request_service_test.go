package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type requestFixture struct {
	users     *fakeUsers
	gyms      *fakeGyms
	requests  *fakeRequests
	profiles  *fakeProfiles
	relations *fakeInvalidator
	svc       *RequestService

	owner     *model.User
	student   *model.User
	professor *model.User
	gym       *model.Gym
	otherGym  *model.Gym
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()

	f := &requestFixture{}
	f.owner = &model.User{Username: "owner", Role: model.RoleAdmin}
	f.student = &model.User{Username: "u1", Role: model.RoleStudent}
	f.users = newFakeUsers(f.owner, f.student)

	f.gym = &model.Gym{Name: "gym1", AdminID: f.owner.ID}
	f.otherGym = &model.Gym{Name: "gym2", AdminID: f.owner.ID}
	f.gyms = newFakeGyms(f.gym, f.otherGym)

	gymID := f.gym.ID
	f.professor = &model.User{Username: "coach", Role: model.RoleProfessor, GymID: &gymID}
	f.users.put(f.professor)

	f.requests = newFakeRequests(f.users)
	f.profiles = &fakeProfiles{users: f.users}
	f.relations = &fakeInvalidator{}
	f.svc = NewRequestService(f.requests, f.users, f.gyms, f.profiles, f.relations, zap.NewNop())

	return f
}

func (f *requestFixture) personToGym(person uuid.UUID, role model.Role) *model.GymRequest {
	return f.requests.insert(&model.GymRequest{
		RequestType:   model.RequestTypePersonToGym,
		RequestedRole: role,
		FromID:        person,
		ToID:          f.gym.ID,
	})
}

func TestAccept_PersonToGymBindsStudent(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	r1 := f.personToGym(f.student.ID, model.RoleStudent)

	require.NoError(t, f.svc.Accept(ctx, r1.ID, f.student.ID))

	stored, err := f.requests.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusAccepted, stored.Status)

	u1 := f.users.get(f.student.ID)
	require.NotNil(t, u1.GymID)
	assert.Equal(t, f.gym.ID, *u1.GymID)

	require.Equal(t, []uuid.UUID{f.student.ID}, f.profiles.refreshed)
	require.NotNil(t, f.profiles.last)
	assert.Equal(t, f.gym.ID, *f.profiles.last.GymID)

	assert.Contains(t, f.relations.invalidated(), f.gym.ID)
}

func TestAccept_NamedProfessorIsBound(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	profID := f.professor.ID
	req := f.requests.insert(&model.GymRequest{
		RequestType:   model.RequestTypePersonToGym,
		RequestedRole: model.RoleStudent,
		FromID:        f.student.ID,
		ToID:          f.gym.ID,
		ProfessorID:   &profID,
	})

	// Тренер тоже участник заявки и может её принять
	require.NoError(t, f.svc.Accept(ctx, req.ID, f.professor.ID))

	u1 := f.users.get(f.student.ID)
	require.NotNil(t, u1.ProfessorID)
	assert.Equal(t, profID, *u1.ProfessorID)
	assert.Contains(t, f.relations.invalidated(), profID)
}

func TestAccept_ProfessorToGym(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	req := f.requests.insert(&model.GymRequest{
		RequestType:   model.RequestTypeGymToPerson,
		RequestedRole: model.RoleProfessor,
		FromID:        f.otherGym.ID,
		ToID:          f.professor.ID,
	})

	require.NoError(t, f.svc.Accept(ctx, req.ID, f.professor.ID))

	prof := f.users.get(f.professor.ID)
	assert.Equal(t, f.otherGym.ID, *prof.GymID)
}

func TestAccept_SecondCallFailsWithInvalidState(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	r1 := f.personToGym(f.student.ID, model.RoleStudent)

	require.NoError(t, f.svc.Accept(ctx, r1.ID, f.owner.ID))

	err := f.svc.Accept(ctx, r1.ID, f.owner.ID)
	assert.ErrorIs(t, err, model.ErrInvalidState)

	err = f.svc.Reject(ctx, r1.ID, f.owner.ID)
	assert.ErrorIs(t, err, model.ErrInvalidState)

	stored, _ := f.requests.GetByID(ctx, r1.ID)
	assert.Equal(t, model.RequestStatusAccepted, stored.Status)
	assert.Len(t, f.profiles.refreshed, 1)
}

func TestAccept_ConcurrentDecisionsHaveOneWinner(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	r1 := f.personToGym(f.student.ID, model.RoleStudent)

	const workers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		wins     int
		invalids int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				err = f.svc.Accept(ctx, r1.ID, f.owner.ID)
			} else {
				err = f.svc.Reject(ctx, r1.ID, f.owner.ID)
			}
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, model.ErrInvalidState):
				invalids++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, invalids)
}

func TestReject_DoesNotTouchUsers(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	r1 := f.personToGym(f.student.ID, model.RoleStudent)
	before := f.users.get(f.student.ID)

	require.NoError(t, f.svc.Reject(ctx, r1.ID, f.owner.ID))

	stored, _ := f.requests.GetByID(ctx, r1.ID)
	assert.Equal(t, model.RequestStatusRejected, stored.Status)
	assert.Equal(t, before, f.users.get(f.student.ID))
	assert.Empty(t, f.profiles.refreshed)
}

func TestDecision_ForbiddenForOutsider(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	outsider := &model.User{Username: "stranger", Role: model.RoleStudent}
	f.users.put(outsider)
	r1 := f.personToGym(f.student.ID, model.RoleStudent)

	assert.ErrorIs(t, f.svc.Accept(ctx, r1.ID, outsider.ID), model.ErrForbidden)
	assert.ErrorIs(t, f.svc.Reject(ctx, r1.ID, outsider.ID), model.ErrForbidden)

	stored, _ := f.requests.GetByID(ctx, r1.ID)
	assert.True(t, stored.IsPending())
}

func TestDecision_UnknownRequest(t *testing.T) {
	f := newRequestFixture(t)

	err := f.svc.Accept(context.Background(), uuid.New(), f.owner.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAccept_RefreshFailureIsNotReturned(t *testing.T) {
	f := newRequestFixture(t)
	f.profiles.err = errors.New("connection reset")
	r1 := f.personToGym(f.student.ID, model.RoleStudent)

	require.NoError(t, f.svc.Accept(context.Background(), r1.ID, f.student.ID))
	assert.Equal(t, f.gym.ID, *f.users.get(f.student.ID).GymID)
}

func TestAccept_StoreFailureKeepsState(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	r1 := f.personToGym(f.student.ID, model.RoleStudent)
	f.requests.err = errors.New("db is down")

	err := f.svc.Accept(ctx, r1.ID, f.student.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrInvalidState)

	f.requests.err = nil
	stored, _ := f.requests.GetByID(ctx, r1.ID)
	assert.True(t, stored.IsPending())
	assert.False(t, f.users.get(f.student.ID).HasGym())
	assert.Empty(t, f.relations.invalidated())
}

func TestGetUserRequests_PendingFilter(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	u2 := &model.User{Username: "u2", Role: model.RoleStudent}
	f.users.put(u2)

	f.personToGym(u2.ID, model.RoleStudent)
	f.requests.insert(&model.GymRequest{
		RequestType:   model.RequestTypeGymToPerson,
		RequestedRole: model.RoleStudent,
		FromID:        f.otherGym.ID,
		ToID:          u2.ID,
	})
	f.personToGym(f.student.ID, model.RoleStudent)

	pending := model.RequestStatusPending
	got, err := f.svc.GetUserRequests(ctx, u2.ID, &pending)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, r := range got {
		assert.True(t, r.Involves(u2.ID))
		assert.True(t, r.IsPending())
	}

	count, err := f.svc.CountPending(ctx, u2.ID)
	require.NoError(t, err)
	assert.Equal(t, len(got), count)
}

func TestGetUserRequests_NoFilterKeepsStatuses(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	u2 := &model.User{Username: "u2", Role: model.RoleStudent}
	f.users.put(u2)

	f.personToGym(u2.ID, model.RoleStudent)
	f.requests.insert(&model.GymRequest{
		RequestType:   model.RequestTypeGymToPerson,
		RequestedRole: model.RoleStudent,
		Status:        model.RequestStatusAccepted,
		FromID:        f.otherGym.ID,
		ToID:          u2.ID,
	})

	got, err := f.svc.GetUserRequests(ctx, u2.ID, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Новые сначала
	assert.Equal(t, model.RequestStatusAccepted, got[0].Status)
	assert.Equal(t, model.RequestStatusPending, got[1].Status)

	count, err := f.svc.CountPending(ctx, u2.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetUserRequests_BadStatus(t *testing.T) {
	f := newRequestFixture(t)
	bogus := model.RequestStatus("archived")

	_, err := f.svc.GetUserRequests(context.Background(), f.student.ID, &bogus)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestCreateRequest(t *testing.T) {
	profID := func(f *requestFixture) *uuid.UUID {
		id := f.professor.ID
		return &id
	}

	tests := []struct {
		name    string
		params  func(f *requestFixture) CreateRequestParams
		wantErr error
	}{
		{
			name: "student asks to join",
			params: func(f *requestFixture) CreateRequestParams {
				return CreateRequestParams{
					RequestType:   model.RequestTypePersonToGym,
					RequestedRole: model.RoleStudent,
					FromID:        f.student.ID,
					ToID:          f.gym.ID,
					Message:       "  привет  ",
					ActingUserID:  f.student.ID,
				}
			},
		},
		{
			name: "student asks for a professor of the gym",
			params: func(f *requestFixture) CreateRequestParams {
				return CreateRequestParams{
					RequestType:   model.RequestTypePersonToGym,
					RequestedRole: model.RoleStudent,
					FromID:        f.student.ID,
					ToID:          f.gym.ID,
					ProfessorID:   profID(f),
					ActingUserID:  f.student.ID,
				}
			},
		},
		{
			name: "gym admin invites professor",
			params: func(f *requestFixture) CreateRequestParams {
				return CreateRequestParams{
					RequestType:   model.RequestTypeGymToPerson,
					RequestedRole: model.RoleProfessor,
					FromID:        f.otherGym.ID,
					ToID:          f.professor.ID,
					ActingUserID:  f.owner.ID,
				}
			},
		},
		{
			name: "unknown request type",
			params: func(f *requestFixture) CreateRequestParams {
				return CreateRequestParams{
					RequestType:   "sideways",
					RequestedRole: model.RoleStudent,
					FromID:        f.student.ID,
					ToID:          f.gym.ID,
					ActingUserID:  f.student.ID,
				}
			},
			wantErr: model.ErrInvalidInput,
		},
		{
			name: "admin role cannot be requested",
			params: func(f *requestFixture) CreateRequestParams {
				return CreateRequestParams{
					RequestType:   model.RequestTypePersonToGym,
					RequestedRole: model.RoleAdmin,
					FromID:        f.student.ID,
					ToID:          f.gym.ID,
					ActingUserID:  f.student.ID,
				}
			},
			wantErr: model.ErrInvalidInput,
		},
		{
			name: "someone else files for the student",
			params: func(f *requestFixture) CreateRequestParams {
				return CreateRequestParams{
					RequestType:   model.RequestTypePersonToGym,
					RequestedRole: model.RoleStudent,
					FromID:        f.student.ID,
					ToID:          f.gym.ID,
					ActingUserID:  f.professor.ID,
				}
			},
			wantErr: model.ErrForbidden,
		},
		{
			name: "student cannot invite from gym side",
			params: func(f *requestFixture) CreateRequestParams {
				return CreateRequestParams{
					RequestType:   model.RequestTypeGymToPerson,
					RequestedRole: model.RoleStudent,
					FromID:        f.gym.ID,
					ToID:          f.student.ID,
					ActingUserID:  f.student.ID,
				}
			},
			wantErr: model.ErrForbidden,
		},
		{
			name: "professor role for a student",
			params: func(f *requestFixture) CreateRequestParams {
				return CreateRequestParams{
					RequestType:   model.RequestTypePersonToGym,
					RequestedRole: model.RoleProfessor,
					FromID:        f.student.ID,
					ToID:          f.gym.ID,
					ActingUserID:  f.student.ID,
				}
			},
			wantErr: model.ErrInvalidInput,
		},
		{
			name: "professor already in this gym",
			params: func(f *requestFixture) CreateRequestParams {
				return CreateRequestParams{
					RequestType:   model.RequestTypePersonToGym,
					RequestedRole: model.RoleProfessor,
					FromID:        f.professor.ID,
					ToID:          f.gym.ID,
					ActingUserID:  f.professor.ID,
				}
			},
			wantErr: model.ErrInvalidInput,
		},
		{
			name: "professor from another gym",
			params: func(f *requestFixture) CreateRequestParams {
				return CreateRequestParams{
					RequestType:   model.RequestTypePersonToGym,
					RequestedRole: model.RoleStudent,
					FromID:        f.student.ID,
					ToID:          f.otherGym.ID,
					ProfessorID:   profID(f),
					ActingUserID:  f.student.ID,
				}
			},
			wantErr: model.ErrInvalidInput,
		},
		{
			name: "unknown gym",
			params: func(f *requestFixture) CreateRequestParams {
				return CreateRequestParams{
					RequestType:   model.RequestTypePersonToGym,
					RequestedRole: model.RoleStudent,
					FromID:        f.student.ID,
					ToID:          uuid.New(),
					ActingUserID:  f.student.ID,
				}
			},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRequestFixture(t)
			req, err := f.svc.CreateRequest(context.Background(), tt.params(f))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, req.ID)
			assert.Equal(t, model.RequestStatusPending, req.Status)
		})
	}
}

func TestCreateRequest_Duplicate(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	params := CreateRequestParams{
		RequestType:   model.RequestTypePersonToGym,
		RequestedRole: model.RoleStudent,
		FromID:        f.student.ID,
		ToID:          f.gym.ID,
		Message:       "привет",
		ActingUserID:  f.student.ID,
	}

	first, err := f.svc.CreateRequest(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, "привет", first.Message)

	_, err = f.svc.CreateRequest(ctx, params)
	assert.ErrorIs(t, err, model.ErrDuplicatePending)

	// После решения можно подать снова
	require.NoError(t, f.svc.Reject(ctx, first.ID, f.owner.ID))
	_, err = f.svc.CreateRequest(ctx, params)
	assert.NoError(t, err)
}

func TestCreateRequest_AlreadyMember(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	r1 := f.personToGym(f.student.ID, model.RoleStudent)
	require.NoError(t, f.svc.Accept(ctx, r1.ID, f.owner.ID))

	_, err := f.svc.CreateRequest(ctx, CreateRequestParams{
		RequestType:   model.RequestTypePersonToGym,
		RequestedRole: model.RoleStudent,
		FromID:        f.student.ID,
		ToID:          f.gym.ID,
		ActingUserID:  f.student.ID,
	})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestCountGymPending(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	f.personToGym(f.student.ID, model.RoleStudent)
	decided := f.personToGym(f.professor.ID, model.RoleProfessor)
	require.NoError(t, f.svc.Reject(ctx, decided.ID, f.owner.ID))

	count, err := f.svc.CountGymPending(ctx, f.gym.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
