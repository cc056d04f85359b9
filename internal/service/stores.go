package service

import (
	"context"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/google/uuid"
)

// Хранилища, с которыми работают сервисы. Реализации - в пакете repository

type RequestStore interface {
	Create(ctx context.Context, req *model.GymRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.GymRequest, error)
	GetUserRequests(ctx context.Context, userID uuid.UUID, status *model.RequestStatus) ([]*model.GymRequest, error)
	GetGymRequests(ctx context.Context, gymID uuid.UUID, status *model.RequestStatus) ([]*model.GymRequest, error)
	HasPending(ctx context.Context, fromID, toID uuid.UUID, role model.Role) (bool, error)
	Accept(ctx context.Context, id uuid.UUID) (*model.GymRequest, error)
	Reject(ctx context.Context, id uuid.UUID) (*model.GymRequest, error)
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdateRole(ctx context.Context, userID uuid.UUID, role model.Role) error
	PromoteToProfessor(ctx context.Context, userID uuid.UUID) error
	ListByGym(ctx context.Context, gymID uuid.UUID, role model.Role) ([]*model.User, error)
	ListByProfessor(ctx context.Context, professorID uuid.UUID) ([]*model.User, error)
}

type GymStore interface {
	Create(ctx context.Context, gym *model.Gym) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Gym, error)
	List(ctx context.Context) ([]*model.Gym, error)
	ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]*model.Gym, error)
	Update(ctx context.Context, gym *model.Gym) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type MessageStore interface {
	Create(ctx context.Context, msg *model.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error)
	ListInbox(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Message, error)
	ListConversation(ctx context.Context, userA, userB uuid.UUID, limit int) ([]*model.Message, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

type RoutineStore interface {
	Create(ctx context.Context, routine *model.Routine) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Routine, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Routine, error)
	ListByProfessor(ctx context.Context, professorID uuid.UUID) ([]*model.Routine, error)
	Update(ctx context.Context, routine *model.Routine) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProfileProvider перечитывает профиль после принятия заявки
type ProfileProvider interface {
	RefreshUserData(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

// Invalidator сбрасывает закэшированные проекции по id сущностей
type Invalidator interface {
	Invalidate(ids ...uuid.UUID)
}
