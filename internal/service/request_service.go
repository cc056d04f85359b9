package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestService ведёт заявки на членство в зале: создание, принятие, отклонение
type RequestService struct {
	requestRepo RequestStore
	userRepo    UserStore
	gymRepo     GymStore
	profiles    ProfileProvider
	relations   Invalidator
	logger      *zap.Logger
}

func NewRequestService(
	requestRepo RequestStore,
	userRepo UserStore,
	gymRepo GymStore,
	profiles ProfileProvider,
	relations Invalidator,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		gymRepo:     gymRepo,
		profiles:    profiles,
		relations:   relations,
		logger:      logger,
	}
}

type CreateRequestParams struct {
	RequestType   model.RequestType
	RequestedRole model.Role
	FromID        uuid.UUID
	ToID          uuid.UUID
	ProfessorID   *uuid.UUID
	Message       string
	ActingUserID  uuid.UUID
}

// CreateRequest создаёт заявку в статусе pending
func (s *RequestService) CreateRequest(ctx context.Context, p CreateRequestParams) (*model.GymRequest, error) {
	if !p.RequestType.IsValid() {
		return nil, fmt.Errorf("%w: request type %q", model.ErrInvalidInput, p.RequestType)
	}
	if p.RequestedRole != model.RoleStudent && p.RequestedRole != model.RoleProfessor {
		return nil, fmt.Errorf("%w: requested role %q", model.ErrInvalidInput, p.RequestedRole)
	}

	message := strings.TrimSpace(p.Message)
	if err := checkLength("message", message, 0, RequestMessageMaxLength); err != nil {
		return nil, err
	}

	req := &model.GymRequest{
		RequestType:   p.RequestType,
		RequestedRole: p.RequestedRole,
		Status:        model.RequestStatusPending,
		FromID:        p.FromID,
		ToID:          p.ToID,
		ProfessorID:   p.ProfessorID,
		Message:       message,
	}

	gym, err := s.gymRepo.GetByID(ctx, req.GymID())
	if err != nil {
		return nil, fmt.Errorf("get gym: %w", err)
	}
	person, err := s.userRepo.GetByID(ctx, req.PersonID())
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	actor, err := s.userRepo.GetByID(ctx, p.ActingUserID)
	if err != nil {
		return nil, fmt.Errorf("get acting user: %w", err)
	}

	// Заявку от человека подаёт сам человек, заявку от зала - его администратор
	if p.RequestType == model.RequestTypePersonToGym {
		if actor.ID != person.ID {
			return nil, fmt.Errorf("%w: only the person can ask to join a gym", model.ErrForbidden)
		}
	} else if actor.ID != gym.AdminID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only the gym admin can invite", model.ErrForbidden)
	}

	if err := s.checkRoleFit(ctx, req, gym, person); err != nil {
		return nil, err
	}

	exists, err := s.requestRepo.HasPending(ctx, req.FromID, req.ToID, req.RequestedRole)
	if err != nil {
		return nil, fmt.Errorf("check pending request: %w", err)
	}
	if exists {
		return nil, model.ErrDuplicatePending
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	s.logger.Info("Gym request created",
		zap.String("request_id", req.ID.String()),
		zap.String("type", string(req.RequestType)),
		zap.String("role", string(req.RequestedRole)),
		zap.String("gym_id", gym.ID.String()),
		zap.String("person_id", person.ID.String()),
	)

	return req, nil
}

func (s *RequestService) checkRoleFit(ctx context.Context, req *model.GymRequest, gym *model.Gym, person *model.User) error {
	if req.RequestedRole == model.RoleProfessor {
		if !person.IsProfessor() {
			return fmt.Errorf("%w: user is not a professor", model.ErrInvalidInput)
		}
		if req.ProfessorID != nil {
			return fmt.Errorf("%w: professor requests cannot name a professor", model.ErrInvalidInput)
		}
		if person.HasGym() && *person.GymID == gym.ID {
			return fmt.Errorf("%w: professor already works in this gym", model.ErrInvalidInput)
		}
		return nil
	}

	if person.Role != model.RoleStudent {
		return fmt.Errorf("%w: user is not a student", model.ErrInvalidInput)
	}

	sameGym := person.HasGym() && *person.GymID == gym.ID
	if req.ProfessorID == nil {
		if sameGym {
			return fmt.Errorf("%w: student already belongs to this gym", model.ErrInvalidInput)
		}
		return nil
	}

	professor, err := s.userRepo.GetByID(ctx, *req.ProfessorID)
	if err != nil {
		return fmt.Errorf("get professor: %w", err)
	}
	if !professor.IsProfessor() || !professor.HasGym() || *professor.GymID != gym.ID {
		return fmt.Errorf("%w: professor does not work in this gym", model.ErrInvalidInput)
	}
	if sameGym && person.HasProfessor() && *person.ProfessorID == professor.ID {
		return fmt.Errorf("%w: student already trains with this professor", model.ErrInvalidInput)
	}

	return nil
}

// Accept принимает заявку и привязывает человека к залу (и тренеру)
func (s *RequestService) Accept(ctx context.Context, requestID, actingUserID uuid.UUID) error {
	if _, err := s.authorize(ctx, requestID, actingUserID); err != nil {
		return err
	}

	req, err := s.requestRepo.Accept(ctx, requestID)
	if err != nil {
		return fmt.Errorf("accept request: %w", err)
	}

	s.invalidate(req)

	s.logger.Info("Gym request accepted",
		zap.String("request_id", req.ID.String()),
		zap.String("person_id", req.PersonID().String()),
		zap.String("gym_id", req.GymID().String()),
		zap.String("acting_user_id", actingUserID.String()),
	)

	// Заявка уже принята, ошибка перечитывания профиля только логируется
	if _, err := s.profiles.RefreshUserData(ctx, req.PersonID()); err != nil {
		s.logger.Warn("Failed to refresh user after accept",
			zap.String("request_id", req.ID.String()),
			zap.String("person_id", req.PersonID().String()),
			zap.Error(err),
		)
	}

	return nil
}

// Reject отклоняет заявку. Пользователи не меняются
func (s *RequestService) Reject(ctx context.Context, requestID, actingUserID uuid.UUID) error {
	if _, err := s.authorize(ctx, requestID, actingUserID); err != nil {
		return err
	}

	req, err := s.requestRepo.Reject(ctx, requestID)
	if err != nil {
		return fmt.Errorf("reject request: %w", err)
	}

	s.invalidate(req)

	s.logger.Info("Gym request rejected",
		zap.String("request_id", req.ID.String()),
		zap.String("acting_user_id", actingUserID.String()),
	)

	return nil
}

// authorize checks that the actor is a party of a pending request: the person,
// the gym admin, the named professor or a system admin.
func (s *RequestService) authorize(ctx context.Context, requestID, actingUserID uuid.UUID) (*model.GymRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if !req.IsPending() {
		return nil, fmt.Errorf("%w: status is %s", model.ErrInvalidState, req.Status)
	}

	actor, err := s.userRepo.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("get acting user: %w", err)
	}
	if actor.IsAdmin() || req.Involves(actor.ID) {
		return req, nil
	}

	gym, err := s.gymRepo.GetByID(ctx, req.GymID())
	if err != nil {
		return nil, fmt.Errorf("get gym: %w", err)
	}
	if gym.AdminID == actor.ID {
		return req, nil
	}

	return nil, fmt.Errorf("%w: user is not a party of the request", model.ErrForbidden)
}

func (s *RequestService) invalidate(req *model.GymRequest) {
	ids := []uuid.UUID{req.GymID(), req.PersonID()}
	if req.ProfessorID != nil {
		ids = append(ids, *req.ProfessorID)
	}
	s.relations.Invalidate(ids...)
}

// GetRequest получает заявку по ID
func (s *RequestService) GetRequest(ctx context.Context, requestID uuid.UUID) (*model.GymRequest, error) {
	return s.requestRepo.GetByID(ctx, requestID)
}

// GetUserRequests получает заявки пользователя, новые сначала
func (s *RequestService) GetUserRequests(ctx context.Context, userID uuid.UUID, status *model.RequestStatus) ([]*model.GymRequest, error) {
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: status %q", model.ErrInvalidInput, *status)
	}

	requests, err := s.requestRepo.GetUserRequests(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("get user requests: %w", err)
	}
	return requests, nil
}

// GetGymRequests получает заявки зала
func (s *RequestService) GetGymRequests(ctx context.Context, gymID uuid.UUID, status *model.RequestStatus) ([]*model.GymRequest, error) {
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: status %q", model.ErrInvalidInput, *status)
	}

	requests, err := s.requestRepo.GetGymRequests(ctx, gymID, status)
	if err != nil {
		return nil, fmt.Errorf("get gym requests: %w", err)
	}
	return requests, nil
}

// CountPending считает ожидающие заявки пользователя
func (s *RequestService) CountPending(ctx context.Context, userID uuid.UUID) (int, error) {
	pending := model.RequestStatusPending
	requests, err := s.GetUserRequests(ctx, userID, &pending)
	if err != nil {
		return 0, err
	}
	return len(requests), nil
}

// CountGymPending считает ожидающие заявки зала
func (s *RequestService) CountGymPending(ctx context.Context, gymID uuid.UUID) (int, error) {
	pending := model.RequestStatusPending
	requests, err := s.GetGymRequests(ctx, gymID, &pending)
	if err != nil {
		return 0, err
	}
	return len(requests), nil
}
