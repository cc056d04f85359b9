package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GymService struct {
	gymRepo   GymStore
	userRepo  UserStore
	relations Invalidator
	logger    *zap.Logger
}

func NewGymService(gymRepo GymStore, userRepo UserStore, relations Invalidator, logger *zap.Logger) *GymService {
	return &GymService{
		gymRepo:   gymRepo,
		userRepo:  userRepo,
		relations: relations,
		logger:    logger,
	}
}

type GymParams struct {
	Name    string
	Address string
	Phone   string
}

func (p *GymParams) normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Address = strings.TrimSpace(p.Address)
	p.Phone = strings.TrimSpace(p.Phone)

	if err := checkLength("name", p.Name, GymNameMinLength, GymNameMaxLength); err != nil {
		return err
	}
	if err := checkLength("address", p.Address, 0, GymContactMaxLength); err != nil {
		return err
	}
	return checkLength("phone", p.Phone, 0, GymContactMaxLength)
}

// CreateGym создаёт зал. Доступно только администраторам
func (s *GymService) CreateGym(ctx context.Context, adminID uuid.UUID, params GymParams) (*model.Gym, error) {
	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !admin.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins create gyms", model.ErrForbidden)
	}

	if err := params.normalize(); err != nil {
		return nil, err
	}

	gym := &model.Gym{
		Name:    params.Name,
		Address: params.Address,
		Phone:   params.Phone,
		AdminID: adminID,
	}

	if err := s.gymRepo.Create(ctx, gym); err != nil {
		return nil, fmt.Errorf("create gym: %w", err)
	}

	s.logger.Info("Gym created",
		zap.String("gym_id", gym.ID.String()),
		zap.String("admin_id", adminID.String()),
		zap.String("name", gym.Name),
	)

	return gym, nil
}

func (s *GymService) GetGym(ctx context.Context, gymID uuid.UUID) (*model.Gym, error) {
	return s.gymRepo.GetByID(ctx, gymID)
}

func (s *GymService) ListGyms(ctx context.Context) ([]*model.Gym, error) {
	gyms, err := s.gymRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gyms: %w", err)
	}
	return gyms, nil
}

func (s *GymService) ListAdminGyms(ctx context.Context, adminID uuid.UUID) ([]*model.Gym, error) {
	gyms, err := s.gymRepo.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("list admin gyms: %w", err)
	}
	return gyms, nil
}

// UpdateGym меняет данные зала
func (s *GymService) UpdateGym(ctx context.Context, gymID, actingUserID uuid.UUID, params GymParams) (*model.Gym, error) {
	gym, err := s.ownedGym(ctx, gymID, actingUserID)
	if err != nil {
		return nil, err
	}

	if err := params.normalize(); err != nil {
		return nil, err
	}

	gym.Name = params.Name
	gym.Address = params.Address
	gym.Phone = params.Phone

	if err := s.gymRepo.Update(ctx, gym); err != nil {
		return nil, fmt.Errorf("update gym: %w", err)
	}
	s.relations.Invalidate(gym.ID)

	s.logger.Info("Gym updated", zap.String("gym_id", gym.ID.String()))

	return gym, nil
}

// DeleteGym удаляет зал вместе с его заявками, участники остаются без зала
func (s *GymService) DeleteGym(ctx context.Context, gymID, actingUserID uuid.UUID) error {
	gym, err := s.ownedGym(ctx, gymID, actingUserID)
	if err != nil {
		return err
	}

	if err := s.gymRepo.Delete(ctx, gym.ID); err != nil {
		return fmt.Errorf("delete gym: %w", err)
	}
	s.relations.Invalidate(gym.ID)

	s.logger.Info("Gym deleted",
		zap.String("gym_id", gym.ID.String()),
		zap.String("acting_user_id", actingUserID.String()),
	)

	return nil
}

// IsGymAdmin проверяет, может ли пользователь управлять залом
func (s *GymService) IsGymAdmin(ctx context.Context, gymID, userID uuid.UUID) (bool, error) {
	_, err := s.ownedGym(ctx, gymID, userID)
	switch {
	case err == nil:
		return true, nil
	case isForbidden(err):
		return false, nil
	default:
		return false, err
	}
}

func (s *GymService) ownedGym(ctx context.Context, gymID, userID uuid.UUID) (*model.Gym, error) {
	gym, err := s.gymRepo.GetByID(ctx, gymID)
	if err != nil {
		return nil, fmt.Errorf("get gym: %w", err)
	}
	if gym.AdminID == userID {
		return gym, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.IsAdmin() {
		return gym, nil
	}

	return nil, fmt.Errorf("%w: not the gym admin", model.ErrForbidden)
}
