package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo  UserStore
	relations Invalidator
	admins    map[int64]struct{}
	logger    *zap.Logger
}

func NewUserService(userRepo UserStore, relations Invalidator, adminTelegramIDs []int64, logger *zap.Logger) *UserService {
	admins := make(map[int64]struct{}, len(adminTelegramIDs))
	for _, id := range adminTelegramIDs {
		admins[id] = struct{}{}
	}

	return &UserService{
		userRepo:  userRepo,
		relations: relations,
		admins:    admins,
		logger:    logger,
	}
}

// RegisterUser регистрирует или обновляет пользователя по данным Telegram
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, displayName string) (*model.User, error) {
	_, isAdmin := s.admins[telegramID]

	existingUser, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	if existingUser != nil {
		existingUser.Username = username
		existingUser.DisplayName = displayName

		if err := s.userRepo.UpdateProfile(ctx, existingUser); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}

		if isAdmin && !existingUser.IsAdmin() {
			if err := s.userRepo.UpdateRole(ctx, existingUser.ID, model.RoleAdmin); err != nil {
				return nil, fmt.Errorf("promote admin: %w", err)
			}
			existingUser.Role = model.RoleAdmin
			s.logger.Info("User promoted to admin", zap.String("user_id", existingUser.ID.String()))
		}

		return existingUser, nil
	}

	user := &model.User{
		TelegramID:  telegramID,
		Username:    username,
		DisplayName: displayName,
		Role:        model.RoleStudent, // По умолчанию ученик
	}
	if isAdmin {
		user.Role = model.RoleAdmin
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.String("user_id", user.ID.String()),
		zap.Int64("telegram_id", telegramID),
		zap.String("role", string(user.Role)),
	)

	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByTelegramID(ctx, telegramID)
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetByUsername ищет пользователя по @username
func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", model.ErrInvalidInput)
	}
	return s.userRepo.GetByUsername(ctx, username)
}

// RefreshUserData перечитывает профиль из базы. Вызывается после принятия заявки,
// чтобы gym_id и professor_id отражали новую связь
func (s *UserService) RefreshUserData(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("refresh user data: %w", err)
	}

	s.logger.Debug("User data refreshed",
		zap.String("user_id", userID.String()),
		zap.Bool("has_gym", user.HasGym()),
		zap.Bool("has_professor", user.HasProfessor()),
	)

	return user, nil
}

// UpdateEmail сохраняет email после проверки формата. Пустая строка удаляет email
func (s *UserService) UpdateEmail(ctx context.Context, userID uuid.UUID, email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			return nil, fmt.Errorf("%w: bad email %q", model.ErrInvalidInput, email)
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.Email = email
	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// BecomeProfessor делает ученика тренером. Зал и тренер ученика снимаются,
// в зал тренер попадает только через заявку с ролью professor
func (s *UserService) BecomeProfessor(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	switch user.Role {
	case model.RoleProfessor:
		return user, nil
	case model.RoleAdmin:
		return nil, fmt.Errorf("%w: admins cannot become professors", model.ErrForbidden)
	}

	if err := s.userRepo.PromoteToProfessor(ctx, userID); err != nil {
		return nil, fmt.Errorf("promote to professor: %w", err)
	}
	user.Role = model.RoleProfessor
	user.GymID = nil
	user.ProfessorID = nil
	s.relations.Invalidate(userID)

	s.logger.Info("User became professor", zap.String("user_id", userID.String()))

	return user, nil
}

// ListGymMembers получает участников зала с ролью
func (s *UserService) ListGymMembers(ctx context.Context, gymID uuid.UUID, role model.Role) ([]*model.User, error) {
	members, err := s.userRepo.ListByGym(ctx, gymID, role)
	if err != nil {
		return nil, fmt.Errorf("list gym members: %w", err)
	}
	return members, nil
}

// ListProfessorStudents получает учеников тренера
func (s *UserService) ListProfessorStudents(ctx context.Context, professorID uuid.UUID) ([]*model.User, error) {
	students, err := s.userRepo.ListByProfessor(ctx, professorID)
	if err != nil {
		return nil, fmt.Errorf("list professor students: %w", err)
	}
	return students, nil
}
