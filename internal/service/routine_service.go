package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RoutineService struct {
	routineRepo RoutineStore
	userRepo    UserStore
	logger      *zap.Logger
}

func NewRoutineService(routineRepo RoutineStore, userRepo UserStore, logger *zap.Logger) *RoutineService {
	return &RoutineService{
		routineRepo: routineRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

type RoutineParams struct {
	Name        string
	Description string
}

func (p *RoutineParams) normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)

	if err := checkLength("name", p.Name, RoutineNameMinLength, RoutineNameMaxLength); err != nil {
		return err
	}
	return checkLength("description", p.Description, 0, RoutineDescriptionMaxLength)
}

// CreateRoutine создаёт программу тренировок. Писать может только тренер ученика
func (s *RoutineService) CreateRoutine(ctx context.Context, professorID, studentID uuid.UUID, params RoutineParams) (*model.Routine, error) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if !student.HasProfessor() || *student.ProfessorID != professorID {
		return nil, fmt.Errorf("%w: not the student's professor", model.ErrForbidden)
	}

	if err := params.normalize(); err != nil {
		return nil, err
	}

	routine := &model.Routine{
		StudentID:   studentID,
		ProfessorID: professorID,
		Name:        params.Name,
		Description: params.Description,
	}

	if err := s.routineRepo.Create(ctx, routine); err != nil {
		return nil, fmt.Errorf("create routine: %w", err)
	}

	s.logger.Info("Routine created",
		zap.String("routine_id", routine.ID.String()),
		zap.String("student_id", studentID.String()),
		zap.String("professor_id", professorID.String()),
	)

	return routine, nil
}

func (s *RoutineService) ListStudentRoutines(ctx context.Context, studentID uuid.UUID) ([]*model.Routine, error) {
	routines, err := s.routineRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list student routines: %w", err)
	}
	return routines, nil
}

func (s *RoutineService) ListProfessorRoutines(ctx context.Context, professorID uuid.UUID) ([]*model.Routine, error) {
	routines, err := s.routineRepo.ListByProfessor(ctx, professorID)
	if err != nil {
		return nil, fmt.Errorf("list professor routines: %w", err)
	}
	return routines, nil
}

// GetRoutine получает программу. Видна ученику и тренеру
func (s *RoutineService) GetRoutine(ctx context.Context, routineID, viewerID uuid.UUID) (*model.Routine, error) {
	routine, err := s.routineRepo.GetByID(ctx, routineID)
	if err != nil {
		return nil, fmt.Errorf("get routine: %w", err)
	}
	if routine.StudentID != viewerID && routine.ProfessorID != viewerID {
		return nil, fmt.Errorf("%w: routine belongs to someone else", model.ErrForbidden)
	}
	return routine, nil
}

// UpdateRoutine меняет программу. Только автор
func (s *RoutineService) UpdateRoutine(ctx context.Context, routineID, professorID uuid.UUID, params RoutineParams) (*model.Routine, error) {
	routine, err := s.authored(ctx, routineID, professorID)
	if err != nil {
		return nil, err
	}

	if err := params.normalize(); err != nil {
		return nil, err
	}

	routine.Name = params.Name
	routine.Description = params.Description

	if err := s.routineRepo.Update(ctx, routine); err != nil {
		return nil, fmt.Errorf("update routine: %w", err)
	}

	s.logger.Info("Routine updated", zap.String("routine_id", routine.ID.String()))

	return routine, nil
}

// DeleteRoutine удаляет программу. Только автор
func (s *RoutineService) DeleteRoutine(ctx context.Context, routineID, professorID uuid.UUID) error {
	routine, err := s.authored(ctx, routineID, professorID)
	if err != nil {
		return err
	}

	if err := s.routineRepo.Delete(ctx, routine.ID); err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}

	s.logger.Info("Routine deleted", zap.String("routine_id", routine.ID.String()))

	return nil
}

func (s *RoutineService) authored(ctx context.Context, routineID, professorID uuid.UUID) (*model.Routine, error) {
	routine, err := s.routineRepo.GetByID(ctx, routineID)
	if err != nil {
		return nil, fmt.Errorf("get routine: %w", err)
	}
	if routine.ProfessorID != professorID {
		return nil, fmt.Errorf("%w: only the author can change the routine", model.ErrForbidden)
	}
	return routine, nil
}
