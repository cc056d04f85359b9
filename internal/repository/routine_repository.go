package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/Freeeeeet/gym_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const routineColumns = `id, student_id, professor_id, name, description, created_at, updated_at`

type RoutineRepository struct {
	pool *pgxpool.Pool
}

func NewRoutineRepository(pool *pgxpool.Pool) *RoutineRepository {
	return &RoutineRepository{pool: pool}
}

func scanRoutine(row rowScanner) (*model.Routine, error) {
	var routine model.Routine
	err := row.Scan(
		&routine.ID,
		&routine.StudentID,
		&routine.ProfessorID,
		&routine.Name,
		&routine.Description,
		&routine.CreatedAt,
		&routine.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &routine, nil
}

// Create создаёт программу тренировок
func (r *RoutineRepository) Create(ctx context.Context, routine *model.Routine) error {
	query := `
		INSERT INTO routines (student_id, professor_id, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		routine.StudentID,
		routine.ProfessorID,
		routine.Name,
		routine.Description,
	).Scan(&routine.ID, &routine.CreatedAt)
	if err != nil {
		return fmt.Errorf("create routine: %w", err)
	}

	return nil
}

// GetByID получает программу по ID
func (r *RoutineRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Routine, error) {
	query := `SELECT ` + routineColumns + ` FROM routines WHERE id = $1`

	routine, err := scanRoutine(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get routine: %w", err)
	}

	return routine, nil
}

// ListByStudent получает программы ученика, новые сверху
func (r *RoutineRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Routine, error) {
	query := `SELECT ` + routineColumns + ` FROM routines WHERE student_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, "list student routines", query, studentID)
}

// ListByProfessor получает программы, составленные тренером
func (r *RoutineRepository) ListByProfessor(ctx context.Context, professorID uuid.UUID) ([]*model.Routine, error) {
	query := `SELECT ` + routineColumns + ` FROM routines WHERE professor_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, "list professor routines", query, professorID)
}

// Update обновляет название и описание
func (r *RoutineRepository) Update(ctx context.Context, routine *model.Routine) error {
	query := `
		UPDATE routines
		SET name = $1, description = $2, updated_at = now()
		WHERE id = $3
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query, routine.Name, routine.Description, routine.ID).Scan(&routine.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return model.ErrNotFound
		}
		return fmt.Errorf("update routine: %w", err)
	}

	return nil
}

// Delete удаляет программу
func (r *RoutineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM routines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *RoutineRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Routine, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	routines := []*model.Routine{}
	for rows.Next() {
		routine, err := scanRoutine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan routine: %w", err)
		}
		routines = append(routines, routine)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate routines: %w", err)
	}

	return routines, nil
}
