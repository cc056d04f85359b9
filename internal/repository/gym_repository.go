package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/Freeeeeet/gym_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GymRepository struct {
	pool *pgxpool.Pool
}

func NewGymRepository(pool *pgxpool.Pool) *GymRepository {
	return &GymRepository{pool: pool}
}

// Create создаёт зал
func (r *GymRepository) Create(ctx context.Context, gym *model.Gym) error {
	query := `
		INSERT INTO gyms (name, address, phone, admin_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, gym.Name, gym.Address, gym.Phone, gym.AdminID).
		Scan(&gym.ID, &gym.CreatedAt)
	if err != nil {
		return fmt.Errorf("create gym: %w", err)
	}

	return nil
}

// GetByID получает зал по ID
func (r *GymRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Gym, error) {
	query := `
		SELECT id, name, address, phone, admin_id, created_at
		FROM gyms
		WHERE id = $1
	`

	var gym model.Gym
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&gym.ID,
		&gym.Name,
		&gym.Address,
		&gym.Phone,
		&gym.AdminID,
		&gym.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get gym: %w", err)
	}

	return &gym, nil
}

// List получает все залы, отсортированные по названию
func (r *GymRepository) List(ctx context.Context) ([]*model.Gym, error) {
	query := `
		SELECT id, name, address, phone, admin_id, created_at
		FROM gyms
		ORDER BY name, created_at
	`
	return r.list(ctx, "list gyms", query)
}

// ListByAdmin получает залы администратора
func (r *GymRepository) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]*model.Gym, error) {
	query := `
		SELECT id, name, address, phone, admin_id, created_at
		FROM gyms
		WHERE admin_id = $1
		ORDER BY name, created_at
	`
	return r.list(ctx, "list admin gyms", query, adminID)
}

// Update обновляет название и контакты зала
func (r *GymRepository) Update(ctx context.Context, gym *model.Gym) error {
	query := `
		UPDATE gyms
		SET name = $1, address = $2, phone = $3
		WHERE id = $4
	`

	result, err := r.pool.Exec(ctx, query, gym.Name, gym.Address, gym.Phone, gym.ID)
	if err != nil {
		return fmt.Errorf("update gym: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// Delete удаляет зал. Заявки удаляются каскадно, gym_id у участников обнуляется
func (r *GymRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM gyms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete gym: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *GymRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Gym, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	gyms := []*model.Gym{}
	for rows.Next() {
		var gym model.Gym
		err := rows.Scan(
			&gym.ID,
			&gym.Name,
			&gym.Address,
			&gym.Phone,
			&gym.AdminID,
			&gym.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan gym: %w", err)
		}
		gyms = append(gyms, &gym)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gyms: %w", err)
	}

	return gyms, nil
}
