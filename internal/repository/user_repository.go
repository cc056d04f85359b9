package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/Freeeeeet/gym_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, telegram_id, username, display_name, email, role, gym_id, professor_id, created_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.TelegramID,
		&user.Username,
		&user.DisplayName,
		&user.Email,
		&user.Role,
		&user.GymID,
		&user.ProfessorID,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create создаёт нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (telegram_id, username, display_name, email, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		user.TelegramID,
		user.Username,
		user.DisplayName,
		user.Email,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, telegramID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get user by telegram id: %w", err)
	}

	return user, nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// GetByUsername ищет пользователя по @username без учёта регистра
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(username) = lower($1) LIMIT 1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	return user, nil
}

// UpdateProfile обновляет данные из Telegram и email.
// gym_id и professor_id здесь не трогаем - они меняются только при принятии заявки
func (r *UserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET username = $1, display_name = $2, email = $3
		WHERE id = $4
	`

	result, err := r.pool.Exec(ctx, query, user.Username, user.DisplayName, user.Email, user.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// UpdateRole меняет роль пользователя
func (r *UserRepository) UpdateRole(ctx context.Context, userID uuid.UUID, role model.Role) error {
	result, err := r.pool.Exec(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, userID)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// PromoteToProfessor меняет роль на professor и снимает привязки к залу и тренеру
func (r *UserRepository) PromoteToProfessor(ctx context.Context, userID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE users
		SET role = $1, gym_id = NULL, professor_id = NULL
		WHERE id = $2
	`, model.RoleProfessor, userID)
	if err != nil {
		return fmt.Errorf("promote to professor: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// GetByIDs получает пользователей по списку ID
func (r *UserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1) ORDER BY display_name`
	return r.list(ctx, "get users by ids", query, ids)
}

// ListByGym получает участников зала с указанной ролью
func (r *UserRepository) ListByGym(ctx context.Context, gymID uuid.UUID, role model.Role) ([]*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE gym_id = $1 AND role = $2
		ORDER BY display_name
	`
	return r.list(ctx, "list gym members", query, gymID, role)
}

// ListByProfessor получает учеников тренера
func (r *UserRepository) ListByProfessor(ctx context.Context, professorID uuid.UUID) ([]*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE professor_id = $1
		ORDER BY display_name
	`
	return r.list(ctx, "list professor students", query, professorID)
}

func (r *UserRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}
