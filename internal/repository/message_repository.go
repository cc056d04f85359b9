package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/Freeeeeet/gym_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Create сохраняет сообщение
func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) error {
	query := `
		INSERT INTO messages (from_user_id, to_user_id, message)
		VALUES ($1, $2, $3)
		RETURNING id, is_read, created_at
	`

	err := r.pool.QueryRow(ctx, query, msg.FromUserID, msg.ToUserID, msg.Text).
		Scan(&msg.ID, &msg.IsRead, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

// GetByID получает сообщение по ID
func (r *MessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	query := `
		SELECT id, from_user_id, to_user_id, message, is_read, created_at
		FROM messages
		WHERE id = $1
	`

	var msg model.Message
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&msg.ID,
		&msg.FromUserID,
		&msg.ToUserID,
		&msg.Text,
		&msg.IsRead,
		&msg.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get message: %w", err)
	}

	return &msg, nil
}

// ListInbox получает входящие сообщения, новые сверху
func (r *MessageRepository) ListInbox(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Message, error) {
	query := `
		SELECT id, from_user_id, to_user_id, message, is_read, created_at
		FROM messages
		WHERE to_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.list(ctx, "list inbox", query, userID, limit)
}

// ListConversation получает переписку двух пользователей в хронологическом порядке
func (r *MessageRepository) ListConversation(ctx context.Context, userA, userB uuid.UUID, limit int) ([]*model.Message, error) {
	query := `
		SELECT id, from_user_id, to_user_id, message, is_read, created_at
		FROM (
			SELECT id, from_user_id, to_user_id, message, is_read, created_at
			FROM messages
			WHERE (from_user_id = $1 AND to_user_id = $2)
			   OR (from_user_id = $2 AND to_user_id = $1)
			ORDER BY created_at DESC
			LIMIT $3
		) recent
		ORDER BY created_at ASC
	`
	return r.list(ctx, "list conversation", query, userA, userB, limit)
}

// MarkRead отмечает сообщение прочитанным. Только получатель может это сделать
func (r *MessageRepository) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	query := `
		UPDATE messages
		SET is_read = true
		WHERE id = $1 AND to_user_id = $2
	`

	result, err := r.pool.Exec(ctx, query, id, recipientID)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// CountUnread подсчитывает непрочитанные входящие
func (r *MessageRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE to_user_id = $1 AND NOT is_read`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}

	return count, nil
}

func (r *MessageRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Message, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	messages := []*model.Message{}
	for rows.Next() {
		var msg model.Message
		err := rows.Scan(
			&msg.ID,
			&msg.FromUserID,
			&msg.ToUserID,
			&msg.Text,
			&msg.IsRead,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}
