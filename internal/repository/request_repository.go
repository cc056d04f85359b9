package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/Freeeeeet/gym_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestColumns = `id, request_type, requested_role, status, from_id, to_id, professor_id, message, created_at, updated_at`

// RequestRepository stores membership requests. Status changes are conditional
// on the current status being pending, so concurrent accept/reject calls on the
// same request resolve to exactly one winner.
type RequestRepository struct {
	*base.Repository
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{Repository: base.NewRepository(pool)}
}

func scanRequest(row rowScanner) (*model.GymRequest, error) {
	var req model.GymRequest
	err := row.Scan(
		&req.ID,
		&req.RequestType,
		&req.RequestedRole,
		&req.Status,
		&req.FromID,
		&req.ToID,
		&req.ProfessorID,
		&req.Message,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create inserts a pending request
func (r *RequestRepository) Create(ctx context.Context, req *model.GymRequest) error {
	query := `
		INSERT INTO gym_requests (request_type, requested_role, status, from_id, to_id, gym_id, person_id, professor_id, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.Pool().QueryRow(
		ctx, query,
		req.RequestType,
		req.RequestedRole,
		model.RequestStatusPending,
		req.FromID,
		req.ToID,
		req.GymID(),
		req.PersonID(),
		req.ProfessorID,
		req.Message,
	).Scan(&req.ID, &req.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return model.ErrDuplicatePending
		}
		return fmt.Errorf("create gym request: %w", err)
	}

	req.Status = model.RequestStatusPending
	return nil
}

// GetByID returns the request or model.ErrNotFound
func (r *RequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.GymRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM gym_requests WHERE id = $1`

	req, err := scanRequest(r.Pool().QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get gym request: %w", err)
	}

	return req, nil
}

// GetUserRequests returns requests where userID is requester, target or the named
// professor, newest first. A nil status returns every status.
func (r *RequestRepository) GetUserRequests(ctx context.Context, userID uuid.UUID, status *model.RequestStatus) ([]*model.GymRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM gym_requests
		WHERE (from_id = $1 OR to_id = $1 OR professor_id = $1)
		  AND ($2::text IS NULL OR status = $2::text)
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, "get user requests", query, userID, statusArg(status))
}

// GetGymRequests returns requests addressed to or sent by a gym
func (r *RequestRepository) GetGymRequests(ctx context.Context, gymID uuid.UUID, status *model.RequestStatus) ([]*model.GymRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM gym_requests
		WHERE gym_id = $1
		  AND ($2::text IS NULL OR status = $2::text)
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, "get gym requests", query, gymID, statusArg(status))
}

// HasPending checks for an outstanding request with the same parties and role
func (r *RequestRepository) HasPending(ctx context.Context, fromID, toID uuid.UUID, role model.Role) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM gym_requests
			WHERE from_id = $1 AND to_id = $2 AND requested_role = $3 AND status = $4
		)
	`

	var exists bool
	err := r.Pool().QueryRow(ctx, query, fromID, toID, role, model.RequestStatusPending).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pending request: %w", err)
	}

	return exists, nil
}

// Accept marks the request accepted and binds the person in one transaction:
// gym_id always, professor_id for student requests naming a professor.
// A student moving to another gym without a named professor loses the old one.
func (r *RequestRepository) Accept(ctx context.Context, id uuid.UUID) (*model.GymRequest, error) {
	var accepted *model.GymRequest

	err := r.InTx(ctx, func(tx pgx.Tx) error {
		req, err := transition(ctx, tx, id, model.RequestStatusAccepted)
		if err != nil {
			return err
		}

		if req.ProfessorID != nil {
			if err := lockGymProfessor(ctx, tx, *req.ProfessorID, req.GymID()); err != nil {
				return err
			}
		}

		var query string
		args := []any{req.GymID(), req.PersonID()}
		if req.RequestedRole == model.RoleStudent {
			query = `
				UPDATE users
				SET professor_id = CASE
				        WHEN $3::uuid IS NOT NULL THEN $3::uuid
				        WHEN gym_id IS DISTINCT FROM $1 THEN NULL
				        ELSE professor_id
				    END,
				    gym_id = $1
				WHERE id = $2
			`
			args = append(args, req.ProfessorID)
		} else {
			query = `UPDATE users SET gym_id = $1 WHERE id = $2`
		}

		result, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("bind user to gym: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("bind user to gym: %w", model.ErrNotFound)
		}

		accepted = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	return accepted, nil
}

// lockGymProfessor проверяет, что тренер всё ещё работает в зале, и держит
// его строку до конца транзакции
func lockGymProfessor(ctx context.Context, tx pgx.Tx, professorID, gymID uuid.UUID) error {
	var one int
	err := tx.QueryRow(ctx, `
		SELECT 1 FROM users
		WHERE id = $1 AND gym_id = $2 AND role = $3
		FOR SHARE
	`, professorID, gymID, model.RoleProfessor).Scan(&one)
	if base.IsNotFound(err) {
		return fmt.Errorf("%w: professor no longer works in this gym", model.ErrInvalidState)
	}
	if err != nil {
		return fmt.Errorf("check professor: %w", err)
	}
	return nil
}

// Reject marks the request rejected. Users are not touched
func (r *RequestRepository) Reject(ctx context.Context, id uuid.UUID) (*model.GymRequest, error) {
	var rejected *model.GymRequest

	err := r.InTx(ctx, func(tx pgx.Tx) error {
		req, err := transition(ctx, tx, id, model.RequestStatusRejected)
		if err != nil {
			return err
		}
		rejected = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rejected, nil
}

// transition flips a pending request to next. A missing row yields ErrNotFound,
// a row in another status yields ErrInvalidState.
func transition(ctx context.Context, tx pgx.Tx, id uuid.UUID, next model.RequestStatus) (*model.GymRequest, error) {
	query := `
		UPDATE gym_requests
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING ` + requestColumns

	req, err := scanRequest(tx.QueryRow(ctx, query, next, id, model.RequestStatusPending))
	if err == nil {
		return req, nil
	}
	if !base.IsNotFound(err) {
		return nil, fmt.Errorf("update request status: %w", err)
	}

	var current model.RequestStatus
	err = tx.QueryRow(ctx, `SELECT status FROM gym_requests WHERE id = $1`, id).Scan(&current)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get request status: %w", err)
	}

	return nil, fmt.Errorf("%w: status is %s", model.ErrInvalidState, current)
}

func (r *RequestRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.GymRequest, error) {
	rows, err := r.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	requests := []*model.GymRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gym request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}

	return requests, nil
}

func statusArg(status *model.RequestStatus) *string {
	if status == nil {
		return nil
	}
	s := string(*status)
	return &s
}
