package base

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.True(t, IsNotFound(fmt.Errorf("get user: %w", pgx.ErrNoRows)))
	assert.False(t, IsNotFound(fmt.Errorf("boom")))
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("create request: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, IsUniqueViolation(err))

	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(pgx.ErrNoRows))
}
