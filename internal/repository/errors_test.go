package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"Nil", nil, false},
		{"Postgres 23505", &pgconn.PgError{Code: "23505"}, true},
		{"Wrapped Postgres 23505", fmt.Errorf("create user: %w", &pgconn.PgError{Code: "23505"}), true},
		{"Postgres Other Code", &pgconn.PgError{Code: "23503"}, false},
		{"Sqlite Message", errors.New("UNIQUE constraint failed: users.email"), true},
		{"Unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsUniqueViolation(tt.err))
		})
	}
}
