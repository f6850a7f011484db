package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/studygraph/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		err           error
		expectedError error
	}{
		{"nil_error", nil, nil},
		{"sql_no_rows", sql.ErrNoRows, store.ErrNotFound},
		{
			"unique_violation",
			&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "ledger_entries_pkey"},
			store.ErrInvalidEntity,
		},
		{
			"check_violation",
			&pgconn.PgError{Code: checkViolationCode, ConstraintName: "ledger_entries_visits_check"},
			store.ErrInvalidEntity,
		},
		{
			"not_null_violation",
			&pgconn.PgError{Code: notNullViolationCode, ColumnName: "card_id"},
			store.ErrInvalidEntity,
		},
		{
			"undefined_table",
			&pgconn.PgError{Code: undefinedTableCode},
			store.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MapError(tt.err)
			if tt.expectedError == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.expectedError)
		})
	}

	other := errors.New("connection reset")
	assert.Equal(t, other, MapError(other))
}

func TestViolationHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("x")))
	assert.True(t, IsCheckConstraintViolation(&pgconn.PgError{Code: checkViolationCode}))
	assert.False(t, IsCheckConstraintViolation(&pgconn.PgError{Code: uniqueViolationCode}))
}
