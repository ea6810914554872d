package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/timesheet-service/internal/domain"
)

func TestToDomainError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"invalid range", domain.ErrInvalidRange, "INVALID_RANGE", http.StatusUnprocessableEntity},
		{"invalid selection", domain.ErrInvalidSelection, "INVALID_SELECTION", http.StatusUnprocessableEntity},
		{"inconsistent department", domain.ErrInconsistentDepartment, "INCONSISTENT_DEPARTMENT", http.StatusUnprocessableEntity},
		{"invalid transition", domain.ErrInvalidTransition, "CONFLICT", http.StatusConflict},
		{"not found", domain.ErrNotFound, "NOT_FOUND", http.StatusNotFound},
		{"missing row", pgx.ErrNoRows, "NOT_FOUND", http.StatusNotFound},
		{"anything else", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToDomainError(tc.err)
			require.NotNil(t, got)
			assert.Equal(t, tc.wantCode, got.Code)
			assert.Equal(t, tc.wantStatus, got.HTTPStatus)
		})
	}

	t.Run("wrapped sentinels still map", func(t *testing.T) {
		got := ToDomainError(fmt.Errorf("claim failed: %w", domain.ErrInvalidSelection))
		require.NotNil(t, got)
		assert.Equal(t, "INVALID_SELECTION", got.Code)
	})

	t.Run("existing domain errors pass through", func(t *testing.T) {
		original := NewAggregationFailed(errors.New("tx aborted"))
		got := ToDomainError(original)
		assert.Same(t, original, got)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("tx aborted")
	err := NewAggregationFailed(cause)
	assert.ErrorIs(t, err, cause)
}
