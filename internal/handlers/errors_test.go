package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: bad", apperrors.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("x: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"already reversed wins over not found", apperrors.ErrAlreadyReversed, http.StatusConflict},
		{"duplicate wins over validation", fmt.Errorf("%w: %w", apperrors.ErrValidation, apperrors.ErrDuplicate), http.StatusConflict},
		{"conflict", apperrors.ErrConflict, http.StatusConflict},
		{"imbalance", apperrors.ErrImbalance, http.StatusUnprocessableEntity},
		{"calculation", apperrors.ErrCalculation, http.StatusInternalServerError},
		{"retries exhausted", apperrors.NewAppError(503, "busy", nil), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", "", "c,"}))
	assert.Nil(t, splitList(nil))
}
