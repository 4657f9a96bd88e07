package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestAlreadyReversedMatchesNotFound(t *testing.T) {
	err := fmt.Errorf("reverse entry e-1: %w", apperrors.ErrAlreadyReversed)

	assert.ErrorIs(t, err, apperrors.ErrAlreadyReversed)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NotErrorIs(t, apperrors.ErrNotFound, apperrors.ErrAlreadyReversed)
}

func TestAppError(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperrors.NewAppError(500, "failed to begin transaction", cause)

	assert.Equal(t, "failed to begin transaction: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.NotErrorIs(t, apperrors.NewAppError(400, "bad", nil), apperrors.ErrInternal)
	assert.Equal(t, "bad", apperrors.NewAppError(400, "bad", nil).Error())
}
