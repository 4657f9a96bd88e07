package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/go-playground/validator/v10"
)

// BaseService provides common functionality for all services
type BaseService struct {
	now      func() time.Time
	validate *validator.Validate
}

// ServiceOption is a functional option shared by the ledger services
type ServiceOption func(*BaseService)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.now = now
	}
}

// WithValidator replaces the request validator.
func WithValidator(v *validator.Validate) ServiceOption {
	return func(s *BaseService) {
		s.validate = v
	}
}

func newBaseService(options ...ServiceOption) BaseService {
	b := BaseService{}
	for _, option := range options {
		option(&b)
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.validate == nil {
		b.validate = dto.NewValidator()
	}
	return b
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	return s.now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogLedgerViolation logs a breach of the double-entry rules. These are
// always errors, whatever the caller does with the returned error.
func (s *BaseService) LogLedgerViolation(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.Bool("ledger_law_violation", true))
	args = append(args, keyvals...)
	s.LogError(ctx, err, msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// validateRequest runs the binding rules of a request DTO and reports
// failures as apperrors.ErrValidation.
func (s *BaseService) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
}
