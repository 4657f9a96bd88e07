package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// statusFor maps service errors to HTTP statuses. ErrAlreadyReversed wraps
// ErrNotFound and the chart's duplicate error wraps ErrValidation, so the
// conflict cases are checked first.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrAlreadyReversed),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrImbalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrCalculation):
		return http.StatusInternalServerError
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 600 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// respondError writes the mapped status. Server errors get a generic body
// (failMsg) and an error log line; client errors echo the service message.
func respondError(c *gin.Context, logger *slog.Logger, err error, failMsg string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		attrs := []any{slog.String("error", err.Error())}
		if errors.Is(err, apperrors.ErrCalculation) {
			attrs = append(attrs, slog.Bool("ledger_law_violation", true))
		}
		logger.Error(failMsg, attrs...)
		c.JSON(status, gin.H{"error": failMsg})
		return
	}
	logger.Warn(failMsg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, logger *slog.Logger, msg string, err error) {
	logger.Warn(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": msg + ": " + err.Error()})
}

const dateLayout = "2006-01-02"

// parseTimeQuery reads an RFC 3339 timestamp or a YYYY-MM-DD date. A date
// means the end of that day in UTC, so an as-of date includes the whole day.
// A missing parameter yields the zero time.
func parseTimeQuery(c *gin.Context, name string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, errors.New(name + " must be RFC 3339 or YYYY-MM-DD")
	}
	return d.Add(24*time.Hour - time.Nanosecond), nil
}

// splitList accepts both repeated and comma separated query values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
