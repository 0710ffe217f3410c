package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/middleware"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/SscSPs/waqf_ledger/internal/core/services"

// requestValidator reuses the gin binding tags so non-HTTP callers get the same checks.
var requestValidator = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

// BaseService provides common functionality for all services
type BaseService struct {
	Now func() time.Time
}

func newBaseService(now func() time.Time) BaseService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return BaseService{Now: now}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Authorize checks the caller's role against the capability table. It must run before
// any lookup so unauthorized callers learn nothing about stored state.
func (s *BaseService) Authorize(ctx context.Context, actor domain.Actor, capability domain.Capability) error {
	if actor.UserID == "" || !actor.Role.Can(capability) {
		s.GetLogger(ctx).Warn("Permission denied",
			slog.String("user_id", actor.UserID),
			slog.String("role", string(actor.Role)),
			slog.String("capability", string(capability)))
		return &apperrors.PermissionDeniedError{Role: string(actor.Role), Action: string(capability)}
	}
	return nil
}

// ValidateRequest runs the binding rules of a request struct.
func (s *BaseService) ValidateRequest(req any) error {
	if err := requestValidator.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}

// StartSpan opens a tracing span named after the operation.
func (s *BaseService) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it.
func (s *BaseService) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// isNotFound reports whether err is a not-found failure from a repository.
func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
