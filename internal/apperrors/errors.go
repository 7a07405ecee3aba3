package apperrors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType classifies failures the way they surface to the user:
// validation blocks the submission, persistence and reasoning abort the
// current operation, internal is everything else. No error here is fatal
// for the process.
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypePersistence ErrorType = "persistence"
	ErrorTypeReasoning   ErrorType = "reasoning"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeConflict    ErrorType = "conflict"
	ErrorTypeInternal    ErrorType = "internal"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)

	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  fmt.Sprintf("%s:%d", file, line),
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)

	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   fmt.Sprintf("%s:%d", file, line),
		Context:  make(map[string]interface{}),
	}
}

// TypeOf returns the classification of err, or ErrorTypeInternal for
// errors that did not originate here.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle logs an error according to its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
		return
	}

	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeConflict:
		h.logger.WarnContext(ctx, "Request rejected", appErr.LogFields()...)
	case ErrorTypeReasoning:
		h.logger.ErrorContext(ctx, "Reasoning service error", appErr.LogFields()...)
	case ErrorTypePersistence:
		h.logger.ErrorContext(ctx, "Persistence error", appErr.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Internal error", appErr.LogFields()...)
	}
}

// Predefined errors. Messages are user-facing and localized like the rest
// of the product copy; the Code carries the machine-readable identity.
var (
	ErrEntryNotFound    = New(ErrorTypeNotFound, "ENTRY_NOT_FOUND", "Registro não encontrado no histórico.")
	ErrPatientExists    = New(ErrorTypeConflict, "PATIENT_EXISTS", "Já existe um registro para este paciente.")
	ErrSessionNotFound  = New(ErrorTypeNotFound, "SESSION_NOT_FOUND", "Sessão não encontrada.")
	ErrReasoningFailure = New(ErrorTypeReasoning, "REASONING_FAILURE", "O assistente retornou uma resposta inválida. Tente novamente.")
)

// Convenience constructors for common errors
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", message)
}

func NewPersistenceError(err error) *AppError {
	return Wrap(err, ErrorTypePersistence, "PERSISTENCE", "Falha ao acessar o banco de dados.")
}

func NewReasoningError(err error, operation string) *AppError {
	return Wrap(err, ErrorTypeReasoning, "REASONING_FAILURE", "Falha ao gerar a resposta do assistente. Tente novamente.").
		WithContext("operation", operation)
}

func NewInternalError(err error) *AppError {
	return Wrap(err, ErrorTypeInternal, "INTERNAL", "Erro interno.")
}
