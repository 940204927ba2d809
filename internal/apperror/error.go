package apperror

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
)

// AppError carries a stable code, a human message and optional context and cause.
// StatusCode classifies the failure using HTTP semantics: 4xx is a caller mistake,
// 5xx a dependency or internal failure.
type AppError struct {
	Code       Code
	Message    string
	StatusCode int
	Context    string
	cause      error
	stack      []uintptr
}

func (e *AppError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Context != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Context)
		sb.WriteString(")")
	}
	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}
	return sb.String()
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches any AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// LogValue renders the error as a group so log lines carry the code and context
// as separate fields. Stacks are only attached to 5xx errors.
func (e *AppError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", string(e.Code)),
		slog.String("message", e.Message),
	}
	if e.Context != "" {
		attrs = append(attrs, slog.String("context", e.Context))
	}
	if e.cause != nil {
		attrs = append(attrs, slog.String("cause", e.cause.Error()))
	}
	if e.StatusCode >= http.StatusInternalServerError && len(e.stack) > 0 {
		attrs = append(attrs, slog.String("stack", e.formatStack()))
	}
	return slog.GroupValue(attrs...)
}

func (e *AppError) formatStack() string {
	var sb strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", frame.File, frame.Line, frame.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[:n]
}

// New creates an AppError. The message defaults to the code's catalogue entry.
func New(code Code, opts ...Option) *AppError {
	err := &AppError{
		Code:       code,
		Message:    messages[code],
		StatusCode: getDefaultStatusCode(code),
		stack:      captureStack(),
	}
	for _, opt := range opts {
		opt(err)
	}
	if err.Message == "" {
		err.Message = string(code)
	}
	return err
}

type Option func(*AppError)

func WithMessage(message string) Option {
	return func(e *AppError) {
		e.Message = message
	}
}

func WithContext(context string) Option {
	return func(e *AppError) {
		e.Context = context
	}
}

func WithStatusCode(statusCode int) Option {
	return func(e *AppError) {
		e.StatusCode = statusCode
	}
}

func WithCause(cause error) Option {
	return func(e *AppError) {
		e.cause = cause
	}
}

func NotFound(code Code, context string) *AppError {
	return New(code, WithContext(context), WithStatusCode(http.StatusNotFound))
}

func Validation(code Code, context string) *AppError {
	return New(code, WithContext(context), WithStatusCode(http.StatusBadRequest))
}

func Internal(code Code, context string, cause error) *AppError {
	return New(code, WithContext(context), WithCause(cause), WithStatusCode(http.StatusInternalServerError))
}

// External marks a failure of a dependency such as the catalog backend or the session store.
func External(code Code, context string, cause error) *AppError {
	return New(code, WithContext(context), WithCause(cause), WithStatusCode(http.StatusServiceUnavailable))
}

// Wrap returns err as an AppError. An existing AppError is reused and only
// gains context when it has none; anything else becomes an Internal error.
func Wrap(err error, code Code, context string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if context != "" && appErr.Context == "" {
			appErr.Context = context
		}
		return appErr
	}
	return Internal(code, context, err)
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsInputError reports whether err was caused by bad user input
// (400 class), as opposed to a missing record or a failing dependency.
func IsInputError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.StatusCode == http.StatusBadRequest
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the code, or CodeUnknownError for foreign errors.
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknownError
}

// getDefaultStatusCode determines the HTTP status code based on the error code
func getDefaultStatusCode(code Code) int {
	switch {
	// Authentication & Authorization
	case strings.Contains(string(code), "UNAUTHORIZED"):
		return http.StatusUnauthorized

	// Not Found errors
	case strings.Contains(string(code), "NOT_FOUND"):
		return http.StatusNotFound

	// Validation errors
	case strings.Contains(string(code), "INVALID"):
		return http.StatusBadRequest

	// Connection errors
	case strings.Contains(string(code), "CONNECTION"),
		strings.Contains(string(code), "UNAVAILABLE"),
		strings.Contains(string(code), "TIMEOUT"):
		return http.StatusServiceUnavailable

	// Upstream failures
	case strings.Contains(string(code), "SERVER_ERROR"):
		return http.StatusBadGateway

	// Rate limit
	case code == CodeRateLimitExceeded:
		return http.StatusTooManyRequests

	default:
		return http.StatusInternalServerError
	}
}
