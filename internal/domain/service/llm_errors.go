package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// LLMErrorKind classifies language-model failures for logging and for the
// circuit breaker.
type LLMErrorKind int

const (
	// ErrKindTransient: timeout, reset, 5xx, rate limit.
	ErrKindTransient LLMErrorKind = iota
	// ErrKindAuth: invalid API key, 401/403.
	ErrKindAuth
	// ErrKindBadRequest: malformed request, unknown model, unreadable media.
	ErrKindBadRequest
	// ErrKindContentFilter: blocked by the provider's safety policy.
	ErrKindContentFilter
	// ErrKindCancelled: the caller gave up or the turn timed out.
	ErrKindCancelled
)

// String returns a label for logs.
func (k LLMErrorKind) String() string {
	switch k {
	case ErrKindTransient:
		return "transient"
	case ErrKindAuth:
		return "auth"
	case ErrKindBadRequest:
		return "bad_request"
	case ErrKindContentFilter:
		return "content_filter"
	case ErrKindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// LLMError is a classified failure from a LanguageModel call.
type LLMError struct {
	Kind       LLMErrorKind
	Message    string
	StatusCode int // 0 when no HTTP response was received
	Model      string
	Cause      error
}

func (e *LLMError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *LLMError) Unwrap() error {
	return e.Cause
}

// CountsAsOutage reports whether the error says something about the health
// of the provider rather than about this particular request.
func (e *LLMError) CountsAsOutage() bool {
	return e.Kind == ErrKindTransient || e.Kind == ErrKindAuth
}

// NewHTTPError classifies a non-2xx provider response.
func NewHTTPError(statusCode int, body, model string) *LLMError {
	kind := ErrKindTransient
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		kind = ErrKindAuth
	case statusCode == http.StatusTooManyRequests || statusCode >= 500:
		kind = ErrKindTransient
	case statusCode >= 400:
		kind = ErrKindBadRequest
	}
	return &LLMError{
		Kind:       kind,
		Message:    fmt.Sprintf("provider returned HTTP %d", statusCode),
		StatusCode: statusCode,
		Model:      model,
		Cause:      errors.New(truncate(body, 512)),
	}
}

// ClassifyError wraps err as an *LLMError. Already classified errors are
// returned unchanged.
func ClassifyError(err error, model string) *LLMError {
	if err == nil {
		return nil
	}
	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		return llmErr
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &LLMError{Kind: ErrKindCancelled, Message: "request cancelled", Model: model, Cause: err}
	}

	errStr := strings.ToLower(err.Error())
	for _, p := range []string{"safety", "blocked", "content policy"} {
		if strings.Contains(errStr, p) {
			return &LLMError{Kind: ErrKindContentFilter, Message: "content filtered", Model: model, Cause: err}
		}
	}
	return &LLMError{Kind: ErrKindTransient, Message: "transient error", Model: model, Cause: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
