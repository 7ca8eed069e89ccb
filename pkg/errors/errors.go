package errors

import (
	"errors"
	"fmt"
)

// ErrorCode 错误码类型
type ErrorCode string

const (
	CodeInvalidInput       ErrorCode = "INVALID_INPUT"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeUpstreamGeneration ErrorCode = "UPSTREAM_GENERATION_FAILED"
	CodeTranslation        ErrorCode = "TRANSLATION_FAILED"
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInvalidInputError 创建无效输入错误 (ValidationError)
func NewInvalidInputError(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
	}
}

// NewNotFoundError 创建未找到错误
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
	}
}

// NewAlreadyExistsError 创建已存在错误
func NewAlreadyExistsError(message string) *AppError {
	return &AppError{
		Code:    CodeAlreadyExists,
		Message: message,
	}
}

// NewUnauthorizedError 创建未认证错误
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewForbiddenError 创建无权限错误
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewUpstreamGenerationError wraps a language-model failure. message is the
// user-safe text; cause is kept for operator logs only.
func NewUpstreamGenerationError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeUpstreamGeneration,
		Message: message,
		Err:     cause,
	}
}

// NewTranslationError wraps a failed translation call.
func NewTranslationError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeTranslation,
		Message: message,
		Err:     cause,
	}
}

// NewInternalError 创建内部错误
func NewInternalError(message string) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
	}
}

// NewInternalErrorWithCause 创建带原因的内部错误
func NewInternalErrorWithCause(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Err:     cause,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or
// CodeInternal for any other non-nil error.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// MessageOf returns the user-safe message of err. Errors that are not an
// AppError never leak their text.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// IsNotFound 判断是否为未找到错误
func IsNotFound(err error) bool {
	return is(err, CodeNotFound)
}

// IsInvalidInput 判断是否为无效输入错误
func IsInvalidInput(err error) bool {
	return is(err, CodeInvalidInput)
}

// IsAlreadyExists 判断是否为已存在错误
func IsAlreadyExists(err error) bool {
	return is(err, CodeAlreadyExists)
}

// IsUnauthorized 判断是否为未认证错误
func IsUnauthorized(err error) bool {
	return is(err, CodeUnauthorized)
}

// IsUpstreamGeneration reports whether err is a language-model failure.
func IsUpstreamGeneration(err error) bool {
	return is(err, CodeUpstreamGeneration)
}

// IsTranslation reports whether err is a translation failure.
func IsTranslation(err error) bool {
	return is(err, CodeTranslation)
}

func is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
