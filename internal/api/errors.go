package api

import (
	"errors"
	"net/http"
)

type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeNoClients         Code = "NO_CLIENTS"
	CodeArrayMismatch     Code = "ARRAY_LENGTH_MISMATCH"
	CodeTrainerNotFound   Code = "TRAINER_NOT_FOUND"
	CodeTrainerConflict   Code = "TRAINER_CONFLICT"
	CodeClientConflict    Code = "CLIENT_CONFLICT"
	CodeSubNotFound       Code = "SUBSCRIPTION_NOT_FOUND"
	CodeSubWrongClient    Code = "SUBSCRIPTION_WRONG_CLIENT"
	CodeNoActiveSub       Code = "NO_ACTIVE_SUBSCRIPTION"
	CodeNoSessionsLeft    Code = "NO_SESSIONS_LEFT"
	CodeNotFound          Code = "NOT_FOUND"
	CodeInvalidType       Code = "INVALID_TYPE"
	CodeInvalidSessions   Code = "INVALID_SESSIONS"
	CodeSubInUse          Code = "SUBSCRIPTION_IN_USE"
	CodeHasFutureSessions Code = "HAS_FUTURE_SESSIONS"
	CodeHasActiveSubs     Code = "HAS_ACTIVE_SUBSCRIPTIONS"
	CodeClientInUse       Code = "CLIENT_IN_USE"
	CodePhoneExists       Code = "PHONE_EXISTS"
	CodeUsernameExists    Code = "USERNAME_EXISTS"
	CodeInvalidPassword   Code = "INVALID_PASSWORD"
	CodeInvalidCreds      Code = "INVALID_CREDENTIALS"
	CodeAccountInactive   Code = "ACCOUNT_INACTIVE"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeRateLimited       Code = "RATE_LIMITED"
	CodeInternal          Code = "INTERNAL_ERROR"
)

// Error is a business-level failure with a stable machine-readable code.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Internal() *Error {
	return &Error{Code: CodeInternal, Message: "Internal server error"}
}

// CodeOf returns the code carried by err, or CodeInternal.
func CodeOf(err error) Code {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return CodeInternal
}

func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeNoClients, CodeArrayMismatch, CodeInvalidType,
		CodeInvalidSessions, CodeInvalidPassword:
		return http.StatusBadRequest
	case CodeTrainerNotFound, CodeNotFound:
		return http.StatusNotFound
	case CodeTrainerConflict, CodeClientConflict, CodeSubNotFound, CodeSubWrongClient,
		CodeNoActiveSub, CodeNoSessionsLeft, CodeSubInUse, CodeHasFutureSessions,
		CodeHasActiveSubs, CodeClientInUse, CodePhoneExists, CodeUsernameExists:
		return http.StatusConflict
	case CodeInvalidCreds, CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeAccountInactive:
		return http.StatusForbidden
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
