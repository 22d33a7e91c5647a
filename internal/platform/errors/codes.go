// Package errors provides structured error handling with stable machine codes.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Auth errors
	CodeAuthMissingToken       Code = "AUTH_MISSING_TOKEN"
	CodeAuthInvalidToken       Code = "AUTH_INVALID_TOKEN"
	CodeAuthInvalidCredentials Code = "AUTH_INVALID_CREDENTIALS"
	CodeAuthEmailExists        Code = "AUTH_EMAIL_EXISTS"
	CodeAuthInvalidRole        Code = "AUTH_INVALID_ROLE"
	CodeAuthInstructorOnly     Code = "AUTH_INSTRUCTOR_ONLY"

	// Team errors
	CodeTeamNameEmpty Code = "TEAM_NAME_EMPTY"
	CodeTeamNotFound  Code = "TEAM_NOT_FOUND"

	// Round errors
	CodeRoundNotFound      Code = "ROUND_NOT_FOUND"
	CodeRoundLocked        Code = "ROUND_LOCKED"
	CodeRoundInvalidAction Code = "ROUND_INVALID_ACTION"
	CodeRoundInvalidNumber Code = "ROUND_INVALID_NUMBER"

	// Decision errors
	CodeDecisionInvalidPayload Code = "DECISION_INVALID_PAYLOAD"

	// Result errors
	CodeResultNotFound Code = "RESULT_NOT_FOUND"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Request errors
	CodeRequestMalformed Code = "REQUEST_MALFORMED"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeAuthMissingToken,
		CodeAuthInvalidToken,
		CodeAuthInvalidCredentials:
		return http.StatusUnauthorized

	case CodeAuthInstructorOnly:
		return http.StatusForbidden

	case CodeTeamNotFound,
		CodeRoundNotFound,
		CodeResultNotFound,
		CodeNotFound:
		return http.StatusNotFound

	case CodeAuthEmailExists,
		CodeRoundLocked:
		return http.StatusConflict

	case CodeAuthInvalidRole,
		CodeTeamNameEmpty,
		CodeRoundInvalidAction,
		CodeRoundInvalidNumber,
		CodeDecisionInvalidPayload,
		CodeRequestMalformed:
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
