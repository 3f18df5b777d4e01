// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP responses
// (via the `fail()` helper in this package). These codes provide clients with a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case.
//   - Generic codes mirror common HTTP status semantics.
//   - Stats codes name the rejected parameter or the missing resource so
//     clients can branch without parsing the message.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "invalid_offset",
//	  "error": "offset: invalid offset"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Stats query:
	ErrCodeInvalidParams  = "invalid_params"
	ErrCodeInvalidOffset  = "invalid_offset"
	ErrCodeInvalidDates   = "invalid_dates"
	ErrCodeInvalidWeekday = "invalid_weekday"
	ErrCodeChatNotFound   = "chat_not_found"
	ErrCodeUserNotFound   = "user_not_found"
	ErrCodeStatsFailed    = "stats_failed"
)
