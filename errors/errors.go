package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Kind classifies why an operation was refused, independent of the HTTP
// status it maps to. Callers branch on Kind, not on message strings.
type Kind string

const (
	KindAuthorization Kind = "authorization"
	KindOwnership     Kind = "ownership"
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindInternal      Kind = "internal"
)

// Error is the API error type returned by services and rendered by handlers.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Kind    Kind   `json:"kind,omitempty"`
}

var (
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrInvalidPassword     = New("invalid password", http.StatusUnauthorized)
	ErrInvalidToken        = New("invalid token", http.StatusUnauthorized)
	InActiveUserError      = New("email not verified, please verify your email", http.StatusUnauthorized)
)

func (e *Error) Error() string {
	return fmt.Sprintf("error: %s, status: %d", e.Message, e.Status)
}

// New creates an Error with the Kind inferred from the HTTP status.
func New(message string, status int) *Error {
	return &Error{Message: message, Status: status, Kind: kindOf(status)}
}

func kindOf(status int) Kind {
	switch status {
	case http.StatusForbidden, http.StatusUnauthorized:
		return KindAuthorization
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		return KindInternal
	}
}

// Authorization reports a role that does not permit the attempted operation.
func Authorization(message string) *Error {
	return &Error{Message: message, Status: http.StatusForbidden, Kind: KindAuthorization}
}

// Ownership reports an actor with the right role but no claim on the record,
// e.g. a technician touching a report assigned to someone else.
func Ownership(message string) *Error {
	return &Error{Message: message, Status: http.StatusForbidden, Kind: KindOwnership}
}

// Validation reports a missing or malformed field in the request payload.
func Validation(message string) *Error {
	return &Error{Message: message, Status: http.StatusBadRequest, Kind: KindValidation}
}

// NotFoundError reports a missing report, user, or schedule.
func NotFoundError(message string) *Error {
	return &Error{Message: message, Status: http.StatusNotFound, Kind: KindNotFound}
}

// Conflict reports a record whose current state does not allow the operation.
func Conflict(message string) *Error {
	return &Error{Message: message, Status: http.StatusConflict, Kind: KindConflict}
}

// GetUniqueContraintError maps a postgres unique-constraint violation to a
// friendly conflict error; anything else becomes an internal error.
func GetUniqueContraintError(err error) *Error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key value violates unique constraint") {
		switch {
		case strings.Contains(msg, "email"):
			return Conflict("user with this email already exists")
		case strings.Contains(msg, "phone"):
			return Conflict("user with this phone number already exists")
		default:
			return Conflict("record already exists")
		}
	}
	return ErrInternalServerError
}

// ErrorHandler renders rate-limit rejections for gin-rate-limit.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"message": "too many requests, try again in " + time.Until(info.ResetTime).Round(time.Second).String(),
		"status":  http.StatusTooManyRequests,
	})
}
