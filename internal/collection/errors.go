package collection

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bookfriends/server/internal/resolver"
)

// Kind classifies a collection failure.
type Kind string

const (
	KindParameter                Kind = "PARAMETER_ERROR"
	KindUserNotFound             Kind = "USER_NOT_FOUND"
	KindNotInCollection          Kind = "NOT_IN_COLLECTION"
	KindUpstreamResolutionFailed Kind = "UPSTREAM_RESOLUTION_FAILED"
	KindPersistence              Kind = "PERSISTENCE_ERROR"
)

// Error is returned by every Manager operation. Callers branch on Kind via
// errors.Is against the sentinels below, or errors.As for the detail.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// HTTPStatus maps the kind to a response status. An upstream failure caused
// by the provider not knowing the ISBN is a 404; any other upstream failure
// is a 502.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindParameter:
		return http.StatusBadRequest
	case KindUserNotFound, KindNotInCollection:
		return http.StatusNotFound
	case KindUpstreamResolutionFailed:
		if errors.Is(e.cause, resolver.ErrNotFound) {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

var (
	ErrParameter                = &Error{Kind: KindParameter, Message: "invalid parameter"}
	ErrUserNotFound             = &Error{Kind: KindUserNotFound, Message: "user not found"}
	ErrNotInCollection          = &Error{Kind: KindNotInCollection, Message: "book not in collection"}
	ErrUpstreamResolutionFailed = &Error{Kind: KindUpstreamResolutionFailed, Message: "could not resolve book"}
	ErrPersistence              = &Error{Kind: KindPersistence, Message: "persistence failure"}
)

func parameterError(msg string) *Error {
	return &Error{Kind: KindParameter, Message: msg}
}

func userNotFound(userID string) *Error {
	return &Error{Kind: KindUserNotFound, Message: fmt.Sprintf("user %s not found", userID)}
}

func notInCollection(userID, isbn string) *Error {
	return &Error{Kind: KindNotInCollection, Message: fmt.Sprintf("book %s is not in the collection of user %s", isbn, userID)}
}

func upstreamFailed(isbn string, cause error) *Error {
	return &Error{Kind: KindUpstreamResolutionFailed, Message: fmt.Sprintf("resolve book %s", isbn), cause: cause}
}

func persistenceFailed(op string, cause error) *Error {
	return &Error{Kind: KindPersistence, Message: op, cause: cause}
}
