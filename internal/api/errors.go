package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the server rejects the session
// (401/403). The client has already discarded its credentials when
// this surfaces; the fix is to log in again.
var ErrUnauthorized = errors.New("session rejected by server")

// RequestError is a handled 400 from the server, carrying the
// message the server attached to the rejection.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request rejected (status %d): %s", e.Status, e.Message)
}

// ErrorBody is the server's soft error envelope, returned in a Result
// when a response body could not be used but the request itself should
// not fail hard.
type ErrorBody struct {
	Error string `json:"error"`
}
