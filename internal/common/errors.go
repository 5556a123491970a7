package common

import "errors"

// ErrInvalidArgument marks request-level argument defects (bad path or query
// parameters). The global mapper turns it into a 400 with the wrapped message.
var ErrInvalidArgument = errors.New("invalid argument")

// BusinessError is an application-level rule violation. It maps to HTTP 200
// with the carried code in the envelope.
type BusinessError struct {
	Code    int
	Message string
}

func (e *BusinessError) Error() string {
	return e.Message
}

// NewBusinessError creates a BusinessError carrying the default error code.
func NewBusinessError(message string) *BusinessError {
	return &BusinessError{Code: InternalError.Code, Message: message}
}

// NewBusinessErrorCode creates a BusinessError with an explicit code.
func NewBusinessErrorCode(code int, message string) *BusinessError {
	return &BusinessError{Code: code, Message: message}
}
