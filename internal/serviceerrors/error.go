package serviceerrors

import (
	"github.com/zeddo123/mlsolid-go/internal/messages"
)

// ServiceError is the error type every failure surfaced by the SDK is
// wrapped in. Error() is used to log the error; MessageCode() and
// MessageParams() carry the structured cause; Kind() is the failure
// classification callers branch on.
type ServiceError struct {
	messageCode   *messages.MessageCode
	messageParams []any
	cause         error
}

func (e *ServiceError) Error() string {
	return messages.GetErrorMessage(e.messageCode, e.messageParams...)
}

func (e *ServiceError) Kind() messages.Kind {
	return e.messageCode.GetKind()
}

func (e *ServiceError) MessageCode() *messages.MessageCode {
	return e.messageCode
}

func (e *ServiceError) MessageParams() []any {
	return e.messageParams
}

// Unwrap exposes the underlying error, when there is one, so callers can
// use errors.Is/As against transport errors.
func (e *ServiceError) Unwrap() error {
	return e.cause
}

func NewServiceError(messageCode *messages.MessageCode, messageParams ...any) *ServiceError {
	return &ServiceError{
		messageCode:   messageCode,
		messageParams: messageParams,
	}
}

func (e *ServiceError) WithCause(cause error) *ServiceError {
	return &ServiceError{
		messageCode:   e.messageCode,
		messageParams: e.messageParams,
		cause:         cause,
	}
}
