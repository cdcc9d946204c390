package serviceerrors

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/zeddo123/mlsolid-go/internal/messages"
)

// Classify maps a remote call failure onto the SDK's error taxonomy:
//
//	invalid-argument, already-exists -> bad request
//	not-found                        -> not found
//	internal, anything else          -> internal error
//
// It is a pure function with no shared state and is applied uniformly at
// every remote call site. Errors that are already classified, and local
// ServiceErrors, pass through untouched. A nil error stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}

	st, _ := status.FromError(err)
	details := st.Message()

	switch st.Code() {
	case codes.InvalidArgument, codes.AlreadyExists:
		return NewServiceError(messages.RemoteBadRequest, "Details", details).WithCause(err)
	case codes.NotFound:
		return NewServiceError(messages.RemoteNotFound, "Details", details).WithCause(err)
	default:
		return NewServiceError(messages.RemoteInternal, "Details", details).WithCause(err)
	}
}

// KindOf returns the classification of err, or KindLocal when err is not
// a ServiceError.
func KindOf(err error) messages.Kind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind()
	}
	return messages.KindLocal
}
