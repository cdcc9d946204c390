package messages

import (
	"fmt"
	"strings"
)

// This package provides all the error messages the SDK reports to the
// caller. Note that we add a comment with the message parameters so that
// it is possible to see the parameters in the IDE when creating an error
// message.

// Kind is the local classification of a failure. Remote failures map onto
// BadRequest, NotFound or Internal from the server's reported status;
// local failures keep the Local kind and are never reclassified.
type Kind int

const (
	KindLocal Kind = iota
	KindBadRequest
	KindNotFound
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindInternal:
		return "internal_error"
	default:
		return "local"
	}
}

var (
	// Remote errors, produced by classification of the server's status

	// RemoteBadRequest The server rejected the request: '{{.Details}}'.
	RemoteBadRequest = createMessage(
		KindBadRequest,
		"The server rejected the request: '{{.Details}}'.",
	)

	// RemoteNotFound The requested resource was not found: '{{.Details}}'.
	RemoteNotFound = createMessage(
		KindNotFound,
		"The requested resource was not found: '{{.Details}}'.",
	)

	// RemoteInternal The server reported an internal error: '{{.Details}}'.
	RemoteInternal = createMessage(
		KindInternal,
		"The server reported an internal error: '{{.Details}}'.",
	)

	// Local errors, raised before or after any remote call

	// ArtifactSourceUnreadable The artifact source file {{.Path}} could not be read: '{{.Error}}'.
	ArtifactSourceUnreadable = createMessage(
		KindLocal,
		"The artifact source file {{.Path}} could not be read: '{{.Error}}'.",
	)

	// DestinationNotDirectory The artifact destination {{.Path}} exists and is not a directory.
	DestinationNotDirectory = createMessage(
		KindLocal,
		"The artifact destination {{.Path}} exists and is not a directory.",
	)

	// ArtifactWriteFailed The artifact {{.Name}} could not be written to {{.Path}}: '{{.Error}}'.
	ArtifactWriteFailed = createMessage(
		KindLocal,
		"The artifact {{.Name}} could not be written to {{.Path}}: '{{.Error}}'.",
	)

	// SessionNotOpen The run session {{.RunId}} is {{.State}}; it no longer accepts {{.Operation}}.
	SessionNotOpen = createMessage(
		KindLocal,
		"The run session {{.RunId}} is {{.State}}; it no longer accepts {{.Operation}}.",
	)

	// ConfigurationInvalid The client configuration is invalid: '{{.Error}}'.
	ConfigurationInvalid = createMessage(
		KindLocal,
		"The client configuration is invalid: '{{.Error}}'.",
	)

	// JournalOperationFailed The commit journal operation {{.Operation}} failed: '{{.Error}}'.
	JournalOperationFailed = createMessage(
		KindLocal,
		"The commit journal operation {{.Operation}} failed: '{{.Error}}'.",
	)

	// JournalDriverUnsupported The commit journal driver {{.Driver}} is not supported.
	JournalDriverUnsupported = createMessage(
		KindLocal,
		"The commit journal driver {{.Driver}} is not supported.",
	)
)

type MessageCode struct {
	kind Kind
	one  string
}

func (m *MessageCode) GetKind() Kind {
	return m.kind
}

func (m *MessageCode) GetMessage() string {
	return m.one
}

func createMessage(kind Kind, one string) *MessageCode {
	return &MessageCode{
		kind,
		one,
	}
}

func GetErrorMessage(messageCode *MessageCode, messageParams ...any) string {
	msg := messageCode.GetMessage()
	for i := 0; i < len(messageParams); i += 2 {
		param := messageParams[i]
		var paramValue any
		if i+1 < len(messageParams) {
			paramValue = messageParams[i+1]
		} else {
			paramValue = "NOT_DEFINED" // this is a placeholder for a missing parameter value - if you see this value then the code needs to be fixed
		}
		msg = strings.ReplaceAll(msg, fmt.Sprintf("{{.%v}}", param), fmt.Sprintf("%v", paramValue))
	}
	return msg
}
