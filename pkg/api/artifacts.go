package api

// ArtifactKind identifies what an artifact's content is. The values are
// the content-type identifiers used by the mlsolid server.
type ArtifactKind string

const (
	ArtifactKindModel     ArtifactKind = "content-type/model"
	ArtifactKindPlainText ArtifactKind = "content-type/text"
)

// Artifact is a named binary payload owned by a run. Immutable once
// constructed; it is either staged locally before an upload or
// reconstructed from a received frame stream before being persisted.
type Artifact struct {
	Name    string       `json:"name" validate:"required"`
	Kind    ArtifactKind `json:"kind" validate:"required,oneof=content-type/model content-type/text"`
	RunID   string       `json:"run_id" validate:"required"`
	Content []byte       `json:"content"`
}

// Metadata describes an artifact on the wire, independent of its content.
type Metadata struct {
	RunID string       `json:"run_id"`
	Kind  ArtifactKind `json:"kind"`
	Name  string       `json:"name"`
}

// Frame is one element of an artifact transfer stream: either a metadata
// frame or a content frame, never both. Exactly one metadata frame
// precedes all content frames in each direction of the protocol.
type Frame struct {
	Meta    *Metadata
	Content []byte
}

// MetadataFrame builds the metadata frame for an artifact.
func MetadataFrame(a Artifact) Frame {
	return Frame{Meta: &Metadata{RunID: a.RunID, Kind: a.Kind, Name: a.Name}}
}

// ContentFrame wraps a chunk of artifact content.
func ContentFrame(chunk []byte) Frame {
	return Frame{Content: chunk}
}

// IsMeta reports whether the frame carries metadata.
func (f Frame) IsMeta() bool {
	return f.Meta != nil
}

// FrameStream is the receiving half of an artifact transfer. Recv returns
// io.EOF once the stream is exhausted. Implementations sit on the remote
// transport and are not safe for concurrent use.
type FrameStream interface {
	Recv() (Frame, error)
}
