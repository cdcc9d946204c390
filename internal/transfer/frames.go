package transfer

import (
	"bytes"
	"errors"
	"io"
	"iter"
	"log/slog"

	"github.com/zeddo123/mlsolid-go/pkg/api"
)

// Frames returns the upload frame sequence for an artifact: exactly one
// metadata frame, then one content frame per chunk of the artifact's
// content, in order. The sequence is produced lazily, one frame at a
// time, so a consumer can stream it without materializing the chunks.
func Frames(a api.Artifact, chunkSize int) iter.Seq[api.Frame] {
	chunks := Split(a.Content, chunkSize)
	return func(yield func(api.Frame) bool) {
		if !yield(api.MetadataFrame(a)) {
			return
		}
		for chunk := range chunks {
			if !yield(api.ContentFrame(chunk)) {
				return
			}
		}
	}
}

// Reassemble consumes a received frame stream and reconstructs the
// artifact it carries. The first metadata frame establishes the
// artifact's name, kind and run id; content frame bytes are appended in
// arrival order. A second metadata frame is a protocol error: it is
// logged and its values overwrite the earlier ones, matching the server's
// reference behavior. A stream that ends after zero frames yields an
// artifact with empty content and metadata; callers treat that as not
// found unless the stream itself errored.
func Reassemble(stream api.FrameStream, logger *slog.Logger) (api.Artifact, error) {
	var (
		artifact api.Artifact
		content  bytes.Buffer
		gotMeta  bool
	)

	for {
		frame, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return api.Artifact{}, err
		}

		if frame.IsMeta() {
			if gotMeta {
				logger.Warn("Duplicate metadata frame in artifact stream",
					"name", frame.Meta.Name, "run_id", frame.Meta.RunID)
			}
			gotMeta = true
			artifact.Name = frame.Meta.Name
			artifact.Kind = frame.Meta.Kind
			artifact.RunID = frame.Meta.RunID
			continue
		}

		content.Write(frame.Content)
	}

	artifact.Content = content.Bytes()
	return artifact, nil
}
