package transfer

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/zeddo123/mlsolid-go/pkg/api"
)

// sliceStream replays a fixed frame sequence, then io.EOF.
type sliceStream struct {
	frames []api.Frame
	pos    int
	err    error
}

func (s *sliceStream) Recv() (api.Frame, error) {
	if s.pos >= len(s.frames) {
		if s.err != nil {
			return api.Frame{}, s.err
		}
		return api.Frame{}, io.EOF
	}
	frame := s.frames[s.pos]
	s.pos++
	return frame, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestFramesMetadataFirst(t *testing.T) {
	artifact := api.Artifact{
		Name:    "weights.pt",
		Kind:    api.ArtifactKindModel,
		RunID:   "brave-otter",
		Content: bytes.Repeat([]byte{0xAB}, 2500),
	}

	var frames []api.Frame
	for frame := range Frames(artifact, 1024) {
		frames = append(frames, frame)
	}

	// One metadata frame plus ceil(2500/1024) = 3 content frames.
	if len(frames) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(frames))
	}
	if !frames[0].IsMeta() {
		t.Fatal("first frame must be metadata")
	}
	meta := frames[0].Meta
	if meta.Name != "weights.pt" || meta.Kind != api.ArtifactKindModel || meta.RunID != "brave-otter" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	for i, frame := range frames[1:] {
		if frame.IsMeta() {
			t.Errorf("frame %d: unexpected metadata frame", i+1)
		}
	}
	if len(frames[1].Content) != 1024 || len(frames[3].Content) != 452 {
		t.Errorf("unexpected chunk sizes %d, %d", len(frames[1].Content), len(frames[3].Content))
	}
}

func TestFramesEmptyContent(t *testing.T) {
	artifact := api.Artifact{Name: "empty.txt", Kind: api.ArtifactKindPlainText, RunID: "r"}

	var frames []api.Frame
	for frame := range Frames(artifact, 1024) {
		frames = append(frames, frame)
	}
	if len(frames) != 1 || !frames[0].IsMeta() {
		t.Fatalf("expected a lone metadata frame, got %d frames", len(frames))
	}
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	artifact := api.Artifact{
		Name:    "notes.txt",
		Kind:    api.ArtifactKindPlainText,
		RunID:   "calm-heron",
		Content: bytes.Repeat([]byte("roundtrip"), 300),
	}

	var frames []api.Frame
	for frame := range Frames(artifact, 64) {
		frames = append(frames, frame)
	}

	got, err := Reassemble(&sliceStream{frames: frames}, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != artifact.Name || got.Kind != artifact.Kind || got.RunID != artifact.RunID {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if !bytes.Equal(got.Content, artifact.Content) {
		t.Error("content differs after round trip")
	}
}

func TestReassembleZeroFramesYieldsEmptyArtifact(t *testing.T) {
	got, err := Reassemble(&sliceStream{}, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "" || got.RunID != "" || len(got.Content) != 0 {
		t.Errorf("expected empty artifact, got %+v", got)
	}
}

func TestReassembleDuplicateMetadataOverwrites(t *testing.T) {
	frames := []api.Frame{
		{Meta: &api.Metadata{Name: "first", RunID: "r1", Kind: api.ArtifactKindPlainText}},
		api.ContentFrame([]byte("abc")),
		{Meta: &api.Metadata{Name: "second", RunID: "r2", Kind: api.ArtifactKindModel}},
		api.ContentFrame([]byte("def")),
	}

	got, err := Reassemble(&sliceStream{frames: frames}, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "second" || got.RunID != "r2" {
		t.Errorf("latest metadata should win, got %+v", got)
	}
	if string(got.Content) != "abcdef" {
		t.Errorf("content frames must accumulate across metadata frames, got %q", got.Content)
	}
}

func TestReassembleStreamErrorPropagates(t *testing.T) {
	streamErr := io.ErrUnexpectedEOF
	stream := &sliceStream{
		frames: []api.Frame{{Meta: &api.Metadata{Name: "partial"}}},
		err:    streamErr,
	}

	if _, err := Reassemble(stream, discardLogger()); err != streamErr {
		t.Fatalf("expected stream error to propagate, got %v", err)
	}
}
