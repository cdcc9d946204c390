// Package artifactdir persists reconstructed artifacts to a local
// directory, one file per artifact named by the artifact's name.
package artifactdir

import (
	"os"
	"path/filepath"

	"github.com/zeddo123/mlsolid-go/internal/messages"
	"github.com/zeddo123/mlsolid-go/internal/serviceerrors"
	"github.com/zeddo123/mlsolid-go/pkg/api"
)

// Save writes the artifact's content under dir, creating dir and its
// parents if absent. An existing file with the same name is silently
// overwritten. If dir exists and is not a directory the save fails with a
// local error; it is never classified as a remote failure. Returns the
// path of the written file.
func Save(dir string, a api.Artifact) (string, error) {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return "", serviceerrors.NewServiceError(messages.DestinationNotDirectory, "Path", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", serviceerrors.NewServiceError(messages.ArtifactWriteFailed,
			"Name", a.Name, "Path", dir, "Error", err.Error()).WithCause(err)
	}

	path := filepath.Join(dir, a.Name)
	if err := os.WriteFile(path, a.Content, 0o644); err != nil {
		return "", serviceerrors.NewServiceError(messages.ArtifactWriteFailed,
			"Name", a.Name, "Path", path, "Error", err.Error()).WithCause(err)
	}
	return path, nil
}

// Load reads a staged artifact's content from a local file. The artifact
// name is the file's base name. An unreadable path is an immediate local
// error; staging never silently skips a file.
func Load(path string, kind api.ArtifactKind, runID string) (api.Artifact, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return api.Artifact{}, serviceerrors.NewServiceError(messages.ArtifactSourceUnreadable,
			"Path", path, "Error", err.Error()).WithCause(err)
	}
	return api.Artifact{
		Name:    filepath.Base(path),
		Kind:    kind,
		RunID:   runID,
		Content: content,
	}, nil
}
