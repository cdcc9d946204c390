// Package journal keeps an optional local record of what the SDK sent to
// and received from the tracking server: committed runs and artifact
// transfers. It is bookkeeping only; the server remains the source of
// truth and a disabled journal changes no SDK behavior.
package journal

import (
	"log/slog"
	"time"
)

// Direction of an artifact transfer, from the SDK's point of view.
const (
	DirectionUpload   = "upload"
	DirectionDownload = "download"
)

// CommitRecord is one committed run.
type CommitRecord struct {
	ID            string
	RunID         string
	ExperimentID  string
	MetricCount   int
	ArtifactCount int
	CommittedAt   time.Time
}

// TransferRecord is one completed artifact transfer.
type TransferRecord struct {
	ID        string
	RunID     string
	Name      string
	Kind      string
	Direction string
	Bytes     int64
	CreatedAt time.Time
}

type QueryResults[T any] struct {
	Items       []T
	TotalStored int
}

// Journal records commits and transfers. Implementations must tolerate
// being shared across run sessions of one client.
type Journal interface {
	WithLogger(logger *slog.Logger) Journal

	RecordCommit(commit CommitRecord) error
	RecordTransfer(transfer TransferRecord) error

	Commits(limit int, offset int) (*QueryResults[CommitRecord], error)
	Transfers(runID string) ([]TransferRecord, error)

	// Close the journal's database connection.
	Close() error
}
