package mlsolid

import (
	"context"

	"github.com/zeddo123/mlsolid-go/internal/artifactdir"
	"github.com/zeddo123/mlsolid-go/internal/messages"
	"github.com/zeddo123/mlsolid-go/internal/metrics"
	"github.com/zeddo123/mlsolid-go/internal/serviceerrors"
	"github.com/zeddo123/mlsolid-go/pkg/api"
)

type sessionState int

const (
	stateOpen sessionState = iota
	stateCommitting
	stateClosed
	stateDiscarded
	stateFailed
)

func (s sessionState) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateCommitting:
		return "committing"
	case stateClosed:
		return "closed"
	case stateDiscarded:
		return "discarded"
	default:
		return "failed-commit"
	}
}

// RunSession buffers one run's metrics and artifacts between StartRun and
// End. Everything is in memory until commit; a dry session drops it all.
// A session belongs to one goroutine; independent sessions of the same
// client may run concurrently.
type RunSession struct {
	client       *Client
	runID        string
	experimentID string
	dry          bool
	state        sessionState
	acc          *metrics.Accumulator
	artifacts    []api.Artifact
}

func newRunSession(client *Client, runID string, experimentID string, dry bool) *RunSession {
	return &RunSession{
		client:       client,
		runID:        runID,
		experimentID: experimentID,
		dry:          dry,
		state:        stateOpen,
		acc:          metrics.NewAccumulator(),
	}
}

func (r *RunSession) RunID() string {
	return r.runID
}

func (r *RunSession) ExperimentID() string {
	return r.experimentID
}

// Dry reports whether closing the session will discard instead of commit.
func (r *RunSession) Dry() bool {
	return r.dry
}

// Log appends a value to the named metric's raw sequence. Values may be
// scalars or one-level sequences of scalars; the kind of the finalized
// metric is reconciled on commit. Logging on an ended session is dropped
// with a warning.
func (r *RunSession) Log(name string, value any) {
	if r.state != stateOpen {
		r.client.logger.Warn("Log on ended run session dropped",
			"run_id", r.runID, "state", r.state.String(), "metric", name)
		return
	}
	r.acc.Log(name, value)
}

// LogAll logs every entry of values under its key.
func (r *RunSession) LogAll(values map[string]any) {
	for name, value := range values {
		r.Log(name, value)
	}
}

// StageArtifact buffers an artifact for upload on commit. The artifact's
// run id is forced to the session's. Staging order is upload order.
func (r *RunSession) StageArtifact(artifact api.Artifact) error {
	if r.state != stateOpen {
		return serviceerrors.NewServiceError(messages.SessionNotOpen,
			"RunId", r.runID, "State", r.state.String(), "Operation", "staging")
	}
	artifact.RunID = r.runID
	if err := r.client.validate.Struct(&artifact); err != nil {
		return err
	}
	r.artifacts = append(r.artifacts, artifact)
	return nil
}

// StageModelFile stages the file at path as a model artifact named by the
// file's base name. An unreadable path is an immediate local error.
func (r *RunSession) StageModelFile(path string) error {
	return r.stageFile(path, api.ArtifactKindModel)
}

// StagePlainTextFile stages the file at path as a plain-text artifact
// named by the file's base name.
func (r *RunSession) StagePlainTextFile(path string) error {
	return r.stageFile(path, api.ArtifactKindPlainText)
}

func (r *RunSession) stageFile(path string, kind api.ArtifactKind) error {
	if r.state != stateOpen {
		return serviceerrors.NewServiceError(messages.SessionNotOpen,
			"RunId", r.runID, "State", r.state.String(), "Operation", "staging")
	}
	artifact, err := artifactdir.Load(path, kind, r.runID)
	if err != nil {
		return err
	}
	r.artifacts = append(r.artifacts, artifact)
	return nil
}

// End closes the session exactly once. With commit true (and a non-dry
// session) the buffered state is pushed to the server: metrics first in
// one call, then each artifact sequentially; the first failure aborts the
// remaining steps, leaves the session in a failed-commit state and is
// returned to the caller. Nothing already sent is rolled back. With
// commit false, or on a dry session, everything is dropped without any
// network call. Ending an already ended session is an error for commit
// and a no-op for discard.
func (r *RunSession) End(ctx context.Context, commit bool) error {
	if r.state != stateOpen {
		if !commit {
			return nil
		}
		return serviceerrors.NewServiceError(messages.SessionNotOpen,
			"RunId", r.runID, "State", r.state.String(), "Operation", "commit")
	}

	if !commit || r.dry {
		r.state = stateDiscarded
		r.acc = nil
		r.artifacts = nil
		r.client.logger.Info("Run discarded", "run_id", r.runID, "dry", r.dry)
		return nil
	}

	r.state = stateCommitting
	if err := r.client.commitRun(ctx, r); err != nil {
		r.state = stateFailed
		r.client.telemetry.CommitFailures.Inc()
		return err
	}

	r.state = stateClosed
	r.client.telemetry.CommitsTotal.Inc()
	r.client.logger.Info("Run committed", "run_id", r.runID, "experiment_id", r.experimentID)
	return nil
}

// Commit is End with commit set.
func (r *RunSession) Commit(ctx context.Context) error {
	return r.End(ctx, true)
}

// Discard drops the session's buffered state without committing. Safe to
// defer: it is a no-op once the session has ended.
func (r *RunSession) Discard() {
	_ = r.End(context.Background(), false)
}
