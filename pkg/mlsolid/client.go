package mlsolid

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zeddo123/mlsolid-go/internal/artifactdir"
	"github.com/zeddo123/mlsolid-go/internal/journal"
	"github.com/zeddo123/mlsolid-go/internal/logging"
	"github.com/zeddo123/mlsolid-go/internal/messages"
	"github.com/zeddo123/mlsolid-go/internal/names"
	"github.com/zeddo123/mlsolid-go/internal/serviceerrors"
	"github.com/zeddo123/mlsolid-go/internal/telemetry"
	"github.com/zeddo123/mlsolid-go/internal/transfer"
	"github.com/zeddo123/mlsolid-go/pkg/api"
)

// newRunAttempts is how many random run ids NewRun tries before
// surfacing the last failure.
const newRunAttempts = 10

const (
	artifactsSubdir = "artifacts"
	modelsSubdir    = "models"
)

// Client talks to one mlsolid server through a RemoteClient. A client is
// safe to share across independent run sessions; one session must be
// driven by one goroutine.
type Client struct {
	remote    RemoteClient
	logger    *slog.Logger
	validate  *validator.Validate
	chunkSize int
	workDir   string
	timeout   time.Duration
	journal   journal.Journal
	telemetry *telemetry.Collector
}

// NewClient creates a client over the given remote with defaults: a
// discarding logger, 1024-byte chunks, the "mlsolid" workdir, no
// per-operation timeout and no commit journal.
func NewClient(remote RemoteClient) *Client {
	return &Client{
		remote:    remote,
		logger:    logging.DiscardLogger(),
		validate:  validator.New(),
		chunkSize: transfer.DefaultChunkSize,
		workDir:   "mlsolid",
		telemetry: telemetry.NewCollector(nil),
	}
}

func (c *Client) WithLogger(logger *slog.Logger) *Client {
	if c == nil {
		return nil
	}
	out := *c
	out.logger = logger
	return &out
}

// WithChunkSize sets the artifact content chunk size in bytes.
func (c *Client) WithChunkSize(chunkSize int) *Client {
	if c == nil {
		return nil
	}
	out := *c
	out.chunkSize = chunkSize
	return &out
}

// WithWorkDir sets the base directory for downloads: artifacts land in
// <workdir>/artifacts, tagged models in <workdir>/models.
func (c *Client) WithWorkDir(dir string) *Client {
	if c == nil {
		return nil
	}
	out := *c
	out.workDir = dir
	return &out
}

// WithTimeout bounds each remote operation. Zero disables the bound; the
// SDK itself never enforces one.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if c == nil {
		return nil
	}
	out := *c
	out.timeout = timeout
	return &out
}

// WithRegisterer registers the SDK's transfer counters with reg.
func (c *Client) WithRegisterer(reg prometheus.Registerer) *Client {
	if c == nil {
		return nil
	}
	out := *c
	out.telemetry = telemetry.NewCollector(reg)
	return &out
}

func (c *Client) withJournal(j journal.Journal) *Client {
	out := *c
	out.journal = j
	return &out
}

// Close releases client-owned resources (currently the commit journal).
func (c *Client) Close() error {
	if c.journal != nil {
		return c.journal.Close()
	}
	return nil
}

func (c *Client) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}

// ---------------------------------------------------------------------------
// Experiment and run registry
// ---------------------------------------------------------------------------

// Experiments lists all experiment ids known to the server.
func (c *Client) Experiments(ctx context.Context) ([]string, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	ids, err := c.remote.Experiments(ctx)
	if err != nil {
		return nil, serviceerrors.Classify(err)
	}
	return ids, nil
}

// Experiment lists the run ids of one experiment.
func (c *Client) Experiment(ctx context.Context, experimentID string) ([]string, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	ids, err := c.remote.Experiment(ctx, experimentID)
	if err != nil {
		return nil, serviceerrors.Classify(err)
	}
	return ids, nil
}

// Run fetches one run with its stored metrics.
func (c *Client) Run(ctx context.Context, runID string) (api.Run, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	run, err := c.remote.Run(ctx, runID)
	if err != nil {
		return api.Run{}, serviceerrors.Classify(err)
	}
	return run, nil
}

// CreateRun creates a run with a fixed run id. If the run id exists the
// call fails with a bad-request error.
func (c *Client) CreateRun(ctx context.Context, runID string, experimentID string) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if err := c.remote.CreateRun(ctx, runID, experimentID); err != nil {
		return serviceerrors.Classify(err)
	}
	return nil
}

// NewRun creates a run under a freshly generated random id and returns
// the id. Allocation is attempted up to ten times, generating a new
// random id each attempt; the last observed failure is surfaced if all
// attempts fail.
func (c *Client) NewRun(ctx context.Context, experimentID string) (string, error) {
	var lastErr error
	for range newRunAttempts {
		id := names.New()
		if err := c.CreateRun(ctx, id, experimentID); err != nil {
			lastErr = err
			continue
		}
		return id, nil
	}
	return "", lastErr
}

// ---------------------------------------------------------------------------
// Run lifecycle
// ---------------------------------------------------------------------------

// StartRun opens a run session under experimentID. A dry session never
// touches the server: its id is generated locally and closing it
// discards everything. A non-dry session registers the run immediately
// and commits its buffered state on End.
func (c *Client) StartRun(ctx context.Context, experimentID string, dry bool) (*RunSession, error) {
	var runID string
	if dry {
		runID = names.New()
	} else {
		id, err := c.NewRun(ctx, experimentID)
		if err != nil {
			return nil, err
		}
		runID = id
	}

	c.logger.Info("Started run", "run_id", runID, "experiment_id", experimentID, "dry", dry)
	return newRunSession(c, runID, experimentID, dry), nil
}

// RunScope runs fn inside a run session and guarantees the session ends
// on every exit path: committed on a clean return (discarded when dry),
// discarded when fn returns an error. The commit's failure, if any, is
// returned to the caller.
func (c *Client) RunScope(ctx context.Context, experimentID string, dry bool, fn func(run *RunSession) error) error {
	run, err := c.StartRun(ctx, experimentID, dry)
	if err != nil {
		return err
	}
	defer run.Discard()

	if err := fn(run); err != nil {
		return err
	}
	return run.End(ctx, true)
}

// AddMetrics uploads finalized metrics to a run in a single call.
func (c *Client) AddMetrics(ctx context.Context, runID string, metrics []api.Metric) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if err := c.remote.AddMetrics(ctx, runID, metrics); err != nil {
		return serviceerrors.Classify(err)
	}

	c.telemetry.MetricsUploaded.Add(float64(len(metrics)))
	c.logger.Info("Metrics uploaded", "run_id", runID, "count", len(metrics))
	return nil
}

// UploadArtifact streams one artifact to the server: a metadata frame
// followed by the chunked content. A failure at any point fails the
// whole artifact; nothing is retried.
func (c *Client) UploadArtifact(ctx context.Context, artifact api.Artifact) error {
	if err := c.validate.Struct(&artifact); err != nil {
		return err
	}
	return c.uploadArtifact(ctx, artifact)
}

func (c *Client) uploadArtifact(ctx context.Context, artifact api.Artifact) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if err := c.remote.AddArtifact(ctx, transfer.Frames(artifact, c.chunkSize)); err != nil {
		return serviceerrors.Classify(err)
	}

	c.telemetry.ArtifactsUploaded.Inc()
	c.telemetry.BytesUploaded.Add(float64(len(artifact.Content)))
	c.logger.Info("Artifact uploaded", "run_id", artifact.RunID, "name", artifact.Name,
		"kind", artifact.Kind, "bytes", len(artifact.Content))
	c.journalTransfer(artifact, journal.DirectionUpload)
	return nil
}

// commitRun pushes a session's buffered state: the finalized metrics in
// one call, then each staged artifact in staging order, one streaming
// call per artifact. The first failure aborts the remaining steps.
func (c *Client) commitRun(ctx context.Context, run *RunSession) error {
	finalized := run.acc.Finalize()
	if err := c.AddMetrics(ctx, run.runID, finalized); err != nil {
		return err
	}

	for _, artifact := range run.artifacts {
		if err := c.uploadArtifact(ctx, artifact); err != nil {
			return err
		}
	}

	if c.journal != nil {
		if err := c.journal.RecordCommit(journal.CommitRecord{
			RunID:         run.runID,
			ExperimentID:  run.experimentID,
			MetricCount:   len(finalized),
			ArtifactCount: len(run.artifacts),
		}); err != nil {
			c.logger.Warn("Commit journaling failed", "run_id", run.runID, "error", err.Error())
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Artifact and model downloads
// ---------------------------------------------------------------------------

// Artifact downloads and reconstructs one artifact of a run. An artifact
// with empty metadata and content means the stream carried no frames;
// callers treat that as not found unless the server itself errored.
func (c *Client) Artifact(ctx context.Context, runID string, name string) (api.Artifact, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	stream, err := c.remote.Artifact(ctx, runID, name)
	if err != nil {
		return api.Artifact{}, serviceerrors.Classify(err)
	}
	return c.receiveArtifact(stream)
}

// TaggedModel downloads the model registered under tag in a registry.
func (c *Client) TaggedModel(ctx context.Context, registryName string, tag string) (api.Artifact, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	stream, err := c.remote.StreamTaggedModel(ctx, registryName, tag)
	if err != nil {
		return api.Artifact{}, serviceerrors.Classify(err)
	}
	return c.receiveArtifact(stream)
}

func (c *Client) receiveArtifact(stream api.FrameStream) (api.Artifact, error) {
	artifact, err := transfer.Reassemble(stream, c.logger)
	if err != nil {
		return api.Artifact{}, serviceerrors.Classify(err)
	}

	c.telemetry.ArtifactsDownloaded.Inc()
	c.telemetry.BytesDownloaded.Add(float64(len(artifact.Content)))
	c.logger.Info("Artifact received", "run_id", artifact.RunID, "name", artifact.Name,
		"bytes", len(artifact.Content))
	return artifact, nil
}

// DownloadArtifact downloads an artifact and persists it under
// <workdir>/artifacts, overwriting any previous download. Returns the
// written file's path.
func (c *Client) DownloadArtifact(ctx context.Context, runID string, name string) (string, error) {
	return c.DownloadArtifactTo(ctx, runID, name, filepath.Join(c.workDir, artifactsSubdir))
}

// DownloadArtifactTo is DownloadArtifact with an explicit destination
// directory. The directory and its parents are created if absent; an
// existing non-directory at that path is a fatal local error.
func (c *Client) DownloadArtifactTo(ctx context.Context, runID string, name string, dir string) (string, error) {
	artifact, err := c.Artifact(ctx, runID, name)
	if err != nil {
		return "", err
	}
	if err := emptyStreamNotFound(artifact); err != nil {
		return "", err
	}
	return c.persistArtifact(artifact, dir)
}

// DownloadTaggedModel downloads a registry's tagged model and persists it
// under <workdir>/models. Returns the written file's path.
func (c *Client) DownloadTaggedModel(ctx context.Context, registryName string, tag string) (string, error) {
	return c.DownloadTaggedModelTo(ctx, registryName, tag, filepath.Join(c.workDir, modelsSubdir))
}

// DownloadTaggedModelTo is DownloadTaggedModel with an explicit
// destination directory.
func (c *Client) DownloadTaggedModelTo(ctx context.Context, registryName string, tag string, dir string) (string, error) {
	artifact, err := c.TaggedModel(ctx, registryName, tag)
	if err != nil {
		return "", err
	}
	if err := emptyStreamNotFound(artifact); err != nil {
		return "", err
	}
	return c.persistArtifact(artifact, dir)
}

// emptyStreamNotFound rejects an artifact reconstructed from a stream
// that carried no metadata frame. The server streamed nothing, so the
// download path reports it the same way a not-found status would.
func emptyStreamNotFound(artifact api.Artifact) error {
	if artifact.Name != "" {
		return nil
	}
	return serviceerrors.NewServiceError(messages.RemoteNotFound,
		"Details", "the artifact stream carried no frames")
}

func (c *Client) persistArtifact(artifact api.Artifact, dir string) (string, error) {
	path, err := artifactdir.Save(dir, artifact)
	if err != nil {
		return "", err
	}
	c.logger.Info("Artifact persisted", "name", artifact.Name, "path", path)
	c.journalTransfer(artifact, journal.DirectionDownload)
	return path, nil
}

func (c *Client) journalTransfer(artifact api.Artifact, direction string) {
	if c.journal == nil {
		return
	}
	if err := c.journal.RecordTransfer(journal.TransferRecord{
		RunID:     artifact.RunID,
		Name:      artifact.Name,
		Kind:      string(artifact.Kind),
		Direction: direction,
		Bytes:     int64(len(artifact.Content)),
	}); err != nil {
		c.logger.Warn("Transfer journaling failed", "name", artifact.Name, "error", err.Error())
	}
}

// ---------------------------------------------------------------------------
// Model registry
// ---------------------------------------------------------------------------

// CreateModelRegistry creates a named model registry. The returned bool
// reports whether the registry was actually created.
func (c *Client) CreateModelRegistry(ctx context.Context, name string) (bool, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	created, err := c.remote.CreateModelRegistry(ctx, name)
	if err != nil {
		return false, serviceerrors.Classify(err)
	}
	return created, nil
}

// AddModelEntry registers an uploaded artifact in a registry under the
// given tags.
func (c *Client) AddModelEntry(ctx context.Context, registryName string, artifactID string, runID string, tags []string) (bool, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	added, err := c.remote.AddModelEntry(ctx, registryName, artifactID, runID, tags)
	if err != nil {
		return false, serviceerrors.Classify(err)
	}
	return added, nil
}
