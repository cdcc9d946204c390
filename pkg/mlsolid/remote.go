package mlsolid

import (
	"context"
	"iter"

	"github.com/zeddo123/mlsolid-go/pkg/api"
)

// RemoteClient is the RPC boundary to the mlsolid server. The SDK drives
// it and classifies its failures; building the stub itself (channel
// setup, TLS, credentials) is the host application's concern.
//
// Implementations report failures as gRPC status errors; any other error
// is classified as an internal error. Streaming methods consume or
// produce frames lazily, one at a time, in order: AddArtifact is one
// streaming call per artifact, and a mid-stream failure fails the whole
// artifact.
type RemoteClient interface {
	// CreateRun registers a run under an experiment. Fails with an
	// already-exists status if the run id is taken.
	CreateRun(ctx context.Context, runID string, experimentID string) error

	// AddMetrics appends finalized metrics to a run in one call.
	AddMetrics(ctx context.Context, runID string, metrics []api.Metric) error

	// AddArtifact streams one artifact's frame sequence to the server.
	AddArtifact(ctx context.Context, frames iter.Seq[api.Frame]) error

	// Artifact opens a server-streamed download of a run's artifact.
	Artifact(ctx context.Context, runID string, name string) (api.FrameStream, error)

	// CreateModelRegistry creates a named model registry; created
	// reports whether the registry was actually created.
	CreateModelRegistry(ctx context.Context, name string) (created bool, err error)

	// AddModelEntry registers an uploaded artifact in a registry under
	// the given tags.
	AddModelEntry(ctx context.Context, registryName string, artifactID string, runID string, tags []string) (added bool, err error)

	// StreamTaggedModel opens a server-streamed download of the model
	// carrying tag in a registry; same framing as Artifact.
	StreamTaggedModel(ctx context.Context, registryName string, tag string) (api.FrameStream, error)

	// Experiments lists all experiment ids.
	Experiments(ctx context.Context) ([]string, error)

	// Experiment lists the run ids of one experiment.
	Experiment(ctx context.Context, experimentID string) ([]string, error)

	// Run fetches a run with its stored metrics.
	Run(ctx context.Context, runID string) (api.Run, error)
}
