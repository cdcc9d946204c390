// Package telemetry exposes the SDK's transfer counters as prometheus
// collectors. Host applications that already scrape a registry can pass
// it in; everything works unregistered as well.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Collector bundles the SDK's counters. One Collector belongs to one
// client; counters are shared by all of that client's run sessions.
type Collector struct {
	CommitsTotal        prometheus.Counter
	CommitFailures      prometheus.Counter
	MetricsUploaded     prometheus.Counter
	ArtifactsUploaded   prometheus.Counter
	ArtifactsDownloaded prometheus.Counter
	BytesUploaded       prometheus.Counter
	BytesDownloaded     prometheus.Counter
}

// NewCollector builds the counter set and, when reg is non-nil, registers
// it there.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		CommitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mlsolid", Name: "commits_total",
			Help: "Run commits completed successfully.",
		}),
		CommitFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mlsolid", Name: "commit_failures_total",
			Help: "Run commits that surfaced an error.",
		}),
		MetricsUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mlsolid", Name: "metrics_uploaded_total",
			Help: "Finalized metrics sent to the server.",
		}),
		ArtifactsUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mlsolid", Name: "artifacts_uploaded_total",
			Help: "Artifacts fully streamed to the server.",
		}),
		ArtifactsDownloaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mlsolid", Name: "artifacts_downloaded_total",
			Help: "Artifacts reconstructed from the server.",
		}),
		BytesUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mlsolid", Name: "upload_bytes_total",
			Help: "Artifact content bytes sent.",
		}),
		BytesDownloaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mlsolid", Name: "download_bytes_total",
			Help: "Artifact content bytes received.",
		}),
	}
	if reg != nil {
		reg.MustRegister(c.CommitsTotal, c.CommitFailures, c.MetricsUploaded,
			c.ArtifactsUploaded, c.ArtifactsDownloaded, c.BytesUploaded, c.BytesDownloaded)
	}
	return c
}
