package api

import "time"

// Run is an experiment run as stored by the server.
type Run struct {
	ID           string    `json:"id"`
	ExperimentID string    `json:"experiment_id"`
	Timestamp    time.Time `json:"timestamp"`
	Metrics      []Metric  `json:"metrics,omitempty"`
}

// ModelEntry is one registered model inside a model registry.
type ModelEntry struct {
	URL  string   `json:"url"`
	Tags []string `json:"tags,omitempty"`
}

// ModelRegistry groups registered models under tag sets.
type ModelRegistry struct {
	ID      string              `json:"id"`
	Entries []ModelEntry        `json:"entries,omitempty"`
	Tags    map[string][]string `json:"tags,omitempty"`
}
