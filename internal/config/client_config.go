package config

import "time"

// ClientConfig is everything the SDK reads from mlsolid.yaml. Only
// Address is required; the remaining fields have working defaults.
type ClientConfig struct {
	// Address of the mlsolid server, host:port. The transport that
	// dials it is constructed by the host application.
	Address string `mapstructure:"address" validate:"required"`

	// ChunkSize is the artifact content chunk size in bytes.
	ChunkSize int `mapstructure:"chunk_size,omitempty" validate:"omitempty,gt=0"`

	// WorkDir is the base directory for downloaded artifacts
	// (<workdir>/artifacts) and tagged models (<workdir>/models).
	WorkDir string `mapstructure:"workdir,omitempty"`

	// Timeout applied per SDK operation, zero means none. The core
	// enforces no timeout of its own; this only bounds the context
	// handed to the remote.
	Timeout time.Duration `mapstructure:"timeout,omitempty"`

	// Journal configures the optional local commit journal. Nil
	// disables it. The map is driver specific and decoded by the
	// journal package (driver, url, ...).
	Journal map[string]any `mapstructure:"journal,omitempty"`
}

const (
	DefaultWorkDir = "mlsolid"
)
