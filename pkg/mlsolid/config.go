package mlsolid

import (
	"log/slog"

	"github.com/zeddo123/mlsolid-go/internal/config"
	"github.com/zeddo123/mlsolid-go/internal/journal"
)

// Config is the SDK configuration loaded from mlsolid.yaml. Address names
// the server the host application dials its RemoteClient against; the
// rest tunes the client built by NewClientFromConfig.
type Config = config.ClientConfig

// LoadConfig loads mlsolid.yaml via the config loader (file first, then
// mapped environment variables), applies defaults and validates.
func LoadConfig(logger *slog.Logger) (*Config, error) {
	return config.LoadClientConfig(logger)
}

// NewClientFromConfig builds a client over remote applying conf: chunk
// size, workdir, timeout, and the commit journal when one is configured.
// The caller owns closing the client.
func NewClientFromConfig(remote RemoteClient, conf *Config, logger *slog.Logger) (*Client, error) {
	client := NewClient(remote).
		WithLogger(logger).
		WithChunkSize(conf.ChunkSize).
		WithWorkDir(conf.WorkDir).
		WithTimeout(conf.Timeout)

	if conf.Journal != nil {
		j, err := journal.NewJournal(conf.Journal, logger)
		if err != nil {
			return nil, err
		}
		client = client.withJournal(j)
	}
	return client, nil
}
