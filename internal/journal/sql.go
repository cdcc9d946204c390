package journal

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"

	// import the postgres driver - "pgx"
	_ "github.com/jackc/pgx/v5/stdlib"

	// import the sqlite driver - "sqlite"
	_ "modernc.org/sqlite"
)

// SQLConfig is the journal sub-config from mlsolid.yaml, decoded from the
// raw map the config loader passes through.
type SQLConfig struct {
	Driver          string         `mapstructure:"driver"`
	URL             string         `mapstructure:"url"`
	ConnMaxLifetime *time.Duration `mapstructure:"conn_max_lifetime,omitempty"`
	MaxIdleConns    *int           `mapstructure:"max_idle_conns,omitempty"`
	MaxOpenConns    *int           `mapstructure:"max_open_conns,omitempty"`
}

type SQLJournal struct {
	config     *SQLConfig
	statements statements
	pool       *sql.DB
	logger     *slog.Logger
}

// NewJournal opens a journal from the raw config map. The map must carry
// at least driver ("sqlite" or "pgx") and url. The schema is applied on
// open and is idempotent.
func NewJournal(config map[string]any, logger *slog.Logger) (Journal, error) {
	var sqlConfig SQLConfig
	if err := mapstructure.Decode(config, &sqlConfig); err != nil {
		return nil, err
	}

	stmts, err := statementsForDriver(sqlConfig.Driver)
	if err != nil {
		return nil, err
	}

	logger.Info("Opening commit journal", "driver", sqlConfig.Driver, "url", sqlConfig.URL)

	pool, err := sql.Open(sqlConfig.Driver, sqlConfig.URL)
	if err != nil {
		return nil, journalError("open", err)
	}

	if sqlConfig.ConnMaxLifetime != nil {
		pool.SetConnMaxLifetime(*sqlConfig.ConnMaxLifetime)
	}
	if sqlConfig.MaxIdleConns != nil {
		pool.SetMaxIdleConns(*sqlConfig.MaxIdleConns)
	}
	if sqlConfig.MaxOpenConns != nil {
		pool.SetMaxOpenConns(*sqlConfig.MaxOpenConns)
	}

	if _, err := pool.Exec(JOURNAL_SCHEMA); err != nil {
		_ = pool.Close()
		return nil, journalError("apply schema", err)
	}

	return &SQLJournal{
		config:     &sqlConfig,
		statements: stmts,
		pool:       pool,
		logger:     logger,
	}, nil
}

func (j *SQLJournal) WithLogger(logger *slog.Logger) Journal {
	return &SQLJournal{
		config:     j.config,
		statements: j.statements,
		pool:       j.pool,
		logger:     logger,
	}
}

func (j *SQLJournal) RecordCommit(commit CommitRecord) error {
	if commit.ID == "" {
		commit.ID = uuid.New().String()
	}
	if commit.CommittedAt.IsZero() {
		commit.CommittedAt = time.Now().UTC()
	}

	_, err := j.pool.Exec(j.statements.insertCommit,
		commit.ID, commit.RunID, commit.ExperimentID,
		commit.MetricCount, commit.ArtifactCount, commit.CommittedAt)
	if err != nil {
		return journalError("record commit", err)
	}

	j.logger.Info("Commit journaled", "run_id", commit.RunID, "experiment_id", commit.ExperimentID,
		"metrics", commit.MetricCount, "artifacts", commit.ArtifactCount)
	return nil
}

func (j *SQLJournal) RecordTransfer(transfer TransferRecord) error {
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	if transfer.CreatedAt.IsZero() {
		transfer.CreatedAt = time.Now().UTC()
	}

	_, err := j.pool.Exec(j.statements.insertTransfer,
		transfer.ID, transfer.RunID, transfer.Name, transfer.Kind,
		transfer.Direction, transfer.Bytes, transfer.CreatedAt)
	if err != nil {
		return journalError("record transfer", err)
	}
	return nil
}

func (j *SQLJournal) Commits(limit int, offset int) (*QueryResults[CommitRecord], error) {
	var total int
	if err := j.pool.QueryRow(j.statements.countCommits).Scan(&total); err != nil {
		return nil, journalError("count commits", err)
	}

	rows, err := j.pool.Query(j.statements.listCommits, limit, offset)
	if err != nil {
		return nil, journalError("list commits", err)
	}
	defer rows.Close()

	results := &QueryResults[CommitRecord]{TotalStored: total}
	for rows.Next() {
		var rec CommitRecord
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.ExperimentID,
			&rec.MetricCount, &rec.ArtifactCount, &rec.CommittedAt); err != nil {
			return nil, journalError("scan commit", err)
		}
		results.Items = append(results.Items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, journalError("list commits", err)
	}
	return results, nil
}

func (j *SQLJournal) Transfers(runID string) ([]TransferRecord, error) {
	rows, err := j.pool.Query(j.statements.listTransfers, runID)
	if err != nil {
		return nil, journalError("list transfers", err)
	}
	defer rows.Close()

	var records []TransferRecord
	for rows.Next() {
		var rec TransferRecord
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Name, &rec.Kind,
			&rec.Direction, &rec.Bytes, &rec.CreatedAt); err != nil {
			return nil, journalError("scan transfer", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, journalError("list transfers", err)
	}
	return records, nil
}

func (j *SQLJournal) Close() error {
	return j.pool.Close()
}
