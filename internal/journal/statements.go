package journal

import (
	"fmt"

	"github.com/zeddo123/mlsolid-go/internal/messages"
	"github.com/zeddo123/mlsolid-go/internal/serviceerrors"
)

const (
	// These are the only drivers currently supported
	SQLITE_DRIVER   = "sqlite"
	POSTGRES_DRIVER = "pgx"
)

// The schema is kept to types that mean the same thing on both drivers.
const JOURNAL_SCHEMA = `
CREATE TABLE IF NOT EXISTS commits (
    id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,
    experiment_id TEXT NOT NULL,
    metric_count INTEGER NOT NULL,
    artifact_count INTEGER NOT NULL,
    committed_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS transfers (
    id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,
    name TEXT NOT NULL,
    kind TEXT NOT NULL,
    direction TEXT NOT NULL,
    bytes INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`

// SQLite: use ? placeholders
const SQLITE_INSERT_COMMIT = `INSERT INTO commits (id, run_id, experiment_id, metric_count, artifact_count, committed_at) VALUES (?, ?, ?, ?, ?, ?);`
const SQLITE_INSERT_TRANSFER = `INSERT INTO transfers (id, run_id, name, kind, direction, bytes, created_at) VALUES (?, ?, ?, ?, ?, ?, ?);`
const SQLITE_LIST_COMMITS = `SELECT id, run_id, experiment_id, metric_count, artifact_count, committed_at FROM commits ORDER BY committed_at DESC LIMIT ? OFFSET ?;`
const SQLITE_LIST_TRANSFERS = `SELECT id, run_id, name, kind, direction, bytes, created_at FROM transfers WHERE run_id = ? ORDER BY created_at;`
const SQLITE_COUNT_COMMITS = `SELECT COUNT(*) FROM commits;`

// PostgreSQL: use $1, $2 placeholders
const POSTGRES_INSERT_COMMIT = `INSERT INTO commits (id, run_id, experiment_id, metric_count, artifact_count, committed_at) VALUES ($1, $2, $3, $4, $5, $6);`
const POSTGRES_INSERT_TRANSFER = `INSERT INTO transfers (id, run_id, name, kind, direction, bytes, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7);`
const POSTGRES_LIST_COMMITS = `SELECT id, run_id, experiment_id, metric_count, artifact_count, committed_at FROM commits ORDER BY committed_at DESC LIMIT $1 OFFSET $2;`
const POSTGRES_LIST_TRANSFERS = `SELECT id, run_id, name, kind, direction, bytes, created_at FROM transfers WHERE run_id = $1 ORDER BY created_at;`
const POSTGRES_COUNT_COMMITS = `SELECT COUNT(*) FROM commits;`

func getUnsupportedDriverError(driver string) error {
	return serviceerrors.NewServiceError(messages.JournalDriverUnsupported, "Driver", driver)
}

type statements struct {
	insertCommit   string
	insertTransfer string
	listCommits    string
	listTransfers  string
	countCommits   string
}

func statementsForDriver(driver string) (statements, error) {
	switch driver {
	case SQLITE_DRIVER:
		return statements{
			insertCommit:   SQLITE_INSERT_COMMIT,
			insertTransfer: SQLITE_INSERT_TRANSFER,
			listCommits:    SQLITE_LIST_COMMITS,
			listTransfers:  SQLITE_LIST_TRANSFERS,
			countCommits:   SQLITE_COUNT_COMMITS,
		}, nil
	case POSTGRES_DRIVER:
		return statements{
			insertCommit:   POSTGRES_INSERT_COMMIT,
			insertTransfer: POSTGRES_INSERT_TRANSFER,
			listCommits:    POSTGRES_LIST_COMMITS,
			listTransfers:  POSTGRES_LIST_TRANSFERS,
			countCommits:   POSTGRES_COUNT_COMMITS,
		}, nil
	default:
		return statements{}, getUnsupportedDriverError(driver)
	}
}

func journalError(operation string, err error) error {
	return serviceerrors.NewServiceError(messages.JournalOperationFailed,
		"Operation", operation, "Error", fmt.Sprintf("%v", err)).WithCause(err)
}
