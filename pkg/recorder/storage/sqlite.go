package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"scenario-hq/criterion/pkg/recorder"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/criterion.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements recorder.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage creates a SQLite storage backend. It initializes
// the database schema and enables WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "recorder.storage.sqlite")

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, recorder.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return recorder.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return recorder.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return recorder.NewStorageError("sqlite", "enable_foreign_keys", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return recorder.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return recorder.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return recorder.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return recorder.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// BeginRun persists a new run in the running state.
func (s *SQLiteStorage) BeginRun(ctx context.Context, run *recorder.Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, scenario, started_at, verdict, ticks) VALUES (?, ?, ?, ?, 0)`,
		run.ID, run.Scenario, run.StartedAt, run.Verdict,
	)
	if err != nil {
		return recorder.NewStorageError("sqlite", "begin_run", err)
	}
	return nil
}

// RecordTick appends a tick record to its run.
func (s *SQLiteStorage) RecordTick(ctx context.Context, record *recorder.TickRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ticks (run_id, tick, verdict, success_report, failure_report, duration_us, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.RunID, record.Tick, record.Verdict,
		record.SuccessReport, record.FailureReport,
		record.Duration.Microseconds(), record.RecordedAt,
	)
	if err != nil {
		return recorder.NewStorageError("sqlite", "record_tick", err)
	}
	return nil
}

// FinishRun marks a run finished.
func (s *SQLiteStorage) FinishRun(ctx context.Context, runID, verdict string, ticks int, finishedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET verdict = ?, ticks = ?, finished_at = ? WHERE id = ?`,
		verdict, ticks, finishedAt, runID,
	)
	if err != nil {
		return recorder.NewStorageError("sqlite", "finish_run", err)
	}
	return nil
}

// Run retrieves a single run by ID.
func (s *SQLiteStorage) Run(ctx context.Context, runID string) (*recorder.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, scenario, started_at, finished_at, verdict, ticks FROM runs WHERE id = ?`,
		runID,
	)
	run, err := scanRun(row)
	if err != nil {
		return nil, recorder.NewStorageError("sqlite", "run", err)
	}
	return run, nil
}

// Runs retrieves the most recent runs, newest first.
func (s *SQLiteStorage) Runs(ctx context.Context, limit int) ([]*recorder.Run, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scenario, started_at, finished_at, verdict, ticks
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, recorder.NewStorageError("sqlite", "runs", err)
	}
	defer rows.Close()

	runs := []*recorder.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, recorder.NewStorageError("sqlite", "scan", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, recorder.NewStorageError("sqlite", "runs", err)
	}
	return runs, nil
}

// Ticks retrieves all tick records of a run in tick order.
func (s *SQLiteStorage) Ticks(ctx context.Context, runID string) ([]*recorder.TickRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, tick, verdict, success_report, failure_report, duration_us, recorded_at
		 FROM ticks WHERE run_id = ? ORDER BY tick`,
		runID,
	)
	if err != nil {
		return nil, recorder.NewStorageError("sqlite", "ticks", err)
	}
	defer rows.Close()

	records := []*recorder.TickRecord{}
	for rows.Next() {
		var record recorder.TickRecord
		var durationUs int64
		err := rows.Scan(
			&record.RunID, &record.Tick, &record.Verdict,
			&record.SuccessReport, &record.FailureReport,
			&durationUs, &record.RecordedAt,
		)
		if err != nil {
			return nil, recorder.NewStorageError("sqlite", "scan", err)
		}
		record.Duration = time.Duration(durationUs) * time.Microsecond
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, recorder.NewStorageError("sqlite", "ticks", err)
	}
	return records, nil
}

// CountRuns returns the total number of stored runs.
func (s *SQLiteStorage) CountRuns(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		return 0, recorder.NewStorageError("sqlite", "count_runs", err)
	}
	return count, nil
}

// DeleteRunsBefore deletes runs that started before the cutoff.
func (s *SQLiteStorage) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE started_at < ?`, cutoff,
	)
	if err != nil {
		return 0, recorder.NewStorageError("sqlite", "delete_runs_before", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, recorder.NewStorageError("sqlite", "delete_runs_before", err)
	}
	return count, nil
}

// DeleteRunsBeyond deletes the oldest runs so at most max remain.
func (s *SQLiteStorage) DeleteRunsBeyond(ctx context.Context, max int64) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (
		     SELECT id FROM runs ORDER BY started_at DESC LIMIT ?
		 )`,
		max,
	)
	if err != nil {
		return 0, recorder.NewStorageError("sqlite", "delete_runs_beyond", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, recorder.NewStorageError("sqlite", "delete_runs_beyond", err)
	}
	return count, nil
}

// Close releases the database connection.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return recorder.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite storage closed")
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanRun.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*recorder.Run, error) {
	var run recorder.Run
	var finishedAt sql.NullTime
	err := row.Scan(&run.ID, &run.Scenario, &run.StartedAt, &finishedAt, &run.Verdict, &run.Ticks)
	if err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	return &run, nil
}
