package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists sweep history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sweep_runs (
			run_id      TEXT PRIMARY KEY,
			symbol      TEXT NOT NULL,
			start_date  TEXT,
			end_date    TEXT,
			points      INTEGER,
			cells       INTEGER,
			status      TEXT,
			error       TEXT,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON sweep_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS denoise_results (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			timestamp    INTEGER NOT NULL,
			wavelet      TEXT NOT NULL,
			scale        REAL NOT NULL,
			level        INTEGER,
			threshold    REAL,
			original_std REAL,
			denoised_std REAL,
			rmse         REAL,
			plot_path    TEXT,
			export_path  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON denoise_results(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts or replaces the run row, so a run can be written when it
// starts and again when it finishes.
func (r *SQLiteRecorder) RecordRun(evt *RunEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var finished interface{}
	if !evt.FinishedAt.IsZero() {
		finished = evt.FinishedAt.Unix()
	}
	_, err := r.db.Exec(`INSERT OR REPLACE INTO sweep_runs
		(run_id, symbol, start_date, end_date, points, cells, status, error, started_at, finished_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		evt.RunID, evt.Symbol, evt.Start.Format("2006-01-02"), evt.End.Format("2006-01-02"),
		evt.Points, evt.Cells, evt.Status, evt.Error, evt.StartedAt.Unix(), finished,
	)
	return err
}

func (r *SQLiteRecorder) RecordResult(evt *ResultEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO denoise_results
		(run_id, timestamp, wavelet, scale, level, threshold, original_std, denoised_std, rmse, plot_path, export_path)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		evt.RunID, time.Now().Unix(), evt.Wavelet, evt.Scale, evt.Level, evt.Threshold,
		evt.OriginalStd, evt.DenoisedStd, evt.RMSE, evt.PlotPath, evt.ExportPath,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
