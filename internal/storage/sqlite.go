// Package storage provides SQLite-based persistence for run ledgers
// and simulation reports. Uses the pure-Go modernc.org/sqlite driver
// to avoid CGO dependencies.
//
// The ledger JSON blob is the sole durable representation of a run;
// the summary columns are a query cache, always rebuildable from the
// blob and checked against it by VerifyRun.
package storage

import (
	"bytes"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/frogmud/neverdieguy-core/internal/balance"
	"github.com/frogmud/neverdieguy-core/internal/pool"
	"github.com/frogmud/neverdieguy-core/internal/run"
	"github.com/frogmud/neverdieguy-core/internal/sim"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunRecord is one persisted run: the ledger blob plus cached summary
// columns for listing without replaying.
type RunRecord struct {
	ID             int64
	Seed           string
	Traveler       string
	Won            bool
	DomainsCleared int
	RoomsCleared   int
	Gold           int
	Heat           int
	Items          int
	Events         int
	Ledger         []byte
	CreatedAt      time.Time
}

// ReportRecord is one persisted simulation report.
type ReportRecord struct {
	ID        int64
	Seed      string
	Policy    string
	Preset    string
	Runs      int
	WinRate   float64
	Fitness   float64
	Report    []byte
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed TEXT NOT NULL,
			traveler TEXT NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			domains_cleared INTEGER NOT NULL DEFAULT 0,
			rooms_cleared INTEGER NOT NULL DEFAULT 0,
			gold INTEGER NOT NULL DEFAULT 0,
			heat INTEGER NOT NULL DEFAULT 0,
			items INTEGER NOT NULL DEFAULT 0,
			events INTEGER NOT NULL DEFAULT 0,
			ledger BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
		CREATE INDEX IF NOT EXISTS idx_runs_recent ON runs(created_at DESC);

		CREATE TABLE IF NOT EXISTS sim_reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed TEXT NOT NULL,
			policy TEXT NOT NULL,
			preset TEXT NOT NULL DEFAULT '',
			runs INTEGER NOT NULL,
			win_rate REAL NOT NULL DEFAULT 0,
			fitness REAL NOT NULL DEFAULT 0,
			report BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sim_reports_recent ON sim_reports(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun persists a thread's ledger with its summary columns.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(th *run.Thread) (int64, error) {
	blob, err := run.MarshalLedger(th.Events())
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode ledger: %w", err)
	}
	snap := th.Snapshot()

	result, err := s.db.Exec(
		`INSERT INTO runs
		 (seed, traveler, won, domains_cleared, rooms_cleared, gold, heat, items, events, ledger)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.Seed,
		snap.Traveler,
		boolToInt(snap.Won),
		snap.DomainsCleared,
		snap.RoomsCleared,
		snap.Gold,
		snap.Heat,
		snap.Items,
		snap.LedgerLen,
		blob,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const runColumns = `id, seed, traveler, won, domains_cleared, rooms_cleared,
	gold, heat, items, events, ledger, created_at`

func scanRun(row interface{ Scan(...any) error }) (RunRecord, error) {
	var rec RunRecord
	var won int
	var createdAt any
	if err := row.Scan(
		&rec.ID, &rec.Seed, &rec.Traveler, &won,
		&rec.DomainsCleared, &rec.RoomsCleared,
		&rec.Gold, &rec.Heat, &rec.Items, &rec.Events,
		&rec.Ledger, &createdAt,
	); err != nil {
		return RunRecord{}, err
	}
	rec.Won = won != 0
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// RunByID retrieves a single run. Returns nil when the ID is unknown.
func (s *Store) RunByID(id int64) (*RunRecord, error) {
	rec, err := scanRun(s.db.QueryRow(
		`SELECT `+runColumns+` FROM runs WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &rec, nil
}

// RecentRuns retrieves the most recently saved runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan run row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// RunsBySeed retrieves all runs recorded under one seed, newest first.
func (s *Store) RunsBySeed(seed string) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT `+runColumns+` FROM runs WHERE seed = ? ORDER BY id DESC`, seed,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan run row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// LoadThread rebuilds a live thread from a stored run by replaying its
// ledger. The replay is verified against its own fold before the
// thread is handed out.
func (s *Store) LoadThread(id int64, cfg *balance.Config, gen *pool.Generator) (*run.Thread, error) {
	rec, err := s.RunByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("storage: no run with id %d", id)
	}
	events, err := run.UnmarshalLedger(rec.Ledger)
	if err != nil {
		return nil, err
	}
	th, err := run.Restore(events, cfg, gen)
	if err != nil {
		return nil, err
	}
	if err := th.Verify(); err != nil {
		return nil, err
	}
	return th, nil
}

// VerifyRun replays a record's ledger and checks both the internal
// fold agreement and the cached summary columns. A mismatch means the
// cache is stale or the blob was tampered with; the ledger itself
// remains the source of truth.
func VerifyRun(rec RunRecord, cfg *balance.Config, gen *pool.Generator) error {
	events, err := run.UnmarshalLedger(rec.Ledger)
	if err != nil {
		return err
	}
	th, err := run.Restore(events, cfg, gen)
	if err != nil {
		return err
	}
	if err := th.Verify(); err != nil {
		return err
	}

	snap := th.Snapshot()
	mismatch := func(field string, cached, replayed any) error {
		return fmt.Errorf("storage: run %d: cached %s = %v, ledger replays to %v",
			rec.ID, field, cached, replayed)
	}
	switch {
	case rec.Seed != snap.Seed:
		return mismatch("seed", rec.Seed, snap.Seed)
	case rec.Won != snap.Won:
		return mismatch("won", rec.Won, snap.Won)
	case rec.DomainsCleared != snap.DomainsCleared:
		return mismatch("domains_cleared", rec.DomainsCleared, snap.DomainsCleared)
	case rec.RoomsCleared != snap.RoomsCleared:
		return mismatch("rooms_cleared", rec.RoomsCleared, snap.RoomsCleared)
	case rec.Gold != snap.Gold:
		return mismatch("gold", rec.Gold, snap.Gold)
	case rec.Heat != snap.Heat:
		return mismatch("heat", rec.Heat, snap.Heat)
	case rec.Items != snap.Items:
		return mismatch("items", rec.Items, snap.Items)
	case rec.Events != snap.LedgerLen:
		return mismatch("events", rec.Events, snap.LedgerLen)
	}
	return nil
}

// ClearRuns deletes all stored runs.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// SaveReport persists a simulation report.
// Returns the ID of the inserted record.
func (s *Store) SaveReport(rep *sim.Report) (int64, error) {
	var buf bytes.Buffer
	if err := rep.Encode(&buf); err != nil {
		return 0, fmt.Errorf("storage: cannot encode report: %w", err)
	}
	result, err := s.db.Exec(
		`INSERT INTO sim_reports (seed, policy, preset, runs, win_rate, fitness, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rep.Seed, rep.Policy, rep.Preset, rep.Runs,
		rep.Metrics.WinRate, rep.Fitness, buf.Bytes(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentReports retrieves the most recent simulation reports.
func (s *Store) RecentReports(limit int) ([]ReportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, seed, policy, preset, runs, win_rate, fitness, report, created_at
		 FROM sim_reports
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query reports: %w", err)
	}
	defer rows.Close()

	var records []ReportRecord
	for rows.Next() {
		var rec ReportRecord
		var createdAt any
		if err := rows.Scan(
			&rec.ID, &rec.Seed, &rec.Policy, &rec.Preset, &rec.Runs,
			&rec.WinRate, &rec.Fitness, &rec.Report, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan report row: %w", err)
		}
		rec.CreatedAt = parseTime(createdAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// RunStats contains aggregated statistics across stored runs.
type RunStats struct {
	Runs       int
	Wins       int
	AvgDomains float64
	BestGold   int
	LastPlayed time.Time
}

// Stats retrieves aggregate run statistics.
func (s *Store) Stats() (*RunStats, error) {
	stats := &RunStats{}
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(won), 0), COALESCE(AVG(domains_cleared), 0), COALESCE(MAX(gold), 0)
		 FROM runs`,
	).Scan(&stats.Runs, &stats.Wins, &stats.AvgDomains, &stats.BestGold)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs ORDER BY id DESC LIMIT 1`,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}
	return stats, nil
}

// parseTime handles the driver returning DATETIME columns as either
// time.Time or string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
