package scenario

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS scenarios (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL UNIQUE,
	windows         TEXT NOT NULL,
	baseline        TEXT NOT NULL,
	risks           TEXT NOT NULL,
	budget_pct_used REAL NOT NULL DEFAULT 0,
	monthly_cost    REAL NOT NULL DEFAULT 0,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_scenarios_name ON scenarios(name);
CREATE INDEX IF NOT EXISTS idx_scenarios_updated_at ON scenarios(updated_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, sc *Scenario) error {
	if err := sc.Validate(); err != nil {
		return err
	}

	windowsJSON, baselineJSON, risksJSON, err := marshalBlobs(sc)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = now
	}
	sc.UpdatedAt = now

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scenarios (id, name, windows, baseline, risks, budget_pct_used, monthly_cost, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, windows = excluded.windows, baseline = excluded.baseline,
		   risks = excluded.risks, budget_pct_used = excluded.budget_pct_used,
		   monthly_cost = excluded.monthly_cost, updated_at = excluded.updated_at`,
		sc.ID, sc.Name, string(windowsJSON), string(baselineJSON), string(risksJSON),
		sc.BudgetPctUsed, sc.MonthlyCost, sc.CreatedAt, sc.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: save scenario %q", sc.Name)
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Scenario, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, windows, baseline, risks, budget_pct_used, monthly_cost, created_at, updated_at
		 FROM scenarios WHERE id = ?`,
		id,
	)
	return scanScenario(row)
}

func (s *SQLiteStore) GetByName(ctx context.Context, name string) (*Scenario, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, windows, baseline, risks, budget_pct_used, monthly_cost, created_at, updated_at
		 FROM scenarios WHERE name = ?`,
		name,
	)
	return scanScenario(row)
}

func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]Scenario, error) {
	query := `SELECT id, name, windows, baseline, risks, budget_pct_used, monthly_cost, created_at, updated_at
	          FROM scenarios WHERE 1=1`
	var args []any

	if filter.Name != "" {
		query += ` AND name LIKE ?`
		args = append(args, "%"+filter.Name+"%")
	}
	query += ` ORDER BY updated_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list scenarios")
	}
	defer rows.Close()

	var scenarios []Scenario
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, *sc)
	}
	return scenarios, eris.Wrap(rows.Err(), "sqlite: list scenarios iterate")
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete scenario %s", id)
	}
	return checkRowsAffected(res, id)
}

// helpers

func marshalBlobs(sc *Scenario) (windows, baseline, risks []byte, err error) {
	if windows, err = json.Marshal(sc.Windows); err != nil {
		return nil, nil, nil, eris.Wrap(err, "scenario: marshal windows")
	}
	if baseline, err = json.Marshal(sc.Baseline); err != nil {
		return nil, nil, nil, eris.Wrap(err, "scenario: marshal baseline")
	}
	if risks, err = json.Marshal(sc.Risks); err != nil {
		return nil, nil, nil, eris.Wrap(err, "scenario: marshal risks")
	}
	return windows, baseline, risks, nil
}

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s", id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanScenario(row scannable) (*Scenario, error) {
	var sc Scenario
	var windowsJSON, baselineJSON, risksJSON string

	err := row.Scan(&sc.ID, &sc.Name, &windowsJSON, &baselineJSON, &risksJSON,
		&sc.BudgetPctUsed, &sc.MonthlyCost, &sc.CreatedAt, &sc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan scenario")
	}

	if err := json.Unmarshal([]byte(windowsJSON), &sc.Windows); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal windows")
	}
	if err := json.Unmarshal([]byte(baselineJSON), &sc.Baseline); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal baseline")
	}
	if err := json.Unmarshal([]byte(risksJSON), &sc.Risks); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal risks")
	}
	return &sc, nil
}
