package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool the store needs. pgxmock pools satisfy
// it too, which is what the tests use.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_scenario":         `SELECT id, name, windows, baseline, risks, budget_pct_used, monthly_cost, created_at, updated_at FROM scenarios WHERE id = $1`,
	"get_scenario_by_name": `SELECT id, name, windows, baseline, risks, budget_pct_used, monthly_cost, created_at, updated_at FROM scenarios WHERE name = $1`,
	"delete_scenario":      `DELETE FROM scenarios WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool, mainly for tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS scenarios (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name            TEXT NOT NULL UNIQUE,
	windows         JSONB NOT NULL,
	baseline        JSONB NOT NULL,
	risks           JSONB NOT NULL,
	budget_pct_used DOUBLE PRECISION NOT NULL DEFAULT 0,
	monthly_cost    DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_scenarios_name ON scenarios(name);
CREATE INDEX IF NOT EXISTS idx_scenarios_updated_at ON scenarios(updated_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, sc *Scenario) error {
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

	_, err = s.pool.Exec(ctx,
		`INSERT INTO scenarios (id, name, windows, baseline, risks, budget_pct_used, monthly_cost, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   name = $2, windows = $3, baseline = $4, risks = $5,
		   budget_pct_used = $6, monthly_cost = $7, updated_at = $9`,
		sc.ID, sc.Name, windowsJSON, baselineJSON, risksJSON,
		sc.BudgetPctUsed, sc.MonthlyCost, sc.CreatedAt, sc.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: save scenario %q", sc.Name)
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Scenario, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, windows, baseline, risks, budget_pct_used, monthly_cost, created_at, updated_at
		 FROM scenarios WHERE id = $1`,
		id,
	)
	return scanPgScenario(row)
}

func (s *PostgresStore) GetByName(ctx context.Context, name string) (*Scenario, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, windows, baseline, risks, budget_pct_used, monthly_cost, created_at, updated_at
		 FROM scenarios WHERE name = $1`,
		name,
	)
	return scanPgScenario(row)
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]Scenario, error) {
	query := `SELECT id, name, windows, baseline, risks, budget_pct_used, monthly_cost, created_at, updated_at
	          FROM scenarios WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Name != "" {
		query += fmt.Sprintf(` AND name ILIKE $%d`, argIdx)
		args = append(args, "%"+filter.Name+"%")
		argIdx++
	}
	query += ` ORDER BY updated_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list scenarios")
	}
	defer rows.Close()

	var scenarios []Scenario
	for rows.Next() {
		sc, err := scanPgScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, *sc)
	}
	return scenarios, eris.Wrap(rows.Err(), "postgres: list scenarios iterate")
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete scenario %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "%s", id)
	}
	return nil
}

func scanPgScenario(row pgx.Row) (*Scenario, error) {
	var sc Scenario
	var windowsJSON, baselineJSON, risksJSON []byte

	err := row.Scan(&sc.ID, &sc.Name, &windowsJSON, &baselineJSON, &risksJSON,
		&sc.BudgetPctUsed, &sc.MonthlyCost, &sc.CreatedAt, &sc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan scenario")
	}

	if err := json.Unmarshal(windowsJSON, &sc.Windows); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal windows")
	}
	if err := json.Unmarshal(baselineJSON, &sc.Baseline); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal baseline")
	}
	if err := json.Unmarshal(risksJSON, &sc.Risks); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal risks")
	}
	return &sc, nil
}
