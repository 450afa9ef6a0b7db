package cache

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/datar-psa/lazarsfeld/api"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore keeps entries in the token_cache table.
type PostgresStore struct {
	db *sqlx.DB
}

// OpenPostgres connects to dsn (postgres:// URL) and applies the embedded migrations.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if err := Migrate(dsn); err != nil {
		return nil, err
	}
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect token cache: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStore uses an existing connection whose schema is already migrated.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate applies all up migrations embedded in this package.
func Migrate(dsn string) error {
	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("iofs: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, migrationURL(dsn))
	if err != nil {
		return fmt.Errorf("migrate new: %w", err)
	}
	defer m.Close() //nolint:errcheck

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// migrationURL switches a postgres URL to the scheme of the pgx v5 migrate driver.
func migrationURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, scheme) {
			return "pgx5://" + strings.TrimPrefix(dsn, scheme)
		}
	}
	return dsn
}

// Get implements Store
func (p *PostgresStore) Get(ctx context.Context, key string) ([]api.TokenLogprob, bool, error) {
	var raw []byte
	err := p.db.GetContext(ctx, &raw, `SELECT candidates FROM token_cache WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select token_cache: %w", err)
	}

	var candidates []api.TokenLogprob
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil, false, fmt.Errorf("decode cached candidates: %w", err)
	}
	return candidates, true, nil
}

// Put implements Store
func (p *PostgresStore) Put(ctx context.Context, key, model string, candidates []api.TokenLogprob) error {
	if candidates == nil {
		candidates = []api.TokenLogprob{}
	}
	b, err := json.Marshal(candidates)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO token_cache (key, model, candidates) VALUES ($1, $2, $3::jsonb) ON CONFLICT (key) DO NOTHING`,
		key, model, string(b))
	if err != nil {
		return fmt.Errorf("insert token_cache: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}

var _ Store = (*PostgresStore)(nil)
