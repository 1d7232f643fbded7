package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/wproctor/flightsign/pkg/budget"
	"github.com/wproctor/flightsign/pkg/config"
)

//go:embed schema.sql
var schemaSQL embed.FS

// PostgresStore keeps usage in a provider_usage table, one row per
// provider tier. Several signs sharing one API account can point at the
// same database so their combined spend stays under the quota.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to PostgreSQL and ensures the schema exists.
func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	schemaBytes, err := schemaSQL.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Load implements budget.Store.
func (s *PostgresStore) Load() (budget.Usage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT provider, tier, call_count, window_start
		 FROM provider_usage
		 ORDER BY provider, tier`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	defer rows.Close()

	usage := budget.Usage{}
	for rows.Next() {
		var provider string
		var tier, count int
		var windowStart time.Time
		if err := rows.Scan(&provider, &tier, &count, &windowStart); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		// Rows arrive tier-ordered, so append keeps tier indices aligned.
		usage[provider] = append(usage[provider], budget.TierUsage{
			Count:       count,
			WindowStart: windowStart,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read usage rows: %w", err)
	}
	return usage, nil
}

// Save implements budget.Store. Each tier row is upserted; rows for
// providers that no longer exist are left behind harmlessly (Restore
// ignores them).
func (s *PostgresStore) Save(usage budget.Usage) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for provider, tiers := range usage {
		for i, tier := range tiers {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO provider_usage (provider, tier, call_count, window_start, updated_at)
				 VALUES ($1, $2, $3, $4, NOW())
				 ON CONFLICT (provider, tier) DO UPDATE SET
				   call_count = EXCLUDED.call_count,
				   window_start = EXCLUDED.window_start,
				   updated_at = NOW()`,
				provider, i, tier.Count, tier.WindowStart,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert usage for %s tier %d: %w", provider, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit usage: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
