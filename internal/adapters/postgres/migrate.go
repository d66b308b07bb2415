package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migration is one embedded schema file.
type Migration struct {
	Name    string
	Applied bool
}

// Migrations lists embedded migrations and whether each has been applied.
func (db *DB) Migrations(ctx context.Context) ([]Migration, error) {
	if err := db.ensureMigrationTable(ctx); err != nil {
		return nil, err
	}
	names, err := migrationNames()
	if err != nil {
		return nil, err
	}

	applied := map[string]bool{}
	rows, err := db.Pool.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		applied[n] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Migration, len(names))
	for i, n := range names {
		out[i] = Migration{Name: n, Applied: applied[n]}
	}
	return out, nil
}

// Migrate applies pending migrations in name order, each in its own
// transaction. It returns the names it applied.
func (db *DB) Migrate(ctx context.Context) ([]string, error) {
	ms, err := db.Migrations(ctx)
	if err != nil {
		return nil, err
	}

	var done []string
	for _, m := range ms {
		if m.Applied {
			continue
		}
		sql, err := migrationFS.ReadFile("migrations/" + m.Name)
		if err != nil {
			return done, fmt.Errorf("read %s: %w", m.Name, err)
		}

		tx, err := db.Pool.Begin(ctx)
		if err != nil {
			return done, fmt.Errorf("begin %s: %w", m.Name, err)
		}
		if _, err := tx.Exec(ctx, string(sql)); err != nil {
			_ = tx.Rollback(ctx)
			return done, fmt.Errorf("exec %s: %w", m.Name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.Name); err != nil {
			_ = tx.Rollback(ctx)
			return done, fmt.Errorf("record %s: %w", m.Name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return done, fmt.Errorf("commit %s: %w", m.Name, err)
		}
		done = append(done, m.Name)
	}
	return done, nil
}

func (db *DB) ensureMigrationTable(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func migrationNames() ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
