package database

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"
)

// The schema ships inside the binary, so a deployment is just the binary
// plus config.yaml; there is no migrations directory to keep in sync.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

const createMigrationsTableSQL = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		id SERIAL PRIMARY KEY,
		migration_name VARCHAR(255) NOT NULL UNIQUE,
		applied_at TIMESTAMPTZ DEFAULT NOW()
	)`

// RunMigrations applies the embedded schema migrations in filename order.
// Each migration and its schema_migrations bookkeeping row commit in one
// transaction, so a failed apply leaves no record behind.
func (db *DB) RunMigrations(ctx context.Context) error {
	if err := db.Exec(ctx, createMigrationsTableSQL); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	names, err := migrationNames()
	if err != nil {
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	applied, err := db.appliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, name := range names {
		if applied[name] {
			continue
		}

		if err := db.applyMigration(ctx, name); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}

		db.logger.Info("migration_applied", fmt.Sprintf("Applied migration %s", name), "startup", map[string]interface{}{
			"migration": name,
		})
	}

	return nil
}

// migrationNames lists the embedded .sql files in apply order
func migrationNames() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}

// appliedMigrations returns the set of migrations already recorded
func (db *DB) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := db.Query(ctx, "SELECT migration_name FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}

	return applied, rows.Err()
}

// applyMigration executes one migration and records it in the same transaction
func (db *DB) applyMigration(ctx context.Context, name string) error {
	content, err := migrationsFS.ReadFile("migrations/" + name)
	if err != nil {
		return fmt.Errorf("failed to read migration: %w", err)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}

	if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (migration_name) VALUES ($1)", name); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit(ctx)
}
