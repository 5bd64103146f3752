package database

import (
	"sort"
	"strings"
	"testing"
)

func TestMigrationNamesSortedAndComplete(t *testing.T) {
	names, err := migrationNames()
	if err != nil {
		t.Fatalf("migrationNames returned error: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("expected at least one embedded migration")
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("migrations not in apply order: %v", names)
	}
	if names[0] != "001_init.sql" {
		t.Errorf("expected 001_init.sql first, got %v", names)
	}
}

func TestEmbeddedSchemaDefinesCoreTables(t *testing.T) {
	content, err := migrationsFS.ReadFile("migrations/001_init.sql")
	if err != nil {
		t.Fatalf("failed to read embedded migration: %v", err)
	}

	schema := string(content)
	for _, table := range []string{"users", "menu_items", "menu_options", "orders"} {
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Errorf("schema missing table %s", table)
		}
	}
}
