package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	if len(ups) == 0 {
		t.Fatal("expected at least one migration")
	}
	for version := range ups {
		if !downs[version] {
			t.Errorf("migration %s has no down file", version)
		}
	}
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("iofs.New: %v", err)
	}
	defer source.Close()

	version, err := source.First()
	if err != nil {
		t.Fatalf("first migration: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected first version 1, got %d", version)
	}
}

func TestRunMigrationsInvalidURL(t *testing.T) {
	if err := RunMigrations("not-a-url://"); err == nil {
		t.Fatal("expected error for unsupported database URL")
	}
}

func TestTransactionsDoNotReferenceRecurringDefinitions(t *testing.T) {
	body, err := fs.ReadFile(migrationsFS, "migrations/000001_init.up.sql")
	if err != nil {
		t.Fatalf("read init migration: %v", err)
	}

	sql := string(body)
	start := strings.Index(sql, "CREATE TABLE IF NOT EXISTS transactions")
	if start < 0 {
		t.Fatal("transactions table not found")
	}
	table := sql[start:]
	table = table[:strings.Index(table, ");")]

	// Any foreign key action on recurring_id would rewrite ledger rows when a
	// definition is deleted.
	if strings.Contains(table, "recurring_transfers") {
		t.Errorf("transactions.recurring_id must not reference recurring_transfers:\n%s", table)
	}
}
