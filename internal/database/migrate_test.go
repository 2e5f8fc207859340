package database

import (
	"strings"
	"testing"
)

func TestMigrationsFS_ContainsInitMigration(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("failed to read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one embedded migration file")
	}

	var hasUp, hasDown bool
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			hasUp = true
		}
		if strings.HasSuffix(e.Name(), ".down.sql") {
			hasDown = true
		}
	}
	if !hasUp {
		t.Error("expected an .up.sql migration")
	}
	if !hasDown {
		t.Error("expected a .down.sql migration")
	}
}

func TestInitMigration_CreatesAllTables(t *testing.T) {
	data, err := migrationsFS.ReadFile("migrations/000001_init.up.sql")
	if err != nil {
		t.Fatalf("failed to read init migration: %v", err)
	}
	sql := string(data)

	for _, table := range []string{"users", "sessions", "cakes", "consumers"} {
		if !strings.Contains(sql, "CREATE TABLE "+table) {
			t.Errorf("init migration should create table %q", table)
		}
	}

	// github_idの一意性はOAuth連携の不変条件
	if !strings.Contains(sql, "github_id") || !strings.Contains(sql, "UNIQUE") {
		t.Error("users.github_id must carry a UNIQUE constraint")
	}

	// サイズ列挙はDB側でも閉じている
	if !strings.Contains(sql, "'small', 'medium', 'large'") {
		t.Error("cakes.size must be constrained to the closed enum")
	}
}

func TestNewMigrator_InvalidURL_ReturnsError(t *testing.T) {
	_, err := NewMigrator("not-a-database-url")
	if err == nil {
		t.Fatal("expected error for invalid database URL")
	}
}
