package database

import (
	"io/fs"
	"strings"
	"testing"
)

// TestMigrationsEmbedded は埋め込みマイグレーションの完全性を検証する。
// 各バージョンにup/downの対が揃っていること。
func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no migrations embedded")
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file: %s", name)
		}
	}

	for version := range ups {
		if !downs[version] {
			t.Errorf("migration %s has no down file", version)
		}
	}
	for version := range downs {
		if !ups[version] {
			t.Errorf("migration %s has no up file", version)
		}
	}
}

// TestMigrationsContainCoreTables はコアテーブルのマイグレーションが存在することを検証する。
func TestMigrationsContainCoreTables(t *testing.T) {
	tables := []string{"users", "todos", "managers", "comments"}

	for _, table := range tables {
		found := false
		entries, err := fs.ReadDir(migrationsFS, "migrations")
		if err != nil {
			t.Fatalf("read embedded migrations: %v", err)
		}
		for _, e := range entries {
			if strings.Contains(e.Name(), table) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no migration for table %s", table)
		}
	}
}

// TestNewMigrator_BadURL は不正な接続URLでエラーになることを検証する。
func TestNewMigrator_BadURL(t *testing.T) {
	if _, err := NewMigrator("not-a-url"); err == nil {
		t.Fatal("NewMigrator should fail with an invalid database URL")
	}
}
