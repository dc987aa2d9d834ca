package sqlite_test

import (
	"context"
	"testing"

	"github.com/fardannozami/streak-limpo/internal/infra/sqlite"
)

func TestLIDResolver_NotFound(t *testing.T) {
	r := setupTestDB(t)
	resolver := sqlite.NewLIDResolver(r.db)

	// No mapping table yet: input comes back unchanged
	if got := resolver.Resolve(context.Background(), "some_lid_12345"); got != "some_lid_12345" {
		t.Errorf("Expected input returned unchanged, got '%s'", got)
	}
}

func TestLIDResolver_Found(t *testing.T) {
	r := setupTestDB(t)
	resolver := sqlite.NewLIDResolver(r.db)
	ctx := context.Background()

	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS whatsmeow_lid_map (
			lid TEXT PRIMARY KEY,
			pn TEXT
		)
	`)
	if err != nil {
		t.Fatalf("Failed to create lid_map table: %v", err)
	}
	if _, err := r.db.ExecContext(ctx, `INSERT INTO whatsmeow_lid_map (lid, pn) VALUES (?, ?)`, "lid123", "5511987654321"); err != nil {
		t.Fatalf("Failed to insert mapping: %v", err)
	}

	if got := resolver.Resolve(ctx, "lid123"); got != "5511987654321" {
		t.Errorf("Expected '5511987654321', got '%s'", got)
	}
	if got := resolver.Resolve(ctx, "lid999"); got != "lid999" {
		t.Errorf("Expected unknown lid unchanged, got '%s'", got)
	}
}
