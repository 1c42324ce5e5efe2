package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// legacyColumns are added to tables created before the column existed.
var legacyColumns = []struct {
	table, column, ddl string
}{
	{"products", "image_url", "ALTER TABLE products ADD COLUMN image_url VARCHAR(512) NULL"},
	{"products", "featured", "ALTER TABLE products ADD COLUMN featured TINYINT(1) NOT NULL DEFAULT 0"},
}

// Statements splits the embedded schema into individual DDL statements.
func Statements() []string {
	out := []string{}
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// Migrate creates missing tables and columns. It is safe to run repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	for _, lc := range legacyColumns {
		if HasColumn(ctx, db, lc.table, lc.column) {
			continue
		}
		if _, err := db.ExecContext(ctx, lc.ddl); err != nil {
			return fmt.Errorf("add %s.%s: %w", lc.table, lc.column, err)
		}
	}
	return nil
}
