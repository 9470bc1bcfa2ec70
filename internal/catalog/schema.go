package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"movieetl/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// SchemaVersion is the current schema version. Bump this when the schema changes.
const SchemaVersion = 1

// SchemaSQL returns the embedded DDL.
func SchemaSQL() string {
	return schemaSQL
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return services.Wrap(services.ErrSchema, "catalog", "schema", "check schema_version table", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return services.Wrap(services.ErrSchema, "catalog", "schema", "read schema version", err)
	}
	if version != SchemaVersion {
		return services.Wrap(services.ErrSchema, "catalog", "schema",
			fmt.Sprintf("database has version %d, expected %d (delete the database to rebuild it)", version, SchemaVersion), nil)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return services.Wrap(services.ErrSchema, "catalog", "schema", "begin schema tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return services.Wrap(services.ErrSchema, "catalog", "schema", "create schema", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", SchemaVersion); err != nil {
		return services.Wrap(services.ErrSchema, "catalog", "schema", "record schema version", err)
	}
	if err := tx.Commit(); err != nil {
		return services.Wrap(services.ErrSchema, "catalog", "schema", "commit schema", err)
	}
	return nil
}
