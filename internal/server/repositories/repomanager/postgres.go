// Package repomanager provides RepositoryManager implementations that vend
// collaborator repositories and expose a schema migration hook (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/collabsync/internal/dbx"
	"github.com/dmitrijs2005/collabsync/internal/server/migrations"
	"github.com/dmitrijs2005/collabsync/internal/server/repositories/collaborators"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations.
type PostgresRepositoryManager struct{}

// Collaborators returns a collaborators.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Collaborators(db dbx.DBTX) collaborators.Repository {
	return collaborators.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(db *sql.DB) (RepositoryManager, error) {
	return &PostgresRepositoryManager{}, nil
}
