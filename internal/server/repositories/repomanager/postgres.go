// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/shipshopglobal/backend/internal/dbx"
	"github.com/shipshopglobal/backend/internal/server/migrations"
	"github.com/shipshopglobal/backend/internal/server/repositories/blockedips"
	"github.com/shipshopglobal/backend/internal/server/repositories/mailbox"
	"github.com/shipshopglobal/backend/internal/server/repositories/refreshtokens"
	"github.com/shipshopglobal/backend/internal/server/repositories/shipments"
	"github.com/shipshopglobal/backend/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// RefreshTokens returns a refreshtokens.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

// Mailbox returns a mailbox.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Mailbox(db dbx.DBTX) mailbox.Repository {
	return mailbox.NewPostgresRepository(db)
}

// Shipments returns a shipments.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Shipments(db dbx.DBTX) shipments.Repository {
	return shipments.NewPostgresRepository(db)
}

// BlockedIPs returns a blockedips.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) BlockedIPs(db dbx.DBTX) blockedips.Repository {
	return blockedips.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetDialect("pgx")
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
