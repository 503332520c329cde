package repomanager

import (
	"context"
	"database/sql"

	"github.com/shipshopglobal/backend/internal/dbx"
	"github.com/shipshopglobal/backend/internal/server/repositories/blockedips"
	"github.com/shipshopglobal/backend/internal/server/repositories/mailbox"
	"github.com/shipshopglobal/backend/internal/server/repositories/refreshtokens"
	"github.com/shipshopglobal/backend/internal/server/repositories/shipments"
	"github.com/shipshopglobal/backend/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Mailbox(db dbx.DBTX) mailbox.Repository
	Shipments(db dbx.DBTX) shipments.Repository
	BlockedIPs(db dbx.DBTX) blockedips.Repository
}
