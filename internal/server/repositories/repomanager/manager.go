package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/collabsync/internal/dbx"
	"github.com/dmitrijs2005/collabsync/internal/server/repositories/collaborators"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Collaborators(db dbx.DBTX) collaborators.Repository
}
