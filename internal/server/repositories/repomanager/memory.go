package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/collabsync/internal/dbx"
	"github.com/dmitrijs2005/collabsync/internal/server/repositories/collaborators"
)

// MemoryRepositoryManager serves one process-local store regardless of the
// handle it is given. It backs the "memory" storage mode and tests.
type MemoryRepositoryManager struct {
	store *collaborators.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: collaborators.NewMemoryRepository()}
}

// RunMigrations is a no-op; the in-memory store has no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *MemoryRepositoryManager) Collaborators(dbx.DBTX) collaborators.Repository {
	return m.store
}
