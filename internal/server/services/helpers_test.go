package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/collabsync/internal/dbx"
	"github.com/dmitrijs2005/collabsync/internal/server/directory"
	"github.com/dmitrijs2005/collabsync/internal/server/models"
	"github.com/dmitrijs2005/collabsync/internal/server/repositories/collaborators"
)

// --- helpers ---

type fakeDirectory struct {
	users []directory.User
	err   error
}

func (f *fakeDirectory) Fetch(context.Context) ([]directory.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

// spyRepo counts round trips and can inject failures on top of a real store.
type spyRepo struct {
	collaborators.Repository

	mu            sync.Mutex
	existingCalls int
	insertCalls   int
	inserted      [][]models.NewCollaborator

	existingErr error
	insertErr   error
	queryErr    error
}

func newSpyRepo() *spyRepo {
	return &spyRepo{Repository: collaborators.NewMemoryRepository()}
}

func (s *spyRepo) ExistingEmails(ctx context.Context, emails []string) (map[string]struct{}, error) {
	s.mu.Lock()
	s.existingCalls++
	s.mu.Unlock()
	if s.existingErr != nil {
		return nil, s.existingErr
	}
	return s.Repository.ExistingEmails(ctx, emails)
}

func (s *spyRepo) BulkInsert(ctx context.Context, records []models.NewCollaborator) (int, error) {
	s.mu.Lock()
	s.insertCalls++
	s.inserted = append(s.inserted, records)
	s.mu.Unlock()
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	return s.Repository.BulkInsert(ctx, records)
}

func (s *spyRepo) Query(ctx context.Context, q collaborators.Query) ([]models.Collaborator, int, error) {
	if s.queryErr != nil {
		return nil, 0, s.queryErr
	}
	return s.Repository.Query(ctx, q)
}

type fakeRepoManager struct {
	repo collaborators.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Collaborators(dbx.DBTX) collaborators.Repository { return m.repo }

func sampleUsers(n int) []directory.User {
	out := make([]directory.User, n)
	for i := range out {
		out[i] = directory.User{
			Name:  fmt.Sprintf("User %02d", i),
			Email: fmt.Sprintf("user%02d@example.com", i),
		}
	}
	return out
}
