// Package services contains the collaborator business logic: importing the
// directory snapshot, planning list queries, and the service façade the
// transport calls into.
package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/collabsync/internal/logging"
	"github.com/dmitrijs2005/collabsync/internal/server/directory"
	"github.com/dmitrijs2005/collabsync/internal/server/models"
	"github.com/dmitrijs2005/collabsync/internal/server/repositories/repomanager"
)

// Directory is the source of the collaborator snapshot.
type Directory interface {
	Fetch(ctx context.Context) ([]directory.User, error)
}

// ImportResult summarizes one import run. Imported + Ignored always equals
// the size of the fetched snapshot.
type ImportResult struct {
	Imported int
	Ignored  int
}

// Importer copies directory records that are not yet stored.
type Importer struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	directory   Directory
	log         logging.Logger
}

func NewImporter(db *sql.DB, m repomanager.RepositoryManager, dir Directory, log logging.Logger) *Importer {
	return &Importer{db: db, repomanager: m, directory: dir, log: log}
}

// Import fetches the snapshot and stores every valid record whose email is
// unknown. Within one snapshot the first record carrying an email wins.
//
// Imported counts the records sent to the store. A concurrent import may
// commit some of the same emails first; the store skips those rows, so the
// number actually written can be lower and is only logged.
func (i *Importer) Import(ctx context.Context) (ImportResult, error) {
	start := time.Now()
	i.log.Info(ctx, "starting collaborator import")

	users, err := i.directory.Fetch(ctx)
	if err != nil {
		i.log.Error(ctx, "directory fetch failed", "error", err)
		return ImportResult{}, err
	}

	candidates := make([]models.NewCollaborator, 0, len(users))
	emails := make([]string, 0, len(users))
	for _, u := range users {
		rec := models.NewCollaborator{Name: u.Name, Email: u.Email, City: u.City, Company: u.Company}
		if err := rec.Validate(); err != nil {
			i.log.Warn(ctx, "skipping invalid directory record", "email", u.Email, "error", err)
			continue
		}
		candidates = append(candidates, rec)
		emails = append(emails, rec.Email)
	}

	repo := i.repomanager.Collaborators(i.db)

	existing, err := repo.ExistingEmails(ctx, emails)
	if err != nil {
		i.log.Error(ctx, "existing email lookup failed", "error", err)
		return ImportResult{}, err
	}

	seen := make(map[string]struct{}, len(candidates))
	fresh := make([]models.NewCollaborator, 0, len(candidates))
	for _, rec := range candidates {
		if _, ok := existing[rec.Email]; ok {
			continue
		}
		if _, ok := seen[rec.Email]; ok {
			continue
		}
		seen[rec.Email] = struct{}{}
		fresh = append(fresh, rec)
	}

	inserted, err := repo.BulkInsert(ctx, fresh)
	if err != nil {
		i.log.Error(ctx, "bulk insert failed", "error", err, "records", len(fresh))
		return ImportResult{}, err
	}

	result := ImportResult{Imported: len(fresh), Ignored: len(users) - len(fresh)}

	i.log.Info(ctx, "collaborator import completed",
		"fetched", len(users),
		"imported", result.Imported,
		"ignored", result.Ignored,
		"inserted", inserted,
		"duration", time.Since(start),
	)

	return result, nil
}
