package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/collabsync/internal/common"
	"github.com/dmitrijs2005/collabsync/internal/logging"
	"github.com/dmitrijs2005/collabsync/internal/server/models"
	"github.com/dmitrijs2005/collabsync/internal/server/repositories/repomanager"
)

const msgCollaboratorNotFound = "Collaborator not found"

// CollaboratorService is the single entry point the transport uses.
type CollaboratorService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	importer    *Importer
	planner     QueryPlanner
	log         logging.Logger
}

// NewCollaboratorService wires the service. db may be nil when m does not
// need a database handle.
func NewCollaboratorService(db *sql.DB, m repomanager.RepositoryManager, dir Directory, log logging.Logger) *CollaboratorService {
	return &CollaboratorService{
		db:          db,
		repomanager: m,
		importer:    NewImporter(db, m, dir, log),
		log:         log,
	}
}

func (s *CollaboratorService) ImportAll(ctx context.Context) (ImportResult, error) {
	return s.importer.Import(ctx)
}

func (s *CollaboratorService) List(ctx context.Context, lq ListQuery) (Page[models.Collaborator], error) {
	q, err := s.planner.Plan(lq)
	if err != nil {
		return Page[models.Collaborator]{}, err
	}

	rows, total, err := s.repomanager.Collaborators(s.db).Query(ctx, q)
	if err != nil {
		return Page[models.Collaborator]{}, err
	}

	return s.planner.Envelope(rows, total, q), nil
}

func (s *CollaboratorService) GetByID(ctx context.Context, id string) (*models.Collaborator, error) {
	c, err := s.repomanager.Collaborators(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return c, nil
}

// DeleteByID removes the collaborator after confirming it exists.
func (s *CollaboratorService) DeleteByID(ctx context.Context, id string) error {
	repo := s.repomanager.Collaborators(s.db)

	if _, err := repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		return notFoundOr(err)
	}

	s.log.Info(ctx, "collaborator deleted", "id", id)
	return nil
}

func notFoundOr(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.NewError(common.ErrorNotFound, msgCollaboratorNotFound, nil)
	}
	return err
}
