// Package collaborators is the record store for the collaborator roster.
//
// The unique constraint on email is what keeps concurrent imports from
// creating duplicates: callers may pre-filter with ExistingEmails, but only
// the store can make insert-if-absent atomic.
package collaborators

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/collabsync/internal/server/models"
)

// Field is a sortable collaborator attribute.
type Field string

const (
	FieldID        Field = "id"
	FieldName      Field = "name"
	FieldEmail     Field = "email"
	FieldCity      Field = "city"
	FieldCompany   Field = "company"
	FieldCreatedAt Field = "createdAt"
)

// SortableFields lists every Field a Query may sort by.
var SortableFields = []Field{FieldID, FieldName, FieldEmail, FieldCity, FieldCompany, FieldCreatedAt}

// Order is a sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

var (
	ErrUnknownField = errors.New("unknown sort field")
	ErrUnknownOrder = errors.New("unknown sort order")
)

// Query selects one page of collaborators.
type Query struct {
	// NameContains keeps collaborators whose name contains it, ignoring case.
	// Empty matches everything.
	NameContains string
	Sort         Field
	Order        Order
	Offset       int
	Limit        int
}

func (q Query) validate() error {
	switch q.Sort {
	case FieldID, FieldName, FieldEmail, FieldCity, FieldCompany, FieldCreatedAt:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, q.Sort)
	}
	if q.Order != OrderAsc && q.Order != OrderDesc {
		return fmt.Errorf("%w: %q", ErrUnknownOrder, q.Order)
	}
	if q.Offset < 0 || q.Limit < 1 {
		return fmt.Errorf("invalid window offset=%d limit=%d", q.Offset, q.Limit)
	}
	return nil
}

// Repository is the persistence contract for collaborators.
type Repository interface {
	// ExistingEmails returns the subset of emails already stored.
	// An empty input returns an empty set without touching the store.
	ExistingEmails(ctx context.Context, emails []string) (map[string]struct{}, error)

	// BulkInsert stores records, silently skipping any whose email is taken
	// by the time the insert runs. It returns how many rows were written.
	BulkInsert(ctx context.Context, records []models.NewCollaborator) (int, error)

	// Query returns the requested page and the number of rows matching the
	// filter regardless of paging.
	Query(ctx context.Context, q Query) ([]models.Collaborator, int, error)

	// FindByID returns common.ErrorNotFound when id is unknown.
	FindByID(ctx context.Context, id string) (*models.Collaborator, error)

	// Delete returns common.ErrorNotFound when id is unknown.
	Delete(ctx context.Context, id string) error
}
