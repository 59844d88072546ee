package collaborators

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/collabsync/internal/common"
	"github.com/dmitrijs2005/collabsync/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps collaborators in process memory. It follows the
// Postgres ordering rules, including empty city and company sorting like
// NULL (after every value ascending, before every value descending).
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.Collaborator
	byEmail map[string]string

	newID func() string
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]models.Collaborator),
		byEmail: make(map[string]string),
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

func (r *MemoryRepository) ExistingEmails(ctx context.Context, emails []string) (map[string]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeError(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	existing := make(map[string]struct{})
	for _, e := range emails {
		if _, ok := r.byEmail[e]; ok {
			existing[e] = struct{}{}
		}
	}
	return existing, nil
}

func (r *MemoryRepository) BulkInsert(ctx context.Context, records []models.NewCollaborator) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, storeError(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, rec := range records {
		if _, taken := r.byEmail[rec.Email]; taken {
			continue
		}
		c := models.Collaborator{
			ID:        r.newID(),
			Name:      rec.Name,
			Email:     rec.Email,
			City:      rec.City,
			Company:   rec.Company,
			CreatedAt: r.now().UTC(),
		}
		r.byID[c.ID] = c
		r.byEmail[c.Email] = c.ID
		inserted++
	}
	return inserted, nil
}

func (r *MemoryRepository) Query(ctx context.Context, q Query) ([]models.Collaborator, int, error) {
	if err := q.validate(); err != nil {
		return nil, 0, common.NewError(common.ErrorInvalidQuery, "invalid query", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, storeError(err)
	}

	needle := strings.ToLower(q.NameContains)

	r.mu.RLock()
	matched := make([]models.Collaborator, 0, len(r.byID))
	for _, c := range r.byID {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			matched = append(matched, c)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(matched, func(a, b models.Collaborator) int {
		c := compareBy(a, b, q.Sort)
		if c == 0 && q.Sort != FieldID {
			c = strings.Compare(a.ID, b.ID)
		}
		if q.Order == OrderDesc {
			c = -c
		}
		return c
	})

	total := len(matched)
	start := min(q.Offset, total)
	end := min(start+q.Limit, total)

	return slices.Clone(matched[start:end]), total, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.Collaborator, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeError(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return storeError(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, c.Email)
	return nil
}

func compareBy(a, b models.Collaborator, f Field) int {
	switch f {
	case FieldName:
		return strings.Compare(a.Name, b.Name)
	case FieldEmail:
		return strings.Compare(a.Email, b.Email)
	case FieldCity:
		return compareNullable(a.City, b.City)
	case FieldCompany:
		return compareNullable(a.Company, b.Company)
	case FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return strings.Compare(a.ID, b.ID)
	}
}

// compareNullable treats "" as NULL, which Postgres orders above any value.
func compareNullable(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	return cmp.Compare(a, b)
}
