package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/collabsync/internal/common"
	"github.com/dmitrijs2005/collabsync/internal/server/models"
	"github.com/dmitrijs2005/collabsync/internal/server/repositories/collaborators"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	DefaultSort  = collaborators.FieldCreatedAt
	DefaultOrder = collaborators.OrderDesc

	// maxPage keeps (page-1)*limit well inside a signed 64-bit offset.
	maxPage = math.MaxInt32
)

const (
	msgInvalidPage  = "page must be a positive integer"
	msgInvalidLimit = "limit must be between 1 and 100"
	msgInvalidOrder = "order must be asc or desc"
)

// ListQuery holds the raw listing parameters as received. Empty means
// "use the default".
type ListQuery struct {
	Page   string
	Limit  string
	Search string
	Sort   string
	Order  string
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page is one page of results with its paging metadata. Data is never nil.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewPage wraps rows fetched with q. total is the filtered row count
// ignoring paging.
func NewPage[T any](rows []T, total int, q collaborators.Query) Page[T] {
	if rows == nil {
		rows = []T{}
	}
	return Page[T]{
		Data: rows,
		Pagination: Pagination{
			Page:       q.Offset/q.Limit + 1,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: (total + q.Limit - 1) / q.Limit,
		},
	}
}

// sortAliases maps accepted sort spellings to fields.
var sortAliases = map[string]collaborators.Field{
	"created_at": collaborators.FieldCreatedAt,
}

// QueryPlanner turns untrusted listing parameters into a bounded store query.
// Anything outside the accepted ranges is rejected, never clamped.
type QueryPlanner struct{}

func (QueryPlanner) Plan(lq ListQuery) (collaborators.Query, error) {
	page, err := parsePage(lq.Page)
	if err != nil {
		return collaborators.Query{}, err
	}
	limit, err := parseLimit(lq.Limit)
	if err != nil {
		return collaborators.Query{}, err
	}
	sort, err := parseSort(lq.Sort)
	if err != nil {
		return collaborators.Query{}, err
	}
	order, err := parseOrder(lq.Order)
	if err != nil {
		return collaborators.Query{}, err
	}

	return collaborators.Query{
		NameContains: strings.TrimSpace(lq.Search),
		Sort:         sort,
		Order:        order,
		Offset:       (page - 1) * limit,
		Limit:        limit,
	}, nil
}

// Envelope builds the response page for rows fetched with q.
func (QueryPlanner) Envelope(rows []models.Collaborator, total int, q collaborators.Query) Page[models.Collaborator] {
	return NewPage(rows, total, q)
}

func invalid(msg string) error {
	return common.NewError(common.ErrorInvalidQuery, msg, nil)
}

func parsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultPage, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 || page > maxPage {
		return 0, invalid(msgInvalidPage)
	}
	return page, nil
}

func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > MaxLimit {
		return 0, invalid(msgInvalidLimit)
	}
	return limit, nil
}

func parseSort(raw string) (collaborators.Field, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSort, nil
	}
	for _, f := range collaborators.SortableFields {
		if raw == string(f) {
			return f, nil
		}
	}
	if f, ok := sortAliases[raw]; ok {
		return f, nil
	}

	names := make([]string, len(collaborators.SortableFields))
	for i, f := range collaborators.SortableFields {
		names[i] = string(f)
	}
	return "", invalid("sort must be one of: " + strings.Join(names, ", "))
}

func parseOrder(raw string) (collaborators.Order, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return DefaultOrder, nil
	case "asc", "ascending":
		return collaborators.OrderAsc, nil
	case "desc", "descending":
		return collaborators.OrderDesc, nil
	}
	return "", invalid(msgInvalidOrder)
}
