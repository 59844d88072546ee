package collaborators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/collabsync/internal/common"
	"github.com/dmitrijs2005/collabsync/internal/dbx"
	"github.com/dmitrijs2005/collabsync/internal/server/models"
	"github.com/google/uuid"
)

// maxBatch bounds the rows sent per statement so a large snapshot stays
// under the Postgres bind-parameter limit.
const maxBatch = 1000

// columns is the only path from a Field to SQL text.
var columns = map[Field]string{
	FieldID:        "id",
	FieldName:      "name",
	FieldEmail:     "email",
	FieldCity:      "city",
	FieldCompany:   "company",
	FieldCreatedAt: "created_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type PostgresRepository struct {
	db    dbx.DBTX
	newID func() string
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, newID: uuid.NewString}
}

func storeError(err error) error {
	return common.NewError(common.ErrorStoreUnavailable, "db error", err)
}

func (r *PostgresRepository) ExistingEmails(ctx context.Context, emails []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})

	for start := 0; start < len(emails); start += maxBatch {
		chunk := emails[start:min(start+maxBatch, len(emails))]
		if err := r.collectExisting(ctx, chunk, existing); err != nil {
			return nil, storeError(err)
		}
	}

	return existing, nil
}

func (r *PostgresRepository) collectExisting(ctx context.Context, emails []string, into map[string]struct{}) error {
	args := make([]any, len(emails))
	for i, e := range emails {
		args[i] = e
	}

	query := `SELECT email FROM collaborators WHERE email IN (` + placeholders(1, len(emails)) + `)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return err
		}
		into[email] = struct{}{}
	}
	return rows.Err()
}

func (r *PostgresRepository) BulkInsert(ctx context.Context, records []models.NewCollaborator) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	var inserted int64
	err := dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		for start := 0; start < len(records); start += maxBatch {
			query, args := r.insertStatement(records[start:min(start+maxBatch, len(records))])

			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		return 0, storeError(err)
	}

	return int(inserted), nil
}

// insertStatement builds one multi-row insert. Rows whose email already
// exists, including ones committed by a concurrent import a moment ago,
// are dropped by ON CONFLICT instead of failing the batch.
func (r *PostgresRepository) insertStatement(batch []models.NewCollaborator) (string, []any) {
	const perRow = 5

	var b strings.Builder
	b.WriteString(`INSERT INTO collaborators (id, name, email, city, company) VALUES `)

	args := make([]any, 0, len(batch)*perRow)
	for i, rec := range batch {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(" + placeholders(i*perRow+1, perRow) + ")")
		args = append(args, r.newID(), rec.Name, rec.Email, nullString(rec.City), nullString(rec.Company))
	}
	b.WriteString(` ON CONFLICT (email) DO NOTHING`)

	return b.String(), args
}

func (r *PostgresRepository) Query(ctx context.Context, q Query) ([]models.Collaborator, int, error) {
	if err := q.validate(); err != nil {
		return nil, 0, common.NewError(common.ErrorInvalidQuery, "invalid query", err)
	}

	var (
		where string
		args  []any
	)
	if q.NameContains != "" {
		where = ` WHERE name ILIKE $1`
		args = append(args, "%"+likeEscaper.Replace(q.NameContains)+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM collaborators`+where, args...).Scan(&total); err != nil {
		return nil, 0, storeError(err)
	}

	result := make([]models.Collaborator, 0, min(q.Limit, max(total-q.Offset, 0)))
	if q.Offset >= total {
		return result, total, nil
	}

	query := fmt.Sprintf(
		`SELECT id, name, email, city, company, created_at FROM collaborators%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		where, orderBy(q), len(args)+1, len(args)+2,
	)

	rows, err := r.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, storeError(err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCollaborator(rows)
		if err != nil {
			return nil, 0, storeError(err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeError(err)
	}

	return result, total, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Collaborator, error) {
	// ids are UUIDs; anything else can't exist and would make Postgres
	// fail the cast instead of returning no rows.
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT id, name, email, city, company, created_at FROM collaborators
		 WHERE id = $1
		 `

	c, err := scanCollaborator(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, storeError(err)
	}

	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM collaborators WHERE id = $1`, id)
	if err != nil {
		return storeError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return storeError(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCollaborator(s scanner) (*models.Collaborator, error) {
	var (
		c             models.Collaborator
		city, company sql.NullString
	)
	if err := s.Scan(&c.ID, &c.Name, &c.Email, &city, &company, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.City = city.String
	c.Company = company.String
	return &c, nil
}

func orderBy(q Query) string {
	dir := "ASC"
	if q.Order == OrderDesc {
		dir = "DESC"
	}
	clause := columns[q.Sort] + " " + dir
	if q.Sort != FieldID {
		clause += ", id " + dir
	}
	return clause
}

// placeholders renders "$from, $from+1, ..." with n entries.
func placeholders(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(parts, ", ")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
