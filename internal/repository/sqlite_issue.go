package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/plangraph/internal/db"
	"github.com/alexanderramin/plangraph/internal/domain"
)

// issueColumns is the canonical SELECT column list for issues.
const issueColumns = `id, subject, start_date, due_date, parent_id, leaf, milestone,
		created_at, updated_at`

// SQLiteIssueRepo implements IssueRepo using a SQLite database.
type SQLiteIssueRepo struct {
	db db.DBTX
}

// NewSQLiteIssueRepo creates a new SQLiteIssueRepo. conn may be a *sql.DB or
// a transaction handed out by a UnitOfWork.
func NewSQLiteIssueRepo(conn db.DBTX) *SQLiteIssueRepo {
	return &SQLiteIssueRepo{db: conn}
}

func (r *SQLiteIssueRepo) Create(ctx context.Context, i *domain.Issue) error {
	now := time.Now().UTC()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	if i.UpdatedAt.IsZero() {
		i.UpdatedAt = now
	}
	query := `INSERT INTO issues (id, subject, start_date, due_date, parent_id, leaf, milestone,
		created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		i.ID,
		i.Subject,
		nullableDateToString(i.StartDate),
		nullableDateToString(i.DueDate),
		i.ParentID, // *string: nil becomes SQL NULL
		boolToInt(i.Leaf),
		boolToInt(i.Milestone),
		i.CreatedAt.Format(time.RFC3339),
		i.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting issue: %w", err)
	}
	return nil
}

func (r *SQLiteIssueRepo) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE id = ?`
	return r.scanIssue(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteIssueRepo) List(ctx context.Context) ([]*domain.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}
	defer rows.Close()

	var issues []*domain.Issue
	for rows.Next() {
		i, err := r.scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating issues: %w", err)
	}
	return issues, nil
}

// UpdateDates writes every change and then reads the rows back. A change whose id matches no row is skipped; the returned
// slice then holds fewer issues than changes.
func (r *SQLiteIssueRepo) UpdateDates(ctx context.Context, changes []domain.DateChange) ([]*domain.Issue, error) {
	if len(changes) == 0 {
		return nil, nil
	}
	query := `UPDATE issues SET start_date = COALESCE(?, start_date), due_date = ?, updated_at = ?
		WHERE id = ?`
	now := nowUTC()

	var written []string
	for _, c := range changes {
		res, err := r.db.ExecContext(ctx, query,
			nullableDateToString(c.StartDate),
			nullableDateToString(c.DueDate),
			now,
			c.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("updating dates of issue %s: %w", c.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("checking update of issue %s: %w", c.ID, err)
		}
		if n > 0 {
			written = append(written, c.ID)
		}
	}

	issues := make([]*domain.Issue, 0, len(written))
	for _, id := range written {
		i, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("reading back issue %s: %w", id, err)
		}
		issues = append(issues, i)
	}
	return issues, nil
}

func (r *SQLiteIssueRepo) SetLeaf(ctx context.Context, id string, leaf bool) error {
	query := `UPDATE issues SET leaf = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, boolToInt(leaf), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating leaf flag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking leaf update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("issue %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteIssueRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM issues WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting issue: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted issue: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("issue %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *SQLiteIssueRepo) scanIssue(row rowScanner) (*domain.Issue, error) {
	var i domain.Issue
	var startStr, dueStr, parentID sql.NullString
	var leafInt, milestoneInt int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&i.ID, &i.Subject, &startStr, &dueStr, &parentID,
		&leafInt, &milestoneInt, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("issue: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning issue: %w", err)
	}

	i.StartDate = parseNullableDate(startStr)
	i.DueDate = parseNullableDate(dueStr)
	if parentID.Valid {
		i.ParentID = &parentID.String
	}
	i.Leaf = intToBool(leafInt)
	i.Milestone = intToBool(milestoneInt)
	i.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	i.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)
	return &i, nil
}
