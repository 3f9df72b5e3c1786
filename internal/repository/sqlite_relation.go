package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/alexanderramin/plangraph/internal/db"
	"github.com/alexanderramin/plangraph/internal/domain"
)

// SQLiteRelationRepo implements RelationRepo using a SQLite database.
type SQLiteRelationRepo struct {
	db db.DBTX
}

// NewSQLiteRelationRepo creates a new SQLiteRelationRepo.
func NewSQLiteRelationRepo(conn db.DBTX) *SQLiteRelationRepo {
	return &SQLiteRelationRepo{db: conn}
}

func (r *SQLiteRelationRepo) Create(ctx context.Context, rel *domain.Relation) error {
	if err := rel.Validate(); err != nil {
		return fmt.Errorf("inserting relation: %w", err)
	}
	if rel.ID == "" {
		rel.ID = uuid.New().String()
	}
	query := `INSERT INTO relations (id, from_id, to_id, type, delay, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rel.ID, rel.FromID, rel.ToID, string(rel.Type), rel.Delay, nowUTC())
	if err != nil {
		return fmt.Errorf("inserting relation: %w", err)
	}
	return nil
}

func (r *SQLiteRelationRepo) GetByID(ctx context.Context, id string) (*domain.Relation, error) {
	query := `SELECT id, from_id, to_id, type, delay FROM relations WHERE id = ?`
	rel, err := scanRelation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("relation: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning relation: %w", err)
	}
	return rel, nil
}

// List returns every stored relation, dangling ones included.
func (r *SQLiteRelationRepo) List(ctx context.Context) ([]*domain.Relation, error) {
	query := `SELECT id, from_id, to_id, type, delay FROM relations ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing relations: %w", err)
	}
	defer rows.Close()

	var rels []*domain.Relation
	for rows.Next() {
		rel, err := scanRelation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning relation row: %w", err)
		}
		rels = append(rels, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating relations: %w", err)
	}
	return rels, nil
}

func (r *SQLiteRelationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM relations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting relation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted relation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("relation %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanRelation(row rowScanner) (*domain.Relation, error) {
	var rel domain.Relation
	var typeStr string
	if err := row.Scan(&rel.ID, &rel.FromID, &rel.ToID, &typeStr, &rel.Delay); err != nil {
		return nil, err
	}
	rel.Type = domain.RelationType(typeStr)
	return &rel, nil
}
