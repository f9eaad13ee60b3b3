package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
)

// SQLiteLaneRepo reads the fixed lane set seeded by migrations.
type SQLiteLaneRepo struct {
	db db.DBTX
}

func NewSQLiteLaneRepo(db db.DBTX) *SQLiteLaneRepo {
	return &SQLiteLaneRepo{db: db}
}

func (r *SQLiteLaneRepo) ListLanes(ctx context.Context) ([]domain.Lane, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, position FROM lanes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing lanes: %w", err)
	}
	defer rows.Close()

	var lanes []domain.Lane
	for rows.Next() {
		var l domain.Lane
		if err := rows.Scan(&l.ID, &l.Title, &l.Position); err != nil {
			return nil, fmt.Errorf("scanning lane: %w", err)
		}
		lanes = append(lanes, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lanes: %w", err)
	}
	return lanes, nil
}
