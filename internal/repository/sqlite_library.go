package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
)

const libraryColumns = `id, title, description, default_budget, category, created_at`

// SQLiteLibraryRepo implements LibraryRepo using a SQLite database.
type SQLiteLibraryRepo struct {
	db db.DBTX
}

func NewSQLiteLibraryRepo(db db.DBTX) *SQLiteLibraryRepo {
	return &SQLiteLibraryRepo{db: db}
}

func (r *SQLiteLibraryRepo) List(ctx context.Context, category string) ([]*domain.LibraryTactic, error) {
	query := `SELECT ` + libraryColumns + ` FROM library_tactics`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY category, title`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing library tactics: %w", err)
	}
	defer rows.Close()

	var out []*domain.LibraryTactic
	for rows.Next() {
		l, err := scanLibrary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating library tactics: %w", err)
	}
	return out, nil
}

func (r *SQLiteLibraryRepo) GetByID(ctx context.Context, id string) (*domain.LibraryTactic, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+libraryColumns+` FROM library_tactics WHERE id = ?`, id)
	l, err := scanLibrary(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("library tactic %s: %w", id, ErrNotFound)
	}
	return l, err
}

func (r *SQLiteLibraryRepo) Create(ctx context.Context, l *domain.LibraryTactic) error {
	query := `INSERT INTO library_tactics (` + libraryColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.Title, l.Description, l.DefaultBudget, domain.CoalesceCategory(l.Category), formatTime(l.CreatedAt),
	)
	if err != nil {
		return wrapExecErr("inserting library tactic", err)
	}
	return nil
}

func (r *SQLiteLibraryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM library_tactics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting library tactic: %w", err)
	}
	return requireAffected(res, "library tactic", id)
}

func scanLibrary(row rowScanner) (*domain.LibraryTactic, error) {
	var l domain.LibraryTactic
	var createdAt string
	err := row.Scan(&l.ID, &l.Title, &l.Description, &l.DefaultBudget, &l.Category, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning library tactic: %w", err)
	}
	if l.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	return &l, nil
}
