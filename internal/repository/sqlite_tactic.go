package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
)

const tacticColumns = `id, section_id, title, budget, content, sort_rank, created_at, updated_at`

// SQLiteTacticStore implements RemoteStore on top of a SQLite database.
type SQLiteTacticStore struct {
	db  db.DBTX
	now func() time.Time
}

// NewSQLiteTacticStore creates a store backed by db.
func NewSQLiteTacticStore(db db.DBTX) *SQLiteTacticStore {
	return &SQLiteTacticStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

var _ RemoteStore = (*SQLiteTacticStore)(nil)

func (s *SQLiteTacticStore) ListItems(ctx context.Context) ([]domain.Tactic, error) {
	query := `SELECT ` + tacticColumns + ` FROM tactics ORDER BY section_id, sort_rank, created_at`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tactics: %w", err)
	}
	defer rows.Close()

	var tactics []domain.Tactic
	for rows.Next() {
		t, err := scanTactic(rows)
		if err != nil {
			return nil, err
		}
		tactics = append(tactics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tactics: %w", err)
	}
	return tactics, nil
}

// GetByID returns a single tactic. It is not part of RemoteStore but is used
// by the HTTP API to echo updated records.
func (s *SQLiteTacticStore) GetByID(ctx context.Context, id string) (domain.Tactic, error) {
	query := `SELECT ` + tacticColumns + ` FROM tactics WHERE id = ?`
	t, err := scanTactic(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return domain.Tactic{}, fmt.Errorf("tactic %s: %w", id, ErrNotFound)
	}
	return t, err
}

func (s *SQLiteTacticStore) InsertItem(ctx context.Context, t domain.Tactic) error {
	now := s.now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	query := `INSERT INTO tactics (` + tacticColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		t.ID,
		t.LaneID,
		t.Title,
		domain.CoerceBudget(t.Budget),
		t.Content,
		t.Rank,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return wrapExecErr("inserting tactic", err)
	}
	return nil
}

func (s *SQLiteTacticStore) UpdateItem(ctx context.Context, id string, fields TacticFields) error {
	query := `UPDATE tactics SET title = ?, budget = ?, content = ?, updated_at = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query,
		fields.Title,
		domain.CoerceBudget(fields.Budget),
		fields.Content,
		formatTime(s.now()),
		id,
	)
	if err != nil {
		return wrapExecErr("updating tactic", err)
	}
	return requireAffected(res, "tactic", id)
}

func (s *SQLiteTacticStore) MoveItem(ctx context.Context, id, laneID string, rank float64) error {
	query := `UPDATE tactics SET section_id = ?, sort_rank = ?, updated_at = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, laneID, rank, formatTime(s.now()), id)
	if err != nil {
		return wrapExecErr("moving tactic", err)
	}
	return requireAffected(res, "tactic", id)
}

func (s *SQLiteTacticStore) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tactics WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting tactic: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTactic(row rowScanner) (domain.Tactic, error) {
	var t domain.Tactic
	var createdAt, updatedAt string
	err := row.Scan(&t.ID, &t.LaneID, &t.Title, &t.Budget, &t.Content, &t.Rank, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return t, err
		}
		return t, fmt.Errorf("scanning tactic: %w", err)
	}
	if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return t, err
	}
	if t.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return t, err
	}
	return t, nil
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
