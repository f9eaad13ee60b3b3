package db_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDB_SeedsLanesAndLibrary(t *testing.T) {
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	var lanes int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM lanes`).Scan(&lanes))
	assert.Equal(t, 3, lanes)

	var templates int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM library_tactics`).Scan(&templates))
	assert.Greater(t, templates, 0)
}

func TestOpenDB_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "board.db")

	first, err := db.OpenDB(path)
	require.NoError(t, err)
	_, err = first.Exec(`INSERT INTO tactics (id, section_id, title, budget, sort_rank, created_at, updated_at)
		VALUES ('t1', 'awareness', 'SEO Sprint', 2000, 1024, '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := db.OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })

	var title string
	require.NoError(t, second.QueryRow(`SELECT title FROM tactics WHERE id = 't1'`).Scan(&title))
	assert.Equal(t, "SEO Sprint", title)

	var lanes int
	require.NoError(t, second.QueryRow(`SELECT COUNT(*) FROM lanes`).Scan(&lanes))
	assert.Equal(t, 3, lanes, "seed rows are not duplicated")
}

func TestOpenDB_EnforcesLaneForeignKey(t *testing.T) {
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec(`INSERT INTO tactics (id, section_id, title, created_at, updated_at)
		VALUES ('t1', 'ghost', 'x', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err)
}

func TestOpenDB_PragmasApplyToEveryConnection(t *testing.T) {
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "board.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	ctx := context.Background()

	first, err := database.Conn(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := database.Conn(ctx)
	require.NoError(t, err)
	defer second.Close()

	for _, conn := range []*sql.Conn{first, second} {
		var fk, timeout int
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA busy_timeout`).Scan(&timeout))
		assert.Equal(t, 1, fk)
		assert.Equal(t, 5000, timeout)
	}

	var mode string
	require.NoError(t, second.QueryRowContext(ctx, `PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestDSN_CarriesPragmas(t *testing.T) {
	dsn := db.DSN("/tmp/board.db")
	assert.Contains(t, dsn, "/tmp/board.db?")
	assert.Contains(t, dsn, "_pragma=foreign_keys(1)")
	assert.Contains(t, dsn, "_pragma=busy_timeout(5000)")
	assert.Contains(t, dsn, "_txlock=immediate")
}
