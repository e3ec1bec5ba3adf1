package migration

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradia/internal/logging"
)

func TestSource_VersionsAreSequential(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	v := first
	count := 1
	for {
		next, err := src.Next(v)
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, v+1, next)
		v = next
		count++
	}
	assert.Equal(t, 3, count)
}

func TestSource_EveryUpHasDown(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	for v := uint(1); v <= 3; v++ {
		up, _, err := src.ReadUp(v)
		require.NoError(t, err, "up %d", v)
		up.Close()

		down, _, err := src.ReadDown(v)
		require.NoError(t, err, "down %d", v)
		down.Close()
	}
}

func TestSchema_KeepsRelationalInvariants(t *testing.T) {
	up, err := fs.ReadFile(migrationsFS, "sql/000001_create_finance_schema.up.sql")
	require.NoError(t, err)
	schema := string(up)

	assert.Contains(t, schema, "UNIQUE (period_id, month)")
	assert.Contains(t, schema, "UNIQUE (user_id, code)")
	assert.True(t, strings.Contains(schema, "REFERENCES categories (id) ON DELETE RESTRICT"))
}

func TestUp_OpenError(t *testing.T) {
	orig := sqlOpen
	sqlOpen = func(string, string) (*sql.DB, error) { return nil, errors.New("boom") }
	defer func() { sqlOpen = orig }()

	var buf bytes.Buffer
	err := Up(context.Background(), "pgx", "postgres://nowhere", "nowhere", logging.New(&buf, "info", nil))

	assert.ErrorContains(t, err, "open migration database: boom")
	assert.Contains(t, buf.String(), "db_migration_failed")
}
