package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/sessionkit/internal/scan"
	"github.com/msto63/sessionkit/internal/session"
	"github.com/msto63/sessionkit/pkg/core/errors"
	"github.com/msto63/sessionkit/pkg/core/version"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(Config{Path: filepath.Join(t.TempDir(), "nested", "sessions.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func fixtureSessions(t *testing.T) []session.Session {
	t.Helper()
	buf, err := os.ReadFile(filepath.Join("..", "session", "testdata", "sessions.ts"))
	require.NoError(t, err)
	res, err := session.Extract(buf, session.Options{})
	require.NoError(t, err)
	return res.Sessions
}

func TestDefaultConfig(t *testing.T) {
	assert.Equal(t, "./data/sessions.db", DefaultConfig().Path)
}

func TestSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	store, err := NewSQLiteStore(Config{Path: path})
	require.NoError(t, err)

	v, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, version.StoreSchema, v)

	_, err = store.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", version.StoreSchema+1))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = NewSQLiteStore(Config{Path: path})
	assert.Error(t, err)
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	sessions := fixtureSessions(t)

	first, err := store.Sync(ctx, sessions)
	require.NoError(t, err)
	assert.Equal(t, len(sessions), first.Created)
	assert.Zero(t, first.Updated)
	assert.NotEmpty(t, first.RunID)

	second, err := store.Sync(ctx, sessions)
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, len(sessions), second.Updated)
	assert.NotEqual(t, first.RunID, second.RunID)

	runs, err := store.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	ids := []string{runs[0].RunID, runs[1].RunID}
	assert.ElementsMatch(t, []string{first.RunID, second.RunID}, ids)

	latest, err := store.Runs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, latest, 1)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	sessions := fixtureSessions(t)
	_, err := store.Sync(ctx, sessions)
	require.NoError(t, err)

	for _, want := range sessions {
		t.Run(want.Title, func(t *testing.T) {
			got, err := store.Get(ctx, want.Number)
			require.NoError(t, err)
			want.Span = scan.Span{}
			assert.Equal(t, want, *got)
		})
	}

	_, err = store.Get(ctx, 99)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))
}

func TestList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	empty, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = store.Sync(ctx, fixtureSessions(t))
	require.NoError(t, err)

	list, err := store.List(ctx)
	require.NoError(t, err)
	var numbers []int
	for _, s := range list {
		numbers = append(numbers, s.Number)
	}
	assert.Equal(t, []int{1, 2, 3, 16}, numbers)
}

func TestResources(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.Sync(ctx, fixtureSessions(t))
	require.NoError(t, err)

	rows, err := store.Resources(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "/resources/s1-guia.pdf", rows[0].URL)
	assert.Equal(t, 1, rows[0].SessionNumber)
	assert.Equal(t, "/resources/s1-guia.pdf", rows[1].URL)
	assert.Equal(t, 2, rows[1].SessionNumber)
	assert.Equal(t, "/resources/s2-conectores.pdf", rows[2].URL)
	require.NotNil(t, rows[2].Description)
	assert.Equal(t, "Ejercicios de clase", *rows[2].Description)
}

func TestSync_ReplacesResources(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	s := session.Session{
		Number:    5,
		Title:     "Cinco",
		Resources: []session.Resource{{Title: "A", URL: "/resources/a.pdf"}},
	}
	_, err := store.Sync(ctx, []session.Session{s})
	require.NoError(t, err)

	s.Resources = []session.Resource{{Title: "B", URL: "/resources/b.pdf"}}
	stats, err := store.Sync(ctx, []session.Session{s})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Updated)

	rows, err := store.Resources(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "/resources/b.pdf", rows[0].URL)
}

func TestForeignKeys(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.Sync(ctx, fixtureSessions(t))
	require.NoError(t, err)

	tests := []struct {
		name    string
		stmt    string
		wantErr bool
	}{
		{"deleting a session drops its resources", `DELETE FROM sessions WHERE number = 1`, false},
		{"resource without session is rejected", `INSERT INTO resources (url, session_number, title) VALUES ('/resources/x.pdf', 99, 'x')`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.db.ExecContext(ctx, tt.stmt)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}

	rows, err := store.Resources(ctx)
	require.NoError(t, err)
	for _, r := range rows {
		assert.NotEqual(t, 1, r.SessionNumber)
		assert.NotEqual(t, 99, r.SessionNumber)
	}
	assert.Len(t, rows, 2)
}

func TestSync_DuplicateNumbers(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	stats, err := store.Sync(ctx, []session.Session{
		{Number: 7, Title: "first"},
		{Number: 7, Title: "second"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Created)
	assert.Equal(t, 1, stats.Updated)

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Title)
}

func TestSync_Canceled(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Sync(ctx, []session.Session{{Number: 1, Title: "x"}})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeStore))

	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
