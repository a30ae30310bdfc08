package catalog

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/nodegen/nodetree"
)

func mockSQL(t *testing.T, driver string, opts ...SQLOption) (*SQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	opts = append([]SQLOption{WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	s, err := NewSQL(db, driver, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return s, mock
}

func TestDialectOf(t *testing.T) {
	tests := map[string]string{
		"mysql":    MySQL,
		"sqlite":   SQLite,
		"sqlite3":  SQLite,
		"postgres": Postgres,
	}
	for driver, want := range tests {
		got, err := dialectOf(driver)
		require.NoError(t, err, driver)
		assert.Equal(t, want, got, driver)
	}
	_, err := dialectOf("oracle")
	assert.ErrorContains(t, err, `unsupported sql dialect "oracle"`)
}

func TestNewSQLOptions(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSQL(db, "postgres", WithTable("assets; DROP TABLE x"))
	assert.ErrorContains(t, err, "invalid table name")
	_, err = NewSQL(db, "postgres", WithLogger(nil))
	assert.Error(t, err)

	s, err := NewSQL(db, "postgres", WithTable("public.assets"))
	require.NoError(t, err)
	assert.Equal(t, Postgres, s.Dialect())
	assert.Equal(t, "public.assets", s.table)
}

func TestSQLPostgres(t *testing.T) {
	ctx := context.Background()
	s, mock := mockSQL(t, "postgres")

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS assets")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assets (kind, name) VALUES ($1, $2) ON CONFLICT DO NOTHING")).
		WithArgs("material", "Steel").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM assets WHERE kind = $1 AND name = $2")).
		WithArgs("material", "Steel").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM assets WHERE kind = $1 ORDER BY name")).
		WithArgs("material").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Brass").AddRow("Steel"))

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Add(ctx, nodetree.AssetMaterial, "Steel"))
	ok, err := s.Exists(ctx, nodetree.AssetMaterial, "Steel")
	require.NoError(t, err)
	assert.True(t, ok)
	names, err := s.Names(ctx, nodetree.AssetMaterial)
	require.NoError(t, err)
	assert.Equal(t, []string{"Brass", "Steel"}, names)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMySQL(t *testing.T) {
	ctx := context.Background()
	s, mock := mockSQL(t, "mysql", WithTable("scene_assets"))

	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO scene_assets (kind, name) VALUES (?, ?)")).
		WithArgs("object", "Empty").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM scene_assets WHERE kind = ? AND name = ?")).
		WithArgs("object", "Camera").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	require.NoError(t, s.Add(ctx, nodetree.AssetObject, "Empty"))
	ok, err := s.Exists(ctx, nodetree.AssetObject, "Camera")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLErrors(t *testing.T) {
	ctx := context.Background()
	s, mock := mockSQL(t, "postgres")
	boom := errors.New("connection reset")

	mock.ExpectQuery("SELECT COUNT").WillReturnError(boom)
	mock.ExpectQuery("SELECT name").WillReturnError(boom)
	mock.ExpectExec("INSERT INTO").WillReturnError(boom)
	mock.ExpectExec("CREATE TABLE").WillReturnError(boom)

	_, err := s.Exists(ctx, nodetree.AssetScene, "Scene")
	assert.ErrorIs(t, err, boom)
	_, err = s.Names(ctx, nodetree.AssetScene)
	assert.ErrorIs(t, err, boom)
	err = s.Add(ctx, nodetree.AssetScene, "Scene")
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, `add scene "Scene"`)
	assert.ErrorIs(t, s.Migrate(ctx), boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQL("sqlite", ":memory:", WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Migrate(ctx))

	m := NewMemory(
		nodetree.Asset{Type: nodetree.AssetMaterial, Name: "Steel"},
		nodetree.Asset{Type: nodetree.AssetCollection, Name: "Rocks"},
	)
	require.NoError(t, s.Import(ctx, m))
	// Duplicates are ignored.
	require.NoError(t, s.Add(ctx, nodetree.AssetMaterial, "Steel"))
	require.NoError(t, s.Add(ctx, nodetree.AssetMaterial, "Brass"))

	names, err := s.Names(ctx, nodetree.AssetMaterial)
	require.NoError(t, err)
	assert.Equal(t, []string{"Brass", "Steel"}, names)
	ok, err := s.Exists(ctx, nodetree.AssetCollection, "Rocks")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Exists(ctx, nodetree.AssetMaterial, "Rocks")
	require.NoError(t, err)
	assert.False(t, ok)

	var c Catalog = s
	ok, err = c.Exists(ctx, nodetree.AssetMaterial, "Brass")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpenSQLUnknownDialect(t *testing.T) {
	_, err := OpenSQL("oracle", "")
	assert.Error(t, err)
}
