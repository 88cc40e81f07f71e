package projects

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zentesthq/zentest/internal/common"
	"github.com/zentesthq/zentest/internal/models"
	"github.com/zentesthq/zentest/internal/server/migrations"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(db, "."))
	return db
}

func TestUpsertAndList(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "app-1", models.Project{ID: "p-2", Name: "Web", Color: "#fff", Initial: "WE", Owner: "u-1"}))
	require.NoError(t, repo.Upsert(ctx, "app-1", models.Project{ID: "p-1", Name: "Mobile", Color: "#000", Initial: "MO", Owner: "u-1"}))
	require.NoError(t, repo.Upsert(ctx, "app-2", models.Project{ID: "p-1", Name: "Other App", Owner: "u-9"}))

	got, err := repo.List(ctx, "app-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Mobile", got[0].Name)
	assert.Equal(t, "Web", got[1].Name)

	// Upserting again replaces the row instead of duplicating it.
	require.NoError(t, repo.Upsert(ctx, "app-1", models.Project{ID: "p-1", Name: "Mobile v2", Color: "#000", Initial: "MO", Owner: "u-1"}))
	got, err = repo.List(ctx, "app-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Mobile v2", got[0].Name)
}

func TestUpdateMeta(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "app-1", models.Project{ID: "p-1", Name: "Mobile", Owner: "u-1"}))

	require.NoError(t, repo.UpdateMeta(ctx, "app-1", "p-1", "Renamed", "#3b82f6", "RE"))

	got, err := repo.List(ctx, "app-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Renamed", got[0].Name)
	assert.Equal(t, "#3b82f6", got[0].Color)
	assert.Equal(t, "u-1", got[0].Owner)

	err = repo.UpdateMeta(ctx, "app-1", "p-404", "x", "", "")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "app-1", models.Project{ID: "p-1", Name: "Mobile", Owner: "u-1"}))

	require.NoError(t, repo.Delete(ctx, "app-1", "p-1"))
	got, err := repo.List(ctx, "app-1")
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.ErrorIs(t, repo.Delete(ctx, "app-1", "p-1"), common.ErrorNotFound)
}
