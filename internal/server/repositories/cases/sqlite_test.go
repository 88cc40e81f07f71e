package cases

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

func sample(id string) models.TestCase {
	return models.TestCase{
		ID:        id,
		ProjectID: "p-1",
		Title:     "Login with valid credentials",
		Module:    "Authentication",
		Priority:  models.PriorityHigh,
		Status:    models.StatusPending,
		Steps:     []string{"Open login page", "Submit form"},
		Expected:  "Dashboard is shown",
		Timestamp: 1000,
	}
}

func TestUpsertRoundtrip(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "app-1", sample("TC-1001")))

	got, err := repo.List(ctx, "app-1", "p-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Login with valid credentials", got[0].Title)
	assert.Equal(t, []string{"Open login page", "Submit form"}, got[0].Steps)
	assert.Equal(t, models.PriorityHigh, got[0].Priority)

	// Replacing the doc via the same id keeps a single row.
	c := sample("TC-1001")
	c.Title = "Edited"
	c.Script = "await page.goto('/');"
	c.HasAutomation = true
	require.NoError(t, repo.Upsert(ctx, "app-1", c))

	got, err = repo.List(ctx, "app-1", "p-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Edited", got[0].Title)
	assert.True(t, got[0].HasAutomation)
}

func TestUpsert_NilStepsStoredAsEmpty(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	c := sample("TC-1001")
	c.Steps = nil
	require.NoError(t, repo.Upsert(ctx, "app-1", c))

	got, err := repo.List(ctx, "app-1", "p-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{}, got[0].Steps)
}

func TestListIsProjectScoped(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "app-1", sample("TC-1002")))
	require.NoError(t, repo.Upsert(ctx, "app-1", sample("TC-1001")))
	other := sample("TC-2001")
	other.ProjectID = "p-2"
	require.NoError(t, repo.Upsert(ctx, "app-1", other))

	got, err := repo.List(ctx, "app-1", "p-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "TC-1001", got[0].ID)
	assert.Equal(t, "TC-1002", got[1].ID)
}

func TestUpdateStatus(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "app-1", sample("TC-1001")))

	patch := StatusPatch{Status: models.StatusPassed, LastUpdatedBy: "u-1", LastUpdatedByName: "Alice", Timestamp: 2000}
	require.NoError(t, repo.UpdateStatus(ctx, "app-1", "TC-1001", patch))

	got, err := repo.List(ctx, "app-1", "p-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.StatusPassed, got[0].Status)
	assert.Equal(t, "Alice", got[0].LastUpdatedByName)
	assert.EqualValues(t, 2000, got[0].Timestamp)
	// Everything else is untouched.
	assert.Equal(t, "Login with valid credentials", got[0].Title)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "app-1", "TC-404", patch), common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "app-1", sample("TC-1001")))

	require.NoError(t, repo.Delete(ctx, "app-1", "TC-1001"))
	assert.ErrorIs(t, repo.Delete(ctx, "app-1", "TC-1001"), common.ErrorNotFound)
}
