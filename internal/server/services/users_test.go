package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zentesthq/zentest/internal/common"
	"github.com/zentesthq/zentest/internal/server/auth"
	"github.com/zentesthq/zentest/internal/server/migrations"
	"github.com/zentesthq/zentest/internal/server/repositories/users"

	_ "modernc.org/sqlite"
)

var testSecret = []byte("test-secret")

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

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(users.NewSQLiteRepository(setupDB(t)), testSecret, time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	id, token, err := svc.Register(ctx, "alice@example.com", "s3cret", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, id.UID)
	assert.Equal(t, "Alice", id.DisplayName)
	assert.Equal(t, "alice@example.com", id.Email)

	uid, err := auth.GetUserIDFromToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, id.UID, uid)

	id2, token2, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, id.UID, id2.UID)
	assert.NotEmpty(t, token2)
}

func TestRegister_DuplicateLogin(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice@example.com", "s3cret", "Alice")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "alice@example.com", "other", "Alice Again")
	assert.ErrorIs(t, err, common.ErrLoginAlreadyExists)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice@example.com", "s3cret", "Alice")
	require.NoError(t, err)

	tests := []struct {
		name     string
		login    string
		password string
	}{
		{"wrong password", "alice@example.com", "nope"},
		{"unknown user", "bob@example.com", "s3cret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tt.login, tt.password)
			assert.ErrorIs(t, err, common.ErrInvalidCredentials)
		})
	}
}

func TestIdentityByID(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	id, _, err := svc.Register(ctx, "alice@example.com", "s3cret", "Alice")
	require.NoError(t, err)

	got, err := svc.IdentityByID(ctx, id.UID)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = svc.IdentityByID(ctx, "u-404")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
