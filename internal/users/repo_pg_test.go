package users

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groundwater-backend/internal/shared/auth"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

var userColumns = []string{"id", "username", "password_hash", "name", "role", "created_at", "updated_at"}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	user := User{ID: "user-1", Username: "aquifer", PasswordHash: "hash", Name: "Aquifer", Role: auth.RoleAnalyst}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Username, user.PasswordHash, user.Name, "analyst").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), user))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key"})

	err := repo.Create(context.Background(), User{ID: "u", Username: "dup", Role: auth.RoleUser})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetByUsername(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM users").
		WithArgs("Aquifer").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("user-1", "aquifer", "hash", "Aquifer", "admin", created, created))

	user, err := repo.GetByUsername(context.Background(), "Aquifer")
	require.NoError(t, err)
	assert.Equal(t, User{
		ID:           "user-1",
		Username:     "aquifer",
		PasswordHash: "hash",
		Name:         "Aquifer",
		Role:         auth.RoleAdmin,
		CreatedAt:    created,
		UpdatedAt:    created,
	}, user)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM users").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoUnknownRoleDowngradesToUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM users").
		WithArgs("user-2").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("user-2", "legacy", "hash", "Legacy", "superuser", now, now))

	user, err := repo.GetByID(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, user.Role)
}
