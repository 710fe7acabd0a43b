package repository

import (
	"context"
	"testing"
	"time"

	"cashlog/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_FindByEmail_Normalizes(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE email = \\?").
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "password", "is_admin", "is_active", "created_at", "updated_at"}).
			AddRow(1, "ada@example.com", "Ada", "hash", false, true, now, now))

	u, err := repo.FindByEmail(context.Background(), "  Ada@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	u := &models.User{Email: "Bob@Example.com", Name: "Bob", Password: "hash", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, "bob@example.com", u.Email)
	assert.Equal(t, uint(3), u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_Cascades(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `expenses` WHERE user_id = \\?").
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM `budgets` WHERE user_id = \\?").
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `users` WHERE `users`.`id` = \\?").
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 3))
	require.NoError(t, mock.ExpectationsWereMet())
}
