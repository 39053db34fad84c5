package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitashop/internal/errors"
	"vitashop/internal/testutil"
)

// Unit Tests

func TestNewMySQLUserRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLUserRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func TestUserRepository_FindByID_WithPerson(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLUserRepository(db)

	result, err := db.Exec(`INSERT INTO Users (email) VALUES ('ana@example.com')`)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO Persons (userId, firstName, lastName, document, phone)
		VALUES (?, 'Ana', 'Souza', '12345678909', '5511988887777')
	`, id)
	require.NoError(t, err)

	user, err := repo.FindByID(context.Background(), int(id))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", *user.Email)
	assert.Equal(t, "Ana Souza", user.FullName())
	assert.Equal(t, "12345678909", *user.Document)
	assert.Equal(t, "5511988887777", *user.Phone)
}

func TestUserRepository_FindByID_WithoutPerson(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLUserRepository(db)

	result, err := db.Exec(`INSERT INTO Users (email) VALUES (NULL)`)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)

	user, err := repo.FindByID(context.Background(), int(id))
	require.NoError(t, err)
	assert.Nil(t, user.Email)
	assert.Nil(t, user.Document)
	assert.Equal(t, "", user.FullName())
}

func TestUserRepository_FindByID_Deleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLUserRepository(db)

	result, err := db.Exec(`INSERT INTO Users (email, deletedAt) VALUES ('gone@example.com', NOW())`)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)

	user, err := repo.FindByID(context.Background(), int(id))
	assert.Nil(t, user)

	nfe, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, errors.CodeUserNotFound, nfe.Code)
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLUserRepository(db)

	user, err := repo.FindByID(context.Background(), 424242)
	assert.Nil(t, user)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}
