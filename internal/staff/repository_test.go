package staff

import (
	"context"
	"testing"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStaffTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS staff_users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec(`DELETE FROM staff_users`).Error)
	return db
}

func TestRepositoryFindByID(t *testing.T) {
	db := setupStaffTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := &models.StaffUser{
		ID:       uuid.New(),
		Email:    "sam@fntmotorgroup.co.uk",
		Name:     "Sam",
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)
	assert.True(t, found.IsActive)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
