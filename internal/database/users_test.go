package database

import (
	"context"
	"testing"

	"marehpilates/internal/domain"
	"marehpilates/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := &models.User{Username: "admin", PasswordHash: "hash", IsAdmin: true}
	require.NoError(t, db.CreateUser(ctx, user))
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreadoEn.IsZero())

	err := db.CreateUser(ctx, &models.User{Username: "admin", PasswordHash: "x"})
	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "username", dup.Field)

	got, err := db.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.True(t, got.IsAdmin)

	other := &models.User{Username: "caja", PasswordHash: "hash"}
	require.NoError(t, db.CreateUser(ctx, other))
	other.Username = "admin"
	assert.ErrorIs(t, db.UpdateUser(ctx, other), domain.ErrDuplicateName)

	other.Username = "caja2"
	require.NoError(t, db.UpdateUser(ctx, other))

	users, err := db.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "caja2", users[1].Username)

	require.NoError(t, db.DeleteUser(ctx, other.ID))
	_, err = db.GetUser(ctx, other.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
