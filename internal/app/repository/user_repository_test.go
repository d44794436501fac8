package repository

import (
	"context"
	"testing"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return testDB, NewUserRepository(testDB)
}

func newUser(email string, role model.UserRole) *model.User {
	return &model.User{Email: email, PasswordHash: "hash", Role: role, Status: model.StatusActive}
}

func TestUserRepository_RegisterFirstIsOwner(t *testing.T) {
	_, repo := setupUserTest(t)
	ctx := context.Background()

	first := &model.User{Email: "first@store.local", PasswordHash: "hash", Status: model.StatusActive}
	require.NoError(t, repo.Register(ctx, first))
	assert.Equal(t, model.RoleOwner, first.Role)

	second := &model.User{Email: "second@store.local", PasswordHash: "hash", Status: model.StatusActive}
	require.NoError(t, repo.Register(ctx, second))
	assert.Equal(t, model.RoleEditor, second.Role)

	dup := &model.User{Email: "second@store.local", PasswordHash: "hash", Status: model.StatusActive}
	assert.Error(t, repo.Register(ctx, dup))
}

func TestUserRepository_FindByEmail(t *testing.T) {
	_, repo := setupUserTest(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newUser("owner@store.local", model.RoleOwner)))

	found, err := repo.FindByEmail(ctx, "owner@store.local")
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, found.Role)

	_, err = repo.FindByEmail(ctx, "missing@store.local")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_LastOwnerGuards(t *testing.T) {
	_, repo := setupUserTest(t)
	ctx := context.Background()

	owner := newUser("owner@store.local", model.RoleOwner)
	editor := newUser("editor@store.local", model.RoleEditor)
	require.NoError(t, repo.Create(ctx, owner))
	require.NoError(t, repo.Create(ctx, editor))

	_, err := repo.UpdateRole(ctx, owner.ID, model.RoleEditor)
	assert.ErrorIs(t, err, ErrLastOwner)

	_, err = repo.UpdateStatus(ctx, owner.ID, model.StatusInactive)
	assert.ErrorIs(t, err, ErrLastOwner)

	assert.ErrorIs(t, repo.Delete(ctx, owner.ID), ErrLastOwner)

	// editors are unconstrained
	updated, err := repo.UpdateStatus(ctx, editor.ID, model.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInactive, updated.Status)

	// promote the editor, then the first owner may step down
	promoted, err := repo.UpdateRole(ctx, editor.ID, model.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, promoted.Role)

	// the only other owner is inactive, so the active one must stay
	_, err = repo.UpdateStatus(ctx, owner.ID, model.StatusInactive)
	assert.ErrorIs(t, err, ErrLastOwner)
	_, err = repo.UpdateRole(ctx, owner.ID, model.RoleEditor)
	assert.ErrorIs(t, err, ErrLastOwner)

	_, err = repo.UpdateStatus(ctx, editor.ID, model.StatusActive)
	require.NoError(t, err)

	demoted, err := repo.UpdateRole(ctx, owner.ID, model.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, model.RoleEditor, demoted.Role)

	require.NoError(t, repo.Delete(ctx, owner.ID))
	_, err = repo.FindByID(ctx, owner.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	_, repo := setupUserTest(t)
	ctx := context.Background()
	u := newUser("owner@store.local", model.RoleOwner)
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash"))
	found, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", found.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, 9999, "x"), gorm.ErrRecordNotFound)
}
