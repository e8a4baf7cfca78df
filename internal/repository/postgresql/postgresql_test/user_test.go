package postgresql_test

import (
	"context"
	"testing"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/controlfichajes/fichajes-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	created := setup.createTestUser(t, "Ana", "Ana@Demo.local", user.RoleEmployee)
	assert.NotZero(t, created.ID)
	assert.Equal(t, user.StatusActive, created.Status)

	byEmail, err := repo.GetByEmail(ctx, "ana@demo.local")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byName, err := repo.GetByIdentifier(ctx, "ANA")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = repo.GetByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	first := setup.createTestUser(t, "Ana", "ana@demo.local", user.RoleEmployee)

	_, err := repo.Create(ctx, user.User{
		FirstName:    "Other",
		Email:        "ANA@demo.local",
		PasswordHash: "x",
		Role:         user.RoleEmployee,
		Status:       user.StatusActive,
	})
	assert.ErrorIs(t, err, user.ErrEmailExists)

	exists, err := repo.ExistsByEmail(ctx, "ana@DEMO.local", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "ana@demo.local", &first.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_ListFilterAndSort(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	setup.createTestUser(t, "Carla", "carla@demo.local", user.RoleEmployee)
	admin := setup.createTestUser(t, "Berta", "berta@demo.local", user.RoleAdmin)
	inactive := setup.createTestUser(t, "Alba", "alba@demo.local", user.RoleEmployee)
	require.NoError(t, repo.UpdateStatus(ctx, inactive.ID, user.StatusInactive))

	all, err := repo.List(ctx, user.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Alba", "Berta", "Carla"}, []string{all[0].FirstName, all[1].FirstName, all[2].FirstName})

	role := user.RoleAdmin
	admins, err := repo.List(ctx, user.ListFilter{Role: &role})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, admin.ID, admins[0].ID)

	active := true
	actives, err := repo.List(ctx, user.ListFilter{Active: &active})
	require.NoError(t, err)
	assert.Len(t, actives, 2)

	search := "CARL"
	found, err := repo.List(ctx, user.ListFilter{Search: &search})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Carla", found[0].FirstName)

	percent := "%"
	none, err := repo.List(ctx, user.ListFilter{Search: &percent})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUserRepository_UpdateAndDelete(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	u := setup.createTestUser(t, "Ana", "ana@demo.local", user.RoleEmployee)

	u.LastName = "Lopez"
	updated, err := repo.Update(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "Lopez", updated.LastName)

	require.NoError(t, repo.UpdateRole(ctx, u.ID, user.RoleAdmin))
	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, got.Role)

	require.NoError(t, repo.Delete(ctx, u.ID))
	assert.ErrorIs(t, repo.Delete(ctx, u.ID), user.ErrUserNotFound)
}
