package repository_test

import (
	"testing"

	"go-pos-checkout/internal/model"
	"go-pos-checkout/internal/repository"
	"go-pos-checkout/internal/repository/repositorytest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleRepo_SeedDefaults(t *testing.T) {
	db := repositorytest.NewDB(t)
	require.NoError(t, repository.NewPrivilegeRepo(db).SeedDefaults())
	roles := repository.NewRoleRepo(db)
	require.NoError(t, roles.SeedDefaults())
	require.NoError(t, roles.SeedDefaults())

	manager, err := roles.FindByCode(model.RoleManager)
	require.NoError(t, err)
	assert.Len(t, manager.Privileges, len(model.DefaultPrivileges))

	cashier, err := roles.FindByCode(model.RoleCashier)
	require.NoError(t, err)
	assert.Len(t, cashier.Privileges, len(model.CashierPrivileges))

	_, err = roles.FindByCode("AUDITOR")
	assert.ErrorIs(t, err, repository.ErrRoleNotFound)
}

func TestUserRepo_PasswordAndSession(t *testing.T) {
	db := repositorytest.NewDB(t)
	users := repository.NewUserRepo(db)

	u := &model.User{Email: "ana@example.com", FullName: "Ana", IsActive: true}
	require.NoError(t, u.SetPassword("secret1"))
	require.NoError(t, users.Create(u))

	next := &model.User{}
	require.NoError(t, next.SetPassword("secret2"))
	require.NoError(t, users.UpdatePassword(u.ID, next.Password))
	require.NoError(t, users.UpdateTokenVersion(u.ID, "v2"))

	got, err := users.FindByEmail("ana@example.com")
	require.NoError(t, err)
	assert.True(t, got.CheckPassword("secret2"))
	assert.False(t, got.CheckPassword("secret1"))
	assert.Equal(t, "v2", got.TokenVersion)

	assert.ErrorIs(t, users.UpdatePassword(uuid.New(), next.Password), repository.ErrUserNotFound)

	_, err = users.FindByID(uuid.New())
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	dup := &model.User{Email: "ana@example.com", FullName: "Other", Password: "x"}
	assert.ErrorIs(t, users.Create(dup), repository.ErrDuplicate)
}
