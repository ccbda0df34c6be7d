package users_test

import (
	"context"
	"testing"

	"irrigation-manager/core/database"
	"irrigation-manager/feature/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupUsers(t *testing.T) *users.Service {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&users.User{}))
	return users.NewService(db, zap.NewNop())
}

func TestResolve(t *testing.T) {
	svc := setupUsers(t)

	err := svc.Create(context.Background(), &users.User{
		Username: "agro1",
		FullName: "Agronomist One",
		Role:     users.RoleAgronomist,
	})
	require.NoError(t, err)

	user, err := svc.Resolve(context.Background(), "agro1")
	require.NoError(t, err)
	assert.Equal(t, "Agronomist One", user.FullName)
	assert.Equal(t, users.RoleAgronomist, user.Role)
	assert.NotZero(t, user.ID)
}

func TestResolveUnknown(t *testing.T) {
	svc := setupUsers(t)

	_, err := svc.Resolve(context.Background(), "nobody")
	assert.ErrorIs(t, err, users.ErrUserNotFound)
	assert.Contains(t, err.Error(), "nobody")
}

func TestCreateDuplicateUsername(t *testing.T) {
	svc := setupUsers(t)

	require.NoError(t, svc.Create(context.Background(), &users.User{Username: "op", Role: users.RoleOperator}))
	err := svc.Create(context.Background(), &users.User{Username: "op", Role: users.RoleOperator})
	assert.Error(t, err)
}
