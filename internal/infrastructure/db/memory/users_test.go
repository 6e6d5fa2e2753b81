package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/core/ports"
)

func TestUsers_CreateAndFind(t *testing.T) {
	repo := NewUsers()
	ctx := context.Background()

	created, err := repo.Create(ctx, &ports.UserAccount{
		User:         domain.User{Name: "A", Email: "Alice@Example.com", Role: domain.RoleUser},
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	_, err = uuid.Parse(string(created.User.ID))
	assert.NoError(t, err, "id should be a uuid")
	assert.Equal(t, "alice@example.com", created.User.Email)

	found, err := repo.FindByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.User, found.User)
	assert.Equal(t, "hash", found.PasswordHash)
}

func TestUsers_Duplicate(t *testing.T) {
	repo := NewUsers()
	ctx := context.Background()
	acc := &ports.UserAccount{User: domain.User{Email: "a@b.com"}}

	_, err := repo.Create(ctx, acc)
	require.NoError(t, err)
	_, err = repo.Create(ctx, acc)
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestUsers_NotFound(t *testing.T) {
	_, err := NewUsers().FindByEmail(context.Background(), "nobody@b.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
