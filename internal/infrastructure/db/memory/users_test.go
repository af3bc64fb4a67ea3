package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/catalog-api/internal/core/domain"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{ID: "1", Username: "alice", PasswordHash: "h", Role: domain.RoleCustomer})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1", found.ID)

	_, err = repo.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{ID: "1", Username: "alice", Role: domain.RoleCustomer})
	require.NoError(t, err)
	created.Role = domain.RoleAdministrator

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, found.Role)
}

func TestUserRepository_ConcurrentDuplicateRegistration(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, &domain.User{ID: fmt.Sprint(i), Username: "alice", Role: domain.RoleCustomer})
			switch {
			case err == nil:
				successes.Add(1)
			case err == domain.ErrUserExists:
				conflicts.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(49), conflicts.Load())
}
