package statistics

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premiumgate/premiumgate/app/models"
	"github.com/premiumgate/premiumgate/app/repository"
	"github.com/premiumgate/premiumgate/internal/pkg/database"
	"github.com/premiumgate/premiumgate/internal/pkg/logging"
)

func TestGetWithoutCache(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUserRepository(database.OpenTestDB(t))
	svc := NewService(users, nil, logging.Discard())

	for _, email := range []string{"a@x.com", "b@x.com"} {
		u, err := models.NewUser(email, "secret")
		require.NoError(t, err)
		require.NoError(t, users.Create(ctx, u))
		if email == "a@x.com" {
			_, err = users.ActivateSubscription(ctx, u.ID)
			require.NoError(t, err)
		}
	}

	d, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, Data{TotalUsers: 2, Subscribers: 1}, d)

	// Invalidate is a no-op without redis.
	svc.Invalidate(ctx)
}

func TestGetFallsBackWhenCacheUnreachable(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUserRepository(database.OpenTestDB(t))
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	svc := NewService(users, client, logging.Discard())

	d, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, Data{}, d)
}

func TestParseCount(t *testing.T) {
	n, ok := parseCount("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = parseCount(nil)
	assert.False(t, ok)
	_, ok = parseCount("x")
	assert.False(t, ok)
}
