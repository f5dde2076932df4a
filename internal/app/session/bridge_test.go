package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/saascom/storefront-gateway/pkg/redis"
	"github.com/saascom/storefront-gateway/pkg/storeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	calls *int64
	user  *storeapi.User
	err   error
}

func (f *fakeResolver) Me(ctx context.Context) (*storeapi.User, error) {
	atomic.AddInt64(f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func newTestCache(t *testing.T) *redis.IdentityCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redis.NewIdentityCache(client, time.Minute)
}

func TestBridge_EmptyTokenResolvesAnonymous(t *testing.T) {
	var calls int64
	bridge := NewBridge(func(token string) Resolver {
		return &fakeResolver{calls: &calls}
	}, nil, nil)

	user, err := bridge.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, Anonymous, bridge.StateOf(""))
	assert.Zero(t, atomic.LoadInt64(&calls), "empty token must not hit the upstream")
}

func TestBridge_ResolvesIdentity(t *testing.T) {
	var calls int64
	bridge := NewBridge(func(token string) Resolver {
		return &fakeResolver{calls: &calls, user: &storeapi.User{ID: 42, Name: "Maria"}}
	}, nil, nil)

	user, err := bridge.Resolve(context.Background(), "token-a")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "Maria", user.Name)
	assert.Equal(t, Resolved, bridge.StateOf("token-a"))
	assert.Equal(t, Unresolved, bridge.StateOf("token-b"))
}

func TestBridge_CacheHitSkipsUpstream(t *testing.T) {
	var calls int64
	bridge := NewBridge(func(token string) Resolver {
		return &fakeResolver{calls: &calls, user: &storeapi.User{ID: 42, Name: "Maria"}}
	}, newTestCache(t), nil)

	_, err := bridge.Resolve(context.Background(), "token-a")
	require.NoError(t, err)
	require.Equal(t, int64(1), atomic.LoadInt64(&calls))

	user, err := bridge.Resolve(context.Background(), "token-a")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls), "second resolve must be served from cache")
}

func TestBridge_RejectedTokenDropsDependentState(t *testing.T) {
	var calls int64
	var droppedID atomic.Int64
	cache := newTestCache(t)

	resolver := &fakeResolver{calls: &calls, user: &storeapi.User{ID: 42, Name: "Maria"}}
	bridge := NewBridge(func(token string) Resolver {
		return resolver
	}, cache, func(userID int64) {
		droppedID.Store(userID)
	})

	// Resolve once so the bridge knows who the token belonged to.
	_, err := bridge.Resolve(context.Background(), "token-a")
	require.NoError(t, err)

	// The upstream starts rejecting the token; the cached identity must not
	// mask that, so evict it first the way a TTL expiry would.
	require.NoError(t, cache.Evict(context.Background(), "token-a"))
	resolver.err = storeapi.ErrUnauthorized

	user, err := bridge.Resolve(context.Background(), "token-a")
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Nil(t, user)
	assert.Equal(t, Anonymous, bridge.StateOf("token-a"))
	assert.Equal(t, int64(42), droppedID.Load(), "cart mirror drop must receive the lost identity")
}

func TestBridge_TransientErrorPreservesState(t *testing.T) {
	var calls int64
	resolver := &fakeResolver{calls: &calls, user: &storeapi.User{ID: 42, Name: "Maria"}}
	bridge := NewBridge(func(token string) Resolver {
		return resolver
	}, nil, nil)

	_, err := bridge.Resolve(context.Background(), "token-a")
	require.NoError(t, err)
	require.Equal(t, Resolved, bridge.StateOf("token-a"))

	resolver.err = storeapi.ErrNetwork
	user, err := bridge.Resolve(context.Background(), "token-a")
	assert.ErrorIs(t, err, storeapi.ErrNetwork)
	assert.Nil(t, user)
	assert.Equal(t, Resolved, bridge.StateOf("token-a"), "a transient failure makes no identity decision")
}

func TestBridge_InvalidateEvictsCache(t *testing.T) {
	var calls int64
	cache := newTestCache(t)
	bridge := NewBridge(func(token string) Resolver {
		return &fakeResolver{calls: &calls, user: &storeapi.User{ID: 42, Name: "Maria"}}
	}, cache, nil)

	_, err := bridge.Resolve(context.Background(), "token-a")
	require.NoError(t, err)

	bridge.Invalidate(context.Background(), "token-a")
	assert.Equal(t, Anonymous, bridge.StateOf("token-a"))

	payload, err := cache.Get(context.Background(), "token-a")
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestBridge_CloseClearsIdentity(t *testing.T) {
	var calls int64
	bridge := NewBridge(func(token string) Resolver {
		return &fakeResolver{calls: &calls, user: &storeapi.User{ID: 42, Name: "Maria"}}
	}, nil, nil)

	_, err := bridge.Resolve(context.Background(), "token-a")
	require.NoError(t, err)

	bridge.Close()
	assert.Equal(t, Unresolved, bridge.StateOf("token-a"))
}

func TestBridge_RejectedTokenOnlyDropsItsOwnIdentity(t *testing.T) {
	var calls int64
	var dropped []int64

	// token-a belongs to user 1; token-b was never valid.
	bridge := NewBridge(func(token string) Resolver {
		if token == "token-a" {
			return &fakeResolver{calls: &calls, user: &storeapi.User{ID: 1, Name: "Maria"}}
		}
		return &fakeResolver{calls: &calls, err: storeapi.ErrUnauthorized}
	}, nil, func(userID int64) {
		dropped = append(dropped, userID)
	})

	_, err := bridge.Resolve(context.Background(), "token-a")
	require.NoError(t, err)

	// Rejecting token-b must not touch user 1's session or cart.
	_, err = bridge.Resolve(context.Background(), "token-b")
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Empty(t, dropped, "no resolved identity ever belonged to token-b")
	assert.Equal(t, Resolved, bridge.StateOf("token-a"))
	assert.Equal(t, Anonymous, bridge.StateOf("token-b"))

	// Rejecting token-a itself drops exactly user 1.
	bridge.Invalidate(context.Background(), "token-a")
	assert.Equal(t, []int64{1}, dropped)
	assert.Equal(t, Anonymous, bridge.StateOf("token-a"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unresolved", Unresolved.String())
	assert.Equal(t, "resolving", Resolving.String())
	assert.Equal(t, "resolved", Resolved.String())
	assert.Equal(t, "anonymous", Anonymous.String())
}
