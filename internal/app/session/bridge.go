package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/saascom/storefront-gateway/internal/app/model"
	"github.com/saascom/storefront-gateway/pkg/logger"
	"github.com/saascom/storefront-gateway/pkg/storeapi"
)

var (
	// ErrTokenInvalid is returned when the upstream rejects the session token.
	// The caller is expected to dispose of the token.
	ErrTokenInvalid = errors.New("session token invalid")
)

// State is a token's resolution state.
type State int

const (
	Unresolved State = iota
	Resolving
	Resolved
	Anonymous
)

func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	case Anonymous:
		return "anonymous"
	default:
		return "unresolved"
	}
}

// Resolver turns a bearer token into a user identity. *storeapi.Client bound
// with WithToken satisfies it.
type Resolver interface {
	Me(ctx context.Context) (*storeapi.User, error)
}

// ResolverFactory binds a session token to a Resolver.
type ResolverFactory func(token string) Resolver

// IdentityCache is the optional identity cache; pkg/redis provides one.
type IdentityCache interface {
	Get(ctx context.Context, token string) ([]byte, error)
	Set(ctx context.Context, token string, payload []byte) error
	Evict(ctx context.Context, token string) error
}

// Bridge resolves session tokens to user identities. Resolution state is kept
// per token: the gateway serves many sessions at once, and invalidating one
// token must only drop the state that token resolved to. On invalidation the
// token transitions to Anonymous, its cached identity is evicted and the
// onAnonymous hook fires so dependent state (the cart mirror) is discarded.
type Bridge struct {
	resolve     ResolverFactory
	cache       IdentityCache // may be nil
	onAnonymous func(userID int64)

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	state  State
	userID int64
}

// NewBridge creates a bridge. cache and onAnonymous may be nil.
func NewBridge(resolve ResolverFactory, cache IdentityCache, onAnonymous func(userID int64)) *Bridge {
	return &Bridge{
		resolve:     resolve,
		cache:       cache,
		onAnonymous: onAnonymous,
		sessions:    make(map[string]*sessionEntry),
	}
}

// StateOf reports the resolution state of a token. The empty token is always
// Anonymous; a token the bridge has never seen is Unresolved.
func (b *Bridge) StateOf(token string) State {
	if token == "" {
		return Anonymous
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if entry, ok := b.sessions[token]; ok {
		return entry.state
	}
	return Unresolved
}

// Resolve maps a session token to a user identity. An empty token resolves to
// Anonymous without an upstream call. An upstream rejection returns
// ErrTokenInvalid; transient failures return the underlying error and leave
// the token's previous state in place.
func (b *Bridge) Resolve(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}

	b.mu.Lock()
	previous := sessionEntry{state: Unresolved}
	if entry, ok := b.sessions[token]; ok {
		previous = *entry
	}
	b.sessions[token] = &sessionEntry{state: Resolving, userID: previous.userID}
	b.mu.Unlock()

	if b.cache != nil {
		payload, err := b.cache.Get(ctx, token)
		if err != nil {
			logger.Warn("Identity cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else if payload != nil {
			var user model.User
			if err := json.Unmarshal(payload, &user); err == nil {
				b.transition(token, Resolved, user.ID)
				return &user, nil
			}
		}
	}

	identity, err := b.resolve(token).Me(ctx)
	if err != nil {
		if errors.Is(err, storeapi.ErrUnauthorized) {
			b.invalidate(ctx, token)
			return nil, ErrTokenInvalid
		}
		// Transient failure: no identity decision can be made.
		b.transition(token, previous.state, previous.userID)
		return nil, err
	}

	user := &model.User{ID: identity.ID, Name: identity.Name}
	if b.cache != nil {
		if payload, err := json.Marshal(user); err == nil {
			if err := b.cache.Set(ctx, token, payload); err != nil {
				logger.Warn("Identity cache write failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	b.transition(token, Resolved, user.ID)
	return user, nil
}

// Invalidate disposes of a token explicitly (logout)
func (b *Bridge) Invalidate(ctx context.Context, token string) {
	b.invalidate(ctx, token)
}

// Close tears the bridge down, dropping all per-token state so nothing reads
// it stale.
func (b *Bridge) Close() {
	b.mu.Lock()
	b.sessions = make(map[string]*sessionEntry)
	b.mu.Unlock()
}

// invalidate drops a token. The identity whose dependent state is discarded is
// derived from the rejected token only, never from sessions other tokens
// resolved.
func (b *Bridge) invalidate(ctx context.Context, token string) {
	var knownID int64

	if b.cache != nil {
		if payload, err := b.cache.Get(ctx, token); err == nil && payload != nil {
			var cached model.User
			if err := json.Unmarshal(payload, &cached); err == nil {
				knownID = cached.ID
			}
		}
		if err := b.cache.Evict(ctx, token); err != nil {
			logger.Warn("Identity cache eviction failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	b.mu.Lock()
	if entry, ok := b.sessions[token]; ok && entry.userID != 0 {
		knownID = entry.userID
	}
	b.sessions[token] = &sessionEntry{state: Anonymous}
	b.mu.Unlock()

	if knownID != 0 && b.onAnonymous != nil {
		b.onAnonymous(knownID)
	}

	logger.Info("Session token invalidated", map[string]interface{}{
		"user_id": knownID,
	})
}

func (b *Bridge) transition(token string, state State, userID int64) {
	b.mu.Lock()
	b.sessions[token] = &sessionEntry{state: state, userID: userID}
	b.mu.Unlock()
}
