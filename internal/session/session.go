// Package session owns the resolved identity of the running app. It holds
// the single subscription to the identity provider and is the only place
// allowed to change who the current user is.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/reelplan/reelplan/internal/models"
	"github.com/reelplan/reelplan/internal/provider"
)

// State enumerates the identity-resolution states.
type State int

const (
	// StateUninitialized is the state before Init runs.
	StateUninitialized State = iota
	// StateLoading means the provider has not delivered its first value yet.
	StateLoading
	// StateResolvedGuest means the guest sentinel identity is active.
	StateResolvedGuest
	// StateResolvedAuthenticated means a provider principal is active.
	StateResolvedAuthenticated
	// StateSignedOut means the provider delivered no principal, or the
	// user explicitly signed out.
	StateSignedOut
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateResolvedGuest:
		return "resolved_guest"
	case StateResolvedAuthenticated:
		return "resolved_authenticated"
	case StateSignedOut:
		return "signed_out"
	default:
		return "unknown"
	}
}

// Store resolves and holds the current identity for the process lifetime.
// Construct one per process (or per test) with New; there is no package
// global.
type Store struct {
	gateway provider.Gateway
	log     *zap.Logger

	mu          sync.Mutex
	state       State
	identity    *models.Identity
	initialized bool
	unsub       provider.Unsubscribe
}

// New constructs a Store over the given gateway. The store does nothing
// until Init is called.
func New(gateway provider.Gateway, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		gateway: gateway,
		log:     log,
		state:   StateUninitialized,
	}
}

// Init establishes the one provider subscription for the process
// lifetime and moves the store to Loading. Re-entrant calls are no-ops.
func (s *Store) Init() {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	s.initialized = true
	if s.state == StateUninitialized {
		s.state = StateLoading
	}
	s.mu.Unlock()

	unsub := s.gateway.OnChange(s.applyProviderChange)
	s.mu.Lock()
	s.unsub = unsub
	s.mu.Unlock()
}

// Dispose releases the provider subscription. Called on process shutdown.
func (s *Store) Dispose() {
	s.mu.Lock()
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Identity returns the resolved identity, or nil while loading or after
// sign-out.
func (s *Store) Identity() *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// Loading reports whether the provider's first value is still pending.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateLoading || s.state == StateUninitialized
}

// State returns the current resolution state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetIdentity installs next as the current identity. A guest identity is
// installed immediately, clears loading, and never touches the provider;
// the call is idempotent. A nil next clears the identity (account reset).
// Non-guest identities originate from the provider path and are routed
// through the same guard as provider callbacks.
func (s *Store) SetIdentity(next *models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case next == nil:
		s.identity = nil
		s.state = StateSignedOut
	case next.IsGuest:
		guest := models.NewGuestIdentity()
		s.identity = &guest
		s.state = StateResolvedGuest
		s.log.Info("guest session installed")
	default:
		id := *next
		s.identity = &id
		s.state = StateResolvedAuthenticated
	}
}

// SignOut explicitly ends the current session, including a guest one,
// and revokes the provider session.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	wasGuest := s.identity != nil && s.identity.IsGuest
	s.identity = nil
	s.state = StateSignedOut
	s.mu.Unlock()

	// A guest session has no provider counterpart to revoke.
	if wasGuest {
		return nil
	}
	return s.gateway.SignOut(ctx)
}

// applyProviderChange is the single provider-callback entry point.
// The guest re-check happens under the lock immediately before the update
// is applied: a delayed authenticated callback racing a guest selection
// must never evict the guest session.
func (s *Store) applyProviderChange(p *provider.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity != nil && s.identity.IsGuest {
		s.log.Debug("provider update discarded, guest session active")
		return
	}

	if p == nil {
		s.identity = nil
		s.state = StateSignedOut
		return
	}

	id, err := models.NewIdentity(p.ID, p.Email, p.DisplayName, p.AvatarRef)
	if err != nil {
		// A malformed principal cannot evict whatever is resolved.
		s.log.Warn("provider delivered invalid principal", zap.Error(err))
		return
	}
	s.identity = &id
	s.state = StateResolvedAuthenticated
	s.log.Info("identity resolved", zap.String("user", id.ID))
}
