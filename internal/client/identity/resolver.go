// Package identity tracks who the client is acting as. Resolution starts
// undetermined, then settles into one of three terminal modes: an
// authenticated account, the shared guest profile, or signed out.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/zentesthq/zentest/internal/common"
	"github.com/zentesthq/zentest/internal/models"
)

// State is the resolver's current authentication mode.
type State int

const (
	// StateUnresolved means no determination has been made yet.
	StateUnresolved State = iota
	// StateUnauthenticated means resolution finished with no session.
	StateUnauthenticated
	// StateGuest means the client runs against local preview data.
	StateGuest
	// StateAuthenticated means a server session is active.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateGuest:
		return "guest"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unresolved"
	}
}

// Provider performs credential exchange against an auth service.
type Provider interface {
	Register(ctx context.Context, login, password string) (models.Identity, error)
	Login(ctx context.Context, login, password string) (models.Identity, error)
	Logout(ctx context.Context) error
}

// ChangeFunc receives every settled state transition. The identity is
// only meaningful for StateGuest and StateAuthenticated.
type ChangeFunc func(State, models.Identity)

// Resolver owns the auth state machine. A nil provider marks an
// unconfigured client: only guest mode is reachable.
type Resolver struct {
	provider Provider
	onChange ChangeFunc

	mu       sync.Mutex
	state    State
	identity models.Identity
}

func NewResolver(provider Provider, onChange ChangeFunc) *Resolver {
	return &Resolver{provider: provider, onChange: onChange}
}

// Configured reports whether a real auth provider is wired in.
func (r *Resolver) Configured() bool { return r.provider != nil }

// Resolve performs the initial determination. Without a provider the
// client can only preview, so it drops straight into guest mode.
func (r *Resolver) Resolve(ctx context.Context) {
	if r.provider == nil {
		r.ContinueAsGuest()
		return
	}
	r.transition(StateUnauthenticated, models.Identity{})
}

// ContinueAsGuest switches to the shared demo profile.
func (r *Resolver) ContinueAsGuest() {
	r.transition(StateGuest, models.Guest())
}

// Login exchanges credentials for a session. A cancelled popup-style
// flow is swallowed silently; a domain restriction gets a verbose
// explanation; everything else passes through unchanged.
func (r *Resolver) Login(ctx context.Context, login, password string) error {
	return r.signIn(ctx, login, password, false)
}

// Register creates an account and signs it in.
func (r *Resolver) Register(ctx context.Context, login, password string) error {
	return r.signIn(ctx, login, password, true)
}

func (r *Resolver) signIn(ctx context.Context, login, password string, register bool) error {
	if r.provider == nil {
		return common.ErrNotConfigured
	}
	var (
		id  models.Identity
		err error
	)
	if register {
		id, err = r.provider.Register(ctx, login, password)
	} else {
		id, err = r.provider.Login(ctx, login, password)
	}
	if err != nil {
		return mapSignInError(err)
	}
	r.transition(StateAuthenticated, id)
	return nil
}

// Logout tears down the session and returns to the signed-out state.
// Guest sessions have nothing to tear down server-side.
func (r *Resolver) Logout(ctx context.Context) error {
	r.mu.Lock()
	state := r.state
	r.mu.Unlock()

	if state == StateAuthenticated && r.provider != nil {
		if err := r.provider.Logout(ctx); err != nil {
			return err
		}
	}
	r.transition(StateUnauthenticated, models.Identity{})
	return nil
}

// Current returns the settled state and identity.
func (r *Resolver) Current() (State, models.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.identity
}

func (r *Resolver) transition(state State, id models.Identity) {
	r.mu.Lock()
	r.state = state
	r.identity = id
	r.mu.Unlock()
	if r.onChange != nil {
		r.onChange(state, id)
	}
}

func mapSignInError(err error) error {
	switch {
	case errors.Is(err, common.ErrPopupClosedByUser):
		// the user backed out on purpose, not a failure
		return nil
	case errors.Is(err, common.ErrUnauthorizedDomain):
		return fmt.Errorf("sign-in blocked: this origin is not on the auth provider's allowlist, add it to the authorized domains and retry: %w", err)
	default:
		return err
	}
}
