package session

import (
	"context"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/notaris/notaris/sdk"
	"github.com/notaris/notaris/sdk/api"
	"github.com/notaris/notaris/sdk/tokens"
)

// State is a snapshot of who, if anyone, is currently signed in.
type State struct {
	User          *sdk.User
	Authenticated bool
}

// Manager is the single source of truth for session state and the only
// component permitted to transition it. Everything else reads: synchronously
// through CurrentUser / IsAuthenticated, or reactively through Subscribe.
//
// Sign-in never writes bearer tokens to the credential store; the server's
// cookie session carries authentication across requests, and persisting
// tokens through the tokens.Service is a separate, independent capability.
// Teardown is NOT independent: whenever the session ends, by explicit logout
// or by a 401 the pipeline observed, the manager also clears the stored
// credential record, so no token or user snapshot outlives the session it
// belongs to.
type Manager interface {
	// SignIn authenticates and, on success, transitions to Authenticated with
	// the returned user. On failure state is unchanged and the error is
	// returned after centralized logging.
	SignIn(context.Context, sdk.Credentials) (sdk.User, error)
	// SignUp registers a new account and, on success, transitions to
	// Authenticated with the returned user.
	SignUp(context.Context, sdk.Registration) (sdk.User, error)
	// ResetPassword is a pure pass-through; no state mutation.
	ResetPassword(context.Context, sdk.PasswordReset) error
	// ChangePassword is a pure pass-through; no state mutation.
	ChangePassword(ctx context.Context, id string, change sdk.PasswordChange) error
	// Logout tears down the server-side session. Local state is cleared
	// whether or not the network call succeeds; a network error is still
	// returned so the caller can report connectivity trouble.
	Logout(context.Context) error
	// Refresh re-synchronizes the cached user with the server's copy.
	Refresh(context.Context) error
	// Hydrate installs an externally supplied user, entering Authenticated.
	// Used when an embedding application already knows who is signed in.
	Hydrate(user sdk.User)
	// CurrentUser returns the signed-in user, or nil.
	CurrentUser() *sdk.User
	// IsAuthenticated reports whether a user is currently signed in.
	IsAuthenticated() bool
	// Subscribe returns a channel receiving a State snapshot after every
	// transition. Notifications coalesce for slow receivers.
	Subscribe() <-chan State
}

type manager struct {
	authClient api.AuthClient
	tokens     tokens.Service

	mu            sync.RWMutex
	currentUser   *sdk.User
	authenticated bool
	subscribers   []chan State
}

// NewManager returns a Manager issuing its requests through the given API
// client. The manager registers itself for session termination: any 401 the
// pipeline observes on a protected endpoint clears local state exactly as an
// explicit logout would. When a token service is supplied, both teardown
// paths also clear the credential record it holds; tokenService may be nil
// for callers that never persist tokens.
func NewManager(client api.Client, tokenService tokens.Service) Manager {
	m := &manager{
		authClient: client.Auth(),
		tokens:     tokenService,
	}
	client.OnSessionTerminated(m.clear)
	return m
}

func (m *manager) SignIn(
	ctx context.Context,
	credentials sdk.Credentials,
) (sdk.User, error) {
	authDetails, err := m.authClient.SignIn(ctx, credentials)
	if err != nil {
		glog.Errorf("error signing in %q: %s", credentials.Email, err)
		return sdk.User{}, err
	}
	m.setUser(authDetails.User)
	return authDetails.User, nil
}

func (m *manager) SignUp(
	ctx context.Context,
	registration sdk.Registration,
) (sdk.User, error) {
	authDetails, err := m.authClient.SignUp(ctx, registration)
	if err != nil {
		glog.Errorf("error signing up %q: %s", registration.Email, err)
		return sdk.User{}, err
	}
	m.setUser(authDetails.User)
	return authDetails.User, nil
}

func (m *manager) ResetPassword(
	ctx context.Context,
	reset sdk.PasswordReset,
) error {
	return m.authClient.ResetPassword(ctx, reset)
}

func (m *manager) ChangePassword(
	ctx context.Context,
	id string,
	change sdk.PasswordChange,
) error {
	return m.authClient.ChangePassword(ctx, id, change)
}

func (m *manager) Logout(ctx context.Context) error {
	err := m.authClient.Logout(ctx)
	// Local consistency over strict error-then-cleanup ordering: the local
	// session ends now even if the server never heard about it.
	m.clear()
	if err != nil {
		glog.Errorf("error deleting server-side session: %s", err)
		return errors.Wrap(err, "error deleting server-side session")
	}
	return nil
}

func (m *manager) Refresh(ctx context.Context) error {
	user, err := m.authClient.Me(ctx)
	if err != nil {
		return errors.Wrap(err, "error refreshing current user")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// A suppressed 401 already cleared state through the termination
	// handler; do not resurrect it with a zero-valued user.
	if !m.authenticated {
		return nil
	}
	userCopy := user
	m.currentUser = &userCopy
	m.notify()
	return nil
}

func (m *manager) Hydrate(user sdk.User) {
	m.setUser(user)
}

func (m *manager) CurrentUser() *sdk.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.currentUser == nil {
		return nil
	}
	userCopy := *m.currentUser
	return &userCopy
}

func (m *manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authenticated
}

func (m *manager) Subscribe() <-chan State {
	m.mu.Lock()
	defer m.mu.Unlock()
	subscriber := make(chan State, 1)
	m.subscribers = append(m.subscribers, subscriber)
	return subscriber
}

func (m *manager) setUser(user sdk.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userCopy := user
	m.currentUser = &userCopy
	m.authenticated = true
	m.notify()
}

func (m *manager) clear() {
	if m.tokens != nil {
		if err := m.tokens.ClearTokens(); err != nil {
			glog.Errorf("error clearing stored credentials: %s", err)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentUser = nil
	m.authenticated = false
	m.notify()
}

// notify is called with m.mu held. Each snapshot carries its own copy of the
// user so a subscriber cannot mutate the manager's state through it.
func (m *manager) notify() {
	state := State{
		Authenticated: m.authenticated,
	}
	if m.currentUser != nil {
		userCopy := *m.currentUser
		state.User = &userCopy
	}
	for _, subscriber := range m.subscribers {
		select {
		case subscriber <- state:
		default:
			select {
			case <-subscriber:
			default:
			}
			select {
			case subscriber <- state:
			default:
			}
		}
	}
}
