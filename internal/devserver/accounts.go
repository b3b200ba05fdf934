package devserver

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/notaris/notaris/sdk"
)

// signingKey signs the bearer tokens the dev server mints. Development only;
// the value is not a secret.
var signingKey = []byte("notaris-devserver")

type account struct {
	user         sdk.User
	passwordHash []byte
}

type serverSession struct {
	email   string
	expires time.Time
}

// registry is the dev server's in-memory account and session storage.
type registry struct {
	mu       sync.Mutex
	accounts map[string]*account
	sessions map[string]serverSession

	sessionTTL time.Duration
	tokenTTL   time.Duration
}

func newRegistry(sessionTTL, tokenTTL time.Duration) (*registry, error) {
	r := &registry{
		accounts:   map[string]*account{},
		sessions:   map[string]serverSession{},
		sessionTTL: sessionTTL,
		tokenTTL:   tokenTTL,
	}
	// A notary and a clerk to sign in as out of the box.
	for _, fixture := range []struct {
		user     sdk.User
		password string
	}{
		{
			user: sdk.User{
				ID:        uuid.NewV4().String(),
				FirstName: "Camille",
				LastName:  "Moreau",
				Email:     "camille@notaris.test",
				Profile:   sdk.ProfileNotary,
			},
			password: "notaire",
		},
		{
			user: sdk.User{
				ID:        uuid.NewV4().String(),
				FirstName: "Lucien",
				LastName:  "Garnier",
				Email:     "lucien@notaris.test",
				Profile:   sdk.ProfileClerk,
			},
			password: "clerc",
		},
	} {
		if err := r.createAccount(fixture.user, fixture.password); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *registry) createAccount(user sdk.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return errors.Wrap(err, "error hashing password")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[user.Email]; ok {
		return sdk.NewErrConflict("User", user.Email)
	}
	now := time.Now()
	user.Created = &now
	r.accounts[user.Email] = &account{
		user:         user,
		passwordHash: hash,
	}
	return nil
}

func (r *registry) authenticate(email, password string) (sdk.User, error) {
	r.mu.Lock()
	acct, ok := r.accounts[email]
	r.mu.Unlock()
	if !ok {
		return sdk.User{}, sdk.NewErrAuthentication("unknown user")
	}
	if err := bcrypt.CompareHashAndPassword(
		acct.passwordHash,
		[]byte(password),
	); err != nil {
		return sdk.User{}, sdk.NewErrAuthentication("bad password")
	}
	return acct.user, nil
}

func (r *registry) changePassword(
	id string,
	currentPassword string,
	newPassword string,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, acct := range r.accounts {
		if acct.user.ID != id {
			continue
		}
		if err := bcrypt.CompareHashAndPassword(
			acct.passwordHash,
			[]byte(currentPassword),
		); err != nil {
			return sdk.NewErrAuthentication("bad password")
		}
		hash, err := bcrypt.GenerateFromPassword(
			[]byte(newPassword),
			bcrypt.DefaultCost,
		)
		if err != nil {
			return errors.Wrap(err, "error hashing password")
		}
		acct.passwordHash = hash
		return nil
	}
	return sdk.NewErrNotFound("User", id)
}

func (r *registry) openSession(email string) string {
	sessionID := uuid.NewV4().String()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = serverSession{
		email:   email,
		expires: time.Now().Add(r.sessionTTL),
	}
	return sessionID
}

func (r *registry) resolveSession(sessionID string) (sdk.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[sessionID]
	if !ok || time.Now().After(session.expires) {
		delete(r.sessions, sessionID)
		return sdk.User{}, false
	}
	acct, ok := r.accounts[session.email]
	if !ok {
		return sdk.User{}, false
	}
	return acct.user, true
}

func (r *registry) closeSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// mintTokens returns a signed access/refresh pair for the given user. The
// access token carries the exp claim clients inspect.
func (r *registry) mintTokens(user sdk.User) (string, string, error) {
	now := time.Now()
	accessToken, err := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		jwt.MapClaims{
			"sub": user.ID,
			"iat": now.Unix(),
			"exp": now.Add(r.tokenTTL).Unix(),
		},
	).SignedString(signingKey)
	if err != nil {
		return "", "", errors.Wrap(err, "error signing access token")
	}
	refreshToken, err := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		jwt.MapClaims{
			"sub": user.ID,
			"iat": now.Unix(),
			"exp": now.Add(r.sessionTTL).Unix(),
		},
	).SignedString(signingKey)
	if err != nil {
		return "", "", errors.Wrap(err, "error signing refresh token")
	}
	return accessToken, refreshToken, nil
}
