package tokens

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/notaris/notaris/sdk"
	"github.com/notaris/notaris/sdk/credentials"
)

// Fixed keys for the three persisted credential values.
const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
	userKey         = "current_user"
)

// Service is the typed wrapper over the credential store for exactly three
// logical values: the access token, the refresh token, and the cached user
// snapshot. It also interprets access token expiry by decoding the JWT
// payload. Expiry questions never fail loudly: a token that cannot be decoded
// is simply reported expired.
type Service interface {
	// SetTokens writes the access/refresh pair under their fixed keys.
	SetTokens(accessToken, refreshToken string) error
	// AccessToken returns the stored access token, if any.
	AccessToken() (string, bool, error)
	// RefreshToken returns the stored refresh token, if any.
	RefreshToken() (string, bool, error)
	// SetUser serializes and stores the given user snapshot.
	SetUser(user sdk.User) error
	// StoredUser returns the stored user snapshot, or nil if none is stored.
	// A snapshot that no longer parses is removed and treated as absent, not
	// as an error.
	StoredUser() (*sdk.User, error)
	// ClearTokens removes the token pair and the user snapshot.
	ClearTokens() error
	// HasValidToken returns true iff an access token is stored and its expiry
	// lies in the future. Any decode failure means false.
	HasValidToken() bool
	// IsTokenExpired reports whether the given token is expired. An empty
	// token argument means "the stored access token". An absent token or an
	// undecodable expiry is treated as expired.
	IsTokenExpired(token string) bool
	// TokenExpirationDate returns the expiry instant encoded in the given
	// token, or nil if it cannot be decoded.
	TokenExpirationDate(token string) *time.Time
}

type service struct {
	store credentials.Store
}

// NewService returns a token Service backed by the given credential store.
func NewService(store credentials.Store) Service {
	return &service{
		store: store,
	}
}

func (s *service) SetTokens(accessToken, refreshToken string) error {
	if err := s.store.Set(accessTokenKey, accessToken); err != nil {
		return errors.Wrap(err, "error storing access token")
	}
	if err := s.store.Set(refreshTokenKey, refreshToken); err != nil {
		return errors.Wrap(err, "error storing refresh token")
	}
	return nil
}

func (s *service) AccessToken() (string, bool, error) {
	return s.store.Get(accessTokenKey)
}

func (s *service) RefreshToken() (string, bool, error) {
	return s.store.Get(refreshTokenKey)
}

func (s *service) SetUser(user sdk.User) error {
	userBytes, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "error marshaling user snapshot")
	}
	return s.store.Set(userKey, string(userBytes))
}

func (s *service) StoredUser() (*sdk.User, error) {
	userJSON, found, err := s.store.Get(userKey)
	if err != nil {
		return nil, errors.Wrap(err, "error reading user snapshot")
	}
	if !found {
		return nil, nil
	}
	user := &sdk.User{}
	if err := json.Unmarshal([]byte(userJSON), user); err != nil {
		// Self-healing: a corrupt snapshot is discarded, not surfaced.
		if err := s.store.Remove(userKey); err != nil {
			return nil, errors.Wrap(err, "error removing corrupt user snapshot")
		}
		return nil, nil
	}
	return user, nil
}

func (s *service) ClearTokens() error {
	if err := s.store.Remove(accessTokenKey); err != nil {
		return errors.Wrap(err, "error removing access token")
	}
	if err := s.store.Remove(refreshTokenKey); err != nil {
		return errors.Wrap(err, "error removing refresh token")
	}
	if err := s.store.Remove(userKey); err != nil {
		return errors.Wrap(err, "error removing user snapshot")
	}
	return nil
}

func (s *service) HasValidToken() bool {
	token, found, err := s.AccessToken()
	if err != nil || !found || token == "" {
		return false
	}
	expiry, err := decodeExpiry(token)
	if err != nil {
		return false
	}
	return expiry.After(time.Now())
}

func (s *service) IsTokenExpired(token string) bool {
	if token == "" {
		var found bool
		var err error
		if token, found, err = s.AccessToken(); err != nil || !found {
			return true
		}
	}
	expiry, err := decodeExpiry(token)
	if err != nil {
		return true
	}
	return !expiry.After(time.Now())
}

func (s *service) TokenExpirationDate(token string) *time.Time {
	expiry, err := decodeExpiry(token)
	if err != nil {
		return nil
	}
	return &expiry
}

// decodeExpiry extracts the exp claim from a JWT without verifying its
// signature. A token that is not three base64/JSON segments, or whose payload
// carries no exp, fails the decode.
func decodeExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err :=
		jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, errors.Wrap(err, "error decoding token")
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, errors.Wrap(err, "error reading token expiry")
	}
	if expiry == nil {
		return time.Time{}, errors.New("token carries no expiry")
	}
	return expiry.Time, nil
}
