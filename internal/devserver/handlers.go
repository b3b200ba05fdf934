package devserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	uuid "github.com/satori/go.uuid"

	"github.com/notaris/notaris/sdk"
)

// sessionCookieName is the cookie the dev server uses for its session.
const sessionCookieName = "notaris_session"

func (s *server) signIn(w http.ResponseWriter, r *http.Request) {
	credentials := sdk.Credentials{}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		s.writeError(w, sdk.NewErrBadRequest("malformed request body"))
		return
	}
	user, err := s.registry.authenticate(
		credentials.Email,
		credentials.Password,
	)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.establishSession(w, user.Email)
	accessToken, refreshToken, err := s.registry.mintTokens(user)
	if err != nil {
		glog.Errorf("error minting tokens: %s", err)
		s.writeError(w, sdk.NewErrInternalServer())
		return
	}
	s.writeResponse(
		w,
		http.StatusOK,
		sdk.AuthDetails{
			User:         user,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	)
}

func (s *server) signUp(w http.ResponseWriter, r *http.Request) {
	registration := sdk.Registration{}
	if err := json.NewDecoder(r.Body).Decode(&registration); err != nil {
		s.writeError(w, sdk.NewErrBadRequest("malformed request body"))
		return
	}
	profile := registration.Profile
	if profile == "" {
		profile = sdk.ProfileClerk
	}
	user := sdk.User{
		ID:        uuid.NewV4().String(),
		FirstName: registration.FirstName,
		LastName:  registration.LastName,
		Email:     registration.Email,
		Phone:     registration.Phone,
		Profile:   profile,
	}
	if err := s.registry.createAccount(user, registration.Password); err != nil {
		s.writeError(w, err)
		return
	}
	s.establishSession(w, user.Email)
	accessToken, refreshToken, err := s.registry.mintTokens(user)
	if err != nil {
		glog.Errorf("error minting tokens: %s", err)
		s.writeError(w, sdk.NewErrInternalServer())
		return
	}
	s.writeResponse(
		w,
		http.StatusCreated,
		sdk.AuthDetails{
			User:         user,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	)
}

func (s *server) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.registry.closeSession(cookie.Value)
	}
	http.SetCookie(
		w,
		&http.Cookie{
			Name:     sessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		},
	)
	s.writeResponse(w, http.StatusOK, struct{}{})
}

func (s *server) me(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticatedUser(r)
	if !ok {
		s.writeError(w, sdk.NewErrAuthentication("no active session"))
		return
	}
	s.writeResponse(w, http.StatusOK, user)
}

func (s *server) resetPassword(w http.ResponseWriter, r *http.Request) {
	reset := sdk.PasswordReset{}
	if err := json.NewDecoder(r.Body).Decode(&reset); err != nil {
		s.writeError(w, sdk.NewErrBadRequest("malformed request body"))
		return
	}
	// No mail goes out; a reset request is simply acknowledged.
	glog.Infof("password reset requested for %q", reset.Email)
	s.writeResponse(w, http.StatusOK, struct{}{})
}

func (s *server) changePassword(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticatedUser(r); !ok {
		s.writeError(w, sdk.NewErrAuthentication("no active session"))
		return
	}
	change := sdk.PasswordChange{}
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		s.writeError(w, sdk.NewErrBadRequest("malformed request body"))
		return
	}
	if err := s.registry.changePassword(
		mux.Vars(r)["id"],
		change.CurrentPassword,
		change.NewPassword,
	); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, struct{}{})
}

// listDocuments serves a fixed page of sample documents whose filePath fields
// are relative, exercising the client's path rewriting.
func (s *server) listDocuments(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticatedUser(r); !ok {
		s.writeError(w, sdk.NewErrAuthentication("no active session"))
		return
	}
	s.writeResponse(
		w,
		http.StatusOK,
		map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"id":       uuid.NewV4().String(),
					"title":    "Deed of sale",
					"filePath": "dossiers/1024/deed-of-sale.pdf",
				},
				{
					"id":       uuid.NewV4().String(),
					"title":    "Marriage contract",
					"filePath": "dossiers/1031/marriage-contract.pdf",
				},
			},
			"totalElements": 2,
		},
	)
}

func (s *server) establishSession(w http.ResponseWriter, email string) {
	sessionID := s.registry.openSession(email)
	http.SetCookie(
		w,
		&http.Cookie{
			Name:     sessionCookieName,
			Value:    sessionID,
			Path:     "/",
			Expires:  time.Now().Add(s.registry.sessionTTL),
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		},
	)
}

func (s *server) authenticatedUser(r *http.Request) (sdk.User, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return sdk.User{}, false
	}
	return s.registry.resolveSession(cookie.Value)
}

func (s *server) writeResponse(
	w http.ResponseWriter,
	statusCode int,
	respObj interface{},
) {
	respBodyBytes, err := json.Marshal(respObj)
	if err != nil {
		glog.Errorf("error marshaling response body: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(respBodyBytes) // nolint: errcheck
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	switch err.(type) {
	case *sdk.ErrAuthentication:
		statusCode = http.StatusUnauthorized
	case *sdk.ErrAuthorization:
		statusCode = http.StatusForbidden
	case *sdk.ErrBadRequest:
		statusCode = http.StatusBadRequest
	case *sdk.ErrNotFound:
		statusCode = http.StatusNotFound
	case *sdk.ErrConflict:
		statusCode = http.StatusConflict
	}
	s.writeResponse(w, statusCode, err)
}
