package devserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Server fakes the Notaris API for local development: cookie sessions, bearer
// token issuance, and a handful of filePath-bearing sample documents. Nothing
// it stores outlives the process.
type Server interface {
	// ListenAndServe causes the server to start serving HTTP requests. It
	// will block until an error occurs and will return that error.
	ListenAndServe() error
}

type server struct {
	config   Config
	registry *registry
	handler  http.Handler
}

// NewServer returns a development API server.
func NewServer(config Config) (Server, error) {
	registry, err := newRegistry(
		time.Duration(config.SessionTTLDays)*24*time.Hour,
		time.Duration(config.TokenTTLHours)*time.Hour,
	)
	if err != nil {
		return nil, errors.Wrap(err, "error seeding dev accounts")
	}

	s := &server{
		config:   config,
		registry: registry,
	}

	router := mux.NewRouter()
	router.StrictSlash(true)
	router.HandleFunc("/v1/auth/signin", s.signIn).Methods(http.MethodPost)
	router.HandleFunc("/v1/auth/signup", s.signUp).Methods(http.MethodPost)
	router.HandleFunc("/v1/auth/logout", s.logout).Methods(http.MethodPost)
	router.HandleFunc("/v1/auth/me", s.me).Methods(http.MethodGet)
	router.HandleFunc(
		"/v1/auth/reset-password",
		s.resetPassword,
	).Methods(http.MethodPost)
	router.HandleFunc(
		"/v1/users/{id}/password",
		s.changePassword,
	).Methods(http.MethodPut)
	router.HandleFunc("/v1/documents", s.listDocuments).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.checkHealth).Methods(http.MethodGet)

	s.handler = cors.New(
		cors.Options{
			AllowedMethods:   []string{"DELETE", "GET", "POST", "PUT"},
			AllowCredentials: true,
		},
	).Handler(router)

	return s, nil
}

func (s *server) ListenAndServe() error {
	address := fmt.Sprintf(":%d", s.config.Port)
	glog.Infof("dev API server is listening on 0.0.0.0:%d", s.config.Port)
	return http.ListenAndServe(
		address,
		h2c.NewHandler(s.handler, &http2.Server{}),
	)
}

func (s *server) checkHealth(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, http.StatusOK, struct{}{})
}
