// Package httpapi exposes the journal services over a JSON REST API.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/unowned-ai/eunoia/pkg/invoke"
	"github.com/unowned-ai/eunoia/pkg/journal"
	"github.com/unowned-ai/eunoia/pkg/metrics"
)

type Server struct {
	svc *journal.Services
	reg *invoke.Registry
	log logrus.FieldLogger
}

func New(svc *journal.Services, reg *invoke.Registry, log logrus.FieldLogger) *Server {
	return &Server{svc: svc, reg: reg, log: log}
}

// Router builds the route table. Reminder and preference routes require a
// bearer token.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(metrics.InstrumentHandler, s.logRequests)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/entries", s.handleListEntries).Methods(http.MethodGet)
	api.HandleFunc("/entries", s.handleCreateEntry).Methods(http.MethodPost)
	api.HandleFunc("/entries/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/entries/templates", s.handleTemplates).Methods(http.MethodGet)
	api.HandleFunc("/entries/templates/{id}", s.handleCreateFromTemplate).Methods(http.MethodPost)
	api.HandleFunc("/entries/{id}", s.handleGetEntry).Methods(http.MethodGet)
	api.HandleFunc("/entries/{id}", s.handleUpdateEntry).Methods(http.MethodPatch)
	api.HandleFunc("/entries/{id}", s.handleDeleteEntry).Methods(http.MethodDelete)

	api.HandleFunc("/tags", s.handleListTags).Methods(http.MethodGet)
	api.HandleFunc("/tags", s.handleCreateTag).Methods(http.MethodPost)
	api.HandleFunc("/tags/{name}", s.handleDeleteTag).Methods(http.MethodDelete)

	api.HandleFunc("/ai/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/ai/prompts", s.handlePrompts).Methods(http.MethodGet)
	api.HandleFunc("/ai/suggest", s.handleSuggest).Methods(http.MethodPost)

	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/mfa", s.handleVerifyMFA).Methods(http.MethodPost)
	api.HandleFunc("/auth/sso", s.handleSSO).Methods(http.MethodPost)

	api.HandleFunc("/invoke/{service}/{method}", s.handleInvoke).Methods(http.MethodPost)

	private := api.NewRoute().Subrouter()
	private.Use(s.requireUser)
	private.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)
	private.HandleFunc("/reminders", s.handleListReminders).Methods(http.MethodGet)
	private.HandleFunc("/reminders", s.handleCreateReminder).Methods(http.MethodPost)
	private.HandleFunc("/reminders/{id}", s.handleUpdateReminder).Methods(http.MethodPatch)
	private.HandleFunc("/reminders/{id}", s.handleDeleteReminder).Methods(http.MethodDelete)
	private.HandleFunc("/reminders/{id}/next", s.handleNextReminder).Methods(http.MethodGet)
	private.HandleFunc("/preferences", s.handleGetPreferences).Methods(http.MethodGet)
	private.HandleFunc("/preferences", s.handleUpdatePreferences).Methods(http.MethodPatch)
	private.HandleFunc("/preferences", s.handleResetPreferences).Methods(http.MethodDelete)

	return r
}

type ctxKey struct{}

func userFrom(ctx context.Context) journal.User {
	u, _ := ctx.Value(ctxKey{}).(journal.User)
	return u
}

func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := s.authenticate(r)
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, u)))
	})
}

// authenticate resolves the bearer token of r.
func (s *Server) authenticate(r *http.Request) (journal.User, error) {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
		return journal.User{}, journal.ErrInvalidToken
	}
	return s.svc.Auth.Authenticate(r.Context(), h[len(prefix):])
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Debug("http request")
		next.ServeHTTP(w, r)
	})
}
