// Package server assembles the combigram job server: an HTTP API that lets
// authenticated clients submit text for parsing against one of the
// registered grammars and retrieve the outcome, backed by a pluggable
// dao.Store.
package server

import (
	"net/http"

	"github.com/dekarrin/combigram/server/api"
	"github.com/dekarrin/combigram/server/dao"
	"github.com/dekarrin/combigram/server/middle"
	"github.com/dekarrin/combigram/server/tunas"
	"github.com/go-chi/chi/v5"
)

// Server is a fully-wired combigram job server, ready to be used as an
// http.Handler.
type Server struct {
	router  chi.Router
	db      dao.Store
	backend tunas.Service
}

// Backend returns the service layer backing this Server, for callers (such
// as cmd/cgserver) that need direct programmatic access, e.g. to seed an
// initial admin user before accepting requests.
func (s *Server) Backend() tunas.Service {
	return s.backend
}

// New builds a Server from cfg, connecting to the configured persistence
// layer. The returned Server's Close method must be called to release the
// underlying DB connection once it is no longer needed.
func New(cfg Config) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, err
	}

	backend := api.API{
		Backend:     tunas.Service{DB: db},
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
	}

	r := chi.NewRouter()
	r.Use(middle.DontPanic())

	r.Route(api.PathPrefix, func(r chi.Router) {
		r.With(middle.OptionalAuth(db.Users(), cfg.TokenSecret, cfg.UnauthDelay())).Get("/info", backend.HTTPGetInfo())

		// login itself is how a client obtains credentials, so it runs
		// unauthenticated; epCreateLogin checks the submitted password.
		r.Post("/login", backend.HTTPCreateLogin())

		r.Group(func(r chi.Router) {
			r.Use(middle.RequireAuth(db.Users(), cfg.TokenSecret, cfg.UnauthDelay()))
			r.Delete("/login/{id}", backend.HTTPDeleteLogin())
			r.Post("/tokens", backend.HTTPCreateToken())

			r.Get("/users", backend.HTTPGetAllUsers())
			r.Post("/users", backend.HTTPCreateUser())
			r.Get("/users/{id}", backend.HTTPGetUser())
			r.Put("/users/{id}/password", backend.HTTPUpdateUserPassword())
			r.Delete("/users/{id}", backend.HTTPDeleteUser())

			r.Get("/jobs", backend.HTTPGetAllJobs())
			r.Get("/jobs/{id}", backend.HTTPGetJob())
			r.Delete("/jobs/{id}", backend.HTTPDeleteJob())
		})

		r.With(middle.OptionalAuth(db.Users(), cfg.TokenSecret, cfg.UnauthDelay())).Post("/jobs", backend.HTTPCreateJob())
	})

	return &Server{router: r, db: db, backend: backend.Backend}, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

// Close releases the server's underlying DB connection.
func (s *Server) Close() error {
	return s.db.Close()
}
