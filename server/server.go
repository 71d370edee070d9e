package server

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chakhaeng/auth-server/auth"
	"github.com/chakhaeng/auth-server/identity"
	"github.com/chakhaeng/auth-server/internal/config"
	"github.com/chakhaeng/auth-server/token"
	"github.com/chakhaeng/auth-server/users"
)

// Server is the HTTP surface of the auth service. Every response uses the
// {success, code, message, data} envelope.
type Server struct {
	env       string
	mux       *http.ServeMux
	routes    []string
	sessions  *auth.SessionService
	codec     *token.Codec
	directory users.Directory
	exchanger *identity.CodeExchanger // nil disables the code-exchange login
	logger    zerolog.Logger
}

// New builds the server and registers all routes.
func New(cfg config.Config, sessions *auth.SessionService, codec *token.Codec, directory users.Directory, exchanger *identity.CodeExchanger) (*Server, error) {
	if sessions == nil {
		return nil, errNilDependency("session service")
	}
	if codec == nil {
		return nil, errNilDependency("token codec")
	}
	if directory == nil {
		return nil, errNilDependency("user directory")
	}

	s := &Server{
		env:       cfg.Env,
		mux:       http.NewServeMux(),
		sessions:  sessions,
		codec:     codec,
		directory: directory,
		exchanger: exchanger,
		logger:    log.Logger,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		s.logger.Debug().Str("route", route).Msg("registered")
	}
}

type dependencyError string

func (e dependencyError) Error() string { return "[server.New] " + string(e) + " is required" }

func errNilDependency(name string) error { return dependencyError(name) }
