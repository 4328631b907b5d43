package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/oauthgrant/go-oauth2-server/auth"
	"github.com/oauthgrant/go-oauth2-server/clients"
	"github.com/oauthgrant/go-oauth2-server/internal/config"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config
	auth   *auth.AuthorizationService
	repos  auth.Repos
}

func New(cfg config.Config, repos auth.Repos) (*Server, error) {
	authService, err := auth.NewAuthorizationService(repos,
		auth.WithRedirectURIBinding(cfg.GetRedirectURIBindingRequired()))
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create authorization service: %w", err)
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: cfg,
		repos:  repos,
		auth:   authService,
	}
	s.env = cfg.GetEnv()

	if err := s.initialiseClients(); err != nil {
		return nil, fmt.Errorf("[Server New] failed to initialise client registry: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// initialiseClients seeds the client registry from the configured JSON file,
// or registers nothing when no file is set. Registration management is out
// of scope for the server itself, so seeding at startup is the only way
// clients get in.
func (s *Server) initialiseClients() error {
	path := s.config.GetSeedClientsFile()
	if path == "" {
		log.Warn().Msg("no CLIENTS_FILE configured, client registry starts empty")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read clients file %q: %w", path, err)
	}

	var seeded []clients.Client
	if err := json.Unmarshal(data, &seeded); err != nil {
		return fmt.Errorf("parse clients file %q: %w", path, err)
	}

	for i := range seeded {
		client := &seeded[i]
		if client.ID == "" || client.Secret == "" {
			return fmt.Errorf("clients file %q: entry %d needs both id and secret", path, i)
		}
		if len(client.RedirectURIs) == 0 {
			return fmt.Errorf("clients file %q: client %q has no redirect URIs", path, client.ID)
		}
		if err := s.repos.Clients.Upsert(client); err != nil {
			return fmt.Errorf("register client %q: %w", client.ID, err)
		}
		log.Info().Str("client_id", client.ID).Int("redirect_uris", len(client.RedirectURIs)).Msg("registered client")
	}
	return nil
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
