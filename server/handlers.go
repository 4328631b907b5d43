package server

import "net/http"

// IndexHandler serves the static welcome text
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Welcome to OAuth 2.0 server"))
	}
}
