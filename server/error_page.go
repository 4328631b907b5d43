package server

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

// The authorization endpoint is browser-facing, so its failures render a
// small HTML page rather than a JSON body.
const errorPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>{{.AppName}} - Error</title>
</head>
<body>
	<h1>Authorization Error</h1>
	<p>{{.Message}}</p>
</body>
</html>
`

var errorPageTmpl = template.Must(template.New("error").Parse(errorPageHTML))

type errorPageData struct {
	AppName string
	Message string
}

func (s *Server) renderErrorPage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	data := errorPageData{AppName: s.config.GetAppName(), Message: message}
	if err := errorPageTmpl.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("render error page")
	}
}
