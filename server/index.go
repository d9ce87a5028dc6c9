package server

import (
	_ "embed"
	"html/template"
	"net/http"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type indexData struct {
	Providers []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	providers := make([]string, 0, len(s.chatModels))
	for name := range s.chatModels {
		providers = append(providers, name)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, indexData{Providers: providers}); err != nil {
		s.logger.Error("failed to render index page", "error", err)
	}
}
