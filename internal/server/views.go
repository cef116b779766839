package server

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	indexPage         = "index.html"
	artistPage        = "artist.html"
	miniArtistPage    = "mini_aps_artist.html"
	htmlContentHeader = "text/html; charset=utf-8"
)

// PageData is passed to every page template.
type PageData struct {
	Path string
	UUID string
}

type Templates struct {
	tmpl *template.Template
}

// LoadTemplates parses every *.html file in dir. Each template is addressed
// by its file name.
func LoadTemplates(dir string) (*Templates, error) {
	tmpl, err := template.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates in %s: %w", dir, err)
	}
	return &Templates{tmpl: tmpl}, nil
}

func (t *Templates) Render(w io.Writer, name string, data any) error {
	return t.tmpl.ExecuteTemplate(w, name, data)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, indexPage, PageData{Path: r.URL.Path})
}

// The uuid is only required to be present; the page fetches the profile
// itself through /api/artist.
func (s *Server) handleArtistPage(w http.ResponseWriter, r *http.Request) {
	id, ok := requiredQuery(w, r, uuidParam)
	if !ok {
		return
	}
	s.renderPage(w, r, artistPage, PageData{Path: r.URL.Path, UUID: id})
}

func (s *Server) handleMiniArtistPage(w http.ResponseWriter, r *http.Request) {
	id, ok := requiredQuery(w, r, uuidParam)
	if !ok {
		return
	}
	s.renderPage(w, r, miniArtistPage, PageData{Path: r.URL.Path, UUID: id})
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data PageData) {
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, name, data); err != nil {
		s.logger.Error("render page", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", htmlContentHeader)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("write page", zap.String("path", r.URL.Path), zap.Error(err))
	}
}
