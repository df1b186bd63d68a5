package api

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
)

//go:embed about.md
var aboutMarkdown []byte

type aboutCache struct {
	once sync.Once
	page []byte
	err  error
}

// renderAbout converts the embedded help text to a standalone HTML page.
func renderAbout(backend string) ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.Convert(aboutMarkdown, &body); err != nil {
		return nil, fmt.Errorf("render about page: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Document Question Answering</title></head><body>\n")
	page.Write(body.Bytes())
	fmt.Fprintf(&page, "<footer><p>Model backend: %s</p></footer>\n", html.EscapeString(backend))
	page.WriteString("</body></html>\n")
	return page.Bytes(), nil
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.about.once.Do(func() {
		s.about.page, s.about.err = renderAbout(s.qa.Backend())
	})
	if s.about.err != nil {
		s.log.Error("about page", "error", s.about.err)
		http.Error(w, "about page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.about.page)
}
