package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docqa/internal/parser"
)

type upload struct {
	filename string
	data     []byte
}

// extraction is the normalized text of one upload.
type extraction struct {
	Filename         string       `json:"filename"`
	Text             string       `json:"text"`
	Truncated        bool         `json:"truncated"`
	ExtractionFailed bool         `json:"extraction_failed"`
	Stats            parser.Stats `json:"stats"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.extract(up))
}

// readUpload reads the "file" part of a multipart form, writing the error
// response itself when it fails.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (upload, bool) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return upload{}, false
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return upload{}, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return upload{}, false
	}

	return upload{filename: sanitizeFilename(header.Filename), data: data}, true
}

// extract runs the upload through extraction and truncation. Failures become
// the text itself, so the result is always usable as a context.
func (s *Server) extract(up upload) extraction {
	ext := parser.ExtFromFilename(up.filename)
	text, err := s.extractor.Decode(up.data, ext)
	failed := err != nil
	if failed {
		text = parser.ErrorMessage(err)
		s.log.Warn("extraction failed", "filename", up.filename, "ext", ext, "error", err)
	}

	normalized := parser.Truncate(text, s.cfg.MaxContextChars)
	return extraction{
		Filename:         up.filename,
		Text:             normalized,
		Truncated:        normalized != text,
		ExtractionFailed: failed,
		Stats:            parser.TextStats(normalized),
	}
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
