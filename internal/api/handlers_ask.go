package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/docqa/internal/qa"
)

type askRequest struct {
	Context  string `json:"context"`
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.answer(w, r, req.Question, req.Context)
}

// answer runs one question and maps the qa error kinds onto status codes.
func (s *Server) answer(w http.ResponseWriter, r *http.Request, question, passage string) {
	resp, err := s.qa.Ask(r.Context(), question, passage)
	if err != nil {
		var ve *qa.ValidationError
		var oe *qa.OracleError
		switch {
		case errors.As(err, &ve):
			jsonError(w, ve.Message, http.StatusBadRequest)
		case errors.As(err, &oe) && oe.Retryable():
			jsonError(w, oe.Error(), http.StatusServiceUnavailable)
		case errors.As(err, &oe):
			jsonError(w, oe.Error(), http.StatusBadGateway)
		default:
			jsonError(w, "Error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
