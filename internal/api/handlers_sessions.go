package api

import (
	"net/http"

	"github.com/dgallion1/docqa/internal/parser"
	"github.com/dgallion1/docqa/internal/session"
	"github.com/go-chi/chi/v5"
)

type sessionResponse struct {
	session.Session
	Stats            parser.Stats `json:"stats"`
	Truncated        bool         `json:"truncated,omitempty"`
	ExtractionFailed bool         `json:"extraction_failed,omitempty"`
}

func newSessionResponse(sess session.Session) sessionResponse {
	return sessionResponse{Session: sess, Stats: parser.TextStats(sess.Context)}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	s.log.Info("session created", "session_id", sess.ID)
	writeJSON(w, http.StatusCreated, newSessionResponse(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !s.sessions.Delete(id) {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setContextRequest struct {
	Text string `json:"text"`
}

// handleSetContext stores typed or pasted text as-is; only uploads are truncated.
func (s *Server) handleSetContext(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	var req setContextRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	sess, ok := s.sessions.SetContext(id, req.Text, session.SourceText)
	if !ok {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if _, ok := s.sessions.Get(id); !ok {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	ex := s.extract(up)
	sess, ok := s.sessions.SetContext(id, ex.Text, ex.Filename)
	if !ok {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	s.log.Info("document loaded",
		"session_id", id,
		"filename", ex.Filename,
		"chars", ex.Stats.Chars,
		"truncated", ex.Truncated,
		"extraction_failed", ex.ExtractionFailed,
	)

	resp := newSessionResponse(sess)
	resp.Truncated = ex.Truncated
	resp.ExtractionFailed = ex.ExtractionFailed
	writeJSON(w, http.StatusOK, resp)
}

type sessionAskRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleSessionAsk(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var req sessionAskRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.answer(w, r, req.Question, sess.Context)
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		jsonError(w, "session not found", http.StatusNotFound)
	}
	return sess, ok
}
