package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stratgen/generator"
	"stratgen/prompt"
)

// sessionStore keeps interactive strategy sessions in process memory.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*generator.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*generator.Session)}
}

func (s *sessionStore) set(id string, sess *generator.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

func (s *sessionStore) get(id string) (*generator.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

type sessionCreateReq struct {
	Name            string `json:"name"`
	BusinessType    string `json:"business_type"`
	Objectives      string `json:"objectives"`
	Audience        string `json:"audience"`
	Differentiation string `json:"differentiation"`
}

type sessionResp struct {
	SessionID string           `json:"session_id"`
	Draft     generator.Draft  `json:"draft"`
	History   []generator.Turn `json:"history"`
}

type reviseReq struct {
	Feedback string `json:"feedback"`
}

// handleSessionCreate generates a first strategy draft and opens a
// revision session around it.
func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req sessionCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.BusinessType == "" {
		writeError(w, http.StatusBadRequest, "Name and business type are required")
		return
	}

	facts := prompt.StrategyFacts{
		Name:            req.Name,
		BusinessType:    req.BusinessType,
		Objectives:      req.Objectives,
		Audience:        req.Audience,
		Differentiation: req.Differentiation,
	}
	id := uuid.NewString()
	sess := generator.NewSession(id, facts, s.agent)

	draft, err := sess.Propose(r.Context())
	if err != nil {
		s.logger.Error("session propose failed", zap.String("session_id", id), zap.Error(err))
		if generator.IsOverloaded(err) {
			writeError(w, http.StatusServiceUnavailable, overloadedClientMessage)
		} else {
			writeError(w, http.StatusBadGateway, genericClientMessage)
		}
		return
	}
	s.sessions.set(id, sess)
	writeJSON(w, http.StatusOK, sessionResp{SessionID: id, Draft: draft, History: sess.History})
}

// handleSessionByID returns or revises an existing session's draft.
func (s *Server) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	sess, ok := s.sessions.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, sessionResp{SessionID: id, Draft: sess.Draft, History: sess.History})
	case http.MethodPost:
		var req reviseReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Feedback) == "" {
			writeError(w, http.StatusBadRequest, "Feedback is required to update the strategy")
			return
		}
		draft, err := sess.Revise(r.Context(), req.Feedback)
		if err != nil {
			s.logger.Error("session revise failed", zap.String("session_id", id), zap.Error(err))
			if generator.IsOverloaded(err) {
				writeError(w, http.StatusServiceUnavailable, overloadedClientMessage)
			} else {
				writeError(w, http.StatusBadGateway, genericClientMessage)
			}
			return
		}
		writeJSON(w, http.StatusOK, sessionResp{SessionID: id, Draft: draft, History: sess.History})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
