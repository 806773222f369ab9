// Package server exposes the generation pipeline and its persistence
// over a JSON HTTP API. Provider failures are logged with full detail
// server-side and returned to callers with sanitized messages only.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stratgen/generator"
	"stratgen/progress"
	"stratgen/prompt"
	"stratgen/render"
	"stratgen/store"
)

// Sanitized client-facing messages for provider failures.
const (
	overloadedClientMessage = "The AI service is currently overloaded. Please try again shortly."
	genericClientMessage    = "An error occurred during generation."
)

type Server struct {
	agent    *generator.Agent
	store    *store.Store
	progress progress.Store
	sessions *sessionStore
	logger   *zap.Logger
}

// New wires the server. The progress store is injected; passing nil
// selects an in-memory store with the default TTL.
func New(agent *generator.Agent, st *store.Store, prog progress.Store, logger *zap.Logger) (*Server, error) {
	if agent == nil {
		return nil, errors.New("generator agent required")
	}
	if prog == nil {
		prog = progress.NewMemoryStore(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		agent:    agent,
		store:    st,
		progress: prog,
		sessions: newSessionStore(),
		logger:   logger,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", s.handleGenerate)
	mux.HandleFunc("/api/progress", s.handleProgress)
	mux.HandleFunc("/api/strategies", s.handleStrategies)
	mux.HandleFunc("/api/strategies/", s.handleStrategyByID)
	mux.HandleFunc("/api/content-plans", s.handleContentPlans)
	mux.HandleFunc("/api/social-posts", s.handleSocialPosts)
	mux.HandleFunc("/api/social-posts/generate", s.handleSocialPostGenerate)
	mux.HandleFunc("/api/sessions", s.handleSessionCreate)
	mux.HandleFunc("/api/sessions/", s.handleSessionByID)
	return s.logMiddleware(mux)
}

// --- Generation ---

type generateReq struct {
	Prompt string `json:"prompt"`
}

type generateResp struct {
	RequestID string `json:"requestId"`
	Status    string `json:"status"`
	Text      string `json:"text"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	requestID := uuid.NewString()
	started := time.Now()
	s.progress.Put(requestID, progress.Entry{
		RequestID: requestID,
		Status:    progress.StatusProcessing,
		StartTime: started.UnixMilli(),
	})

	text, err := s.agent.Complete(r.Context(), req.Prompt)
	if err != nil {
		s.progress.Put(requestID, progress.Entry{
			RequestID:      requestID,
			Status:         progress.StatusFailed,
			StartTime:      started.UnixMilli(),
			CompletionTime: time.Now().UnixMilli(),
		})
		s.logger.Error("generation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		if generator.IsOverloaded(err) {
			writeError(w, http.StatusServiceUnavailable, overloadedClientMessage)
		} else {
			writeError(w, http.StatusInternalServerError, genericClientMessage)
		}
		return
	}

	s.progress.Put(requestID, progress.Entry{
		RequestID:      requestID,
		Status:         progress.StatusCompleted,
		Progress:       100,
		StartTime:      started.UnixMilli(),
		CompletionTime: time.Now().UnixMilli(),
	})
	writeJSON(w, http.StatusOK, generateResp{RequestID: requestID, Status: "success", Text: text})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	requestID := r.URL.Query().Get("requestId")
	if requestID == "" {
		writeError(w, http.StatusBadRequest, "requestId is required")
		return
	}
	entry, ok := s.progress.Get(requestID)
	if !ok {
		writeError(w, http.StatusNotFound, "Generation not found. It may have completed or expired.")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// --- Strategies ---

type saveStrategyReq struct {
	Name            string `json:"name"`
	UserID          string `json:"user_id"`
	BusinessType    string `json:"business_type"`
	Objectives      string `json:"objectives"`
	Audience        string `json:"audience"`
	Differentiation string `json:"differentiation"`
	MatrixContent   string `json:"matrix_content"`
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req saveStrategyReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Name == "" || req.MatrixContent == "" {
			writeError(w, http.StatusBadRequest, "Strategy name and content are required")
			return
		}
		rec := store.Strategy{
			UserID:          req.UserID,
			Name:            req.Name,
			BusinessType:    req.BusinessType,
			Objectives:      req.Objectives,
			Audience:        req.Audience,
			Differentiation: req.Differentiation,
			MatrixContent:   req.MatrixContent,
		}
		if err := s.store.SaveStrategy(r.Context(), &rec); err != nil {
			s.logger.Error("save strategy failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to save strategy")
			return
		}
		writeJSON(w, http.StatusOK, dataResp{Status: "success", Data: rec})
	case http.MethodGet:
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			userID = "anonymous"
		}
		recs, err := s.store.ListStrategies(r.Context(), userID)
		if err != nil {
			s.logger.Error("list strategies failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to fetch strategies")
			return
		}
		writeJSON(w, http.StatusOK, dataResp{Status: "success", Data: recs})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleStrategyByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/strategies/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, export := rest, false
	if strings.HasSuffix(rest, "/export") {
		id = strings.TrimSuffix(rest, "/export")
		export = true
	}

	rec, err := s.store.GetStrategy(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Strategy not found")
		return
	}
	if err != nil {
		s.logger.Error("get strategy failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch strategy")
		return
	}

	if export {
		html, err := render.HTML(rec.MatrixContent)
		if err != nil {
			s.logger.Error("render strategy failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to render strategy")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
		return
	}
	writeJSON(w, http.StatusOK, dataResp{Status: "success", Data: rec})
}

// --- Content plans ---

type saveContentPlanReq struct {
	StrategyID            string `json:"strategy_id"`
	SpecialConsiderations string `json:"special_considerations"`
	ContentPlanText       string `json:"content_plan_text"`
}

func (s *Server) handleContentPlans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req saveContentPlanReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.StrategyID == "" || req.ContentPlanText == "" {
			writeError(w, http.StatusBadRequest, "Strategy ID and content plan text are required")
			return
		}
		rec := store.ContentPlan{
			StrategyID:            req.StrategyID,
			SpecialConsiderations: req.SpecialConsiderations,
			ContentPlanText:       req.ContentPlanText,
		}
		if err := s.store.SaveContentPlan(r.Context(), &rec); err != nil {
			s.logger.Error("save content plan failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to save content plan")
			return
		}
		writeJSON(w, http.StatusOK, dataResp{Status: "success", Data: rec})
	case http.MethodGet:
		strategyID := r.URL.Query().Get("strategy_id")
		if strategyID == "" {
			writeError(w, http.StatusBadRequest, "strategy_id is required")
			return
		}
		recs, err := s.store.ListContentPlans(r.Context(), strategyID)
		if err != nil {
			s.logger.Error("list content plans failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to fetch content plans")
			return
		}
		writeJSON(w, http.StatusOK, dataResp{Status: "success", Data: recs})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- Social posts ---

type generateSocialPostReq struct {
	StrategyID    string `json:"strategy_id"`
	ContentPlanID string `json:"content_plan_id"`
	PostType      string `json:"post_type"`
}

type socialPostResp struct {
	Status string `json:"status"`
	Text   string `json:"text"`
}

func (s *Server) handleSocialPostGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req generateSocialPostReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.StrategyID == "" {
		writeError(w, http.StatusBadRequest, "Strategy ID is required")
		return
	}
	if req.PostType == "" {
		writeError(w, http.StatusBadRequest, "Post type is required")
		return
	}

	strat, err := s.store.GetStrategy(r.Context(), req.StrategyID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Strategy not found")
		return
	}
	if err != nil {
		s.logger.Error("fetch strategy failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch strategy")
		return
	}

	planText := ""
	if req.ContentPlanID != "" {
		plan, err := s.store.GetContentPlan(r.Context(), req.ContentPlanID)
		if err != nil {
			s.logger.Error("fetch content plan failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to fetch content plan")
			return
		}
		planText = plan.ContentPlanText
	}

	// Recent posts feed the do-not-repeat section; a fetch failure is
	// non-critical and generation continues without history.
	var previous []prompt.PreviousPost
	posts, err := s.store.ListRecentPosts(r.Context(), req.StrategyID, prompt.MaxPreviousPosts)
	if err != nil {
		s.logger.Warn("fetch previous posts failed", zap.Error(err))
	} else {
		for _, p := range posts {
			previous = append(previous, prompt.PreviousPost{Text: p.PostText, Type: p.PostType})
		}
	}

	text, err := s.agent.GenerateSocialPost(r.Context(), prompt.SocialPostInput{
		Strategy: prompt.StrategyFacts{
			Name:            strat.Name,
			BusinessType:    strat.BusinessType,
			Objectives:      strat.Objectives,
			Audience:        strat.Audience,
			Differentiation: strat.Differentiation,
		},
		ContentPlanText: planText,
		PostType:        req.PostType,
		PreviousPosts:   previous,
	})
	if err != nil {
		s.logger.Error("social post generation failed", zap.Error(err))
		if generator.IsOverloaded(err) {
			writeError(w, http.StatusServiceUnavailable, overloadedClientMessage)
		} else {
			writeError(w, http.StatusInternalServerError, genericClientMessage)
		}
		return
	}
	writeJSON(w, http.StatusOK, socialPostResp{Status: "success", Text: text})
}

type saveSocialPostReq struct {
	StrategyID    string `json:"strategy_id"`
	ContentPlanID string `json:"content_plan_id"`
	PostType      string `json:"post_type"`
	PostText      string `json:"post_text"`
}

func (s *Server) handleSocialPosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req saveSocialPostReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.StrategyID == "" || req.PostType == "" || req.PostText == "" {
			writeError(w, http.StatusBadRequest, "Strategy ID, post type, and post text are required")
			return
		}
		rec := store.SocialPost{
			StrategyID:    req.StrategyID,
			ContentPlanID: req.ContentPlanID,
			PostType:      req.PostType,
			PostText:      req.PostText,
		}
		if err := s.store.SaveSocialPost(r.Context(), &rec); err != nil {
			s.logger.Error("save social post failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to save social post")
			return
		}
		writeJSON(w, http.StatusOK, dataResp{Status: "success", Data: rec})
	case http.MethodGet:
		strategyID := r.URL.Query().Get("strategy_id")
		if strategyID == "" {
			writeError(w, http.StatusBadRequest, "strategy_id is required")
			return
		}
		recs, err := s.store.ListRecentPosts(r.Context(), strategyID, 50)
		if err != nil {
			s.logger.Error("list social posts failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to fetch social posts")
			return
		}
		writeJSON(w, http.StatusOK, dataResp{Status: "success", Data: recs})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- Helpers ---

type dataResp struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type errorResp struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResp{Status: "error", Error: msg})
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}
