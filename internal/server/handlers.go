package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"GoNFA/internal/export"
	"GoNFA/internal/match"
	"GoNFA/internal/syntax"
)

// Match modes accepted by POST /match.
const (
	ModeFull     = "full"
	ModeContains = "contains"
)

// maxBodyBytes bounds request bodies. Patterns are short; inputs may not be.
const maxBodyBytes = 1 << 20

// Handler holds HTTP handlers for the GoNFA API.
type Handler struct {
	cache  *PatternCache
	logger *slog.Logger
}

// NewHandler creates a new Handler backed by the given PatternCache.
func NewHandler(cache *PatternCache, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{cache: cache, logger: logger}
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /compile", h.handleCompile)
	mux.HandleFunc("POST /match", h.handleMatch)

	mux.HandleFunc("GET /cache", h.handleCacheStats)
	mux.HandleFunc("DELETE /cache", h.handleCachePurge)
}

// --- Compile ---

func (h *Handler) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pattern string `json:"pattern"`
		Format  string `json:"format"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.cache.Get(req.Pattern)
	if err != nil {
		writeCompileError(w, err)
		return
	}

	if format == export.FormatJSON {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"compile_id": res.ID.String(),
			"automaton":  export.NewDocument(req.Pattern, res.NFA),
		})
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, req.Pattern, res.NFA, format); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	contentType := "text/vnd.graphviz; charset=utf-8"
	if format == export.FormatYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Compile-Id", res.ID.String())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// --- Match ---

func (h *Handler) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pattern string `json:"pattern"`
		Input   string `json:"input"`
		Mode    string `json:"mode"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Mode == "" {
		req.Mode = ModeFull
	}
	if req.Mode != ModeFull && req.Mode != ModeContains {
		writeError(w, http.StatusBadRequest, "mode must be \"full\" or \"contains\"")
		return
	}

	res, err := h.cache.Get(req.Pattern)
	if err != nil {
		writeCompileError(w, err)
		return
	}

	start := time.Now()
	var matched bool
	if req.Mode == ModeContains {
		matched, err = res.Matcher.ContainsContext(r.Context(), req.Input)
	} else {
		matched, err = res.Matcher.MatchStringContext(r.Context(), req.Input)
	}
	if err != nil {
		switch {
		case errors.Is(err, match.ErrStateLimitExceeded), errors.Is(err, match.ErrMatchTimeout):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			h.logger.Info("match cancelled by client", "compile_id", res.ID.String())
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"compile_id": res.ID.String(),
		"matched":    matched,
		"mode":       req.Mode,
		"took_ms":    time.Since(start).Milliseconds(),
	})
}

// --- Cache ---

func (h *Handler) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cache.Stats())
}

func (h *Handler) handleCachePurge(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Purge(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "purged",
	})
}

// --- Helpers ---

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeCompileError(w http.ResponseWriter, err error) {
	var perr *syntax.ParseError
	if errors.As(err, &perr) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": map[string]interface{}{
				"message":  perr.Error(),
				"position": perr.Pos,
			},
		})
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"message": message,
		},
	})
}
