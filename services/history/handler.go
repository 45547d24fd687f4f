package history

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/careerclimb/careerclimb/pkg/httputil"
	"github.com/careerclimb/careerclimb/services/gateway"
)

const maxListLimit = 500

// Handler serves the per-user history endpoints.
type Handler struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewHandler creates a new HTTP handler.
func NewHandler(store Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger.With("component", "history_handler"),
		now:    time.Now,
	}
}

// Register registers the handler routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/history", h.ListItems)
	mux.HandleFunc("GET /v1/history/export", h.ExportItems)
	mux.HandleFunc("DELETE /v1/history/{id}", h.DeleteItem)
	mux.HandleFunc("DELETE /v1/history", h.ClearItems)
	mux.HandleFunc("GET /v1/cover-letters", h.ListCoverLetters)
	mux.HandleFunc("POST /v1/cover-letters", h.SaveCoverLetter)
	mux.HandleFunc("GET /v1/interview/sessions", h.ListInterviewSessions)
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := gateway.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteError(w, http.StatusBadRequest, ErrMissingUser.Error(), "")
		return "", false
	}
	return userID, true
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("limit must be a non-negative integer")
	}
	if n > maxListLimit {
		n = maxListLimit
	}
	return n, nil
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.ErrorContext(r.Context(), op+" failed", "error", err)
	httputil.WriteError(w, http.StatusInternalServerError, op+" failed", err.Error())
}

// ListItems handles GET /v1/history.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	items, err := h.store.ListItems(r.Context(), userID, limit)
	if err != nil {
		h.internalError(w, r, "list history", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// ExportItems handles GET /v1/history/export.
func (h *Handler) ExportItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	items, err := h.store.ListItems(r.Context(), userID, 0)
	if err != nil {
		h.internalError(w, r, "export history", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename(h.now())))
	w.WriteHeader(http.StatusOK)
	if err := Export(w, items); err != nil {
		h.logger.WarnContext(r.Context(), "export write failed", "error", err)
	}
}

// DeleteItem handles DELETE /v1/history/{id}.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if err := h.store.DeleteItem(r.Context(), userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, err.Error(), "")
			return
		}
		h.internalError(w, r, "delete history item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearItems handles DELETE /v1/history.
func (h *Handler) ClearItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	n, err := h.store.ClearItems(r.Context(), userID)
	if err != nil {
		h.internalError(w, r, "clear history", err)
		return
	}
	h.logger.InfoContext(r.Context(), "history cleared", "user_id", userID, "deleted", n)
	w.WriteHeader(http.StatusNoContent)
}

type saveCoverLetterRequest struct {
	CompanyName    string `json:"companyName"`
	JobTitle       string `json:"jobTitle"`
	JobDescription string `json:"jobDescription"`
	CompanyCulture string `json:"companyCulture"`
	// CompanyInfo is the generation field name; it fills CompanyCulture when that is empty.
	CompanyInfo string `json:"companyInfo"`
	Tone        string `json:"tone"`
	Content     string `json:"content"`
}

// SaveCoverLetter handles POST /v1/cover-letters.
func (h *Handler) SaveCoverLetter(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req saveCoverLetterRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		httputil.WriteError(w, http.StatusBadRequest, "content is required", "")
		return
	}

	letter := &CoverLetter{
		UserID:         userID,
		CompanyName:    req.CompanyName,
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
		CompanyCulture: orDefault(req.CompanyCulture, req.CompanyInfo),
		Tone:           req.Tone,
		Content:        req.Content,
	}
	if err := h.store.SaveCoverLetter(r.Context(), letter); err != nil {
		h.internalError(w, r, "save cover letter", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, letter)
}

// ListCoverLetters handles GET /v1/cover-letters.
func (h *Handler) ListCoverLetters(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	letters, err := h.store.ListCoverLetters(r.Context(), userID, limit)
	if err != nil {
		h.internalError(w, r, "list cover letters", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"coverLetters": letters})
}

// ListInterviewSessions handles GET /v1/interview/sessions.
func (h *Handler) ListInterviewSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	sessions, err := h.store.ListInterviewSessions(r.Context(), userID, limit)
	if err != nil {
		h.internalError(w, r, "list interview sessions", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
