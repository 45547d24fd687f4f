package gateway

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/careerclimb/careerclimb/pkg/httputil"
)

// Handler serves the generic completion endpoint.
type Handler struct {
	gw     *Gateway
	logger *slog.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(gw *Gateway, logger *slog.Logger) *Handler {
	return &Handler{
		gw:     gw,
		logger: logger.With("component", "handler"),
	}
}

// Register registers the handler routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/complete", h.Complete)
	mux.HandleFunc("GET /v1/tasks", h.ListTasks)
}

type completeRequest struct {
	Prompt string `json:"prompt"`
	Type   string `json:"type"`
}

type completeResponse struct {
	Response     string       `json:"response"`
	Provider     string       `json:"provider"`
	ProviderRole ProviderRole `json:"providerRole"`
}

// Complete handles POST /v1/complete.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	task, err := ParseTaskType(req.Type)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.gw.Complete(r.Context(), task, req.Prompt)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "completion failed", "task_type", req.Type, "error", err)
		WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, completeResponse{
		Response:     result.Text,
		Provider:     result.ProviderName,
		ProviderRole: result.Provider,
	})
}

type taskInfo struct {
	Type      TaskType `json:"type"`
	MaxTokens int      `json:"maxTokens"`
	JSON      bool     `json:"json"`
}

// ListTasks handles GET /v1/tasks.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks := TaskTypes()
	out := make([]taskInfo, 0, len(tasks))
	for _, t := range tasks {
		tmpl := templates[t]
		out = append(out, taskInfo{Type: t, MaxTokens: tmpl.MaxTokens, JSON: tmpl.JSON})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"tasks": out})
}

// WriteError writes err with the status from StatusFor. Exhausted providers
// carry each failure in details.
func WriteError(w http.ResponseWriter, err error) {
	var all *AllProvidersFailedError
	if errors.As(err, &all) {
		httputil.WriteError(w, http.StatusInternalServerError,
			"All AI providers failed. Please check your API keys.", all.Details())
		return
	}
	httputil.WriteError(w, StatusFor(err), err.Error(), "")
}
