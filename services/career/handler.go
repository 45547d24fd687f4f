package career

import (
	"log/slog"
	"net/http"

	"github.com/careerclimb/careerclimb/pkg/httputil"
	"github.com/careerclimb/careerclimb/services/gateway"
)

// Handler serves the career task endpoints.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "career_handler"),
	}
}

// Register registers the handler routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/resume/analyze", h.AnalyzeResume)
	mux.HandleFunc("POST /v1/resume/extract", h.ExtractResume)
	mux.HandleFunc("POST /v1/email/generate", h.GenerateEmail)
	mux.HandleFunc("POST /v1/cover-letter/generate", h.GenerateCoverLetter)
	mux.HandleFunc("POST /v1/interview/questions", h.GenerateInterviewQuestions)
	mux.HandleFunc("POST /v1/interview/session/questions", h.GenerateQuestionSet)
	mux.HandleFunc("POST /v1/interview/audio", h.AnalyzeAnswer)
	mux.HandleFunc("POST /v1/interview/feedback", h.GenerateFinalFeedback)
	mux.HandleFunc("POST /v1/linkedin/optimize", h.OptimizeProfile)
}

type textResponse struct {
	Response string `json:"response"`
	Provider string `json:"provider"`
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if IsCallerError(err) {
		httputil.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	h.logger.ErrorContext(r.Context(), op+" failed", "error", err)
	gateway.WriteError(w, err)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httputil.DecodeJSON(w, r, v); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return false
	}
	return true
}

// AnalyzeResume handles POST /v1/resume/analyze.
func (h *Handler) AnalyzeResume(w http.ResponseWriter, r *http.Request) {
	var in ResumeInput
	if !decode(w, r, &in) {
		return
	}
	report, err := h.svc.AnalyzeResume(r.Context(), in)
	if err != nil {
		h.fail(w, r, "resume analysis", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

type extractRequest struct {
	FileName string `json:"fileName"`
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// ExtractResume handles POST /v1/resume/extract.
func (h *Handler) ExtractResume(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !decode(w, r, &req) {
		return
	}
	data, err := decodeBase64(req.Data)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "file data is not valid base64", "")
		return
	}
	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = MIMEFromFilename(req.FileName)
	}
	text, err := ExtractResumeText(mimeType, data)
	if err != nil {
		h.fail(w, r, "resume extraction", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"text": text})
}

// GenerateEmail handles POST /v1/email/generate.
func (h *Handler) GenerateEmail(w http.ResponseWriter, r *http.Request) {
	var in EmailInput
	if !decode(w, r, &in) {
		return
	}
	result, err := h.svc.GenerateEmail(r.Context(), in)
	if err != nil {
		h.fail(w, r, "email generation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, textResponse{Response: result.Text, Provider: result.ProviderName})
}

// GenerateCoverLetter handles POST /v1/cover-letter/generate.
func (h *Handler) GenerateCoverLetter(w http.ResponseWriter, r *http.Request) {
	var in CoverLetterInput
	if !decode(w, r, &in) {
		return
	}
	result, err := h.svc.GenerateCoverLetter(r.Context(), in)
	if err != nil {
		h.fail(w, r, "cover letter generation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, textResponse{Response: result.Text, Provider: result.ProviderName})
}

// GenerateInterviewQuestions handles POST /v1/interview/questions.
func (h *Handler) GenerateInterviewQuestions(w http.ResponseWriter, r *http.Request) {
	var in QuestionsInput
	if !decode(w, r, &in) {
		return
	}
	list, err := h.svc.GenerateInterviewQuestions(r.Context(), in)
	if err != nil {
		h.fail(w, r, "interview questions", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

type questionSetRequest struct {
	Industry   string `json:"industry"`
	Difficulty string `json:"difficulty"`
}

// GenerateQuestionSet handles POST /v1/interview/session/questions.
func (h *Handler) GenerateQuestionSet(w http.ResponseWriter, r *http.Request) {
	var req questionSetRequest
	if !decode(w, r, &req) {
		return
	}
	questions, err := h.svc.GenerateQuestionSet(r.Context(), req.Industry, req.Difficulty)
	if err != nil {
		h.fail(w, r, "question set", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

// AnalyzeAnswer handles POST /v1/interview/audio.
func (h *Handler) AnalyzeAnswer(w http.ResponseWriter, r *http.Request) {
	var in AnswerInput
	if !decode(w, r, &in) {
		return
	}
	fb, err := h.svc.AnalyzeAnswer(r.Context(), in)
	if err != nil {
		h.fail(w, r, "answer analysis", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"feedback": fb})
}

// GenerateFinalFeedback handles POST /v1/interview/feedback.
func (h *Handler) GenerateFinalFeedback(w http.ResponseWriter, r *http.Request) {
	var req FinalFeedbackRequest
	if !decode(w, r, &req) {
		return
	}
	fb, err := h.svc.GenerateFinalFeedback(r.Context(), req)
	if err != nil {
		h.fail(w, r, "final feedback", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"finalFeedback": fb})
}

// OptimizeProfile handles POST /v1/linkedin/optimize.
func (h *Handler) OptimizeProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.svc.OptimizeProfile(r.Context(), req)
	if err != nil {
		h.fail(w, r, "linkedin optimization", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
