package career

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/careerclimb/careerclimb/services/gateway"
)

const questionSetSize = 5

// Difficulty levels accepted by the question set generator.
var difficulties = map[string]string{
	"junior":    "Junior",
	"mid-level": "Mid-level",
	"mid":       "Mid-level",
	"senior":    "Senior",
}

// InterviewQuestion is one question of a mock interview.
type InterviewQuestion struct {
	Question  string   `json:"question"`
	KeyPoints []string `json:"keyPoints"`
	FollowUp  string   `json:"followUp"`
}

// AnswerFeedback scores one spoken answer.
type AnswerFeedback struct {
	Transcription string   `json:"transcription"`
	Clarity       float64  `json:"clarity"`
	Relevance     float64  `json:"relevance"`
	Completeness  float64  `json:"completeness"`
	Confidence    float64  `json:"confidence"`
	Feedback      string   `json:"feedback"`
	Suggestions   []string `json:"suggestions"`
}

// FinalFeedback summarizes a finished mock interview.
type FinalFeedback struct {
	OverallScore         int      `json:"overallScore"`
	CommunicationScore   int      `json:"communicationScore"`
	ConfidenceScore      int      `json:"confidenceScore"`
	TechnicalScore       int      `json:"technicalScore"`
	OverallFeedback      string   `json:"overallFeedback"`
	Strengths            []string `json:"strengths"`
	Improvements         []string `json:"improvements"`
	NextSteps            []string `json:"nextSteps"`
	IndustrySpecificTips []string `json:"industrySpecificTips"`
}

// Session is a finished mock interview.
type Session struct {
	UserID        string
	Industry      string
	Difficulty    string
	Questions     []InterviewQuestion
	Responses     []AnswerFeedback
	FinalFeedback FinalFeedback
	CreatedAt     time.Time
}

// NormalizeDifficulty maps a difficulty to Junior, Mid-level or Senior.
func NormalizeDifficulty(d string) (string, error) {
	level, ok := difficulties[strings.ToLower(strings.TrimSpace(d))]
	if !ok {
		return "", fmt.Errorf("%w: difficulty must be Junior, Mid-level or Senior", ErrInvalidInput)
	}
	return level, nil
}

// GenerateQuestionSet returns five structured questions for an industry and
// difficulty. There is no safe default for a question set.
func (s *Service) GenerateQuestionSet(ctx context.Context, industry, difficulty string) ([]InterviewQuestion, error) {
	if strings.TrimSpace(industry) == "" {
		return nil, fmt.Errorf("%w: industry is required", ErrInvalidInput)
	}
	level, err := NormalizeDifficulty(difficulty)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Industry: %s\nDifficulty: %s\n\nGenerate interview questions for %s roles at %s level.",
		industry, level, industry, level)

	var questions []InterviewQuestion
	if _, err := s.gw.CompleteJSON(ctx, gateway.TaskInterviewQuestionSet, prompt, &questions); err != nil {
		return nil, err
	}
	if len(questions) > questionSetSize {
		questions = questions[:questionSetSize]
	}
	return questions, nil
}

// AnswerInput is a recorded answer to one question.
type AnswerInput struct {
	Audio         string `json:"audio"`
	Question      string `json:"question"`
	QuestionIndex int    `json:"questionIndex"`
}

// DefaultAnswerFeedback is returned when the analysis cannot be decoded.
func DefaultAnswerFeedback(transcription string) AnswerFeedback {
	return AnswerFeedback{
		Transcription: transcription,
		Clarity:       75,
		Relevance:     75,
		Completeness:  75,
		Confidence:    75,
		Feedback:      "Thank you for your response. Continue practicing to improve your interview skills.",
		Suggestions: []string{
			"Practice speaking more clearly",
			"Provide more specific examples",
			"Structure your answers better",
		},
	}
}

// AnalyzeAnswer transcribes a base64 audio answer and scores it. When the
// providers answer but the analysis cannot be decoded, DefaultAnswerFeedback
// is returned with the transcription kept.
func (s *Service) AnalyzeAnswer(ctx context.Context, in AnswerInput) (*AnswerFeedback, error) {
	if in.Audio == "" {
		return nil, fmt.Errorf("%w: no audio data provided", ErrInvalidInput)
	}
	if s.transcriber == nil {
		return nil, errors.New("audio transcription is not configured")
	}

	audio, err := decodeBase64(in.Audio)
	if err != nil {
		return nil, fmt.Errorf("%w: audio is not valid base64: %v", ErrInvalidInput, err)
	}

	transcription, err := s.transcriber.Transcribe(ctx, audio, "audio.webm")
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	prompt := fmt.Sprintf("Question %d: %q\nCandidate's Answer: %q\n\nAnalyze this interview response.",
		in.QuestionIndex+1, in.Question, transcription)

	var fb AnswerFeedback
	if _, err := s.gw.CompleteJSON(ctx, gateway.TaskInterviewAnswerAnalysis, prompt, &fb); err != nil {
		if !gateway.OnlyMalformed(err) {
			return nil, err
		}
		s.logger.WarnContext(ctx, "answer analysis undecodable, using default", "question_index", in.QuestionIndex)
		fb = DefaultAnswerFeedback(transcription)
	}
	if fb.Transcription == "" {
		fb.Transcription = transcription
	}
	return &fb, nil
}

// decodeBase64 accepts standard or URL encoding and an optional data URL
// prefix.
func decodeBase64(s string) ([]byte, error) {
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	s = strings.TrimSpace(s)
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); err == nil {
		return b, nil
	}
	return base64.URLEncoding.DecodeString(s)
}

// FinalFeedbackRequest is a finished interview to summarize.
type FinalFeedbackRequest struct {
	Questions  []InterviewQuestion `json:"questions"`
	Responses  []AnswerFeedback    `json:"responses"`
	Industry   string              `json:"industry"`
	Difficulty string              `json:"difficulty"`
}

// ScoreAverages are the mean per-answer scores of an interview.
type ScoreAverages struct {
	Clarity      float64
	Relevance    float64
	Completeness float64
	Confidence   float64
}

// Averages computes the mean of each score over responses.
func Averages(responses []AnswerFeedback) ScoreAverages {
	var avg ScoreAverages
	if len(responses) == 0 {
		return avg
	}
	for _, r := range responses {
		avg.Clarity += r.Clarity
		avg.Relevance += r.Relevance
		avg.Completeness += r.Completeness
		avg.Confidence += r.Confidence
	}
	n := float64(len(responses))
	avg.Clarity /= n
	avg.Relevance /= n
	avg.Completeness /= n
	avg.Confidence /= n
	return avg
}

// DefaultFinalFeedback derives a summary from the score averages alone.
func DefaultFinalFeedback(avg ScoreAverages) FinalFeedback {
	return FinalFeedback{
		OverallScore:       round((avg.Clarity + avg.Relevance + avg.Completeness + avg.Confidence) / 4),
		CommunicationScore: round((avg.Clarity + avg.Confidence) / 2),
		ConfidenceScore:    round(avg.Confidence),
		TechnicalScore:     round((avg.Relevance + avg.Completeness) / 2),
		OverallFeedback:    "Good interview performance with room for improvement in specific areas.",
		Strengths:          []string{"Clear communication", "Good technical knowledge", "Professional demeanor"},
		Improvements:       []string{"Provide more specific examples", "Structure answers better", "Show more confidence"},
		NextSteps:          []string{"Practice common interview questions", "Prepare STAR method examples", "Work on presentation skills"},
		IndustrySpecificTips: []string{
			"Stay updated with industry trends",
			"Practice technical scenarios",
			"Build portfolio projects",
		},
	}
}

func round(f float64) int {
	return int(math.Round(f))
}

func finalFeedbackPrompt(req FinalFeedbackRequest, avg ScoreAverages) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Industry: %s\nDifficulty: %s\n\n", req.Industry, req.Difficulty)
	b.WriteString("Performance Summary:\n")
	fmt.Fprintf(&b, "- Average Clarity: %.1f/100\n", avg.Clarity)
	fmt.Fprintf(&b, "- Average Relevance: %.1f/100\n", avg.Relevance)
	fmt.Fprintf(&b, "- Average Completeness: %.1f/100\n", avg.Completeness)
	fmt.Fprintf(&b, "- Average Confidence: %.1f/100\n\n", avg.Confidence)
	b.WriteString("Interview Questions and Responses:\n")
	for i, r := range req.Responses {
		question := ""
		if i < len(req.Questions) {
			question = req.Questions[i].Question
		}
		fmt.Fprintf(&b, "\nQuestion %d: %s\nResponse: %s\nScores: Clarity(%.0f) Relevance(%.0f) Completeness(%.0f) Confidence(%.0f)\n",
			i+1, question, r.Transcription, r.Clarity, r.Relevance, r.Completeness, r.Confidence)
	}
	return b.String()
}

// GenerateFinalFeedback summarizes a finished interview. Undecodable answers
// fall back to DefaultFinalFeedback. When the context carries a user and a
// SessionSaver is configured the session is saved; a failed save is logged
// and never fails the call.
func (s *Service) GenerateFinalFeedback(ctx context.Context, req FinalFeedbackRequest) (*FinalFeedback, error) {
	if len(req.Responses) == 0 {
		return nil, fmt.Errorf("%w: at least one response is required", ErrInvalidInput)
	}

	avg := Averages(req.Responses)

	var fb FinalFeedback
	if _, err := s.gw.CompleteJSON(ctx, gateway.TaskInterviewFinalFeedback, finalFeedbackPrompt(req, avg), &fb); err != nil {
		if !gateway.OnlyMalformed(err) {
			return nil, err
		}
		s.logger.WarnContext(ctx, "final feedback undecodable, using averages")
		fb = DefaultFinalFeedback(avg)
	}

	s.saveSession(ctx, req, fb)
	return &fb, nil
}

func (s *Service) saveSession(ctx context.Context, req FinalFeedbackRequest, fb FinalFeedback) {
	if s.sessions == nil {
		return
	}
	userID := gateway.UserIDFromContext(ctx)
	if userID == "" {
		return
	}

	session := &Session{
		UserID:        userID,
		Industry:      req.Industry,
		Difficulty:    req.Difficulty,
		Questions:     req.Questions,
		Responses:     req.Responses,
		FinalFeedback: fb,
		CreatedAt:     time.Now().UTC(),
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), gateway.DefaultAuditTimeout)
	defer cancel()
	if err := s.sessions.SaveSession(saveCtx, session); err != nil {
		s.logger.WarnContext(ctx, "interview session save failed", "user_id", userID, "error", err)
	}
}
