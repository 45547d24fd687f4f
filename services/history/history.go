// Package history stores the per-user activity log, saved cover letters and
// finished interview sessions.
package history

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/careerclimb/careerclimb/services/career"
)

var (
	// ErrNotFound is returned when an item does not exist for the user.
	ErrNotFound = errors.New("not found")
	// ErrMissingUser is returned when a request carries no user id.
	ErrMissingUser = errors.New("user id is required")
)

// DefaultCoverLetterLimit is the number of cover letters listed by default.
const DefaultCoverLetterLimit = 5

// Item is one completed task in a user's activity log.
type Item struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"userId" yaml:"user_id"`
	Type      string    `json:"type" yaml:"type"`
	Input     string    `json:"input" yaml:"input"`
	Output    string    `json:"output" yaml:"output"`
	Score     *int      `json:"score,omitempty" yaml:"score,omitempty"`
	Provider  string    `json:"provider,omitempty" yaml:"provider,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// CoverLetter is a saved cover letter.
type CoverLetter struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	CompanyName    string    `json:"companyName"`
	JobTitle       string    `json:"jobTitle"`
	JobDescription string    `json:"jobDescription,omitempty"`
	CompanyCulture string    `json:"companyCulture,omitempty"`
	Tone           string    `json:"tone,omitempty"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

// InterviewSession is a stored mock interview.
type InterviewSession struct {
	ID                 string                     `json:"id"`
	UserID             string                     `json:"userId"`
	Industry           string                     `json:"industry"`
	Difficulty         string                     `json:"difficulty"`
	Questions          []career.InterviewQuestion `json:"questions"`
	Responses          []career.AnswerFeedback    `json:"responses"`
	FinalFeedback      career.FinalFeedback       `json:"finalFeedback"`
	OverallScore       int                        `json:"overallScore"`
	CommunicationScore int                        `json:"communicationScore"`
	ConfidenceScore    int                        `json:"confidenceScore"`
	TechnicalScore     int                        `json:"technicalScore"`
	CreatedAt          time.Time                  `json:"createdAt"`
}

// NewID returns a fresh identifier.
func NewID() string {
	return uuid.NewString()
}

// SessionFromCareer converts a finished career session for storage.
func SessionFromCareer(s *career.Session) *InterviewSession {
	return &InterviewSession{
		ID:                 NewID(),
		UserID:             s.UserID,
		Industry:           s.Industry,
		Difficulty:         s.Difficulty,
		Questions:          s.Questions,
		Responses:          s.Responses,
		FinalFeedback:      s.FinalFeedback,
		OverallScore:       s.FinalFeedback.OverallScore,
		CommunicationScore: s.FinalFeedback.CommunicationScore,
		ConfidenceScore:    s.FinalFeedback.ConfidenceScore,
		TechnicalScore:     s.FinalFeedback.TechnicalScore,
		CreatedAt:          s.CreatedAt,
	}
}

func copyItem(it *Item) *Item {
	c := *it
	if it.Score != nil {
		score := *it.Score
		c.Score = &score
	}
	return &c
}
