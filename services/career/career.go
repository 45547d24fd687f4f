// Package career implements the CareerClimb task families on top of the
// completion gateway: resume analysis, writing assistants, LinkedIn
// optimization and the mock interview coach.
package career

import (
	"context"
	"errors"
	"log/slog"

	"github.com/careerclimb/careerclimb/services/gateway"
)

// ErrInvalidInput marks requests rejected before any provider call.
var ErrInvalidInput = errors.New("invalid input")

// Completer is the gateway surface used by the service.
type Completer interface {
	Complete(ctx context.Context, task gateway.TaskType, prompt string) (*gateway.CompletionResult, error)
	CompleteJSON(ctx context.Context, task gateway.TaskType, prompt string, out any) (*gateway.CompletionResult, error)
}

// SessionSaver persists finished interview sessions.
type SessionSaver interface {
	SaveSession(ctx context.Context, s *Session) error
}

// Service runs the career task families.
type Service struct {
	gw          Completer
	transcriber Transcriber
	sessions    SessionSaver
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTranscriber enables audio answer analysis.
func WithTranscriber(t Transcriber) Option {
	return func(s *Service) { s.transcriber = t }
}

// WithSessionSaver enables the best-effort interview session save.
func WithSessionSaver(saver SessionSaver) Option {
	return func(s *Service) { s.sessions = saver }
}

// NewService creates a career service over gw.
func NewService(gw Completer, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		gw:     gw,
		logger: logger.With("component", "career"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsCallerError reports whether err was caused by the request itself.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || gateway.IsCallerError(err)
}
