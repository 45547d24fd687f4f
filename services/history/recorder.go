package history

import (
	"context"
	"fmt"

	"github.com/careerclimb/careerclimb/services/career"
	"github.com/careerclimb/careerclimb/services/gateway"
)

// Recorder writes gateway audit records and finished interview sessions
// into a Store.
type Recorder struct {
	store Store
}

// NewRecorder creates a recorder over store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Record stores one successful completion as a history item.
func (r *Recorder) Record(ctx context.Context, rec gateway.AuditRecord) error {
	if rec.UserID == "" {
		return ErrMissingUser
	}
	item := &Item{
		UserID:    rec.UserID,
		Type:      string(rec.TaskType),
		Input:     rec.Input,
		Output:    rec.Output,
		Score:     rec.Score,
		Provider:  rec.Provider,
		CreatedAt: rec.CreatedAt,
	}
	if err := r.store.AddItem(ctx, item); err != nil {
		return fmt.Errorf("record %s: %w", rec.TaskType, err)
	}
	return nil
}

// SaveSession stores a finished mock interview.
func (r *Recorder) SaveSession(ctx context.Context, s *career.Session) error {
	if s.UserID == "" {
		return ErrMissingUser
	}
	return r.store.SaveInterviewSession(ctx, SessionFromCareer(s))
}

var (
	_ gateway.AuditSink   = (*Recorder)(nil)
	_ career.SessionSaver = (*Recorder)(nil)
)
