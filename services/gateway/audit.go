package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// AuditRecord is written after a successful completion.
type AuditRecord struct {
	UserID    string
	TaskType  TaskType
	Input     string
	Output    string
	Score     *int
	Provider  string
	CreatedAt time.Time
}

// AuditSink persists audit records. Failures are logged and dropped.
type AuditSink interface {
	Record(ctx context.Context, rec AuditRecord) error
}

// UserIDHeader carries the caller identity used for audit and history.
const UserIDHeader = "X-User-Id"

type userIDKey struct{}

// ContextWithUserID attaches a user id to ctx.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the user id attached to ctx, if any.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// UserContext copies the X-User-Id header into the request context.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get(UserIDHeader)); id != "" {
			r = r.WithContext(ContextWithUserID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// recordAudit writes rec on its own goroutine. The write outlives request
// cancellation but is bounded by the audit timeout.
func (g *Gateway) recordAudit(ctx context.Context, req CompletionRequest, res *CompletionResult) {
	if g.audit == nil {
		return
	}
	userID := UserIDFromContext(ctx)
	if userID == "" {
		g.logger.DebugContext(ctx, "skipping audit write without user", "task_type", req.TaskType)
		return
	}

	rec := AuditRecord{
		UserID:    userID,
		TaskType:  req.TaskType,
		Input:     req.Prompt,
		Output:    res.Text,
		Provider:  res.ProviderName,
		CreatedAt: time.Now().UTC(),
	}
	if g.scorer != nil {
		rec.Score = g.scorer(req.TaskType, res.Text)
	}

	g.pending.Add(1)
	go func() {
		defer g.pending.Done()

		auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.auditTimeout)
		defer cancel()

		if err := g.audit.Record(auditCtx, rec); err != nil {
			g.logger.WarnContext(auditCtx, "audit write failed",
				"task_type", rec.TaskType,
				"user_id", rec.UserID,
				"error", err,
			)
		}
	}()
}
