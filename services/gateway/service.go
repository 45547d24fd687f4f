package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/careerclimb/careerclimb/services/gateway"

	// DefaultAttemptTimeout bounds a single provider call.
	DefaultAttemptTimeout = 30 * time.Second
	// DefaultAuditTimeout bounds the background audit write.
	DefaultAuditTimeout = 5 * time.Second
)

// Gateway tries each provider in order until one answers.
type Gateway struct {
	providers      Providers
	audit          AuditSink
	scorer         func(TaskType, string) *int
	attemptTimeout time.Duration
	auditTimeout   time.Duration
	tracer         trace.Tracer
	logger         *slog.Logger

	pending sync.WaitGroup
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithAuditSink enables the best-effort audit write after each success.
func WithAuditSink(sink AuditSink) Option {
	return func(g *Gateway) { g.audit = sink }
}

// WithScorer sets the function that extracts a score for audit records.
func WithScorer(fn func(TaskType, string) *int) Option {
	return func(g *Gateway) { g.scorer = fn }
}

// WithAttemptTimeout overrides DefaultAttemptTimeout.
func WithAttemptTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.attemptTimeout = d
		}
	}
}

// WithAuditTimeout overrides DefaultAuditTimeout.
func WithAuditTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.auditTimeout = d
		}
	}
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(g *Gateway) { g.tracer = t }
}

// New creates a gateway over providers, primary first.
func New(providers Providers, logger *slog.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		providers:      providers,
		attemptTimeout: DefaultAttemptTimeout,
		auditTimeout:   DefaultAuditTimeout,
		tracer:         otel.Tracer(tracerName),
		logger:         logger.With("component", "gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Providers returns the fallback order.
func (g *Gateway) Providers() Providers {
	return g.providers
}

// Complete answers prompt under the instruction template of task.
func (g *Gateway) Complete(ctx context.Context, task TaskType, prompt string) (*CompletionResult, error) {
	req, err := NewCompletionRequest(task, prompt)
	if err != nil {
		return nil, err
	}
	return g.complete(ctx, req, nil)
}

// CompleteJSON is Complete for JSON-shaped tasks. An answer that does not
// decode into out counts as a failed attempt and the next provider is tried.
// out must be a non-nil pointer and is only written on success.
func (g *Gateway) CompleteJSON(ctx context.Context, task TaskType, prompt string, out any) (*CompletionResult, error) {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, fmt.Errorf("CompleteJSON requires a non-nil pointer, got %T", out)
	}
	req, err := NewCompletionRequest(task, prompt)
	if err != nil {
		return nil, err
	}

	accept := func(text string) error {
		fresh := reflect.New(rv.Elem().Type())
		if err := json.Unmarshal([]byte(text), fresh.Interface()); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedProviderOutput, err)
		}
		rv.Elem().Set(fresh.Elem())
		return nil
	}
	return g.complete(ctx, req, accept)
}

func (g *Gateway) complete(ctx context.Context, req CompletionRequest, accept func(string) error) (*CompletionResult, error) {
	tmpl := templates[req.TaskType]

	ctx, span := g.tracer.Start(ctx, "gateway.complete", trace.WithAttributes(
		attribute.String("task_type", string(req.TaskType)),
		attribute.Int("max_tokens", req.MaxTokens),
	))
	defer span.End()

	var failures []ProviderFailure
	for i, p := range g.providers {
		role := roleAt(i)

		text, err := g.attempt(ctx, p, role, tmpl.Instruction, req)
		if err == nil && accept != nil {
			err = accept(text)
		}
		if err != nil {
			g.logger.WarnContext(ctx, "provider failed",
				"provider", p.Name(),
				"role", role,
				"task_type", req.TaskType,
				"error", err,
			)
			failures = append(failures, ProviderFailure{Provider: p.Name(), Role: role, Err: err})
			continue
		}

		result := &CompletionResult{
			Text:         text,
			Provider:     role,
			ProviderName: p.Name(),
		}
		span.SetAttributes(attribute.String("provider", p.Name()), attribute.String("role", string(role)))
		g.logger.InfoContext(ctx, "completion succeeded",
			"provider", p.Name(),
			"role", role,
			"task_type", req.TaskType,
			"chars", len(text),
		)
		g.recordAudit(ctx, req, result)
		return result, nil
	}

	err := &AllProvidersFailedError{Failures: failures}
	span.RecordError(err)
	span.SetStatus(codes.Error, ErrAllProvidersFailed.Error())
	g.logger.ErrorContext(ctx, "all providers failed",
		"task_type", req.TaskType,
		"attempts", len(failures),
	)
	return nil, err
}

func (g *Gateway) attempt(ctx context.Context, p Provider, role ProviderRole, instruction string, req CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
	defer cancel()

	ctx, span := g.tracer.Start(ctx, "gateway.attempt", trace.WithAttributes(
		attribute.String("provider", p.Name()),
		attribute.String("role", string(role)),
	))
	defer span.End()

	g.logger.InfoContext(ctx, "calling provider",
		"provider", p.Name(),
		"role", role,
		"task_type", req.TaskType,
		"max_tokens", req.MaxTokens,
	)

	start := time.Now()
	raw, err := p.Answer(ctx, instruction, req.Prompt, req.MaxTokens)
	span.SetAttributes(attribute.Int64("duration_ms", time.Since(start).Milliseconds()))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrProviderCallFailed) {
			err = fmt.Errorf("%w: %w", ErrProviderCallFailed, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider failed")
		return "", err
	}

	text := StripCodeFences(raw)
	if text == "" {
		err := fmt.Errorf("%w: %s returned an empty answer", ErrBadProviderResponse, p.Name())
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty answer")
		return "", err
	}
	return text, nil
}

// Wait blocks until pending audit writes finish.
func (g *Gateway) Wait() {
	g.pending.Wait()
}
