package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/careerclimb/careerclimb/pkg/cache"
	"github.com/careerclimb/careerclimb/pkg/config"
	"github.com/careerclimb/careerclimb/pkg/database"
	"github.com/careerclimb/careerclimb/pkg/grpcutil"
	"github.com/careerclimb/careerclimb/pkg/httputil"
	"github.com/careerclimb/careerclimb/pkg/telemetry"
	"github.com/careerclimb/careerclimb/services/career"
	"github.com/careerclimb/careerclimb/services/gateway"
	"github.com/careerclimb/careerclimb/services/history"
)

const serviceName = "careerclimb-gateway"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(serviceName)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	gwCfg, err := config.LoadGateway()
	if err != nil {
		return fmt.Errorf("failed to load gateway config: %w", err)
	}

	tp, err := telemetry.Setup(ctx, telemetry.FromBase(cfg))
	if err != nil {
		return fmt.Errorf("failed to setup telemetry: %w", err)
	}
	defer tp.Shutdown(context.Background())

	logger := tp.Logger()

	store, closeStore, err := openHistory(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	recorder := history.NewRecorder(store)

	providers, err := buildProviders(ctx, gwCfg)
	if err != nil {
		return err
	}
	if !gwCfg.HasAnyProvider() {
		logger.Warn("no AI providers configured - set GEMINI_API_KEY or OPENAI_API_KEY")
	}

	gw := gateway.New(providers, logger,
		gateway.WithAuditSink(recorder),
		gateway.WithScorer(career.AuditScore),
		gateway.WithAttemptTimeout(gwCfg.ProviderTimeout),
		gateway.WithAuditTimeout(gwCfg.AuditTimeout),
		gateway.WithTracer(tp.Tracer(serviceName)),
	)
	defer gw.Wait()

	svc := career.NewService(gw, logger,
		career.WithTranscriber(career.NewWhisperTranscriber(gwCfg.OpenAIBaseURL, gwCfg.OpenAIAPIKey, nil)),
		career.WithSessionSaver(recorder),
	)

	mux := http.NewServeMux()
	gateway.NewHandler(gw, logger).Register(mux)
	career.NewHandler(svc, logger).Register(mux)
	history.NewHandler(store, logger).Register(mux)
	mux.HandleFunc("GET /livez", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if len(providers.Available(r.Context())) == 0 {
			httputil.WriteError(w, http.StatusServiceUnavailable, "no AI provider available", "")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"status": "ready", "providers": providers.Names()})
	})

	middlewares := []httputil.Middleware{
		httputil.Recovery(logger),
		telemetry.HTTPMiddleware(serviceName),
		httputil.Logging(logger),
		httputil.CORS,
	}
	if limiter, closeLimiter := openRateLimiter(ctx, cfg, gwCfg, logger); limiter != nil {
		defer closeLimiter()
		middlewares = append(middlewares, httputil.RateLimit(limiter, gateway.UserIDHeader, logger))
	}
	middlewares = append(middlewares, gateway.UserContext)

	httpServer := httputil.NewServer(httputil.DefaultServerConfig(cfg.HTTPPort),
		httputil.Chain(mux, middlewares...), logger)

	grpcServer := grpcutil.NewServer(grpcutil.DefaultServerConfig(cfg.GRPCPort, serviceName), logger)
	checks := make([]grpcutil.Checker, len(providers))
	for i, p := range providers {
		checks[i] = p
	}
	go grpcServer.Watch(ctx, checks)

	logger.Info("starting gateway",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"env", cfg.Environment,
		"storage", cfg.StorageBackend,
		"providers", providers.Names(),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() { errCh <- httpServer.Run(ctx) }()
	go func() { errCh <- grpcServer.Run(ctx) }()

	// The first server to return stops the other.
	first := <-errCh
	cancel()
	second := <-errCh
	if first != nil {
		return first
	}
	return second
}

func buildProviders(ctx context.Context, cfg *config.Gateway) (gateway.Providers, error) {
	gemini, err := gateway.NewGeminiProvider(ctx, gateway.ProviderConfig{
		Name:            "gemini",
		Endpoint:        cfg.GeminiBaseURL,
		AuthSecretName:  "GEMINI_API_KEY",
		APIKey:          cfg.GeminiAPIKey,
		Model:           cfg.GeminiModel,
		Timeout:         cfg.ProviderTimeout,
		SafetyThreshold: cfg.GeminiSafety,
	}, &http.Client{Timeout: cfg.ProviderTimeout})
	if err != nil {
		return nil, err
	}

	openai := gateway.NewOpenAIProvider(gateway.ProviderConfig{
		Name:           "openai",
		Endpoint:       cfg.OpenAIBaseURL,
		AuthSecretName: "OPENAI_API_KEY",
		APIKey:         cfg.OpenAIAPIKey,
		Model:          cfg.OpenAIModel,
		Timeout:        cfg.ProviderTimeout,
	}, &http.Client{Timeout: cfg.ProviderTimeout})

	return gateway.Providers{gemini, openai}, nil
}

func openHistory(ctx context.Context, cfg *config.Base, logger *slog.Logger) (history.Store, func(), error) {
	if !cfg.UsePostgresStorage() {
		store, err := history.NewStore(history.StoreOptions{Backend: config.StorageMemory})
		return store, func() {}, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := database.Connect(connectCtx, database.FromBase(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.WithLogger(logger)

	if err := history.Migrate(ctx, db, logger); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}

	store, err := history.NewStore(history.StoreOptions{Backend: config.StoragePostgres, DB: db.DB})
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() { db.Close() }, nil
}

// openRateLimiter returns nil when rate limiting is disabled or Redis cannot
// be reached; the gateway then serves without limits.
func openRateLimiter(ctx context.Context, cfg *config.Base, gwCfg *config.Gateway, logger *slog.Logger) (httputil.Limiter, func()) {
	if !gwCfg.RateLimitEnabled {
		return nil, nil
	}

	redisCfg, err := cache.ConfigFromURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid redis url, rate limiting disabled", "error", err)
		return nil, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := cache.Connect(connectCtx, redisCfg)
	if err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", "error", err)
		return nil, nil
	}
	client = client.WithLogger(logger).WithKeyPrefix("careerclimb")

	limiter := cache.NewRateLimiter(client, "ratelimit", gwCfg.RateLimit, gwCfg.RateLimitWindow)
	return limiter, func() { client.Close() }
}
