package grpcutil

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/careerclimb/careerclimb/pkg/testutil"
)

type fakeChecker struct {
	name string
	up   atomic.Bool
}

func newChecker(name string, up bool) *fakeChecker {
	c := &fakeChecker{name: name}
	c.up.Store(up)
	return c
}

func (c *fakeChecker) Name() string                     { return c.name }
func (c *fakeChecker) Available(ctx context.Context) bool { return c.up.Load() }

var _ Checker = (*fakeChecker)(nil)

func healthClient(t *testing.T, s *Server) grpc_health_v1.HealthClient {
	t.Helper()

	ts := testutil.NewTestServer(s.GRPCServer())
	ts.Start(t)

	conn, err := ts.Dial()
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return grpc_health_v1.NewHealthClient(conn)
}

func checkStatus(t *testing.T, client grpc_health_v1.HealthClient, service string) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()

	resp, err := client.Check(testutil.TestContext(t), &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Check(%q) error = %v", service, err)
	}
	return resp.Status
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig(9001, "careerclimb.gateway")

	if cfg.Port != 9001 {
		t.Errorf("Port = %v, want %v", cfg.Port, 9001)
	}
	if cfg.ServiceName != "careerclimb.gateway" {
		t.Errorf("ServiceName = %v, want %v", cfg.ServiceName, "careerclimb.gateway")
	}
	if !cfg.EnableReflection {
		t.Error("EnableReflection = false, want true")
	}
	if cfg.CheckInterval != 30*time.Second {
		t.Errorf("CheckInterval = %v, want %v", cfg.CheckInterval, 30*time.Second)
	}
}

func TestServer_HealthServing(t *testing.T) {
	s := NewServer(DefaultServerConfig(0, "careerclimb.gateway"), testutil.DiscardLogger())
	client := healthClient(t, s)

	if got := checkStatus(t, client, "careerclimb.gateway"); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", got)
	}

	_, err := client.Check(testutil.TestContext(t), &grpc_health_v1.HealthCheckRequest{Service: "unknown"})
	if status.Code(err) != codes.NotFound {
		t.Errorf("Check(unknown) code = %v, want NotFound", status.Code(err))
	}
}

func TestServer_Refresh(t *testing.T) {
	s := NewServer(DefaultServerConfig(0, "careerclimb.gateway"), testutil.DiscardLogger())
	client := healthClient(t, s)

	gemini := newChecker("gemini", false)
	openai := newChecker("openai", true)
	checks := []Checker{gemini, openai}

	s.Refresh(context.Background(), checks)

	if got := checkStatus(t, client, "careerclimb.gateway/gemini"); got != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Errorf("gemini status = %v, want NOT_SERVING", got)
	}
	if got := checkStatus(t, client, "careerclimb.gateway/openai"); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("openai status = %v, want SERVING", got)
	}
	if got := checkStatus(t, client, "careerclimb.gateway"); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("service status = %v, want SERVING with one provider up", got)
	}

	openai.up.Store(false)
	s.Refresh(context.Background(), checks)

	if got := checkStatus(t, client, "careerclimb.gateway"); got != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Errorf("service status = %v, want NOT_SERVING with every provider down", got)
	}
}

func TestServer_Watch(t *testing.T) {
	cfg := DefaultServerConfig(0, "careerclimb.gateway")
	cfg.CheckInterval = 10 * time.Millisecond
	s := NewServer(cfg, testutil.DiscardLogger())
	client := healthClient(t, s)

	gemini := newChecker("gemini", false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Watch(ctx, []Checker{gemini})
		close(done)
	}()

	gemini.up.Store(true)
	testutil.WaitFor(t, time.Second, func() bool {
		return checkStatus(t, client, "careerclimb.gateway/gemini") == grpc_health_v1.HealthCheckResponse_SERVING
	}, "gemini reported serving")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestServer_Serve_StopsOnCancel(t *testing.T) {
	cfg := DefaultServerConfig(0, "careerclimb.gateway")
	cfg.ShutdownTimeout = time.Second
	s := NewServer(cfg, testutil.DiscardLogger())

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, lis) }()

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
