package cache

import (
	"context"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Addr != "localhost:6379" {
		t.Errorf("Addr = %v, want %v", cfg.Addr, "localhost:6379")
	}
	if cfg.Password != "" {
		t.Errorf("Password = %v, want empty string", cfg.Password)
	}
	if cfg.DB != 0 {
		t.Errorf("DB = %v, want %v", cfg.DB, 0)
	}
	if cfg.PoolSize != 10 {
		t.Errorf("PoolSize = %v, want %v", cfg.PoolSize, 10)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %v, want %v", cfg.MaxRetries, 3)
	}
	if cfg.ReadTimeout != 3*time.Second {
		t.Errorf("ReadTimeout = %v, want %v", cfg.ReadTimeout, 3*time.Second)
	}
}

func TestConfigFromURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantAddr string
		wantPass string
		wantDB   int
		wantErr  bool
	}{
		{"plain", "redis://localhost:6379", "localhost:6379", "", 0, false},
		{"password and db", "redis://:secret@cache.internal:6380/2", "cache.internal:6380", "secret", 2, false},
		{"default port", "redis://cache.internal", "cache.internal:6379", "", 0, false},
		{"bad scheme", "http://localhost:6379", "", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ConfigFromURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ConfigFromURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cfg.Addr != tt.wantAddr {
				t.Errorf("Addr = %v, want %v", cfg.Addr, tt.wantAddr)
			}
			if cfg.Password != tt.wantPass {
				t.Errorf("Password = %v, want %v", cfg.Password, tt.wantPass)
			}
			if cfg.DB != tt.wantDB {
				t.Errorf("DB = %v, want %v", cfg.DB, tt.wantDB)
			}
			if cfg.PoolSize != 10 {
				t.Errorf("PoolSize = %v, want default 10", cfg.PoolSize)
			}
		})
	}
}

func TestClient_PrefixedKey(t *testing.T) {
	tests := []struct {
		name      string
		keyPrefix string
		key       string
		want      string
	}{
		{"no prefix", "", "mykey", "mykey"},
		{"with prefix", "careerclimb", "mykey", "careerclimb:mykey"},
		{"empty key", "prefix", "", "prefix:"},
		{"complex prefix", "app:v1", "user:123", "app:v1:user:123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := (&Client{}).WithKeyPrefix(tt.keyPrefix)
			if got := c.prefixedKey(tt.key); got != tt.want {
				t.Errorf("prefixedKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestRateLimiter_FullKey(t *testing.T) {
	rl := NewRateLimiter(nil, "ratelimit", 60, time.Minute)
	if got := rl.fullKey("user:123"); got != "ratelimit:user:123" {
		t.Errorf("fullKey() = %v, want ratelimit:user:123", got)
	}
}

func TestRemaining(t *testing.T) {
	tests := []struct {
		limit   int
		counter string
		want    int
	}{
		{100, "", 100},
		{100, "50", 50},
		{100, "100", 0},
		{100, "150", 0},
		{100, "garbage", 100},
	}

	for _, tt := range tests {
		if got := remaining(tt.limit, tt.counter); got != tt.want {
			t.Errorf("remaining(%d, %q) = %d, want %d", tt.limit, tt.counter, got, tt.want)
		}
	}
}

func TestConnect_InvalidAddress(t *testing.T) {
	cfg := &Config{
		Addr:         "invalid:99999",
		PoolSize:     1,
		MaxRetries:   0,
		ReadTimeout:  100 * time.Millisecond,
		WriteTimeout: 100 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if _, err := Connect(ctx, cfg); err == nil {
		t.Error("expected error when connecting to invalid address")
	}
}
