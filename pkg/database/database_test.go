package database

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/careerclimb/careerclimb/pkg/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Host != "localhost" {
		t.Errorf("Host = %v, want %v", cfg.Host, "localhost")
	}
	if cfg.Port != 5432 {
		t.Errorf("Port = %v, want %v", cfg.Port, 5432)
	}
	if cfg.User != "careerclimb" {
		t.Errorf("User = %v, want %v", cfg.User, "careerclimb")
	}
	if cfg.Database != "careerclimb" {
		t.Errorf("Database = %v, want %v", cfg.Database, "careerclimb")
	}
	if cfg.MaxOpenConns != 25 {
		t.Errorf("MaxOpenConns = %v, want %v", cfg.MaxOpenConns, 25)
	}
	if cfg.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want %v", cfg.ConnMaxLifetime, 5*time.Minute)
	}
}

func TestConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{
			name: "default config",
			cfg:  DefaultConfig(),
			want: "host=localhost port=5432 user=careerclimb password=careerclimb dbname=careerclimb sslmode=disable",
		},
		{
			name: "custom config",
			cfg: &Config{
				Host:     "db.example.com",
				Port:     5433,
				User:     "admin",
				Password: "secret123",
				Database: "mydb",
				SSLMode:  "require",
			},
			want: "host=db.example.com port=5433 user=admin password=secret123 dbname=mydb sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DSN(); got != tt.want {
				t.Errorf("DSN() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromBase(t *testing.T) {
	base := &config.Base{
		DBHost:     "pg.internal",
		DBPort:     6543,
		DBUser:     "svc",
		DBPassword: "pw",
		DBName:     "history",
		DBSSLMode:  "require",
	}

	cfg := FromBase(base)

	if cfg.DSN() != base.DatabaseDSN() {
		t.Errorf("DSN() = %q, want %q", cfg.DSN(), base.DatabaseDSN())
	}
	if cfg.MaxOpenConns != 25 {
		t.Errorf("MaxOpenConns = %v, want pool default 25", cfg.MaxOpenConns)
	}
}

func TestParseMigrationName(t *testing.T) {
	tests := []struct {
		filename      string
		wantVersion   int
		wantName      string
		wantDirection string
		wantOK        bool
	}{
		{"001_create_history.up.sql", 1, "create_history", "up", true},
		{"001_create_history.down.sql", 1, "create_history", "down", true},
		{"012_add_index_on_user.up.sql", 12, "add_index_on_user", "up", true},
		{"README.md", 0, "", "", false},
		{"abc_create.up.sql", 0, "", "", false},
		{"000_zero.up.sql", 0, "", "", false},
		{"002_seed.sql", 0, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, direction, ok := parseMigrationName(tt.filename)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if version != tt.wantVersion || name != tt.wantName || direction != tt.wantDirection {
				t.Errorf("parseMigrationName() = (%d, %q, %q), want (%d, %q, %q)",
					version, name, direction, tt.wantVersion, tt.wantName, tt.wantDirection)
			}
		})
	}
}

// ===== LoadMigrations =====

func TestMigrator_LoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_create_cover_letters.up.sql":   {Data: []byte("CREATE TABLE cover_letters (id TEXT)")},
		"migrations/002_create_cover_letters.down.sql": {Data: []byte("DROP TABLE cover_letters")},
		"migrations/001_create_history.up.sql":         {Data: []byte("CREATE TABLE history_items (id TEXT)")},
		"migrations/001_create_history.down.sql":       {Data: []byte("DROP TABLE history_items")},
		"migrations/notes.txt":                         {Data: []byte("ignored")},
	}

	m := NewMigrator(&DB{}, "history")
	if err := m.LoadMigrations(fsys, "migrations"); err != nil {
		t.Fatalf("LoadMigrations() error = %v", err)
	}

	migs := m.Migrations()
	if len(migs) != 2 {
		t.Fatalf("len(Migrations()) = %d, want 2", len(migs))
	}
	if migs[0].Version != 1 || migs[0].Name != "create_history" {
		t.Errorf("migs[0] = %d %q, want 1 create_history", migs[0].Version, migs[0].Name)
	}
	if migs[1].Version != 2 || migs[1].Down != "DROP TABLE cover_letters" {
		t.Errorf("migs[1] = %+v", migs[1])
	}
}

func TestMigrator_LoadMigrations_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fsys    fstest.MapFS
		wantErr string
	}{
		{
			name:    "missing directory",
			fsys:    fstest.MapFS{},
			wantErr: "failed to read migrations directory",
		},
		{
			name: "down without up",
			fsys: fstest.MapFS{
				"migrations/001_orphan.down.sql": {Data: []byte("DROP TABLE orphan")},
			},
			wantErr: "has no up script",
		},
		{
			name: "conflicting names",
			fsys: fstest.MapFS{
				"migrations/001_first.up.sql":  {Data: []byte("SELECT 1")},
				"migrations/001_second.up.sql": {Data: []byte("SELECT 2")},
			},
			wantErr: "conflicting names",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewMigrator(&DB{}, "test").LoadMigrations(tt.fsys, "migrations")
			if err == nil {
				t.Fatal("LoadMigrations() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestWithLogger_NilKeepsDefault(t *testing.T) {
	m := NewMigrator(&DB{}, "test").WithLogger(nil)
	if m.logger == nil {
		t.Error("WithLogger(nil) cleared the logger")
	}
}
