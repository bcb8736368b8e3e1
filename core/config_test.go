package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validRaw() map[string]any {
	return map[string]any{
		"oauth": map[string]any{
			"client_id":     "app-1",
			"client_secret": "secret-1",
		},
		"database": map[string]any{
			"url": "postgres://localhost/tokens",
		},
	}
}

func TestDefaultConfig_MatchesDocumentedDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.OAuth.TokenURL != DefaultTokenURL {
		t.Fatalf("unexpected default token url %q", cfg.OAuth.TokenURL)
	}
	if cfg.OAuth.RequestTimeout != 0 {
		t.Fatalf("expected transport default timeout, got %s", cfg.OAuth.RequestTimeout)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Fatalf("expected postgres driver by default, got %q", cfg.Database.Driver)
	}
}

func TestConfigValidate_RequiresCredentialsAndDatabase(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected missing client id error")
	}
	cfg.OAuth.ClientID = "id"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected missing client secret error")
	}
	cfg.OAuth.ClientSecret = "secret"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected missing database url error")
	}
	cfg.Database.URL = "postgres://localhost/db"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config: %v", err)
	}
	cfg.Database.Driver = "mysql"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
	cfg.Database.Driver = DriverSQLite
	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected port range error")
	}
}

func TestLoadConfig_LayersDefaultsLoadedAndRuntime(t *testing.T) {
	raw := validRaw()
	raw["server"] = map[string]any{"port": 9000}

	cfg, err := LoadConfig(context.Background(), StaticConfigLoader(raw), Config{
		Server: ServerConfig{Port: 9100},
	}, nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.OAuth.ClientID != "app-1" || cfg.OAuth.ClientSecret != "secret-1" {
		t.Fatalf("expected loaded credentials, got %#v", cfg.OAuth)
	}
	if cfg.Server.Port != 9100 {
		t.Fatalf("expected runtime port to win, got %d", cfg.Server.Port)
	}
	if cfg.Database.MaxOpenConns != 10 {
		t.Fatalf("expected default pool size, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.OAuth.TokenURL != DefaultTokenURL {
		t.Fatalf("expected default token url, got %q", cfg.OAuth.TokenURL)
	}
}

func TestLoadConfig_ValidatorIsApplied(t *testing.T) {
	raw := map[string]any{"database": map[string]any{"url": "file::memory:", "driver": "sqlite3"}}
	if _, err := LoadConfig(context.Background(), StaticConfigLoader(raw), Config{}, nil); err == nil {
		t.Fatalf("expected full validation to require credentials")
	}
	cfg, err := LoadConfig(context.Background(), StaticConfigLoader(raw), Config{}, ValidateStorage)
	if err != nil {
		t.Fatalf("storage-only validation: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.Database.Driver)
	}
}

func TestViperConfigLoader_ReadsEnvironment(t *testing.T) {
	t.Setenv("CLIENT_ID", "env-client")
	t.Setenv("CLIENT_SECRET", "env-secret")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("PORT", "9191")
	t.Setenv("OAUTH_REQUEST_TIMEOUT", "15s")

	raw, err := NewViperConfigLoader("").LoadRaw(context.Background())
	if err != nil {
		t.Fatalf("load raw: %v", err)
	}
	oauth, ok := raw["oauth"].(map[string]any)
	if !ok {
		t.Fatalf("expected oauth section, got %#v", raw)
	}
	if oauth["client_id"] != "env-client" {
		t.Fatalf("unexpected client id %#v", oauth["client_id"])
	}
	if oauth["request_timeout"] != 15*time.Second {
		t.Fatalf("unexpected request timeout %#v", oauth["request_timeout"])
	}

	cfg, err := LoadConfig(context.Background(), NewViperConfigLoader(""), Config{}, nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Fatalf("expected env port, got %d", cfg.Server.Port)
	}
	if cfg.Database.URL != "postgres://env/db" {
		t.Fatalf("expected env database url, got %q", cfg.Database.URL)
	}
}

func TestViperConfigLoader_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "callbackd.yaml")
	content := []byte("oauth:\n  client_id: file-client\n  client_secret: file-secret\ndatabase:\n  url: postgres://file/db\nserver:\n  port: 7000\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CLIENT_ID", "env-client")

	cfg, err := LoadConfig(context.Background(), NewViperConfigLoader(path), Config{}, nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.OAuth.ClientID != "env-client" {
		t.Fatalf("expected env client id to win, got %q", cfg.OAuth.ClientID)
	}
	if cfg.OAuth.ClientSecret != "file-secret" {
		t.Fatalf("expected file client secret, got %q", cfg.OAuth.ClientSecret)
	}
	if cfg.Server.Port != 7000 {
		t.Fatalf("expected file port, got %d", cfg.Server.Port)
	}
}

func TestViperConfigLoader_MissingFileFails(t *testing.T) {
	loader := NewViperConfigLoader(filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := loader.LoadRaw(context.Background()); err == nil {
		t.Fatalf("expected missing config file error")
	}
}

func TestViperConfigLoader_RejectsMalformedNumbers(t *testing.T) {
	cases := map[string]string{
		"PORT":                    "abc",
		"OAUTH_REQUEST_TIMEOUT":   "soon",
		"DATABASE_MAX_OPEN_CONNS": "ten",
		"LOG_JSON":                "maybe",
	}
	for env, value := range cases {
		t.Run(env, func(t *testing.T) {
			t.Setenv("CLIENT_ID", "id")
			t.Setenv("CLIENT_SECRET", "secret")
			t.Setenv("DATABASE_URL", "postgres://localhost/tokens")
			t.Setenv(env, value)

			if _, err := LoadConfig(context.Background(), NewViperConfigLoader(""), Config{}, nil); err == nil {
				t.Fatalf("expected %s=%q to fail instead of falling back to the default", env, value)
			}
		})
	}
}

func TestLoadConfig_NormalizesDatabaseDriver(t *testing.T) {
	t.Setenv("CLIENT_ID", "id")
	t.Setenv("CLIENT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "file:tokens.db")
	t.Setenv("DATABASE_DRIVER", " SQLite3 ")

	cfg, err := LoadConfig(context.Background(), NewViperConfigLoader(""), Config{}, nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Fatalf("expected normalized driver %q, got %q", DriverSQLite, cfg.Database.Driver)
	}
	if got := (DatabaseConfig{Driver: "Postgres"}).Normalized().Driver; got != DriverPostgres {
		t.Fatalf("expected normalized postgres driver, got %q", got)
	}
}
