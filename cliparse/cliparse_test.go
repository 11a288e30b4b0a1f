// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

const adminAddr = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

// noEnvFile keeps a stray .env in the package directory out of the tests
var noEnvFile = []string{"-env-file", ""}

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "file:tally.db")
	t.Setenv("CANDIDATE_COUNT", "4")
	t.Setenv("ADMIN_ADDRESS", adminAddr)
	t.Setenv("STRICT_REGISTRATION", "true")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, https://tally.example")

	cfg, err := ParseFlags(noEnvFile)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.CandidateCount != 4 {
		t.Errorf("expected 4 candidates, got %d", cfg.CandidateCount)
	}
	if cfg.Admin().Hex() != adminAddr {
		t.Errorf("expected admin %s, got %s", adminAddr, cfg.Admin().Hex())
	}
	if !cfg.StrictRegistration {
		t.Error("expected strict registration")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://tally.example" {
		t.Errorf("unexpected origins: %v", cfg.AllowedOrigins)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default sqlite, got %s", cfg.DatabaseType)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CANDIDATE_COUNT", "4")

	cfg, err := ParseFlags([]string{"-env-file", "", "-p", "8080", "-d", "file:test.db", "-candidates", "3", "-admin", adminAddr})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.CandidateCount != 3 {
		t.Errorf("CLI should override env: expected 3, got %d", cfg.CandidateCount)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := ParseFlags([]string{"-env-file", "", "-d", "file:test.db"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.StrictRegistration {
		t.Error("strict registration should default to false")
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard origin, got %v", cfg.AllowedOrigins)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("unexpected log defaults: %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.Admin() != [20]byte{} {
		t.Errorf("expected zero admin, got %s", cfg.Admin().Hex())
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "DATABASE_URL=file:from-env-file.db\nCANDIDATE_COUNT=5\nPORT=7000\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	// the real environment wins over the file
	t.Setenv("PORT", "7100")
	// godotenv sets variables process-wide; make sure they are cleaned up
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CANDIDATE_COUNT", "")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("CANDIDATE_COUNT")

	cfg, err := ParseFlags([]string{"-env-file", path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DatabaseURL != "file:from-env-file.db" {
		t.Errorf("expected database URL from env file, got %q", cfg.DatabaseURL)
	}
	if cfg.CandidateCount != 5 {
		t.Errorf("expected 5 candidates from env file, got %d", cfg.CandidateCount)
	}
	if cfg.Port != 7100 {
		t.Errorf("environment should win over env file: expected 7100, got %d", cfg.Port)
	}
}

func TestParseFlags_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := ParseFlags([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env"), "-d", "file:test.db"})
	if err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing database", []string{}},
		{"bad database type", []string{"-d", "x", "-t", "mysql"}},
		{"bad admin", []string{"-d", "x", "-admin", "0x123"}},
		{"negative candidates", []string{"-d", "x", "-candidates", "-1"}},
		{"bad strict", []string{"-d", "x", "-strict-registration", "maybe"}},
		{"bad log format", []string{"-d", "x", "-log-format", "xml"}},
		{"unknown flag", []string{"-d", "x", "-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "")
			if _, err := ParseFlags(append(tt.args, noEnvFile...)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	for in, want := range map[string]string{"debug": "DEBUG", "WARN": "WARN", "error": "ERROR", "": "INFO", "bogus": "INFO"} {
		if got := (Config{LogLevel: in}).SlogLevel().String(); got != want {
			t.Errorf("SlogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
