package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

type Config struct {
	Port               int
	DatabaseURL        string
	DatabaseType       string
	CandidateCount     int
	AdminAddress       string
	StrictRegistration bool
	AllowedOrigins     []string
	LogLevel           string
	LogFormat          string
	EnvFile            string
}

// Admin returns the configured administrator, or the zero address when unset
func (c Config) Admin() common.Address {
	if c.AdminAddress == "" {
		return common.Address{}
	}
	return common.HexToAddress(c.AdminAddress)
}

// SlogLevel maps LogLevel onto slog levels
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var strict string
	var origins string

	fs := flag.NewFlagSet("quickly-tally", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&origins, "origins", "", "Comma separated CORS origins")

	// Ballot parameters, only used the first time the database is initialized
	fs.IntVar(&cfg.CandidateCount, "candidates", 0, "Number of candidates")
	fs.StringVar(&cfg.AdminAddress, "admin", "", "Administrator address (0x...)")
	fs.StringVar(&strict, "strict-registration", "", "Reject registrations after close (true/false)")

	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")
	fs.StringVar(&cfg.EnvFile, "env-file", ".env", "Environment file to load if present")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// .env never overrides variables already set in the environment
	if cfg.EnvFile != "" {
		if err := loadEnvFile(cfg.EnvFile); err != nil {
			return Config{}, err
		}
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.CandidateCount == 0 {
		if s := os.Getenv("CANDIDATE_COUNT"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid CANDIDATE_COUNT env variable")
			}
			cfg.CandidateCount = n
		}
	}
	if cfg.CandidateCount < 0 {
		return Config{}, errors.New("candidate count must be positive")
	}

	if cfg.AdminAddress == "" {
		cfg.AdminAddress = os.Getenv("ADMIN_ADDRESS")
	}
	if cfg.AdminAddress != "" && !common.IsHexAddress(cfg.AdminAddress) {
		return Config{}, fmt.Errorf("invalid admin address %q", cfg.AdminAddress)
	}

	if strict == "" {
		strict = os.Getenv("STRICT_REGISTRATION")
	}
	if strict != "" {
		b, err := strconv.ParseBool(strict)
		if err != nil {
			return Config{}, fmt.Errorf("invalid strict registration value %q", strict)
		}
		cfg.StrictRegistration = b
	}

	if origins == "" {
		origins = os.Getenv("ALLOWED_ORIGINS")
	}
	cfg.AllowedOrigins = splitList(origins)
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("LOG_LEVEL")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = os.Getenv("LOG_FORMAT")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("invalid log format %q (text or json)", cfg.LogFormat)
	}

	return cfg, nil
}

func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
