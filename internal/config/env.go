package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvTimeout     = "PAGESCRAPE_TIMEOUT"
	EnvUserAgent   = "PAGESCRAPE_USER_AGENT"
	EnvProxy       = "PAGESCRAPE_PROXY"
	EnvMaxBodySize = "PAGESCRAPE_MAX_BODY_SIZE"
)

// DefaultEnvFile is the dotenv file loaded by ApplyEnv when present.
const DefaultEnvFile = ".env"

// ApplyEnv loads envFiles (or .env when none are given) into the process
// environment and copies the PAGESCRAPE_* variables into cfg.
// Missing env files are skipped. Variables already set in the environment
// take precedence over the files.
func ApplyEnv(cfg *Config, envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if v, ok := os.LookupEnv(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidEnv, EnvTimeout, v, err)
		}
		cfg.Timeout = d
	}

	if v, ok := os.LookupEnv(EnvUserAgent); ok && v != "" {
		cfg.UserAgent = v
	}

	if v, ok := os.LookupEnv(EnvProxy); ok && v != "" {
		cfg.ProxyAddress = v
	}

	if v, ok := os.LookupEnv(EnvMaxBodySize); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidEnv, EnvMaxBodySize, v, err)
		}
		cfg.MaxBodySize = n
	}

	return nil
}
