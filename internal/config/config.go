package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	DBPath     string
	Delimiter  rune
	Workers    int
	Extensions []string
}

// Load reads configuration from environment variables and returns a Config
// struct, applying defaults for unset fields. If a .env file exists in the
// current directory or a parent, it is loaded first; environment variables
// already set take precedence over .env values.
func Load() (*Config, error) {
	loadDotenv()

	cfg := &Config{
		DBPath: getEnv("TAGFILE_DB_PATH", defaultDBPath()),
	}

	delimiter, err := parseDelimiter(getEnv("TAGFILE_DELIMITER", "\n"))
	if err != nil {
		return nil, err
	}
	cfg.Delimiter = delimiter

	workersStr := getEnv("TAGFILE_WORKERS", "0")
	workers, err := strconv.Atoi(workersStr)
	if err != nil {
		return nil, fmt.Errorf("TAGFILE_WORKERS must be a valid integer: %w", err)
	}
	if workers < 0 {
		return nil, fmt.Errorf("TAGFILE_WORKERS must not be negative")
	}
	cfg.Workers = workers

	cfg.Extensions = parseExtensions(getEnv("TAGFILE_EXTENSIONS", ".tags"))

	return cfg, nil
}

// loadDotenv loads the nearest .env file, searching upward a few levels.
func loadDotenv() {
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ { // Limit search depth
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return // Reached filesystem root
		}
		dir = parent
	}
}

// parseDelimiter validates that the configured delimiter is one character.
func parseDelimiter(value string) (rune, error) {
	if value == "" {
		return '\n', nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("TAGFILE_DELIMITER must be a single character, got %q", value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	return r, nil
}

// parseExtensions splits a comma-separated extension list, dropping blanks.
func parseExtensions(value string) []string {
	parts := strings.Split(value, ",")
	extensions := make([]string, 0, len(parts))
	for _, part := range parts {
		ext := strings.TrimSpace(part)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions = append(extensions, ext)
	}
	return extensions
}

// defaultDBPath returns the per-user default index directory.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tagfile/indices"
	}
	return filepath.Join(home, ".tagfile", "indices")
}

// getEnv returns the value of the environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
