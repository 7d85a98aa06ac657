package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains the subtitle database endpoint and account settings.
// Empty credentials select anonymous access.
type Server struct {
	Endpoint  string `toml:"endpoint"`
	UserAgent string `toml:"user_agent"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// Search contains default search parameters; command-line flags override
// them per run.
type Search struct {
	// Languages is a comma-separated language filter, e.g. "eng,ger".
	Languages string `toml:"languages"`
	// Limit caps the number of results returned per search call.
	Limit int `toml:"limit"`
}

// Output contains defaults for how downloaded subtitles are placed on disk.
type Output struct {
	// SameName names the subtitle after the video, swapping the extension.
	SameName bool `toml:"same_name"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subfetch.
type Config struct {
	Server  Server  `toml:"server"`
	Search  Search  `toml:"search"`
	Output  Output  `toml:"output"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/subfetch/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error; defaults apply. The returned bool reports whether a file was
// actually read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("subfetch.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() {
	c.Server.Endpoint = strings.TrimSpace(c.Server.Endpoint)
	c.Server.UserAgent = strings.TrimSpace(c.Server.UserAgent)
	c.Search.Languages = strings.TrimSpace(c.Search.Languages)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if c.Server.Endpoint == "" {
		c.Server.Endpoint = defaultEndpoint
	}
	if c.Server.UserAgent == "" {
		c.Server.UserAgent = defaultUserAgent
	}
	if c.Search.Languages == "" {
		c.Search.Languages = defaultLanguages
	}
	if c.Search.Limit == 0 {
		c.Search.Limit = defaultLimit
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Server.Endpoint, "http://") && !strings.HasPrefix(c.Server.Endpoint, "https://") {
		return fmt.Errorf("server.endpoint must be an http(s) URL, got %q", c.Server.Endpoint)
	}
	if c.Search.Limit < 1 {
		return fmt.Errorf("search.limit must be at least 1, got %d", c.Search.Limit)
	}
	if c.Server.Username == "" && c.Server.Password != "" {
		return errors.New("server.password is set without server.username")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// Sample returns the annotated sample configuration shipped with the binary.
func Sample() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path. The file is
// owner-only since it may come to hold account credentials.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o600)
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
