package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Corpus      CorpusConfig      `yaml:"corpus"`
	Suggestions SuggestionsConfig `yaml:"suggestions"`
	History     HistoryConfig     `yaml:"history"`
	Events      EventsConfig      `yaml:"events"`
}

// ServerConfig holds HTTP server settings. Durations are expressed as
// Go duration strings ("15s", "1m") and validated on load.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout,omitempty"`
	WriteTimeout    string `yaml:"write_timeout,omitempty"`
	ShutdownTimeout string `yaml:"shutdown_timeout,omitempty"`
}

// ReadTimeoutDuration returns the parsed read timeout.
func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(s.ReadTimeout)
	return d
}

// WriteTimeoutDuration returns the parsed write timeout.
func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(s.WriteTimeout)
	return d
}

// ShutdownTimeoutDuration returns the parsed shutdown timeout.
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(s.ShutdownTimeout)
	return d
}

// CorpusConfig describes where documents come from and how they are chunked
type CorpusConfig struct {
	Directories  []string     `yaml:"directories,omitempty"`
	Repositories []Repository `yaml:"repositories,omitempty"`
	Workspace    string       `yaml:"workspace,omitempty"` // clone target for git repositories
	ChunkSize    int          `yaml:"chunk_size,omitempty"`
	ChunkOverlap int          `yaml:"chunk_overlap,omitempty"`
	TopK         int          `yaml:"top_k,omitempty"`
	Watch        bool         `yaml:"watch,omitempty"`
}

// Repository represents a Git repository to ingest documents from
type Repository struct {
	URL    string      `yaml:"url"`
	Name   string      `yaml:"name"`
	Branch string      `yaml:"branch,omitempty"`
	Auth   *AuthConfig `yaml:"auth,omitempty"`
	Paths  []string    `yaml:"paths,omitempty"` // subpaths to ingest, defaults to repository root
}

// AuthConfig represents git authentication configuration
type AuthConfig struct {
	Type     string `yaml:"type"` // "token" or "basic"
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Token    string `yaml:"token,omitempty"`
}

// SuggestionsConfig controls the rotating example questions
type SuggestionsConfig struct {
	Questions      []string `yaml:"questions,omitempty"`
	Visible        int      `yaml:"visible,omitempty"`
	RotateInterval string   `yaml:"rotate_interval,omitempty"`
}

// RotateIntervalDuration returns the parsed rotation interval.
func (s SuggestionsConfig) RotateIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(s.RotateInterval)
	return d
}

// HistoryConfig controls conversation persistence
type HistoryConfig struct {
	Database string `yaml:"database,omitempty"` // SQLite path, ":memory:" for ephemeral
}

// EventsConfig controls optional NATS event publishing
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url,omitempty"`
	Stream  string `yaml:"stream,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env/.env.local if present; process env takes precedence.
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				fmt.Fprintf(os.Stderr, "Note: %s couldn't be loaded: %v\n", envPath, err)
			}
			break
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "15s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Corpus.Workspace == "" {
		c.Corpus.Workspace = "./workspace"
	}
	if c.Corpus.ChunkSize == 0 {
		c.Corpus.ChunkSize = 1200
	}
	if c.Corpus.ChunkOverlap == 0 {
		c.Corpus.ChunkOverlap = 200
	}
	if c.Corpus.TopK == 0 {
		c.Corpus.TopK = 4
	}
	if c.Suggestions.Visible == 0 {
		c.Suggestions.Visible = 3
	}
	if c.Suggestions.RotateInterval == "" {
		c.Suggestions.RotateInterval = "12s"
	}
	if c.History.Database == "" {
		c.History.Database = "./razgovaraj.db"
	}
	if c.Events.Stream == "" {
		c.Events.Stream = "RAZGOVARAJ_CHAT"
	}
	if c.Events.Subject == "" {
		c.Events.Subject = "razgovaraj.chat"
	}
}

// Validate checks configuration invariants that defaults cannot repair
func (c *Config) Validate() error {
	if len(c.Corpus.Directories) == 0 && len(c.Corpus.Repositories) == 0 {
		return fmt.Errorf("corpus requires at least one directory or repository")
	}
	for _, repo := range c.Corpus.Repositories {
		if repo.URL == "" {
			return fmt.Errorf("repository %q has no url", repo.Name)
		}
		if repo.Name == "" {
			return fmt.Errorf("repository %q has no name", repo.URL)
		}
	}
	if c.Corpus.ChunkOverlap >= c.Corpus.ChunkSize {
		return fmt.Errorf("chunk_overlap (%d) must be smaller than chunk_size (%d)",
			c.Corpus.ChunkOverlap, c.Corpus.ChunkSize)
	}
	if c.Events.Enabled && c.Events.NATSURL == "" {
		return fmt.Errorf("events.nats_url is required when events are enabled")
	}
	for name, raw := range map[string]string{
		"server.read_timeout":         c.Server.ReadTimeout,
		"server.write_timeout":        c.Server.WriteTimeout,
		"server.shutdown_timeout":     c.Server.ShutdownTimeout,
		"suggestions.rotate_interval": c.Suggestions.RotateInterval,
	} {
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", name, err)
		}
	}
	return nil
}

// Init writes a starter configuration file
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	starter := `# Razgovaraj sa svojim dokumentom
server:
  addr: ":8080"

corpus:
  directories:
    - ./docs
  # repositories:
  #   - url: https://example.com/org/handbook.git
  #     name: handbook
  #     branch: main

suggestions:
  questions:
    - "What does this document cover?"
    - "Summarize the installation steps."
    - "Which configuration options are required?"
  visible: 3
  rotate_interval: 12s

history:
  database: ./razgovaraj.db

events:
  enabled: false
  # nats_url: nats://localhost:4222
  # stream: RAZGOVARAJ_CHAT
  # subject: razgovaraj.chat
`
	return os.WriteFile(configPath, []byte(starter), 0o644)
}
