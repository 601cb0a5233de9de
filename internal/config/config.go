package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	DataDir     string       `toml:"data_dir" env:"FLOWSTATE_DATA_DIR"`
	MetricsFile string       `toml:"metrics_file" env:"FLOWSTATE_METRICS_FILE"`
	NodeID      int64        `toml:"node_id" env:"FLOWSTATE_NODE_ID"`
	Store       StoreConfig  `toml:"store"`
	Log         LogConfig    `toml:"log"`
	Gemini      GeminiConfig `toml:"gemini"`
	Timer       TimerConfig  `toml:"timer"`
}

type StoreConfig struct {
	Driver        string `toml:"driver" env:"FLOWSTATE_STORE"`
	SQLitePath    string `toml:"sqlite_path" env:"FLOWSTATE_SQLITE_PATH"`
	PostgresDSN   string `toml:"postgres_dsn" env:"FLOWSTATE_POSTGRES_DSN"`
	RedisURL      string `toml:"redis_url" env:"FLOWSTATE_REDIS_URL"`
	RedisPrefix   string `toml:"redis_prefix" env:"FLOWSTATE_REDIS_PREFIX"`
	MongoURI      string `toml:"mongo_uri" env:"FLOWSTATE_MONGO_URI"`
	MongoDatabase string `toml:"mongo_database" env:"FLOWSTATE_MONGO_DATABASE"`
	CacheSize     int    `toml:"cache_size" env:"FLOWSTATE_CACHE_SIZE"`
}

type LogConfig struct {
	Level  string `toml:"level" env:"FLOWSTATE_LOG_LEVEL"`
	Format string `toml:"format" env:"FLOWSTATE_LOG_FORMAT"` // json, text
	Output string `toml:"output" env:"FLOWSTATE_LOG_OUTPUT"` // file path or stdout
}

type GeminiConfig struct {
	APIKey string `toml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `toml:"model" env:"FLOWSTATE_GEMINI_MODEL"`
}

type TimerConfig struct {
	FocusMinutes          int  `toml:"focus_minutes" env:"FLOWSTATE_FOCUS_MINUTES"`
	BreakMinutes          int  `toml:"break_minutes" env:"FLOWSTATE_BREAK_MINUTES"`
	AutoStartDelaySeconds int  `toml:"auto_start_delay_seconds" env:"FLOWSTATE_AUTO_START_DELAY"`
	AbandonDelaySeconds   int  `toml:"abandon_delay_seconds" env:"FLOWSTATE_ABANDON_DELAY"`
	AutoStart             bool `toml:"auto_start" env:"FLOWSTATE_AUTO_START"`
	Strict                bool `toml:"strict" env:"FLOWSTATE_STRICT"`
}

// Default returns the built-in settings rooted at dataDir.
func Default(dataDir string) *Config {
	return &Config{
		DataDir: dataDir,
		NodeID:  1,
		Store: StoreConfig{
			Driver:        DriverSQLite,
			RedisPrefix:   "flowstate",
			MongoDatabase: "flowstate",
			CacheSize:     16,
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "text",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Timer: TimerConfig{
			FocusMinutes:          25,
			BreakMinutes:          5,
			AutoStartDelaySeconds: 5,
			AbandonDelaySeconds:   3,
		},
	}
}

// DefaultDataDir returns ~/.flowstate.
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".flowstate"), nil
}

// Load layers defaults, the TOML file at path (or <data dir>/config.toml when
// path is empty), a .env file in the working directory and the environment.
// Missing files are skipped.
func Load(path string) (*Config, error) {
	dataDir, err := DefaultDataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}
	if d := os.Getenv("FLOWSTATE_DATA_DIR"); d != "" {
		dataDir = d
	}
	cfg := Default(dataDir)

	if path == "" {
		path = filepath.Join(dataDir, "config.toml")
	}
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.fillPaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).Decode(c); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (c *Config) fillPaths() {
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = filepath.Join(c.DataDir, "flowstate.db")
	}
	if c.Log.Output == "" {
		c.Log.Output = filepath.Join(c.DataDir, "flowstate.log")
	}
}

// Validate rejects settings the rest of the program cannot work with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store driver postgres needs FLOWSTATE_POSTGRES_DSN")
		}
	case DriverRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("store driver redis needs FLOWSTATE_REDIS_URL")
		}
	case DriverMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("store driver mongo needs FLOWSTATE_MONGO_URI")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.Timer.FocusMinutes < 1 || c.Timer.FocusMinutes > 180 {
		return fmt.Errorf("timer.focus_minutes must be between 1 and 180, got %d", c.Timer.FocusMinutes)
	}
	if c.Timer.BreakMinutes < 1 {
		return fmt.Errorf("timer.break_minutes must be positive, got %d", c.Timer.BreakMinutes)
	}
	if c.NodeID < 0 || c.NodeID > 1023 {
		return fmt.Errorf("node_id must be between 0 and 1023, got %d", c.NodeID)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
