package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	DefaultListenAddr = "127.0.0.1:8420"
	DefaultLogLevel   = "info"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Config is the merged result of ~/.testdeck/config.yaml, TESTDECK_*
// environment variables and command line flags, in increasing priority.
type Config struct {
	DBPath      string `yaml:"db_path"`
	ListenAddr  string `yaml:"listen_addr"`
	APIURL      string `yaml:"api_url,omitempty"`
	APIToken    string `yaml:"api_token,omitempty"`
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file,omitempty"`
	CurrentTeam string `yaml:"current_team,omitempty"`
	CurrentSet  string `yaml:"current_set,omitempty"`

	path string
}

// Dir returns the testdeck home, TESTDECK_HOME or ~/.testdeck.
func Dir() (string, error) {
	if v := os.Getenv("TESTDECK_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".testdeck"), nil
}

// DefaultPath is config.yaml inside Dir. Set TESTDECK_HOME to move it.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the configuration used when no file exists. Paths are
// rooted at dir.
func Default(dir string) *Config {
	return &Config{
		DBPath:     filepath.Join(dir, "testdeck.db"),
		ListenAddr: DefaultListenAddr,
		LogLevel:   DefaultLogLevel,
		LogFile:    filepath.Join(dir, "logs", "testdeck.log"),
		path:       filepath.Join(dir, "config.yaml"),
	}
}

// LoadFile reads the YAML file at path on top of the defaults. A missing
// file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default(filepath.Dir(path))
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.DBPath = domain.CoalesceStr(os.Getenv("TESTDECK_DB"), c.DBPath)
	c.ListenAddr = domain.CoalesceStr(os.Getenv("TESTDECK_LISTEN"), c.ListenAddr)
	c.APIURL = domain.CoalesceStr(os.Getenv("TESTDECK_API_URL"), c.APIURL)
	c.APIToken = domain.CoalesceStr(os.Getenv("TESTDECK_API_TOKEN"), c.APIToken)
	c.LogLevel = domain.CoalesceStr(os.Getenv("TESTDECK_LOG_LEVEL"), c.LogLevel)
}

// BindFlags registers the persistent flags that override file and env
// values. Call it after Load so the loaded values become flag defaults.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.DBPath, "db", c.DBPath, "SQLite database path")
	fs.StringVar(&c.APIURL, "api-url", c.APIURL, "use a remote testdeck server instead of the local database")
	fs.StringVar(&c.APIToken, "api-token", c.APIToken, "bearer token for --api-url")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug|info|warn|error")
	fs.StringVar(&c.CurrentTeam, "team", c.CurrentTeam, "team id or name (defaults to the selected team)")
	fs.StringVar(&c.CurrentSet, "set", c.CurrentSet, "test case set id (defaults to the selected set)")
}

// Validate normalizes the log level and checks the values a run depends on.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level %q (use debug|info|warn|error)", c.LogLevel)
	}
	if c.APIURL == "" && c.DBPath == "" {
		return fmt.Errorf("db_path is required when api_url is not set")
	}
	return nil
}

// Remote reports whether commands should go through a testdeck server.
func (c *Config) Remote() bool {
	return c.APIURL != ""
}

func (c *Config) Path() string { return c.path }

// Save writes c to its file, creating the directory if needed.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no file path")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SaveSelection persists the current team and set without writing any
// environment or flag overrides back to the file.
func SaveSelection(path, teamID, setID string) error {
	cfg, err := LoadFile(path)
	if err != nil {
		return err
	}
	cfg.CurrentTeam = teamID
	cfg.CurrentSet = setID
	return cfg.Save()
}
