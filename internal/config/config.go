package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultModel    = "gpt-5-mini"
	defaultLogMode  = "development"
	defaultLogFile  = "debug.log"
	defaultDBPath   = "study.db"
	defaultAddr     = ":8080"
	defaultStartDir = "."
)

type Config struct {
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	TUI      TUIConfig      `yaml:"tui"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type LogConfig struct {
	Mode string `yaml:"mode"` // "development" | "production"
	File string `yaml:"file"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type TUIConfig struct {
	StartDir string `yaml:"start_dir"`
}

// rawConfig also accepts the flat key of the older api.json layout.
type rawConfig struct {
	Config        `yaml:",inline"`
	ChatGPTAPIKey string `yaml:"chatgpt_api_key"`
}

func Default() Config {
	return Config{
		OpenAI:   OpenAIConfig{Model: defaultModel},
		Log:      LogConfig{Mode: defaultLogMode, File: defaultLogFile},
		Database: DatabaseConfig{Path: defaultDBPath},
		Server:   ServerConfig{Addr: defaultAddr},
		TUI:      TUIConfig{StartDir: defaultStartDir},
	}
}

// Load reads path, falling back to defaults when the file does not exist.
// OPENAI_API_KEY overrides the configured key.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		data = nil
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		cfg.OpenAI.APIKey = key
	}
	return cfg, nil
}

// Parse decodes YAML config data on top of the defaults.
func Parse(data []byte) (Config, error) {
	raw := rawConfig{Config: Default()}
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil {
			return Config{}, err
		}
	}
	cfg := raw.Config
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = strings.TrimSpace(raw.ChatGPTAPIKey)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	if strings.TrimSpace(c.OpenAI.Model) == "" {
		c.OpenAI.Model = d.OpenAI.Model
	}
	if strings.TrimSpace(c.Log.Mode) == "" {
		c.Log.Mode = d.Log.Mode
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		c.Database.Path = d.Database.Path
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = d.Server.Addr
	}
	if strings.TrimSpace(c.TUI.StartDir) == "" {
		c.TUI.StartDir = d.TUI.StartDir
	}
}
