// Package config loads service configuration from a JSON file with
// environment-variable fallbacks for provider credentials.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// LLMConfig selects and configures the generation provider.
type LLMConfig struct {
	Provider        string `json:"provider"`
	Model           string `json:"model,omitempty"`
	APIKey          string `json:"api_key,omitempty"`
	BaseURL         string `json:"base_url,omitempty"`
	MaxOutputTokens int    `json:"max_output_tokens,omitempty"`
}

// Config is the root service configuration.
type Config struct {
	ServerAddr   string     `json:"server_addr,omitempty"`
	DatabasePath string     `json:"database_path,omitempty"`
	LLM          *LLMConfig `json:"llm,omitempty"`
}

// Load reads JSON config from disk and resolves provider credentials
// from the environment when the file leaves them unset.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// FromEnv builds a config without a file, entirely from environment
// variables.
func FromEnv() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.ServerAddr == "" {
		c.ServerAddr = ":8080"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "stratgen.db"
	}
	if c.LLM == nil {
		c.LLM = &LLMConfig{}
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "gemini"
	}
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case "openai":
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
}

// Validate checks that the configured provider is usable. A missing
// API key is a configuration error, never silently defaulted.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini", "openai":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm provider %s requires an api key (llm.api_key or environment)", c.LLM.Provider)
		}
	case "mock":
		// No credentials needed.
	default:
		return errors.New("llm provider must be one of gemini, openai, mock")
	}
	return nil
}
