// Package config loads hosting configuration from YAML with environment
// overrides. Defaults are chosen so the demo runs with no config file at all.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all Clara configuration.
type Config struct {
	// Ollama completion service settings
	Ollama OllamaConfig `yaml:"ollama"`

	// Conversation pipeline settings
	Chat ChatConfig `yaml:"chat"`

	// Audit log sinks
	Audit AuditConfig `yaml:"audit"`

	// Web UI settings
	HTTP HTTPConfig `yaml:"http"`
}

// OllamaConfig configures the completion service.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// ChatConfig configures the conversation pipeline.
type ChatConfig struct {
	// SystemPrompt overrides Clara's built-in persona when non-empty.
	SystemPrompt string `yaml:"system_prompt"`

	// HistoryWindow is how many prior messages are replayed into the prompt.
	HistoryWindow int `yaml:"history_window"`

	// ShowReflection toggles the advisory pre-reply reflection line.
	ShowReflection bool `yaml:"show_reflection"`

	// TypingDelayMS paces streamed fragments in the terminal UI.
	TypingDelayMS int `yaml:"typing_delay_ms"`
}

// AuditConfig configures the audit sinks.
type AuditConfig struct {
	// LogPath is the JSONL audit log file.
	LogPath string `yaml:"log_path"`

	// DataPath is the directory holding the SQLite audit store.
	DataPath string `yaml:"data_path"`

	// EnableStore persists records to SQLite as well as the JSONL log.
	EnableStore bool `yaml:"enable_store"`
}

// HTTPConfig configures the hosting web UI.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file or overrides exist.
func Default() Config {
	return Config{
		Ollama: OllamaConfig{
			BaseURL: "http://localhost:11434",
			Model:   "phi3:mini",
		},
		Chat: ChatConfig{
			HistoryWindow:  8,
			ShowReflection: true,
			TypingDelayMS:  25,
		},
		Audit: AuditConfig{
			LogPath:     "logs/conversation_log.jsonl",
			DataPath:    "data",
			EnableStore: true,
		},
		HTTP: HTTPConfig{
			Addr: ":8501",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// applyEnvOverrides lets CLARA_* variables win over file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CLARA_OLLAMA_URL"); v != "" {
		cfg.Ollama.BaseURL = v
	}
	if v := os.Getenv("CLARA_MODEL"); v != "" {
		cfg.Ollama.Model = v
	}
	if v := os.Getenv("CLARA_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("CLARA_LOG_PATH"); v != "" {
		cfg.Audit.LogPath = v
	}
	if v := os.Getenv("CLARA_SHOW_REFLECTION"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Chat.ShowReflection = b
		}
	}
}
