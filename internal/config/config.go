package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port        int              `json:"port"`
	LogConfig   logger.LogConfig `json:"log_config"`
	Corpus      CorpusConfig     `json:"corpus"`
	CORSOrigins []string         `json:"cors_origins"`
	Chat        ChatConfig       `json:"chat"`
}

type CorpusConfig struct {
	Source string      `json:"source"`
	Data   interface{} `json:"data"`
	// ReloadCron is a standard 5-field cron spec. Empty disables the
	// scheduled reload and the corpus stays fixed for the process
	// lifetime.
	ReloadCron string `json:"reload_cron"`
}

type ChatConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	TopK     int    `json:"top_k"`
	// TimeoutSeconds bounds a single upstream generation call. Zero
	// leaves the call unbounded.
	TimeoutSeconds int         `json:"timeout_seconds"`
	Data           interface{} `json:"data"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8090
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Corpus.Source == "" {
		cfg.Corpus.Source = "local"
	}
	if cfg.Chat.Provider == "" {
		cfg.Chat.Provider = "openai"
	}
	if cfg.Chat.Model == "" {
		cfg.Chat.Model = "gpt-4o-mini"
	}
	if cfg.Chat.TopK <= 0 {
		cfg.Chat.TopK = 5
	}
	if cfg.Chat.TimeoutSeconds < 0 {
		return nil, fmt.Errorf("chat.timeout_seconds must not be negative")
	}
	return &cfg, nil
}
