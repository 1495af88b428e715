package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Telegram    TelegramConfig            `json:"telegram"`
	Provider    string                    `json:"provider"`
	Providers   map[string]ProviderConfig `json:"providers"`
}

type TelegramConfig struct {
	BotToken string `json:"bot_token"`
	BaseURL  string `json:"base_url"`
}

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}

type BasicConfig struct {
	ServerAddress     string `json:"server_address"`
	WebhookPath       string `json:"webhook_path"`
	WebhookURL        string `json:"webhook_url"`
	VoiceTempDir      string `json:"voice_temp_dir"`
	TempCleanInterval int    `json:"temp_clean_interval"` // minutes
	SpeechLanguage    string `json:"speech_language"`
	MinWorkers        int    `json:"min_workers"`
	MaxWorkers        int    `json:"max_workers"`
	QueueSize         int    `json:"queue_size"`
	WorkerIdleTimeout int    `json:"worker_idle_timeout"` // minutes
}

// Load reads configuration from the provided path (defaults to config.json).
// Secrets may come from the environment instead of the file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Telegram.BotToken == "" {
		cfg.Telegram.BotToken = os.Getenv("VOXRELAY_BOT_TOKEN")
	}
	if cfg.Telegram.BotToken == "" {
		return nil, fmt.Errorf("telegram bot_token must be configured")
	}

	if cfg.Provider == "" {
		return nil, fmt.Errorf("provider must be configured")
	}
	prov, ok := cfg.Providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("provider %s not configured", cfg.Provider)
	}
	if prov.APIKey == "" {
		prov.APIKey = os.Getenv("VOXRELAY_API_KEY")
		cfg.Providers[cfg.Provider] = prov
	}
	if prov.APIKey == "" {
		return nil, fmt.Errorf("provider %s api_key must be configured", cfg.Provider)
	}

	if cfg.BasicConfig.WebhookPath == "" {
		cfg.BasicConfig.WebhookPath = "/webhook"
	}
	if !strings.HasPrefix(cfg.BasicConfig.WebhookPath, "/") {
		cfg.BasicConfig.WebhookPath = "/" + cfg.BasicConfig.WebhookPath
	}
	if cfg.BasicConfig.WebhookURL == "" {
		cfg.BasicConfig.WebhookURL = os.Getenv("VOXRELAY_WEBHOOK_URL")
	}
	if cfg.BasicConfig.WebhookURL == "" {
		return nil, fmt.Errorf("webhook_url must be configured")
	}
	if cfg.BasicConfig.SpeechLanguage == "" {
		cfg.BasicConfig.SpeechLanguage = "de"
	}

	return &cfg, nil
}

// ActiveProvider returns the configured completion provider entry.
func (c *Config) ActiveProvider() ProviderConfig {
	return c.Providers[c.Provider]
}
