package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadCompleteConfig(t *testing.T) {
	path := writeConfig(t, `{
		"basic_config": {
			"server_address": ":9000",
			"webhook_path": "hook",
			"webhook_url": "https://bot.example.com/hook",
			"speech_language": "en"
		},
		"telegram": {"bot_token": "123:abc"},
		"provider": "openai",
		"providers": {
			"openai": {"model": "gpt-4o-mini", "api_key": "sk-test"}
		}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BasicConfig.WebhookPath != "/hook" {
		t.Fatalf("webhook path = %q, want normalized /hook", cfg.BasicConfig.WebhookPath)
	}
	if cfg.BasicConfig.SpeechLanguage != "en" {
		t.Fatalf("speech language = %q, want en", cfg.BasicConfig.SpeechLanguage)
	}
	if got := cfg.ActiveProvider(); got.Model != "gpt-4o-mini" || got.APIKey != "sk-test" {
		t.Fatalf("active provider = %+v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"basic_config": {"webhook_url": "https://bot.example.com/webhook"},
		"telegram": {"bot_token": "123:abc"},
		"provider": "openai",
		"providers": {"openai": {"model": "gpt-4o-mini", "api_key": "sk-test"}}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BasicConfig.WebhookPath != "/webhook" {
		t.Fatalf("webhook path = %q, want /webhook", cfg.BasicConfig.WebhookPath)
	}
	if cfg.BasicConfig.SpeechLanguage != "de" {
		t.Fatalf("speech language = %q, want default de", cfg.BasicConfig.SpeechLanguage)
	}
}

func TestLoadSecretsFromEnv(t *testing.T) {
	t.Setenv("VOXRELAY_BOT_TOKEN", "env-token")
	t.Setenv("VOXRELAY_API_KEY", "env-key")
	path := writeConfig(t, `{
		"basic_config": {"webhook_url": "https://bot.example.com/webhook"},
		"provider": "claude",
		"providers": {"claude": {"model": "claude-sonnet-4-20250514"}}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.BotToken != "env-token" {
		t.Fatalf("bot token = %q, want env fallback", cfg.Telegram.BotToken)
	}
	if cfg.ActiveProvider().APIKey != "env-key" {
		t.Fatalf("api key = %q, want env fallback", cfg.ActiveProvider().APIKey)
	}
}

func TestLoadRejectsIncompleteConfig(t *testing.T) {
	t.Setenv("VOXRELAY_BOT_TOKEN", "")
	t.Setenv("VOXRELAY_API_KEY", "")
	t.Setenv("VOXRELAY_WEBHOOK_URL", "")
	cases := []struct {
		name    string
		content string
	}{
		{"missing bot token", `{
			"basic_config": {"webhook_url": "https://x/webhook"},
			"provider": "openai",
			"providers": {"openai": {"api_key": "sk"}}
		}`},
		{"missing provider", `{
			"basic_config": {"webhook_url": "https://x/webhook"},
			"telegram": {"bot_token": "123:abc"}
		}`},
		{"unknown provider", `{
			"basic_config": {"webhook_url": "https://x/webhook"},
			"telegram": {"bot_token": "123:abc"},
			"provider": "mystery",
			"providers": {"openai": {"api_key": "sk"}}
		}`},
		{"missing webhook url", `{
			"telegram": {"bot_token": "123:abc"},
			"provider": "openai",
			"providers": {"openai": {"api_key": "sk"}}
		}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := Load(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
