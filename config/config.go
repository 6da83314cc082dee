package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the gateway.
type Config struct {
	General       GeneralConfig       `mapstructure:"general"`
	Providers     ProvidersConfig     `mapstructure:"providers"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	Search        SearchConfig        `mapstructure:"search"`
	Limits        LimitsConfig        `mapstructure:"limits"`
	Telemetry     TelemetryConfig     `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	Listen   string `mapstructure:"listen"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ProvidersConfig groups the hosted AI provider settings.
type ProvidersConfig struct {
	Groq     GroqConfig     `mapstructure:"groq"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Deepgram DeepgramConfig `mapstructure:"deepgram"`
}

// GroqConfig contains Groq API settings (speech-to-text and synthesis).
type GroqConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	STTModel        string        `mapstructure:"stt_model"`
	CompletionModel string        `mapstructure:"completion_model"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// OpenAIConfig contains OpenAI API settings (vision analysis).
type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	VisionModel string        `mapstructure:"vision_model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// DeepgramConfig contains Deepgram API settings (alternate speech-to-text).
type DeepgramConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// TranscriptionConfig selects the speech-to-text backend.
type TranscriptionConfig struct {
	Provider string `mapstructure:"provider"` // groq, deepgram
}

// SearchConfig contains web search settings.
type SearchConfig struct {
	Provider       string        `mapstructure:"provider"` // google, serper, brave
	GoogleAPIKey   string        `mapstructure:"google_api_key"`
	GoogleEngineID string        `mapstructure:"google_engine_id"`
	SerperAPIKey   string        `mapstructure:"serper_api_key"`
	BraveAPIKey    string        `mapstructure:"brave_api_key"`
	MaxResults     int           `mapstructure:"max_results"`
	Timeout        time.Duration `mapstructure:"timeout"`
	FetchTopResult bool          `mapstructure:"fetch_top_result"`
}

// LimitsConfig bounds inbound payloads before they reach a provider.
type LimitsConfig struct {
	MaxImageBytes     int64 `mapstructure:"max_image_bytes"`
	MaxAudioBytes     int64 `mapstructure:"max_audio_bytes"`
	MaxImageDimension int   `mapstructure:"max_image_dimension"`
	JPEGQuality       int   `mapstructure:"jpeg_quality"`
}

// TelemetryConfig contains telemetry and monitoring settings.
type TelemetryConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	CostTracking bool `mapstructure:"cost_tracking"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("saathi")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("SAATHI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Config file is optional; defaults plus env cover a full setup.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	overrideFromEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("general.listen", ":8000")
	viper.SetDefault("general.debug", false)
	viper.SetDefault("general.log_level", "info")

	viper.SetDefault("providers.groq.stt_model", "whisper-large-v3")
	viper.SetDefault("providers.groq.completion_model", "llama-3.3-70b-versatile")
	viper.SetDefault("providers.groq.temperature", 0.7)
	viper.SetDefault("providers.groq.max_tokens", 500)
	viper.SetDefault("providers.groq.timeout", "30s")

	viper.SetDefault("providers.openai.vision_model", "gpt-4o-mini")
	viper.SetDefault("providers.openai.max_tokens", 600)
	viper.SetDefault("providers.openai.temperature", 0.3)
	viper.SetDefault("providers.openai.timeout", "30s")

	viper.SetDefault("providers.deepgram.model", "nova-2")

	viper.SetDefault("transcription.provider", "groq")

	viper.SetDefault("search.provider", "google")
	viper.SetDefault("search.max_results", 5)
	viper.SetDefault("search.timeout", "10s")
	viper.SetDefault("search.fetch_top_result", false)

	viper.SetDefault("limits.max_image_bytes", 10<<20)
	viper.SetDefault("limits.max_audio_bytes", 25<<20)
	viper.SetDefault("limits.max_image_dimension", 2048)
	viper.SetDefault("limits.jpeg_quality", 85)

	viper.SetDefault("telemetry.enabled", true)
	viper.SetDefault("telemetry.cost_tracking", true)
}

// overrideFromEnv overrides configuration with well-known environment variables.
func overrideFromEnv() {
	if apiKey := os.Getenv("GROQ_API_KEY"); apiKey != "" {
		viper.Set("providers.groq.api_key", apiKey)
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		viper.Set("providers.openai.api_key", apiKey)
	}
	if apiKey := os.Getenv("DEEPGRAM_API_KEY"); apiKey != "" {
		viper.Set("providers.deepgram.api_key", apiKey)
	}
	if apiKey := os.Getenv("GOOGLE_SEARCH_API_KEY"); apiKey != "" {
		viper.Set("search.google_api_key", apiKey)
	}
	if engineID := os.Getenv("GOOGLE_SEARCH_ENGINE_ID"); engineID != "" {
		viper.Set("search.google_engine_id", engineID)
	}
	if apiKey := os.Getenv("SERPER_API_KEY"); apiKey != "" {
		viper.Set("search.serper_api_key", apiKey)
	}
	if apiKey := os.Getenv("BRAVE_SEARCH_KEY"); apiKey != "" {
		viper.Set("search.brave_api_key", apiKey)
	}
	if listen := os.Getenv("SAATHI_LISTEN"); listen != "" {
		viper.Set("general.listen", listen)
	}
}

// validateConfig validates the configuration.
func validateConfig(cfg *Config) error {
	switch cfg.Transcription.Provider {
	case "groq":
		if cfg.Providers.Groq.APIKey == "" {
			return fmt.Errorf("transcription provider groq requires providers.groq.api_key (GROQ_API_KEY)")
		}
	case "deepgram":
		if cfg.Providers.Deepgram.APIKey == "" {
			return fmt.Errorf("transcription provider deepgram requires providers.deepgram.api_key (DEEPGRAM_API_KEY)")
		}
	default:
		return fmt.Errorf("unsupported transcription provider: %s", cfg.Transcription.Provider)
	}

	if cfg.Providers.Groq.APIKey == "" {
		return fmt.Errorf("providers.groq.api_key is required for response synthesis (GROQ_API_KEY)")
	}
	if cfg.Providers.OpenAI.APIKey == "" {
		return fmt.Errorf("providers.openai.api_key is required for screen analysis (OPENAI_API_KEY)")
	}

	switch cfg.Search.Provider {
	case "google", "serper", "brave", "":
	default:
		return fmt.Errorf("unsupported search provider: %s", cfg.Search.Provider)
	}

	if cfg.Limits.MaxImageBytes <= 0 {
		return fmt.Errorf("limits.max_image_bytes must be > 0")
	}
	if cfg.Limits.MaxAudioBytes <= 0 {
		return fmt.Errorf("limits.max_audio_bytes must be > 0")
	}
	if cfg.Limits.MaxImageDimension <= 0 {
		return fmt.Errorf("limits.max_image_dimension must be > 0")
	}
	if cfg.Limits.JPEGQuality <= 0 || cfg.Limits.JPEGQuality > 100 {
		return fmt.Errorf("limits.jpeg_quality must be in (0,100]")
	}

	return nil
}
