package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/MimeLyc/dreamsense/internal/llm"
	"github.com/MimeLyc/dreamsense/pkg/log"
	"github.com/robfig/cron/v3"
	"golang.org/x/text/language"
)

// Config holds all application configuration.
// Every field can be set from the environment; see NewFromEnv for defaults.
//
// Environment Variables:
// HTTP:
// - HTTP_ADDR: listen address of the API server (default: :8000)
// - CORS_ALLOWED_ORIGINS: comma separated origins (default: *)
// - UI_STATIC_DIR: serve a built chat widget from this directory (default: disabled)
//
// LLM:
// - LLM_ENABLED: use the LLM interpreter (default: true when LLM_API_KEY is set)
// - LLM_API_KEY: API key for the LLM provider
// - LLM_API_URL: API endpoint URL (default: https://openrouter.ai/api/v1)
// - LLM_MODEL: model name (default: openai/gpt-3.5-turbo)
// - LLM_MAX_TOKENS: maximum tokens for responses (default: 800)
// - LLM_TEMPERATURE: temperature for responses (default: 0.7)
// - LLM_TIMEOUT: request timeout in seconds (default: 30)
// - LLM_SITE_URL, LLM_APP_NAME: optional attribution headers
//
// Dictionary:
// - DICTIONARY_FILE: JSON or CSV dictionary (default: built-in)
// - DICTIONARY_RELOAD_CRON: cron expression for reloading the file (default: disabled)
// - DICTIONARY_LANGUAGE: BCP 47 tag used for case folding (default: en)
//
// Chat client:
// - DREAMSENSE_API_URL: base URL of the interpretation API (default: http://localhost:8000)
// - DREAMSENSE_TIMEOUT: request timeout in seconds (default: 30)
//
// Logging:
// - LOG_LEVEL: debug, info, warn, error (default: info)
// - LOG_FILE: append logs to this file instead of stdout
type Config struct {
	HTTP       HTTPConfig       `json:"http"`
	LLM        LLMConfig        `json:"llm"`
	Dictionary DictionaryConfig `json:"dictionary"`
	Client     ClientConfig     `json:"client"`
	Log        LogConfig        `json:"log"`
}

type HTTPConfig struct {
	Addr           string   `json:"addr"`
	AllowedOrigins []string `json:"allowed_origins"`
	UIStaticDir    string   `json:"ui_static_dir"`
}

// UIEnabled reports whether the chat widget is served next to the API.
func (c HTTPConfig) UIEnabled() bool {
	return c.UIStaticDir != ""
}

// LLMConfig holds the configuration of the remote interpreter.
type LLMConfig struct {
	Enabled     bool    `json:"enabled"`
	APIKey      string  `json:"-"`
	APIURL      string  `json:"api_url"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Timeout     int     `json:"timeout"`
	SiteURL     string  `json:"site_url"`
	AppName     string  `json:"app_name"`
}

// ClientConfig converts to the llm package configuration.
func (c LLMConfig) ClientConfig() *llm.Config {
	return &llm.Config{
		APIKey:      c.APIKey,
		APIURL:      c.APIURL,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
		SiteURL:     c.SiteURL,
		AppName:     c.AppName,
	}
}

type DictionaryConfig struct {
	File       string       `json:"file"`
	ReloadCron string       `json:"reload_cron"`
	Language   language.Tag `json:"language"`
}

// ClientConfig configures the terminal chat client.
type ClientConfig struct {
	APIURL  string `json:"api_url"`
	Timeout int    `json:"timeout"`
}

type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// WithDictionaryFile overrides DICTIONARY_FILE.
func WithDictionaryFile(path string) Option {
	return func(c *Config) {
		c.Dictionary.File = path
	}
}

// WithClientAPIURL overrides DREAMSENSE_API_URL.
func WithClientAPIURL(url string) Option {
	return func(c *Config) {
		c.Client.APIURL = url
	}
}

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	apiKey := getEnvString("LLM_API_KEY", "")
	dictLang, err := language.Parse(getEnvString("DICTIONARY_LANGUAGE", "en"))
	if err != nil {
		return nil, fmt.Errorf("invalid DICTIONARY_LANGUAGE: %w", err)
	}

	config := &Config{
		HTTP: HTTPConfig{
			Addr:           getEnvString("HTTP_ADDR", ":8000"),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			UIStaticDir:    getEnvString("UI_STATIC_DIR", ""),
		},
		LLM: LLMConfig{
			Enabled:     getEnvBool("LLM_ENABLED", apiKey != ""),
			APIKey:      apiKey,
			APIURL:      getEnvString("LLM_API_URL", "https://openrouter.ai/api/v1"),
			Model:       getEnvString("LLM_MODEL", "openai/gpt-3.5-turbo"),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 800),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.7),
			Timeout:     getEnvInt("LLM_TIMEOUT", 30),
			SiteURL:     getEnvString("LLM_SITE_URL", ""),
			AppName:     getEnvString("LLM_APP_NAME", "DreamSense"),
		},
		Dictionary: DictionaryConfig{
			File:       getEnvString("DICTIONARY_FILE", ""),
			ReloadCron: getEnvString("DICTIONARY_RELOAD_CRON", ""),
			Language:   dictLang,
		},
		Client: ClientConfig{
			APIURL:  getEnvString("DREAMSENSE_API_URL", "http://localhost:8000"),
			Timeout: getEnvInt("DREAMSENSE_TIMEOUT", 30),
		},
		Log: LogConfig{
			Level: getEnvString("LOG_LEVEL", "info"),
			File:  getEnvString("LOG_FILE", ""),
		},
	}

	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	log.Debug("Config: http=%+v llm.enabled=%v llm.model=%s dictionary=%+v",
		config.HTTP, config.LLM.Enabled, config.LLM.Model, config.Dictionary)

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.LLM.Enabled {
		if err := c.LLM.ClientConfig().Validate(); err != nil {
			return fmt.Errorf("invalid LLM configuration: %w", err)
		}
	}
	if c.Dictionary.ReloadCron != "" {
		if c.Dictionary.File == "" {
			return fmt.Errorf("DICTIONARY_RELOAD_CRON requires DICTIONARY_FILE")
		}
		if _, err := cron.ParseStandard(c.Dictionary.ReloadCron); err != nil {
			return fmt.Errorf("invalid DICTIONARY_RELOAD_CRON: %w", err)
		}
	}
	if c.Client.Timeout < 1 {
		return fmt.Errorf("DREAMSENSE_TIMEOUT must be greater than 0")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping empty items.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	ret := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			ret = append(ret, item)
		}
	}
	if len(ret) == 0 {
		return defaultValue
	}
	return ret
}
