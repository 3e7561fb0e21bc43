// config/config.go - Configuration loading (config.yaml overlaid by environment)
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting. Values come from config.yaml and may
// be overridden by environment variables (same names as the original
// deployment scripts).
type Config struct {
	Port        string `yaml:"port"`
	CORSOrigins string `yaml:"cors_origins"`
	StaticDir   string `yaml:"static_dir"`
	LogFile     string `yaml:"log_file"`

	DatabaseURL string `yaml:"database_url"`

	ScripturaURL    string `yaml:"scriptura_url"`
	BibleVersion    string `yaml:"bible_version"`
	DelegateParsing bool   `yaml:"delegate_parsing"`
	ChapterTTLHours int    `yaml:"chapter_ttl_hours"`

	CalendarURL string `yaml:"calendar_url"`

	OpenAIKey     string `yaml:"openai_api_key"`
	OpenAIModel   string `yaml:"openai_model"`
	OpenAIBaseURL string `yaml:"openai_base_url"`

	WikipediaTTLHours int `yaml:"wikipedia_ttl_hours"`

	CacheDir      string `yaml:"cache_dir"`
	RenderCommand string `yaml:"render_command"`

	EpdrawPath           string `yaml:"epdraw_path"`
	VCOM                 string `yaml:"vcom"`
	ShutdownAfterDisplay bool   `yaml:"shutdown_after_display"`

	JWTSecret     string `yaml:"jwt_secret"`
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`

	RateLimitMaxRequests   int `yaml:"rate_limit_max_requests"`
	RateLimitWindowMS      int `yaml:"rate_limit_window_ms"`
	AdminRateLimitMax      int `yaml:"admin_rate_limit_max"`
	AdminRateLimitWindowMS int `yaml:"admin_rate_limit_window_ms"`
}

// Load reads the config file named by LITURGICAL_CONFIG (default
// "config.yaml"), applies environment overrides, then defaults. A missing
// config file is not an error; the environment alone can configure the
// service.
func Load() (*Config, error) {
	path := os.Getenv("LITURGICAL_CONFIG")
	if path == "" {
		path = "config.yaml"
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrideString(&c.Port, "PORT")
	overrideString(&c.CORSOrigins, "CORS_ORIGINS")
	overrideString(&c.StaticDir, "STATIC_DIR")
	overrideString(&c.LogFile, "LOG_FILE")
	overrideString(&c.DatabaseURL, "DATABASE_URL")
	overrideString(&c.ScripturaURL, "SCRIPTURA_URL")
	overrideString(&c.BibleVersion, "BIBLE_VERSION")
	overrideBool(&c.DelegateParsing, "DELEGATE_PARSING")
	overrideString(&c.CalendarURL, "CALENDAR_URL")
	overrideString(&c.OpenAIKey, "OPENAI_API_KEY")
	overrideString(&c.OpenAIModel, "OPENAI_MODEL")
	overrideString(&c.OpenAIBaseURL, "OPENAI_BASE_URL")
	overrideString(&c.CacheDir, "CACHE_DIR")
	overrideString(&c.RenderCommand, "RENDER_COMMAND")
	overrideString(&c.EpdrawPath, "EPDRAW_PATH")
	overrideString(&c.VCOM, "VCOM")
	overrideBool(&c.ShutdownAfterDisplay, "SHUTDOWN_AFTER_DISPLAY")
	overrideString(&c.JWTSecret, "JWT_SECRET")
	overrideString(&c.AdminUsername, "ADMIN_USERNAME")
	overrideString(&c.AdminPassword, "ADMIN_PASSWORD")
	overrideInt(&c.RateLimitMaxRequests, "RATE_LIMIT_MAX_REQUESTS")
	overrideInt(&c.RateLimitWindowMS, "RATE_LIMIT_WINDOW_MS")
	overrideInt(&c.AdminRateLimitMax, "ADMIN_RATE_LIMIT_MAX")
	overrideInt(&c.AdminRateLimitWindowMS, "ADMIN_RATE_LIMIT_WINDOW_MS")
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = "3000"
	}
	if c.CORSOrigins == "" {
		c.CORSOrigins = "http://localhost:3000"
	}
	if c.StaticDir == "" {
		c.StaticDir = "./static"
	}
	if c.ScripturaURL == "" {
		c.ScripturaURL = "https://api.scriptura-api.com"
	}
	if c.BibleVersion == "" {
		c.BibleVersion = "kjv"
	}
	if c.ChapterTTLHours <= 0 {
		c.ChapterTTLHours = 24 * 7
	}
	if c.OpenAIModel == "" {
		c.OpenAIModel = "gpt-4o-mini"
	}
	if c.OpenAIBaseURL == "" {
		c.OpenAIBaseURL = "https://api.openai.com"
	}
	if c.WikipediaTTLHours <= 0 {
		c.WikipediaTTLHours = 24
	}
	if c.CacheDir == "" {
		c.CacheDir = "cache"
	}
	if c.RenderCommand == "" {
		c.RenderCommand = "litcal-render"
	}
	if c.EpdrawPath == "" {
		c.EpdrawPath = "epdraw"
	}
	if c.VCOM == "" {
		c.VCOM = "-2.51"
	}
	if c.AdminUsername == "" {
		c.AdminUsername = "admin"
	}
	if c.RateLimitMaxRequests <= 0 {
		c.RateLimitMaxRequests = 100
	}
	if c.RateLimitWindowMS <= 0 {
		c.RateLimitWindowMS = 900000 // 15 min
	}
	if c.AdminRateLimitMax <= 0 {
		c.AdminRateLimitMax = 5
	}
	if c.AdminRateLimitWindowMS <= 0 {
		c.AdminRateLimitWindowMS = 300000 // 5 min
	}
}

// Validate checks settings the server cannot run without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}
	return nil
}

func overrideString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func overrideInt(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

func overrideBool(dst *bool, key string) {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "true", "1", "yes":
		*dst = true
	case "false", "0", "no":
		*dst = false
	}
}
