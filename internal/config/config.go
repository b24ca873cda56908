package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config global configuration, mirrors config/config.yaml
type Config struct {
	Server     ServerConfig            `mapstructure:"server"`
	Log        LogConfig               `mapstructure:"log"`
	Cache      CacheConfig             `mapstructure:"cache"`
	Enricher   EnricherConfig          `mapstructure:"enricher"`
	AI         AIConfig                `mapstructure:"ai"`
	Submission SubmissionConfig        `mapstructure:"submission"`
	Location   LocationConfig          `mapstructure:"location"`
	Sync       SyncConfig              `mapstructure:"sync"`
	Sources    map[string]SourceConfig `mapstructure:"sources"` // per-source settings
}

// ServerConfig HTTP server
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug/release/test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig logrus settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text/json
}

// CacheConfig event cache and refresh policy
type CacheConfig struct {
	TTL            time.Duration `mapstructure:"ttl"`
	RefreshCron    string        `mapstructure:"refresh_cron"`
	RefreshTimeout time.Duration `mapstructure:"refresh_timeout"`
	WarmOnStart    bool          `mapstructure:"warm_on_start"`
}

// EnricherConfig batching of AI enhancement
type EnricherConfig struct {
	BatchSize  int           `mapstructure:"batch_size"`
	BatchDelay time.Duration `mapstructure:"batch_delay"`
}

// AIConfig AI providers, tried in order gemini -> ollama
type AIConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Gemini  GeminiConfig  `mapstructure:"gemini"`
	Ollama  OllamaConfig  `mapstructure:"ollama"`
	Breaker BreakerConfig `mapstructure:"breaker"`
}

type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Enabled Gemini is only used with a real key
func (g GeminiConfig) Enabled() bool {
	return g.APIKey != "" && g.APIKey != "your_gemini_api_key_here"
}

type OllamaConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Host        string  `mapstructure:"host"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// BreakerConfig circuit breaker around each AI provider
type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"` // consecutive failures before opening
	OpenTimeout time.Duration `mapstructure:"open_timeout"` // open -> half-open
	Interval    time.Duration `mapstructure:"interval"`     // closed-state count reset
}

// SubmissionConfig user submission gate
type SubmissionConfig struct {
	ApprovalThreshold int      `mapstructure:"approval_threshold"`
	LocalKeywords     []string `mapstructure:"local_keywords"`
}

type LocationConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// Load resolves the configured timezone; an empty name is UTC.
func (l LocationConfig) Load() (*time.Location, error) {
	if l.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil, fmt.Errorf("location.timezone %q: %w", l.Timezone, err)
	}
	return loc, nil
}

// SyncConfig which sources take part in aggregation
type SyncConfig struct {
	EnabledSources []string `mapstructure:"enabled_sources"`
}

// SourceConfig settings of a single source adapter
type SourceConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Timeout   int    `mapstructure:"timeout"` // seconds
	Proxy     string `mapstructure:"proxy"`
	UserAgent string `mapstructure:"user_agent"`
}

// DefaultLocalKeywords area allow-list for submissions
var DefaultLocalKeywords = []string{
	"timișoara", "timisoara", "timiș", "timis", "banat",
	"piața", "piata", "unirii", "victoriei", "libertății", "bega",
	"iulius", "fratelli", "uvt", "cetate", "fabric", "elisabetin", "josefin",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("cache.ttl", 6*time.Hour)
	v.SetDefault("cache.refresh_cron", "0 */6 * * *")
	v.SetDefault("cache.refresh_timeout", 5*time.Minute)
	v.SetDefault("cache.warm_on_start", true)
	v.SetDefault("enricher.batch_size", 5)
	v.SetDefault("enricher.batch_delay", time.Second)
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("ai.gemini.model", "gemini-pro")
	v.SetDefault("ai.gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("ai.ollama.enabled", true)
	v.SetDefault("ai.ollama.host", "http://localhost:11434")
	v.SetDefault("ai.ollama.model", "llama2")
	v.SetDefault("ai.ollama.temperature", 0.7)
	v.SetDefault("ai.ollama.max_tokens", 500)
	v.SetDefault("ai.breaker.max_failures", 5)
	v.SetDefault("ai.breaker.open_timeout", time.Minute)
	v.SetDefault("ai.breaker.interval", 5*time.Minute)
	v.SetDefault("submission.approval_threshold", 70)
	v.SetDefault("submission.local_keywords", DefaultLocalKeywords)
	v.SetDefault("location.timezone", "Europe/Bucharest")
	v.SetDefault("sync.enabled_sources", []string{"timisoara_official", "what_to_do", "local_events"})
	v.SetDefault("sources", map[string]any{
		"timisoara_official": map[string]any{"base_url": "https://www.primariatm.ro/evenimente/", "timeout": 10},
		"what_to_do":         map[string]any{"base_url": "https://whattodo.ro/timisoara", "timeout": 10},
		"local_events":       map[string]any{"timeout": 0},
	})
}

// LoadConfig loads path (or ./config/config.yaml when empty); secrets come from .env / environment.
// A missing config file is not an error: defaults apply.
func LoadConfig(path string) (*Config, error) {
	// .env is optional, its values land in the process environment
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && os.IsNotExist(err)) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	overrideFromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overrideFromEnv env wins over yaml for secrets and deploy-specific values
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.AI.Gemini.APIKey = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		cfg.AI.Ollama.Host = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.AI.Ollama.Model = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CACHE_DURATION_HOURS"); v != "" {
		if hours, err := strconv.ParseFloat(v, 64); err == nil && hours > 0 {
			cfg.Cache.TTL = time.Duration(hours * float64(time.Hour))
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
}

// Validate rejects values the services cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Enricher.BatchSize <= 0 {
		return fmt.Errorf("enricher.batch_size must be positive, got %d", c.Enricher.BatchSize)
	}
	if c.Enricher.BatchDelay < 0 {
		return fmt.Errorf("enricher.batch_delay must not be negative")
	}
	if c.Submission.ApprovalThreshold < 1 || c.Submission.ApprovalThreshold > 100 {
		return fmt.Errorf("submission.approval_threshold must be within 1..100, got %d", c.Submission.ApprovalThreshold)
	}
	if _, err := c.Location.Load(); err != nil {
		return err
	}
	for _, name := range c.Sync.EnabledSources {
		if _, ok := c.Sources[name]; !ok {
			return fmt.Errorf("sync.enabled_sources: %q has no sources.%s section", name, name)
		}
	}
	return nil
}

// Source returns the settings of a named source; an absent section yields zero values.
func (c *Config) Source(name string) SourceConfig {
	return c.Sources[name]
}
