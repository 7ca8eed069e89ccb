package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override (OULIA_LLM_MODEL...).
const EnvPrefix = "OULIA"

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Auth      AuthConfig      `mapstructure:"auth"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	CORS      CORSConfig      `mapstructure:"cors"`

	// source is the highest-priority config file that was read, if any.
	source string
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	FrontendURL     string        `mapstructure:"frontend_url"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type string `mapstructure:"type"` // sqlite, postgres
	DSN  string `mapstructure:"dsn"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

// LLMConfig configures the Gemini generation service.
type LLMConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	Model           string        `mapstructure:"model"`
	VisionModel     string        `mapstructure:"vision_model"`
	Temperature     float64       `mapstructure:"temperature"`
	TopP            float64       `mapstructure:"top_p"`
	TopK            int           `mapstructure:"top_k"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxMediaBytes   int64         `mapstructure:"max_media_bytes"`
	Breaker         BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig 熔断器配置
type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"` // consecutive failures before opening
	OpenTimeout time.Duration `mapstructure:"open_timeout"` // how long to stay open
}

// EngineConfig holds conversation engine defaults.
type EngineConfig struct {
	HistoryLimit         int    `mapstructure:"history_limit"`
	DefaultLanguage      string `mapstructure:"default_language"`
	DefaultGuestName     string `mapstructure:"default_guest_name"`
	DefaultTone          string `mapstructure:"default_tone"`
	DefaultPersonality   string `mapstructure:"default_personality"`
	DefaultIssueCategory string `mapstructure:"default_issue_category"`
}

// TelegramConfig Telegram 告警配置
// An empty bot token disables host alerts.
type TelegramConfig struct {
	BotToken    string `mapstructure:"bot_token"`
	AlertChatID int64  `mapstructure:"alert_chat_id"`
}

// Enabled reports whether Telegram alerts are configured.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.AlertChatID != 0
}

// RateLimitConfig throttles the anonymous guest routes per client IP.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Source returns the path of the config file that was loaded, or "" when
// only defaults and environment were used.
func (c *Config) Source() string {
	return c.source
}

// Load 加载配置
// 优先级 (低 → 高): 默认值 → ~/.oulia/config.yaml → ./config/config.yaml | ./config.yaml → .env → 环境变量
func Load() (*Config, error) {
	return load("")
}

// LoadFile loads configuration from an explicit file instead of the search
// path. Defaults, .env and environment still apply.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(explicit string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	var source string
	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", explicit, err)
		}
		source = explicit
	} else {
		// Layer 1: 全局配置
		v.SetConfigName("config")
		v.AddConfigPath(HomeDir())
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read global config: %w", err)
			}
		} else {
			source = v.ConfigFileUsed()
		}

		// Layer 2: 项目本地配置, 只取第一个找到的
		for _, localDir := range []string{"./config", "."} {
			localPath := filepath.Join(localDir, "config.yaml")
			if _, err := os.Stat(localPath); err != nil {
				continue
			}
			v2 := viper.New()
			v2.SetConfigFile(localPath)
			if err := v2.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read local config %s: %w", localPath, err)
			}
			if err := v.MergeConfigMap(v2.AllSettings()); err != nil {
				return nil, fmt.Errorf("failed to merge local config: %w", err)
			}
			source = localPath
			break
		}
	}

	// .env never overrides variables already present in the environment.
	_ = godotenv.Load()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindAliases(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.source = source
	return &cfg, nil
}

// bindAliases maps the bare variable names used by existing deployments.
// The prefixed name wins when both are set.
func bindAliases(v *viper.Viper) {
	aliases := map[string]string{
		"llm.api_key":         "GEMINI_API_KEY",
		"auth.jwt_secret":     "JWT_SECRET",
		"server.frontend_url": "FRONTEND_URL",
		"server.port":         "PORT",
		"database.dsn":        "DATABASE_URL",
	}
	for key, alias := range aliases {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, prefixed, alias)
	}
}

// setDefaults 设置默认配置
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.frontend_url", "http://localhost:5173")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "oulia.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_path", "stdout")

	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("llm.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.vision_model", "gemini-2.0-flash")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.top_p", 0.95)
	v.SetDefault("llm.top_k", 40)
	v.SetDefault("llm.max_output_tokens", 2048)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.max_media_bytes", 10<<20)
	v.SetDefault("llm.breaker.max_failures", 5)
	v.SetDefault("llm.breaker.open_timeout", "30s")

	v.SetDefault("engine.history_limit", 20)
	v.SetDefault("engine.default_language", "fr")
	v.SetDefault("engine.default_guest_name", "Guest")
	v.SetDefault("engine.default_tone", "welcoming")
	v.SetDefault("engine.default_personality", "Professional and caring")
	v.SetDefault("engine.default_issue_category", "other")

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.alert_chat_id", 0)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.rps", 2)
	v.SetDefault("ratelimit.burst", 10)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var problems []string
	if c.Auth.JWTSecret == "" {
		problems = append(problems, "auth.jwt_secret (JWT_SECRET) is required")
	}
	if c.LLM.APIKey == "" {
		problems = append(problems, "llm.api_key (GEMINI_API_KEY) is required")
	}
	switch c.Database.Type {
	case "sqlite", "postgres":
	default:
		problems = append(problems, fmt.Sprintf("database.type %q is not supported", c.Database.Type))
	}
	if c.Engine.HistoryLimit <= 0 {
		problems = append(problems, "engine.history_limit must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
