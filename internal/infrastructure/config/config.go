package config

import (
	"fmt"
	"strings"
	"time"

	"recipe-extractor/internal/pkg/common"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	Firecrawl   FirecrawlConfig  `mapstructure:"firecrawl"`
	Providers   ProvidersConfig  `mapstructure:"providers"`
	Extraction  ExtractionConfig `mapstructure:"extraction"`
	Store       StoreConfig      `mapstructure:"store"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
	LogDir      string           `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"` // CORS 允許的來源，可用單一 * 萬用字元
}

// FirecrawlConfig 網頁爬取服務配置
type FirecrawlConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxContentChars int           `mapstructure:"max_content_chars"`
}

// ProviderConfig 單一模型供應商配置
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// ProvidersConfig 模型供應商配置
type ProvidersConfig struct {
	OpenAI       ProviderConfig `mapstructure:"openai"`
	Google       ProviderConfig `mapstructure:"google"`
	Anthropic    ProviderConfig `mapstructure:"anthropic"`
	DefaultModel string         `mapstructure:"default_model"`
	Timeout      time.Duration  `mapstructure:"timeout"`
	MaxTokens    int            `mapstructure:"max_tokens"`
	Temperature  float64        `mapstructure:"temperature"`
}

// ExtractionConfig 擷取流程配置
type ExtractionConfig struct {
	EnrichAlternatives bool          `mapstructure:"enrich_alternatives"`
	RateLimit          int           `mapstructure:"rate_limit"` // 每個時間窗允許的擷取次數，0 為不限制
	RateWindow         time.Duration `mapstructure:"rate_window"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// SQLiteConfig SQLite 配置
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// StoreConfig 本地儲存配置
type StoreConfig struct {
	Backend string       `mapstructure:"backend"` // memory | redis | sqlite
	Redis   RedisConfig  `mapstructure:"redis"`
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時不視為錯誤
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("firecrawl.api_key", "FIRECRAWL_API_KEY")
	_ = v.BindEnv("firecrawl.base_url", "FIRECRAWL_BASE_URL")
	_ = v.BindEnv("providers.openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("providers.google.api_key", "GOOGLE_API_KEY")
	_ = v.BindEnv("providers.anthropic.api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("providers.default_model", "DEFAULT_MODEL")
	_ = v.BindEnv("providers.max_tokens", "MODEL_MAX_TOKENS")
	_ = v.BindEnv("extraction.enrich_alternatives", "ENRICH_ALTERNATIVES")
	_ = v.BindEnv("store.backend", "STORE_BACKEND")
	_ = v.BindEnv("store.redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("store.redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("store.sqlite.path", "SQLITE_PATH")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("server.allowed_origins", "CORS_ALLOWED_ORIGINS")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_dir", "LOG_DIR")

	// 設定設定檔名稱和路徑
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// 讀取設定檔
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-extractor")

	// 伺服器設定（僅供本機單一使用者）
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "170s")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*", "http://127.0.0.1:*"})

	// Firecrawl 設定
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev")
	v.SetDefault("firecrawl.timeout", "60s")
	v.SetDefault("firecrawl.max_content_chars", 15000)

	// 模型供應商設定
	v.SetDefault("providers.openai.base_url", "https://api.openai.com")
	v.SetDefault("providers.google.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("providers.anthropic.base_url", "https://api.anthropic.com")
	v.SetDefault("providers.default_model", "gpt-4o")
	v.SetDefault("providers.timeout", "120s")
	v.SetDefault("providers.max_tokens", 4096)
	v.SetDefault("providers.temperature", 0.1)

	// 擷取設定
	v.SetDefault("extraction.enrich_alternatives", true)
	v.SetDefault("extraction.rate_limit", 10)
	v.SetDefault("extraction.rate_window", "1m")

	// 儲存設定
	v.SetDefault("store.backend", "sqlite")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.key_prefix", "recipe-extractor:")
	v.SetDefault("store.sqlite.path", "recipe-extractor.db")

	v.SetDefault("dedup_window", "2s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}
	if len(config.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("server allowed origins are required")
	}
	for _, origin := range config.Server.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("server allowed origins must not be \"*\"")
		}
		if strings.Count(origin, "*") > 1 {
			return fmt.Errorf("allowed origin %q has more than one wildcard", origin)
		}
	}
	if config.Firecrawl.BaseURL == "" {
		return fmt.Errorf("firecrawl base url is required")
	}
	if config.Firecrawl.MaxContentChars <= 0 {
		return fmt.Errorf("invalid firecrawl max content chars")
	}
	if config.Providers.MaxTokens <= 0 {
		return fmt.Errorf("invalid providers max tokens")
	}
	if config.Extraction.RateLimit > 0 && config.Extraction.RateWindow <= 0 {
		return fmt.Errorf("extraction rate window is required when rate limit is set")
	}

	switch config.Store.Backend {
	case "memory":
	case "redis":
		if config.Store.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required for redis store")
		}
	case "sqlite":
		if config.Store.SQLite.Path == "" {
			return fmt.Errorf("sqlite path is required for sqlite store")
		}
	default:
		return fmt.Errorf("unknown store backend %q", config.Store.Backend)
	}

	return nil
}

// DefaultSettings 由環境變數中的金鑰組出初始使用者設定
func (c *Config) DefaultSettings() common.AppSettings {
	keys := map[common.ProviderName]string{}
	if c.Providers.OpenAI.APIKey != "" {
		keys[common.ProviderOpenAI] = c.Providers.OpenAI.APIKey
	}
	if c.Providers.Google.APIKey != "" {
		keys[common.ProviderGoogle] = c.Providers.Google.APIKey
	}
	if c.Providers.Anthropic.APIKey != "" {
		keys[common.ProviderAnthropic] = c.Providers.Anthropic.APIKey
	}
	return common.AppSettings{
		Firecrawl:     c.Firecrawl.APIKey,
		ProviderKeys:  keys,
		SelectedModel: c.Providers.DefaultModel,
	}
}

// BaseURL 取得指定供應商的 API base url
func (c *Config) BaseURL(name common.ProviderName) string {
	switch name {
	case common.ProviderOpenAI:
		return c.Providers.OpenAI.BaseURL
	case common.ProviderGoogle:
		return c.Providers.Google.BaseURL
	case common.ProviderAnthropic:
		return c.Providers.Anthropic.BaseURL
	default:
		return ""
	}
}
