package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Backend BackendConfig
	Auth    AuthConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig
	Loader  LoaderConfig
	Views   ViewsConfig
	Export  ExportConfig
}

// BackendConfig locates the school management REST backend.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AuthConfig controls where the console keeps its auth token.
type AuthConfig struct {
	TokenStorageKey string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// LoaderConfig tunes progressive list loading.
type LoaderConfig struct {
	Delay       time.Duration
	Concurrency int
}

// ViewsConfig carries list-view defaults shared across pages.
type ViewsConfig struct {
	DefaultPageSize  int
	AllowedPageSizes []int
}

// ExportConfig controls generated file output.
type ExportConfig struct {
	Dir string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Backend = BackendConfig{
		BaseURL: strings.TrimRight(v.GetString("BACKEND_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("BACKEND_TIMEOUT"), 30*time.Second),
	}

	cfg.Auth = AuthConfig{
		TokenStorageKey: v.GetString("AUTH_TOKEN_STORAGE_KEY"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Loader = LoaderConfig{
		Delay:       parseDuration(v.GetString("LOADER_DELAY"), 50*time.Millisecond),
		Concurrency: v.GetInt("LOADER_CONCURRENCY"),
	}

	cfg.Views = ViewsConfig{
		DefaultPageSize:  v.GetInt("VIEWS_DEFAULT_PAGE_SIZE"),
		AllowedPageSizes: splitAndTrimInts(v.GetString("VIEWS_ALLOWED_PAGE_SIZES")),
	}

	cfg.Export = ExportConfig{Dir: v.GetString("EXPORT_DIR")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8090)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("BACKEND_BASE_URL", "http://localhost:8000/api")
	v.SetDefault("BACKEND_TIMEOUT", "30s")
	v.SetDefault("AUTH_TOKEN_STORAGE_KEY", "school_console_token")
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOADER_DELAY", "50ms")
	v.SetDefault("LOADER_CONCURRENCY", 1)
	v.SetDefault("VIEWS_DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("VIEWS_ALLOWED_PAGE_SIZES", "4,10,12,20,50,100")
	v.SetDefault("EXPORT_DIR", "./exports")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func splitAndTrimInts(raw string) []int {
	var out []int
	for _, p := range splitAndTrim(raw) {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			out = append(out, n)
		}
	}
	return out
}
