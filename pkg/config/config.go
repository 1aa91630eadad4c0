package config

import (
	"errors"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

type Config struct {
	Env  string
	Port int

	LessonAPI LessonAPIConfig
	Session   SessionConfig
	Redis     RedisConfig
	Locale    LocaleConfig
	Log       LogConfig
	UI        UIConfig
	CORS      CORSConfig
}

// LessonAPIConfig points the front at the upstream lesson API.
type LessonAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig controls the signed session cookie and where session state lives.
type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Store      string
	Secure     bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LocaleConfig struct {
	Default   string
	Supported []string
}

type LogConfig struct {
	Level  string
	Format string
}

// UIConfig carries fixed routes used by the dialogs and schedule pages.
type UIConfig struct {
	HomeRoute         string
	LessonDetailRoute string
	DialogWidth       int
}

// CORSConfig lists the origins allowed to load fragments with credentials.
type CORSConfig struct {
	AllowedOrigins []string
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
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.LessonAPI = LessonAPIConfig{
		BaseURL: strings.TrimRight(v.GetString("LESSON_API_URL"), "/") + "/",
		Timeout: parseDuration(v.GetString("LESSON_API_TIMEOUT"), 10*time.Second),
	}

	cfg.Session = SessionConfig{
		Secret:     v.GetString("SESSION_SECRET"),
		TTL:        parseDuration(v.GetString("SESSION_TTL"), 12*time.Hour),
		CookieName: v.GetString("SESSION_COOKIE"),
		Store:      strings.ToLower(v.GetString("SESSION_STORE")),
		Secure:     v.GetBool("SESSION_COOKIE_SECURE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Locale = LocaleConfig{
		Default:   v.GetString("DEFAULT_LOCALE"),
		Supported: splitAndTrim(v.GetString("SUPPORTED_LOCALES")),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.UI = UIConfig{
		HomeRoute:         v.GetString("HOME_ROUTE"),
		LessonDetailRoute: v.GetString("LESSON_DETAIL_ROUTE"),
		DialogWidth:       v.GetInt("DIALOG_WIDTH"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		if origin := originOf(cfg.LessonAPI.BaseURL); origin != "" {
			cfg.CORS.AllowedOrigins = []string{origin}
		}
	}

	return cfg, nil
}

// originOf returns scheme://host of raw, the origin serving the legacy pages.
func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("LESSON_API_URL", "http://localhost:9090/ui")
	v.SetDefault("LESSON_API_TIMEOUT", "10s")

	v.SetDefault("SESSION_SECRET", "dev_session_secret")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("SESSION_COOKIE", "iteach_session")
	v.SetDefault("SESSION_STORE", SessionStoreMemory)
	v.SetDefault("SESSION_COOKIE_SECURE", false)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("DEFAULT_LOCALE", "en")
	v.SetDefault("SUPPORTED_LOCALES", "en,fr")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("HOME_ROUTE", "gui/home")
	v.SetDefault("LESSON_DETAIL_ROUTE", "gui/lesson")
	v.SetDefault("DIALOG_WIDTH", 500)
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
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
