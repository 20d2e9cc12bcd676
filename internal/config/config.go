package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Backend     BackendConfig
	Mapbox      MapboxConfig
	Geolocation GeolocationConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Cache       CacheConfig
	Log         LogConfig
	Worker      WorkerConfig
	Session     SessionConfig
	Directions  DirectionsConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	AllowedOrigins string
}

// BackendConfig - REST API каталога (vendors / products / reviews)
type BackendConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type MapboxConfig struct {
	AccessToken    string
	BaseURL        string
	Style          string
	RequestTimeout time.Duration
}

type GeolocationConfig struct {
	Enabled        bool
	Providers      []string
	IPAPIBaseURL   string
	StaticLat      float64
	StaticLon      float64
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	SearchCacheTTL   time.Duration
	ProductsCacheTTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
}

type SessionConfig struct {
	ScreenIdleTTL time.Duration
}

type DirectionsConfig struct {
	BaseURL string
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env-file path. A missing file is not an
// error; the environment alone is enough.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("API_HOST"),
			Port:           v.GetInt("API_PORT"),
			Env:            v.GetString("API_ENV"),
			AllowedOrigins: v.GetString("API_ALLOWED_ORIGINS"),
		},
		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(v.GetString("BACKEND_BASE_URL"), "/"),
			RequestTimeout: time.Duration(v.GetInt("BACKEND_REQUEST_TIMEOUT")) * time.Second,
		},
		Mapbox: MapboxConfig{
			AccessToken:    v.GetString("MAPBOX_ACCESS_TOKEN"),
			BaseURL:        strings.TrimRight(v.GetString("MAPBOX_BASE_URL"), "/"),
			Style:          v.GetString("MAPBOX_STYLE"),
			RequestTimeout: time.Duration(v.GetInt("MAPBOX_REQUEST_TIMEOUT")) * time.Second,
		},
		Geolocation: GeolocationConfig{
			Enabled:        v.GetBool("GEOLOCATION_ENABLED"),
			Providers:      parseList(v.GetString("GEOLOCATION_PROVIDERS")),
			IPAPIBaseURL:   strings.TrimRight(v.GetString("GEOLOCATION_IPAPI_BASE_URL"), "/"),
			StaticLat:      v.GetFloat64("GEOLOCATION_STATIC_LAT"),
			StaticLon:      v.GetFloat64("GEOLOCATION_STATIC_LON"),
			RequestTimeout: time.Duration(v.GetInt("GEOLOCATION_REQUEST_TIMEOUT")) * time.Second,
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DB_ENABLED"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			SearchCacheTTL:   time.Duration(v.GetInt("SEARCH_CACHE_TTL")) * time.Second,
			ProductsCacheTTL: time.Duration(v.GetInt("PRODUCTS_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        v.GetInt("WORKER_MAX_RETRIES"),
		},
		Session: SessionConfig{
			ScreenIdleTTL: time.Duration(v.GetInt("SCREEN_IDLE_TTL")) * time.Second,
		},
		Directions: DirectionsConfig{
			BaseURL: v.GetString("DIRECTIONS_BASE_URL"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8090)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("API_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("BACKEND_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("BACKEND_REQUEST_TIMEOUT", 30)

	v.SetDefault("MAPBOX_BASE_URL", "https://api.mapbox.com")
	v.SetDefault("MAPBOX_STYLE", "mapbox/streets-v12")
	v.SetDefault("MAPBOX_REQUEST_TIMEOUT", 10)

	v.SetDefault("GEOLOCATION_ENABLED", true)
	v.SetDefault("GEOLOCATION_PROVIDERS", "profile,ipapi")
	v.SetDefault("GEOLOCATION_IPAPI_BASE_URL", "http://ip-api.com")
	v.SetDefault("GEOLOCATION_REQUEST_TIMEOUT", 5)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)

	v.SetDefault("SEARCH_CACHE_TTL", 60)
	v.SetDefault("PRODUCTS_CACHE_TTL", 30)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("WORKER_CONSUMER_GROUP", "screen-identity-workers")
	v.SetDefault("WORKER_STREAM_READ_TIMEOUT", 5000)
	v.SetDefault("WORKER_MAX_RETRIES", 3)

	v.SetDefault("SCREEN_IDLE_TTL", 1800)

	v.SetDefault("DIRECTIONS_BASE_URL", "https://www.google.com/maps/dir/")
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// MapEnabled reports whether a map credential is configured.
func (c *Config) MapEnabled() bool {
	return c.Mapbox.AccessToken != ""
}
