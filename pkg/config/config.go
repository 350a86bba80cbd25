package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	GoogleMapsAPIKey string        `mapstructure:"GOOGLE_MAPS_API_KEY"`
	SerpAPIKey       string        `mapstructure:"SERPAPI_KEY"`
	OpenCageAPIKey   string        `mapstructure:"OPENCAGE_API_KEY"`
	MapboxToken      string        `mapstructure:"MAPBOX_TOKEN"`
	ProviderTimeout  time.Duration `mapstructure:"PROVIDER_TIMEOUT"`

	NLPServiceURL     string `mapstructure:"NLP_SERVICE_URL"`
	GazetteerPath     string `mapstructure:"GAZETTEER_PATH"`
	RegionProfilePath string `mapstructure:"REGION_PROFILE_PATH"`

	YtDlpBinary            string        `mapstructure:"YTDLP_BINARY"`
	YtDlpTimeout           time.Duration `mapstructure:"YTDLP_TIMEOUT"`
	EmbedTimeout           time.Duration `mapstructure:"EMBED_TIMEOUT"`
	HeadlessCaptionEnabled bool          `mapstructure:"HEADLESS_CAPTION_ENABLED"`
	HeadlessTimeout        time.Duration `mapstructure:"HEADLESS_TIMEOUT"`
	HeadlessPoolSize       int           `mapstructure:"HEADLESS_POOL_SIZE"`

	StoreDriver string `mapstructure:"STORE_DRIVER"` // "sqlite" or "postgres"
	SQLitePath  string `mapstructure:"SQLITE_PATH"`
	PostgresURL string `mapstructure:"POSTGRES_URL"`

	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	RedisPassword      string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int           `mapstructure:"REDIS_DB"`
	ResolutionCacheTTL time.Duration `mapstructure:"RESOLUTION_CACHE_TTL"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"` // comma separated
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
}

var defaults = map[string]any{
	"SERVER_PORT":              "8080",
	"LOG_LEVEL":                "info",
	"GOOGLE_MAPS_API_KEY":      "",
	"SERPAPI_KEY":              "",
	"OPENCAGE_API_KEY":         "",
	"MAPBOX_TOKEN":             "",
	"PROVIDER_TIMEOUT":         "10s",
	"NLP_SERVICE_URL":          "",
	"GAZETTEER_PATH":           "",
	"REGION_PROFILE_PATH":      "",
	"YTDLP_BINARY":             "yt-dlp",
	"YTDLP_TIMEOUT":            "30s",
	"EMBED_TIMEOUT":            "10s",
	"HEADLESS_CAPTION_ENABLED": false,
	"HEADLESS_TIMEOUT":         "30s",
	"HEADLESS_POOL_SIZE":       2,
	"STORE_DRIVER":             "sqlite",
	"SQLITE_PATH":              "reels.db",
	"POSTGRES_URL":             "",
	"REDIS_ADDR":               "",
	"REDIS_PASSWORD":           "",
	"REDIS_DB":                 0,
	"RESOLUTION_CACHE_TTL":     "24h",
	"KAFKA_BROKERS":            "",
	"KAFKA_TOPIC":              "reel-locations",
	"MINIO_ENDPOINT":           "",
	"MINIO_ACCESS_KEY":         "",
	"MINIO_SECRET_KEY":         "",
	"MINIO_USE_SSL":            false,
	"MINIO_BUCKET":             "reel-captions",
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file path. A missing file is not an error,
// so production can configure purely through environment variables.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Every key needs a default, otherwise AutomaticEnv values are invisible to Unmarshal.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// KafkaBrokerList splits KAFKA_BROKERS into addresses.
func (c *Config) KafkaBrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORE_DRIVER=sqlite")
		}
	case "postgres":
		if c.PostgresURL == "" {
			return fmt.Errorf("POSTGRES_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.HeadlessPoolSize < 1 {
		c.HeadlessPoolSize = 1
	}
	return nil
}
