package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Remote document store.
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DatabaseName  string `mapstructure:"DATABASE_NAME"`
	RemoteTimeout int    `mapstructure:"REMOTE_TIMEOUT_SECONDS"`

	// Local durable state (offline queue + device identity).
	LocalDBPath        string `mapstructure:"LOCAL_DB_PATH"`
	QueueWarnThreshold int    `mapstructure:"QUEUE_WARN_THRESHOLD"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisGeocodeDB int    `mapstructure:"REDIS_GEOCODE_QUEUE_DB"`

	// Location sampling.
	AmbientIntervalSec   int     `mapstructure:"AMBIENT_INTERVAL_SECONDS"`
	HistoryMinDistanceM  float64 `mapstructure:"HISTORY_MIN_DISTANCE_METERS"`
	HistoryMaxGapMin     int     `mapstructure:"HISTORY_MAX_GAP_MINUTES"`
	LocationTimeoutSec   int     `mapstructure:"LOCATION_TIMEOUT_SECONDS"`
	LocationMaxAgeSec    int     `mapstructure:"LOCATION_MAX_AGE_SECONDS"`
	ConnectivityProbeSec int     `mapstructure:"CONNECTIVITY_PROBE_SECONDS"`

	// Reverse geocoding (best effort).
	GeocodeEndpoint   string `mapstructure:"GEOCODE_ENDPOINT"`
	GeocodeTimeoutSec int    `mapstructure:"GEOCODE_TIMEOUT_SECONDS"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "fieldops")
	viper.SetDefault("REMOTE_TIMEOUT_SECONDS", 10)
	viper.SetDefault("LOCAL_DB_PATH", "fieldops.db")
	viper.SetDefault("QUEUE_WARN_THRESHOLD", 200)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_GEOCODE_QUEUE_DB", 1)
	viper.SetDefault("AMBIENT_INTERVAL_SECONDS", 30)
	viper.SetDefault("HISTORY_MIN_DISTANCE_METERS", 1000.0)
	viper.SetDefault("HISTORY_MAX_GAP_MINUTES", 30)
	viper.SetDefault("LOCATION_TIMEOUT_SECONDS", 15)
	viper.SetDefault("LOCATION_MAX_AGE_SECONDS", 60)
	viper.SetDefault("CONNECTIVITY_PROBE_SECONDS", 15)
	viper.SetDefault("GEOCODE_ENDPOINT", "https://nominatim.openstreetmap.org/reverse")
	viper.SetDefault("GEOCODE_TIMEOUT_SECONDS", 5)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// AmbientInterval returns the ambient sampling cadence.
func (c Config) AmbientInterval() time.Duration {
	return time.Duration(c.AmbientIntervalSec) * time.Second
}

// HistoryMaxGap returns the elapsed-time admission threshold.
func (c Config) HistoryMaxGap() time.Duration {
	return time.Duration(c.HistoryMaxGapMin) * time.Minute
}

// LocationTimeout bounds a single position acquisition.
func (c Config) LocationTimeout() time.Duration {
	return time.Duration(c.LocationTimeoutSec) * time.Second
}

// LocationMaxAge is how old a cached fix may be before Acquire refuses it.
func (c Config) LocationMaxAge() time.Duration {
	return time.Duration(c.LocationMaxAgeSec) * time.Second
}

// RemoteTimeoutPerItem bounds one remote write during drain or live delivery.
func (c Config) RemoteTimeoutPerItem() time.Duration {
	return time.Duration(c.RemoteTimeout) * time.Second
}

// ConnectivityProbeInterval is the cadence of the reachability probe.
func (c Config) ConnectivityProbeInterval() time.Duration {
	return time.Duration(c.ConnectivityProbeSec) * time.Second
}

// GeocodeTimeout bounds one reverse-geocode lookup.
func (c Config) GeocodeTimeout() time.Duration {
	return time.Duration(c.GeocodeTimeoutSec) * time.Second
}
