package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Studio scheduling parameters. Capacity is shared across all coaches
	// at a given studio-hour, not per coach.
	StudioCapacity int `mapstructure:"STUDIO_CAPACITY"`
	OpenHour       int `mapstructure:"OPEN_HOUR"`
	CloseHour      int `mapstructure:"CLOSE_HOUR"`
	LunchStartHour int `mapstructure:"LUNCH_START_HOUR"`
	LunchEndHour   int `mapstructure:"LUNCH_END_HOUR"`

	// Suggestion session lifetime and solver budget.
	SessionTTLMinutes  int `mapstructure:"SESSION_TTL_MINUTES"`
	SolverBudgetMillis int `mapstructure:"SOLVER_BUDGET_MILLIS"`

	// How long rendered availability snapshots stay cached in Redis.
	// Zero disables snapshot caching.
	AvailabilityCacheTTLSeconds int `mapstructure:"AVAILABILITY_CACHE_TTL_SECONDS"`

	// Bookings created by the finalizer start as "pending"; ones still
	// pending after this window are cancelled to release capacity.
	// Zero disables the expiry worker.
	PendingHoldMinutes int `mapstructure:"PENDING_HOLD_MINUTES"`
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
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")

	viper.SetDefault("STUDIO_CAPACITY", 10)
	viper.SetDefault("OPEN_HOUR", 8)
	viper.SetDefault("CLOSE_HOUR", 21)
	viper.SetDefault("LUNCH_START_HOUR", 12)
	viper.SetDefault("LUNCH_END_HOUR", 13)
	viper.SetDefault("SESSION_TTL_MINUTES", 20)
	viper.SetDefault("SOLVER_BUDGET_MILLIS", 3000)
	viper.SetDefault("AVAILABILITY_CACHE_TTL_SECONDS", 30)
	viper.SetDefault("PENDING_HOLD_MINUTES", 60)

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
