package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	// TrustedProxies may set X-Forwarded-For; comma separated IPs or CIDRs.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// Redis configuration.
	RedisAddr           string `mapstructure:"REDIS_ADDR"`
	RedisPassword       string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB        int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB        int    `mapstructure:"REDIS_QUEUE_DB"`
	SlotCacheTTLSeconds int    `mapstructure:"SLOT_CACHE_TTL_SECONDS"`

	// Third-party APIs.
	StripeKey               string `mapstructure:"STRIPE_KEY"`
	GeminiAPIKey            string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel             string `mapstructure:"GEMINI_MODEL"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Scheduling.
	Timezone         string `mapstructure:"TIMEZONE"`
	MaxSlotRangeDays int    `mapstructure:"MAX_SLOT_RANGE_DAYS"`
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

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("TRUSTED_PROXIES", []string{})
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "marketplace")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 3)
	viper.SetDefault("SLOT_CACHE_TTL_SECONDS", 60)
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("TIMEZONE", "Local")
	viper.SetDefault("MAX_SLOT_RANGE_DAYS", 31)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves TIMEZONE. Every naive date/time string in bookings and
// availability is interpreted in this one location.
func Location() *time.Location {
	if AppConfig.Timezone == "" || AppConfig.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		log.Printf("Unknown TIMEZONE %q, falling back to server local time", AppConfig.Timezone)
		return time.Local
	}
	return loc
}

// SlotCacheTTL returns the slot-listing cache lifetime.
func SlotCacheTTL() time.Duration {
	return time.Duration(AppConfig.SlotCacheTTLSeconds) * time.Second
}
