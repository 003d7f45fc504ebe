package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	NewRelic   NewRelicConfig
	Geo        GeoConfig
	Auth       AuthConfig
	Fare       FareConfig
	Simulation SimulationConfig
	Log        LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string // "postgres" or "memory"
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// GeoConfig selects and configures the geocoder.
type GeoConfig struct {
	Geocoder         string // "google" or "static"
	GoogleMapsAPIKey string
	Language         string
}

// AuthConfig holds secrets for tokens and card encryption.
type AuthConfig struct {
	JWTSecret    string
	JWTTTL       time.Duration
	CardVaultKey string // base64, 32 bytes; empty means ephemeral
}

// FareConfig holds pricing configuration.
type FareConfig struct {
	BaseRatePerKm float64
}

// SimulationConfig holds trip simulation timing.
type SimulationConfig struct {
	SpeedKmh  float64
	TimeScale float64
	MaxWait   time.Duration
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", "postgres"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "taxi"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "taxi-service"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Geo: GeoConfig{
			Geocoder:         getEnv("GEOCODER", "static"),
			GoogleMapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
			Language:         getEnv("GEOCODER_LANGUAGE", "en"),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			JWTTTL:       getDurationEnv("JWT_TTL", 24*time.Hour),
			CardVaultKey: getEnv("CARD_VAULT_KEY", ""),
		},
		Fare: FareConfig{
			BaseRatePerKm: getFloatEnv("FARE_BASE_RATE_PER_KM", 50),
		},
		Simulation: SimulationConfig{
			SpeedKmh:  getFloatEnv("SIMULATION_SPEED_KMH", 40),
			TimeScale: getFloatEnv("SIMULATION_TIME_SCALE", 0.001),
			MaxWait:   getDurationEnv("SIMULATION_MAX_WAIT", 5*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
