package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Solana   SolanaConfig
	Identity IdentityConfig
	Redis    RedisConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port            string
	AllowedOrigins  []string
	RateLimitPerSec int
	RateLimitBurst  int
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Env                 string
	LogLevel            string
	JWTSecret           string
	AdminAPIKey         string
	EnableDebugRoutes   bool
	DebugWalletAddress  string
	PayoutRefreshPeriod time.Duration
}

// SolanaConfig holds Solana RPC settings
type SolanaConfig struct {
	Network    string
	RPCURL     string
	RPCTimeout time.Duration
}

// IdentityConfig holds the identity provider token verification settings
type IdentityConfig struct {
	AppID           string
	Issuer          string
	VerificationKey string
}

// RedisConfig holds the Redis connection used for wallet sign-in nonces
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "ajo_pools"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
			RateLimitPerSec: getEnvInt("RATE_LIMIT_PER_SEC", 5),
			RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 10),
		},
		App: AppConfig{
			Env:                 getEnv("APP_ENV", "development"),
			LogLevel:            getEnv("LOG_LEVEL", "info"),
			JWTSecret:           getEnv("JWT_SECRET", ""),
			AdminAPIKey:         getEnv("ADMIN_API_KEY", ""),
			EnableDebugRoutes:   getEnvBool("ENABLE_DEBUG_ROUTES", false),
			DebugWalletAddress:  getEnv("DEBUG_WALLET_ADDRESS", ""),
			PayoutRefreshPeriod: getEnvDuration("PAYOUT_REFRESH_PERIOD", 6*time.Hour),
		},
		Solana: SolanaConfig{
			Network:    getEnv("SOLANA_NETWORK", "devnet"),
			RPCURL:     getEnv("SOLANA_RPC_URL", ""),
			RPCTimeout: getEnvDuration("SOLANA_RPC_TIMEOUT", 10*time.Second),
		},
		Identity: IdentityConfig{
			AppID:           getEnv("PRIVY_APP_ID", ""),
			Issuer:          getEnv("PRIVY_ISSUER", "privy.io"),
			VerificationKey: strings.ReplaceAll(getEnv("PRIVY_VERIFICATION_KEY", ""), `\n`, "\n"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if config.App.EnableDebugRoutes && config.App.DebugWalletAddress == "" {
		return nil, fmt.Errorf("DEBUG_WALLET_ADDRESS is required when ENABLE_DEBUG_ROUTES is set")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
