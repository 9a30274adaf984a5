package config

import (
	"crypto/rsa"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Security    SecurityConfig
	Quotes      QuotesConfig
	Cache       CacheConfig
	Categorizer CategorizerConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	LogLevel         string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ShutdownTimeout  time.Duration
	CORSAllowOrigins []string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
	SeedDatabase    bool
	MigrationsPath  string
	SeedsPath       string
}

type JWTConfig struct {
	AccessTokenDuration time.Duration
	PrivateKey          *rsa.PrivateKey
	PublicKey           *rsa.PublicKey
	Issuer              string
	CookieName          string
	CookieSecure        bool
}

type SecurityConfig struct {
	BCryptCost         int
	RateLimitPerSecond int
	RateLimitBurst     int
	MaxFailedAttempts  int
	PasswordMinLength  int
	AuditRetention     time.Duration
	CleanupInterval    time.Duration
}

// QuotesConfig configures the market quote feed client.
type QuotesConfig struct {
	BaseURL             string
	Timeout             time.Duration
	RequestsPerSecond   float64
	Burst               int
	CacheTTL            time.Duration
	CircuitMaxFailures  int
	CircuitResetTimeout time.Duration
}

// CacheConfig points at an optional redis instance. An empty address selects
// the in-process cache.
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// CategorizerConfig points at an optional YAML keyword rule table.
type CategorizerConfig struct {
	RulesFile string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; an explicit envPath must exist.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	config := &Config{
		Server: ServerConfig{
			Port:            envString("SERVER_PORT", "8080"),
			Host:            envString("SERVER_HOST", "localhost"),
			Environment:     envString("APP_ENV", "development"),
			LogLevel:        envString("LOG_LEVEL", "info"),
			ReadTimeout:     envDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    envDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: envDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:            envString("DB_HOST", "localhost"),
			Port:            envString("DB_PORT", "5432"),
			User:            envString("DB_USER", "pfm_user"),
			Password:        envString("DB_PASSWORD", "pfm_password"),
			Name:            envString("DB_NAME", "pfm_db"),
			SSLMode:         envString("DB_SSL_MODE", "disable"),
			MaxConnections:  envInt("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			AutoMigrate:     envBool("AUTO_MIGRATE", false),
			SeedDatabase:    envBool("SEED_DATABASE", false),
			MigrationsPath:  envString("MIGRATIONS_PATH", "db/migrations"),
			SeedsPath:       envString("SEEDS_PATH", "db/seeds"),
		},
		Security: SecurityConfig{
			BCryptCost:         envInt("BCRYPT_COST", 12),
			RateLimitPerSecond: envInt("RATE_LIMIT_PER_SECOND", 10),
			RateLimitBurst:     envInt("RATE_LIMIT_BURST", 20),
			MaxFailedAttempts:  envInt("MAX_FAILED_ATTEMPTS", 5),
			PasswordMinLength:  envInt("PASSWORD_MIN_LENGTH", 12),
			AuditRetention:     envDuration("AUDIT_RETENTION", 90*24*time.Hour),
			CleanupInterval:    envDuration("CLEANUP_INTERVAL", time.Hour),
		},
		JWT: JWTConfig{
			AccessTokenDuration: envDuration("JWT_ACCESS_TOKEN_DURATION", time.Hour),
			Issuer:              envString("JWT_ISSUER", "pfm-api"),
			CookieName:          envString("JWT_COOKIE_NAME", "token"),
		},
		Quotes: QuotesConfig{
			BaseURL:             strings.TrimRight(envString("QUOTES_BASE_URL", "https://query1.finance.yahoo.com"), "/"),
			Timeout:             envDuration("QUOTES_TIMEOUT", 10*time.Second),
			RequestsPerSecond:   envFloat("QUOTES_REQUESTS_PER_SECOND", 2),
			Burst:               envInt("QUOTES_BURST", 5),
			CacheTTL:            envDuration("QUOTES_CACHE_TTL", time.Minute),
			CircuitMaxFailures:  envInt("QUOTES_CIRCUIT_MAX_FAILURES", 5),
			CircuitResetTimeout: envDuration("QUOTES_CIRCUIT_RESET_TIMEOUT", 30*time.Second),
		},
		Cache: CacheConfig{
			RedisAddr:     envString("REDIS_ADDR", ""),
			RedisPassword: envString("REDIS_PASSWORD", ""),
			RedisDB:       envInt("REDIS_DB", 0),
		},
		Categorizer: CategorizerConfig{
			RulesFile: envString("CATEGORY_RULES_FILE", ""),
		},
	}

	config.JWT.CookieSecure = envBool("JWT_COOKIE_SECURE", config.IsProduction())
	config.Server.CORSAllowOrigins = envList("CORS_ALLOW_ORIGINS", []string{"*"})

	keys, err := loadSigningKeys(config.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("failed to load RSA keys: %w", err)
	}
	config.JWT.PrivateKey, config.JWT.PublicKey = keys, &keys.PublicKey

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Server.Environment == "testing"
}
