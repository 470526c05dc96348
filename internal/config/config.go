package config

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

const (
	// StoreMySQL persists accounts, products and orders in MySQL.
	StoreMySQL = "mysql"
	// StoreMemory keeps everything in process memory (development only).
	StoreMemory = "memory"
)

// Config holds application level configuration loaded from environment variables.
// It is built once at startup and passed by reference; nothing re-reads the
// environment mid-request.
type Config struct {
	ServerPort  string
	StoreDriver string

	MySQLHost         string
	MySQLPort         string
	MySQLUser         string
	MySQLPassword     string
	MySQLDatabase     string
	MySQLMaxOpenConns int
	MySQLTimeout      time.Duration

	// ResetDB drops every table before migrating.
	ResetDB bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret    string
	CookieSecure bool

	// RequireAdminForProductMutation gates product PUT/DELETE/POST on the
	// "admin" role claim. Off by default.
	RequireAdminForProductMutation bool

	LogLevel    string
	SwaggerHost string

	// Seed tool only.
	AdminEmail     string
	AdminPassword  string
	SeedCatalogURL string
}

// Load builds Config from environment with sensible defaults.
// .env.local and .env are read first when present.
func Load() *Config {
	loadEnvFiles()

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		StoreDriver: getEnv("STORE_DRIVER", StoreMySQL),

		MySQLHost:         getEnv("MYSQL_HOST", "localhost"),
		MySQLPort:         getEnv("MYSQL_PORT", "3306"),
		MySQLUser:         getEnv("MYSQL_USER", "root"),
		MySQLPassword:     os.Getenv("MYSQL_PASSWORD"),
		MySQLDatabase:     getEnv("MYSQL_DATABASE", "storefront"),
		MySQLMaxOpenConns: getEnvInt("MYSQL_MAX_OPEN_CONNS", 10),
		MySQLTimeout:      getEnvDuration("MYSQL_TIMEOUT", 5*time.Second),
		ResetDB:           getEnvBool("RESET_DB", false),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),

		RequireAdminForProductMutation: getEnvBool("REQUIRE_ADMIN_FOR_PRODUCT_MUTATION", false),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		SeedCatalogURL: os.Getenv("SEED_CATALOG_URL"),
	}
}

// Validate reports configuration that would make the server unusable.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case StoreMySQL, StoreMemory:
	default:
		return errors.New("STORE_DRIVER must be \"mysql\" or \"memory\"")
	}
	if c.MySQLMaxOpenConns <= 0 {
		return errors.New("MYSQL_MAX_OPEN_CONNS must be positive")
	}
	return nil
}

// MySQLDSN assembles the driver DSN from the discrete MYSQL_* settings.
func (c *Config) MySQLDSN() string {
	dsn := mysql.NewConfig()
	dsn.User = c.MySQLUser
	dsn.Passwd = c.MySQLPassword
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(c.MySQLHost, c.MySQLPort)
	dsn.DBName = c.MySQLDatabase
	dsn.ParseTime = true
	dsn.Timeout = c.MySQLTimeout
	dsn.ReadTimeout = c.MySQLTimeout
	dsn.WriteTimeout = c.MySQLTimeout
	dsn.Params = map[string]string{"charset": "utf8mb4"}
	return dsn.FormatDSN()
}

func loadEnvFiles() {
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
			continue
		}
		cwd, err := os.Getwd()
		if err != nil {
			continue
		}
		parent := filepath.Dir(cwd)
		if parent == "" || parent == cwd {
			continue
		}
		_ = godotenv.Load(filepath.Join(parent, name))
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
