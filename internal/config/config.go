package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

type Config struct {
	AppPort string

	DBDriver        string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	JWTSecret string
	JWTExpiry time.Duration

	LogLevel  string
	LogFormat string

	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration

	SeedAdminEmail    string
	SeedAdminUsername string
	SeedAdminPassword string

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	loaded := godotenv.Load() == nil

	cfg := Config{
		AppPort:         getEnv("APP_PORT", "8080"),
		DBDriver:        strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
		DSN:             os.Getenv("MYSQL_DSN"),
		MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
		ConnMaxLifetime: time.Duration(getInt("DB_CONN_MAX_LIFETIME_MIN", 30)) * time.Minute,

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-only"),
		JWTExpiry: time.Duration(getInt("JWT_EXPIRE_HOURS", 24)) * time.Hour,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:        time.Duration(getInt("READ_TIMEOUT_SEC", 15)) * time.Second,
		WriteTimeout:       time.Duration(getInt("WRITE_TIMEOUT_SEC", 15)) * time.Second,

		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminUsername: getEnv("SEED_ADMIN_USERNAME", "admin"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),

		EnvFileLoaded: loaded,
	}

	switch cfg.DBDriver {
	case DriverMySQL:
		if cfg.DSN == "" {
			return cfg, errors.New("MYSQL_DSN not set in environment")
		}
	case DriverMemory:
	default:
		return cfg, errors.New("DB_DRIVER must be mysql or memory")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
