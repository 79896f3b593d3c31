package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Calendar CalendarConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CookieSecure bool
}

type DatabaseConfig struct {
	Driver         string // mysql, postgres or sqlite
	DSN            string // overrides the host/port/credentials below when set
	Host           string
	Port           string
	Username       string
	Password       string
	Database       string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	QueryTimeout   time.Duration
	ConnectRetries int
	MigrateOnStart bool
	SeedData       bool
}

type CalendarConfig struct {
	Timezone string
	Location *time.Location
}

type LogConfig struct {
	Dir   string
	Debug bool
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func Load() (*Config, error) {
	tz := getEnv("CALENDAR_TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid CALENDAR_TIMEZONE %q: %w", tz, err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
			CookieSecure: getEnvBool("COOKIE_SECURE", false),
		},
		Database: DatabaseConfig{
			Driver:         getEnv("DB_DRIVER", DriverMySQL),
			DSN:            os.Getenv("DB_DSN"),
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "3306"),
			Username:       getEnv("DB_USERNAME", "calendar_user"),
			Password:       getEnv("DB_PASSWORD", "calendar_pass"),
			Database:       getEnv("DB_NAME", "php-jquery_example"),
			MaxOpenConns:   getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:   getEnvInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:    time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
			QueryTimeout:   getEnvDuration("DB_QUERY_TIMEOUT", 5*time.Second),
			ConnectRetries: getEnvInt("DB_CONNECT_RETRIES", 5),
			MigrateOnStart: getEnvBool("MIGRATE_ON_START", true),
			SeedData:       getEnvBool("SEED_DATA", false),
		},
		Calendar: CalendarConfig{
			Timezone: tz,
			Location: loc,
		},
		Log: LogConfig{
			Dir:   getEnv("LOG_DIR", "logs"),
			Debug: getEnvBool("LOG_DEBUG", false),
		},
	}

	switch cfg.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	return cfg, nil
}

// DataSourceName returns the driver specific connection string. Times are
// stored as UTC on every driver; CALENDAR_TIMEZONE only affects display.
func (d DatabaseConfig) DataSourceName() string {
	if d.DSN != "" {
		return d.DSN
	}
	switch d.Driver {
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.Username, d.Password),
			Host:     d.Host + ":" + d.Port,
			Path:     "/" + d.Database,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	case DriverSQLite:
		return "file:" + d.Database + ".db?cache=shared"
	default:
		// parseTime so DATETIME columns scan into time.Time; loc=UTC matches
		// the UTC values mysqldialect writes.
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC",
			d.Username, d.Password, d.Host, d.Port, d.Database)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
