package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Cron       CronConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int32
	QueryTimeout time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	StorageDriver  string
	SeedFile       string
	ImportArchive  string
	AllowedOrigins []string
}

// AttendanceConfig holds the organization-wide attendance policy.
type AttendanceConfig struct {
	UTCOffset          string
	WorkStart          string
	GracePeriodMinutes int
	StandardShiftHours float64
}

// CronConfig holds the wall-clock specs of the backfill jobs, evaluated in the
// organization's fixed offset.
type CronConfig struct {
	Enabled    bool
	Preplanned string
	DayShift   string
	NightShift string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	queryTimeout, err := time.ParseDuration(getEnv("DB_QUERY_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_QUERY_TIMEOUT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:         getEnv("DB_HOST", "localhost"),
		Port:         dbPort,
		User:         getEnv("DB_USER", "postgres"),
		Password:     getEnv("DB_PASSWORD", ""),
		Name:         getEnv("DB_NAME", "cmlabs-hris"),
		SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		MaxConns:     int32(maxConns),
		QueryTimeout: queryTimeout,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", "postgres")),
		SeedFile:       getEnv("MEMORY_SEED_FILE", ""),
		ImportArchive:  getEnv("IMPORT_ARCHIVE_DIR", ""),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance policy
	grace, err := strconv.Atoi(getEnv("ATTENDANCE_GRACE_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_GRACE_MINUTES: %w", err)
	}
	standardHours, err := strconv.ParseFloat(getEnv("ATTENDANCE_STANDARD_HOURS", "8"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_STANDARD_HOURS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		UTCOffset:          getEnv("ATTENDANCE_UTC_OFFSET", "+05:30"),
		WorkStart:          getEnv("ATTENDANCE_WORK_START", "09:00"),
		GracePeriodMinutes: grace,
		StandardShiftHours: standardHours,
	}

	cronEnabled, err := strconv.ParseBool(getEnv("CRON_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_ENABLED: %w", err)
	}

	config.Cron = CronConfig{
		Enabled:    cronEnabled,
		Preplanned: getEnv("CRON_PREPLANNED", "5 0 * * *"),
		DayShift:   getEnv("CRON_DAY_SHIFT", "57 23 * * *"),
		NightShift: getEnv("CRON_NIGHT_SHIFT", "0 8 * * *"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.StorageDriver != "postgres" && c.App.StorageDriver != "memory" {
		return fmt.Errorf("STORAGE_DRIVER must be one of: postgres, memory")
	}
	if c.App.StorageDriver == "postgres" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := c.Attendance.Location(); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_UTC_OFFSET: %w", err)
	}
	if _, err := c.Attendance.WorkStartOffset(); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_WORK_START: %w", err)
	}
	if c.Attendance.GracePeriodMinutes < 0 {
		return fmt.Errorf("ATTENDANCE_GRACE_MINUTES must not be negative")
	}
	if c.Attendance.StandardShiftHours <= 0 {
		return fmt.Errorf("ATTENDANCE_STANDARD_HOURS must be positive")
	}
	return nil
}

// Location returns the fixed-offset zone standing in for the organization's
// local time. Accepted forms: "+05:30", "-0700", "+7".
func (a AttendanceConfig) Location() (*time.Location, error) {
	return ParseUTCOffset(a.UTCOffset)
}

// WorkStartOffset returns the configured work start as an offset from midnight.
func (a AttendanceConfig) WorkStartOffset() (time.Duration, error) {
	t, err := time.Parse("15:04", a.WorkStart)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// ParseUTCOffset converts an offset string into a fixed zone.
func ParseUTCOffset(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty offset")
	}

	sign := 1
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = -1
		s = s[1:]
	}

	var hours, minutes int
	var err error
	switch {
	case strings.Contains(s, ":"):
		parts := strings.SplitN(s, ":", 2)
		if hours, err = strconv.Atoi(parts[0]); err != nil {
			return nil, err
		}
		if minutes, err = strconv.Atoi(parts[1]); err != nil {
			return nil, err
		}
	case len(s) == 4:
		if hours, err = strconv.Atoi(s[:2]); err != nil {
			return nil, err
		}
		if minutes, err = strconv.Atoi(s[2:]); err != nil {
			return nil, err
		}
	default:
		if hours, err = strconv.Atoi(s); err != nil {
			return nil, err
		}
	}

	if hours > 14 || minutes < 0 || minutes > 59 {
		return nil, fmt.Errorf("offset out of range")
	}

	seconds := sign * (hours*3600 + minutes*60)
	name := fmt.Sprintf("UTC%+03d:%02d", sign*hours, minutes)
	return time.FixedZone(name, seconds), nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
