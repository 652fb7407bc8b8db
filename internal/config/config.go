package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppEnv  string `mapstructure:"APP_ENV"`
	AppPort string `mapstructure:"APP_PORT"`

	// --- DB ---
	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     int    `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`

	// --- Redis ---
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// --- Auth ---
	JWTSecret string        `mapstructure:"AUTH_JWT_SECRET"`
	Issuer    string        `mapstructure:"AUTH_ISSUER"`
	TokenTTL  time.Duration `mapstructure:"AUTH_TOKEN_TTL"`

	// --- S3 ---
	S3Endpoint    string `mapstructure:"S3_ENDPOINT"`
	S3Region      string `mapstructure:"S3_REGION"`
	S3Bucket      string `mapstructure:"S3_BUCKET"`
	S3AccessKey   string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey   string `mapstructure:"S3_SECRET_KEY"`
	S3UseSSL      bool   `mapstructure:"S3_USE_SSL"`
	S3PathStyle   bool   `mapstructure:"S3_PATH_STYLE"`
	MediaBaseURL  string `mapstructure:"MEDIA_PUBLIC_BASE_URL"`
	MediaMaxBytes int64  `mapstructure:"MEDIA_MAX_BYTES"`

	// JSONMaxBytes: предел тела JSON-запросов (всё, кроме /v1/media)
	JSONMaxBytes int64 `mapstructure:"JSON_MAX_BYTES"`

	// --- Кеш и лимиты ---
	StatsTTL          time.Duration `mapstructure:"CACHE_STATS_TTL"`
	PortfolioTTL      time.Duration `mapstructure:"CACHE_PORTFOLIO_TTL"`
	ContactRatePerMin int           `mapstructure:"CONTACT_RATE_PER_MIN"`
	AuthRatePerMin    int           `mapstructure:"AUTH_RATE_PER_MIN"`
}

var defaults = map[string]any{
	"APP_ENV":               "dev",
	"APP_PORT":              "8080",
	"DB_DRIVER":             DriverPostgres,
	"DB_HOST":               "localhost",
	"DB_PORT":               5432,
	"DB_USER":               "portfolio",
	"DB_NAME":               "portfolio",
	"SQLITE_PATH":           "portfolio.db",
	"REDIS_ADDR":            "localhost:6379",
	"REDIS_DB":              0,
	"AUTH_ISSUER":           "portfolio-api",
	"AUTH_TOKEN_TTL":        "24h",
	"S3_REGION":             "us-east-1",
	"S3_BUCKET":             "portfolio-media",
	"S3_PATH_STYLE":         true,
	"MEDIA_MAX_BYTES":       8 << 20,
	"JSON_MAX_BYTES":        1 << 20,
	"CACHE_STATS_TTL":       "10m",
	"CACHE_PORTFOLIO_TTL":   "1h",
	"CONTACT_RATE_PER_MIN":  5,
	"AUTH_RATE_PER_MIN":     10,
	"AUTH_JWT_SECRET":       "",
	"DB_PASSWORD":           "",
	"REDIS_PASSWORD":        "",
	"S3_ENDPOINT":           "",
	"S3_ACCESS_KEY":         "",
	"S3_SECRET_KEY":         "",
	"S3_USE_SSL":            false,
	"MEDIA_PUBLIC_BASE_URL": "",
}

// String реализует интерфейс Stringer; секреты маскируются
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  AppEnv: %s\n", c.AppEnv)
	fmt.Fprintf(&sb, "  AppPort: %s\n", c.AppPort)
	fmt.Fprintf(&sb, "  DBDriver: %s\n", c.DBDriver)
	if c.DBDriver == DriverSQLite {
		fmt.Fprintf(&sb, "  SQLitePath: %s\n", c.SQLitePath)
	} else {
		fmt.Fprintf(&sb, "  DBHost: %s\n", c.DBHost)
		fmt.Fprintf(&sb, "  DBPort: %d\n", c.DBPort)
		fmt.Fprintf(&sb, "  DBUser: %s\n", c.DBUser)
		fmt.Fprintf(&sb, "  DBName: %s\n", c.DBName)
		fmt.Fprintf(&sb, "  DBPassword: %s\n", mask(c.DBPassword))
	}

	fmt.Fprintf(&sb, "  RedisAddr: %s\n", c.RedisAddr)
	fmt.Fprintf(&sb, "  RedisDB: %d\n", c.RedisDB)
	fmt.Fprintf(&sb, "  RedisPassword: %s\n", mask(c.RedisPassword))

	fmt.Fprintf(&sb, "  JWTSecret: %s\n", mask(c.JWTSecret))
	fmt.Fprintf(&sb, "  Issuer: %s\n", c.Issuer)
	fmt.Fprintf(&sb, "  TokenTTL: %s\n", c.TokenTTL)

	fmt.Fprintf(&sb, "  S3Endpoint: %s\n", c.S3Endpoint)
	fmt.Fprintf(&sb, "  S3Region: %s\n", c.S3Region)
	fmt.Fprintf(&sb, "  S3Bucket: %s\n", c.S3Bucket)
	fmt.Fprintf(&sb, "  S3AccessKey: %s\n", mask(c.S3AccessKey))
	fmt.Fprintf(&sb, "  S3SecretKey: %s\n", mask(c.S3SecretKey))
	fmt.Fprintf(&sb, "  S3UseSSL: %v\n", c.S3UseSSL)
	fmt.Fprintf(&sb, "  S3PathStyle: %v\n", c.S3PathStyle)
	fmt.Fprintf(&sb, "  MediaBaseURL: %s\n", c.MediaBaseURL)
	fmt.Fprintf(&sb, "  MediaMaxBytes: %d\n", c.MediaMaxBytes)
	fmt.Fprintf(&sb, "  JSONMaxBytes: %d\n", c.JSONMaxBytes)

	fmt.Fprintf(&sb, "  StatsTTL: %s\n", c.StatsTTL)
	fmt.Fprintf(&sb, "  PortfolioTTL: %s\n", c.PortfolioTTL)
	fmt.Fprintf(&sb, "  ContactRatePerMin: %d\n", c.ContactRatePerMin)
	fmt.Fprintf(&sb, "  AuthRatePerMin: %d\n", c.AuthRatePerMin)

	return sb.String()
}

func mask(s string) string {
	if s == "" {
		return "(empty)"
	}
	return "********"
}

// LoadFromEnv загружает конфигурацию из переменных окружения
func LoadFromEnv() (*Config, error) {
	// .env только для локальной разработки; уже заданные переменные не перетираются
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, errors.New("failed to load .env")
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	for k, def := range defaults {
		v.SetDefault(k, def)
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DBDriver))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_TTL must be positive"))
	}
	if c.StatsTTL <= 0 || c.PortfolioTTL <= 0 {
		errs = append(errs, errors.New("cache TTLs must be positive"))
	}
	if c.ContactRatePerMin <= 0 || c.AuthRatePerMin <= 0 {
		errs = append(errs, errors.New("rate limits must be positive"))
	}
	if c.JSONMaxBytes <= 0 || c.MediaMaxBytes <= 0 {
		errs = append(errs, errors.New("body size limits must be positive"))
	}
	return errors.Join(errs...)
}

// MediaEnabled: S3 настроен; без него /v1/media отвечает 503.
func (c *Config) MediaEnabled() bool { return c.S3Endpoint != "" }

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(c.DBUser),
		url.QueryEscape(c.DBPassword),
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
