package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Log      LogConfig
	CORS     CORSConfig
	Tax      TaxConfig
	Reminder ReminderConfig
	Email    EmailConfig
}

// EmailConfig holds reminder e-mail delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	Endpoint    string `mapstructure:"endpoint"`
}

// ReminderConfig holds settings for the background reminder worker.
type ReminderConfig struct {
	WorkerEnabled    bool `mapstructure:"worker_enabled"`
	PollIntervalSecs int  `mapstructure:"poll_interval_secs"`
	Concurrency      int  `mapstructure:"concurrency"`
}

// TaxConfig holds the VAT rates accepted on invoice lines.
type TaxConfig struct {
	DefaultRate  string   `mapstructure:"default_rate"`
	AllowedRates []string `mapstructure:"allowed_rates"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// IsProduction reports whether the server runs in production mode.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`

	MigrationsDir string `mapstructure:"migrations_dir"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the FAKTURA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FAKTURA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "faktura")
	v.SetDefault("db.password", "faktura_secret")
	v.SetDefault("db.name", "faktura_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.migrations_dir", "db/migrations")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// German VAT: standard 19%, reduced 7%, 0% for reverse charge and exempt lines
	v.SetDefault("tax.default_rate", "19")
	v.SetDefault("tax.allowed_rates", "0,7,19")

	// Reminder worker defaults
	v.SetDefault("reminder.worker_enabled", false)
	v.SetDefault("reminder.poll_interval_secs", 3600)
	v.SetDefault("reminder.concurrency", 4)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "eu-central-1")
	v.SetDefault("email.from_address", "buchhaltung@example.de")
	v.SetDefault("email.from_name", "Buchhaltung")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "FAKTURA_SERVER_PORT",
		"server.read_timeout":         "FAKTURA_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "FAKTURA_SERVER_WRITE_TIMEOUT",
		"server.environment":          "FAKTURA_SERVER_ENVIRONMENT",
		"db.host":                     "FAKTURA_DB_HOST",
		"db.port":                     "FAKTURA_DB_PORT",
		"db.user":                     "FAKTURA_DB_USER",
		"db.password":                 "FAKTURA_DB_PASSWORD",
		"db.name":                     "FAKTURA_DB_NAME",
		"db.sslmode":                  "FAKTURA_DB_SSLMODE",
		"db.max_open":                 "FAKTURA_DB_MAX_OPEN",
		"db.max_idle":                 "FAKTURA_DB_MAX_IDLE",
		"db.migrations_dir":           "FAKTURA_DB_MIGRATIONS_DIR",
		"log.level":                   "FAKTURA_LOG_LEVEL",
		"log.format":                  "FAKTURA_LOG_FORMAT",
		"cors.allowed_origins":        "FAKTURA_CORS_ALLOWED_ORIGINS",
		"tax.default_rate":            "FAKTURA_TAX_DEFAULT_RATE",
		"tax.allowed_rates":           "FAKTURA_TAX_ALLOWED_RATES",
		"reminder.worker_enabled":     "FAKTURA_REMINDER_WORKER_ENABLED",
		"reminder.poll_interval_secs": "FAKTURA_REMINDER_POLL_INTERVAL_SECS",
		"reminder.concurrency":        "FAKTURA_REMINDER_CONCURRENCY",
		"email.provider":              "FAKTURA_EMAIL_PROVIDER",
		"email.region":                "FAKTURA_EMAIL_REGION",
		"email.from_address":          "FAKTURA_EMAIL_FROM_ADDRESS",
		"email.from_name":             "FAKTURA_EMAIL_FROM_NAME",
		"email.access_key":            "FAKTURA_EMAIL_ACCESS_KEY",
		"email.secret_key":            "FAKTURA_EMAIL_SECRET_KEY",
		"email.endpoint":              "FAKTURA_EMAIL_ENDPOINT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if FAKTURA_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FAKTURA_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),

		MigrationsDir: v.GetString("db.migrations_dir"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Tax = TaxConfig{
		DefaultRate:  v.GetString("tax.default_rate"),
		AllowedRates: splitList(v.GetString("tax.allowed_rates")),
	}
	cfg.Reminder = ReminderConfig{
		WorkerEnabled:    v.GetBool("reminder.worker_enabled"),
		PollIntervalSecs: v.GetInt("reminder.poll_interval_secs"),
		Concurrency:      v.GetInt("reminder.concurrency"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		AccessKey:   v.GetString("email.access_key"),
		SecretKey:   v.GetString("email.secret_key"),
		Endpoint:    v.GetString("email.endpoint"),
	}

	if cfg.Reminder.PollIntervalSecs <= 0 {
		return nil, fmt.Errorf("reminder.poll_interval_secs must be positive, got %d", cfg.Reminder.PollIntervalSecs)
	}
	if cfg.Reminder.Concurrency <= 0 {
		return nil, fmt.Errorf("reminder.concurrency must be positive, got %d", cfg.Reminder.Concurrency)
	}

	return cfg, nil
}

// splitList parses a comma-separated value, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
