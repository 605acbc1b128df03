package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const (
	EnvPrefix        = "DASHBOARD"
	MinJWTSecretLen  = 32
	defaultNamespace = "dashboard"
)

var (
	ErrMissingDatabaseURL = errors.New("DASHBOARD_DATABASE_URL is required")
	ErrWeakJWTSecret      = fmt.Errorf("DASHBOARD_JWT_SECRET must be at least %d characters", MinJWTSecretLen)
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	ErrorSink ErrorSinkConfig `mapstructure:"error_sink"`
	Mail      MailConfig      `mapstructure:"mail"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Seed      SeedConfig      `mapstructure:"seed"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	HSTS            bool          `mapstructure:"hsts"`
	StreamHeartbeat time.Duration `mapstructure:"stream_heartbeat"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig is optional; an empty URL keeps tokens and notices in process.
type RedisConfig struct {
	URL      string `mapstructure:"url"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"ttl"`
	// ResetTTL bounds how long a mailed reset link stays valid.
	ResetTTL time.Duration `mapstructure:"reset_ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ErrorSinkConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// MailConfig selects SMTP delivery when Host is set; otherwise mail is
// only logged.
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	UseTLS   bool   `mapstructure:"use_tls"`
	ResetURL string `mapstructure:"reset_url"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

type SeedConfig struct {
	Count int    `mapstructure:"count"`
	Seed  uint64 `mapstructure:"seed"`
}

// secrets are read straight from the environment so they never need to sit
// in a config file.
type secrets struct {
	DatabaseURL string `envconfig:"DATABASE_URL"`
	JWTSecret   string `envconfig:"JWT_SECRET"`
	RedisURL    string `envconfig:"REDIS_URL"`
	SMTPPass    string `envconfig:"SMTP_PASSWORD"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.hsts", true)
	v.SetDefault("server.stream_heartbeat", 25*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "practice-dashboard")
	v.SetDefault("jwt.ttl", 12*time.Hour)
	v.SetDefault("jwt.reset_ttl", time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("error_sink.enabled", false)
	v.SetDefault("error_sink.path", "logs/errors.log")
	v.SetDefault("error_sink.max_size_mb", 50)
	v.SetDefault("error_sink.max_backups", 5)
	v.SetDefault("error_sink.max_age_days", 30)

	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "no-reply@practice-dashboard.local")
	v.SetDefault("mail.use_tls", false)
	v.SetDefault("mail.reset_url", "http://localhost:3000/reset-password")

	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("rate_limit.rps", 20)
	v.SetDefault("rate_limit.burst", 40)

	v.SetDefault("metrics.namespace", defaultNamespace)

	v.SetDefault("seed.count", 25)
	v.SetDefault("seed.seed", 42)
}

// Load reads path (optional; a missing file is fine), then the environment.
// DASHBOARD_SERVER_PORT overrides server.port and so on; the secrets above
// override whatever the file says.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env secrets
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.applySecrets(env)

	if strings.TrimSpace(cfg.Database.URL) == "" {
		return nil, ErrMissingDatabaseURL
	}
	return &cfg, nil
}

func (c *Config) applySecrets(env secrets) {
	if env.DatabaseURL != "" {
		c.Database.URL = env.DatabaseURL
	}
	if env.JWTSecret != "" {
		c.JWT.Secret = env.JWTSecret
	}
	if env.RedisURL != "" {
		c.Redis.URL = env.RedisURL
	}
	if env.SMTPPass != "" {
		c.Mail.Password = env.SMTPPass
	}
}

// ValidateServe checks what the HTTP server needs beyond the database.
func (c *Config) ValidateServe() error {
	if len(c.JWT.Secret) < MinJWTSecretLen {
		return ErrWeakJWTSecret
	}
	return nil
}
