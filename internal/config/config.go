package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Session    SessionConfig    `mapstructure:"session"`
	Relay      RelayConfig      `mapstructure:"relay"`
	SMTP       SMTPConfig       `mapstructure:"smtp"`
	Practice   PracticeConfig   `mapstructure:"practice"`
	Document   DocumentConfig   `mapstructure:"document"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	PublicBaseURL   string        `mapstructure:"public_base_url"`
}

type LoggingConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	File   LogFileConfig `mapstructure:"file"`
}

type LogFileConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// SessionConfig selects where open intake flows live. "memory" keeps them in
// process; "redis" shares them between replicas.
type SessionConfig struct {
	Store       string        `mapstructure:"store"`
	TTL         time.Duration `mapstructure:"ttl"`
	DownloadTTL time.Duration `mapstructure:"download_ttl"`
	Redis       RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`

	// EncryptionKey is a base64 AES key. When set, stored sessions and
	// downloads are sealed with AES-GCM.
	EncryptionKey string `mapstructure:"encryption_key"`
}

// RelayConfig identifies the HTTP email relay. Missing identity values mean
// the relay is not configured, which is a valid state.
type RelayConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	ServiceID       string        `mapstructure:"service_id"`
	TemplateID      string        `mapstructure:"template_id"`
	PublicKey       string        `mapstructure:"public_key"`
	PrivateKey      string        `mapstructure:"private_key"`
	MaxPayloadBytes int           `mapstructure:"max_payload_bytes"`
	Timeout         time.Duration `mapstructure:"timeout"`
	BreakerFailures int           `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

// Configured reports whether all three identity values are present.
func (c RelayConfig) Configured() bool {
	return c.ServiceID != "" && c.TemplateID != "" && c.PublicKey != ""
}

// SMTPConfig is the alternative relay. It is used only when host is set and
// the HTTP relay is not configured.
type SMTPConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from"`
	FromName string        `mapstructure:"from_name"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.From != ""
}

type PracticeConfig struct {
	Name         string `mapstructure:"name"`
	Tagline      string `mapstructure:"tagline"`
	Phone        string `mapstructure:"phone"`
	AddressLine1 string `mapstructure:"address_line1"`
	AddressLine2 string `mapstructure:"address_line2"`
	IntakeEmail  string `mapstructure:"intake_email"`
	Region       string `mapstructure:"region"`
}

type DocumentConfig struct {
	FilenamePrefix string `mapstructure:"filename_prefix"`
	Timezone       string `mapstructure:"timezone"`
}

type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	SubmitPerMinute   float64       `mapstructure:"submit_per_minute"`
	IdleTTL           time.Duration `mapstructure:"idle_ttl"`
}

type MonitoringConfig struct {
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	Namespace      string `mapstructure:"namespace"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.public_base_url", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.enabled", false)
	v.SetDefault("logging.file.path", "logs/intake-api.log")
	v.SetDefault("logging.file.max_size_mb", 50)
	v.SetDefault("logging.file.max_backups", 5)
	v.SetDefault("logging.file.max_age_days", 14)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("session.store", "memory")
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.download_ttl", 30*time.Minute)
	v.SetDefault("session.redis.addr", "localhost:6379")
	v.SetDefault("session.redis.password", "")
	v.SetDefault("session.redis.db", 0)
	v.SetDefault("session.redis.prefix", "intake:")
	v.SetDefault("session.redis.encryption_key", "")

	// Every key needs a default so AutomaticEnv can override it on Unmarshal.
	v.SetDefault("relay.service_id", "")
	v.SetDefault("relay.template_id", "")
	v.SetDefault("relay.public_key", "")
	v.SetDefault("relay.private_key", "")
	v.SetDefault("relay.endpoint", "https://api.emailjs.com/api/v1.0/email/send")
	v.SetDefault("relay.max_payload_bytes", 50*1024)
	v.SetDefault("relay.timeout", 20*time.Second)
	v.SetDefault("relay.breaker_failures", 5)
	v.SetDefault("relay.breaker_timeout", time.Minute)

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.from_name", "Life Balance Intake")
	v.SetDefault("smtp.timeout", 20*time.Second)

	v.SetDefault("practice.name", "Life Balance")
	v.SetDefault("practice.tagline", "Psychiatric Care & Wellness")
	v.SetDefault("practice.phone", "(662) 640-4004")
	v.SetDefault("practice.address_line1", "405 Galleria Drive, Suite E")
	v.SetDefault("practice.address_line2", "Oxford, MS 38655")
	v.SetDefault("practice.intake_email", "jamesburge.mcm@gmail.com")
	v.SetDefault("practice.region", "US")

	v.SetDefault("document.filename_prefix", "Life-Balance-Intake")
	v.SetDefault("document.timezone", "America/Chicago")

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_second", 10)
	v.SetDefault("ratelimit.burst", 30)
	v.SetDefault("ratelimit.submit_per_minute", 3)
	v.SetDefault("ratelimit.idle_ttl", 10*time.Minute)

	v.SetDefault("monitoring.metrics_enabled", true)
	v.SetDefault("monitoring.namespace", "intake")
}

// LoadConfig reads config.yaml from the usual locations and applies INTAKE_
// environment overrides. A missing file is not an error; defaults apply.
func LoadConfig() (*Config, error) {
	return Load(viper.New(), "")
}

// Load reads configuration into v. A non-empty path names the file explicitly.
func Load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/app/config")
	}

	v.SetEnvPrefix("INTAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("session.store must be memory or redis, got %q", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.Relay.MaxPayloadBytes <= 0 {
		return fmt.Errorf("relay.max_payload_bytes must be positive")
	}
	return nil
}
