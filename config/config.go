package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application-wide configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Session   SessionConfig   `mapstructure:"session"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	JotForm   JotFormConfig   `mapstructure:"jotform"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Port            int        `mapstructure:"port"`
	ForceHTTPS      bool       `mapstructure:"force_https"`
	TrustProxy      bool       `mapstructure:"trust_proxy"`
	TrustedProxies  []string   `mapstructure:"trusted_proxies"`
	MaxBodyBytes    int64      `mapstructure:"max_body_bytes"`
	MaxWebhookBytes int64      `mapstructure:"max_webhook_bytes"` // JotForm posts may carry uploads
	CORS            CORSConfig `mapstructure:"cors"`
}

// CORSConfig cross-origin settings.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig selects the primary store. Driver "sqlite" uses Path;
// driver "postgres" uses the connection fields.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	Timezone string `mapstructure:"timezone"`
	// Pool sizes apply to postgres only; sqlite always uses one connection.
	MaxOpenConns    int `mapstructure:"max_open_conns"`
	MaxIdleConns    int `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime"` // minutes
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// SessionConfig server-side session settings.
type SessionConfig struct {
	StorePath     string        `mapstructure:"store_path"`
	Secret        string        `mapstructure:"secret"`
	TTL           time.Duration `mapstructure:"ttl"`
	CookieName    string        `mapstructure:"cookie_name"`
	SameSite      string        `mapstructure:"same_site"`
	SweepSchedule string        `mapstructure:"sweep_schedule"`
}

// AdminConfig bootstrap credential for the single administrator.
type AdminConfig struct {
	DefaultUsername string `mapstructure:"default_username"`
	DefaultPassword string `mapstructure:"default_password"`
}

// RedisConfig optional Redis backend for rate limiting.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig limits for the authentication endpoints.
type RateLimitConfig struct {
	AuthLimit  int           `mapstructure:"auth_limit"`
	AuthWindow time.Duration `mapstructure:"auth_window"`
}

// JotFormConfig third-party callback settings.
type JotFormConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// LogConfig logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envAliases binds the short environment names used by deployments of the
// portal in addition to the PORTAL_ prefixed ones.
var envAliases = map[string]string{
	"server.port":               "PORT",
	"db.path":                   "DB_PATH",
	"session.store_path":        "SESSION_DB_PATH",
	"session.secret":            "SESSION_SECRET",
	"admin.default_password":    "ADMIN_DEFAULT_PASSWORD",
	"server.cors.allow_origins": "CORS_ORIGINS",
	"server.force_https":        "FORCE_HTTPS",
	"server.trust_proxy":        "TRUST_PROXY",
}

// Load reads configuration from defaults, an optional config file, a .env
// file and the environment.
// Precedence: environment > config file > defaults.
func Load(path string) (*Config, error) {
	// .env is optional; real environment variables are never overridden.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.force_https", false)
	v.SetDefault("server.trust_proxy", false)
	v.SetDefault("server.trusted_proxies", []string{"127.0.0.1", "::1"})
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.max_webhook_bytes", 16<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:4000"})

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "./data/ccrt-rsii.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "ccrt_portal")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("session.store_path", "./data/sessions.db")
	v.SetDefault("session.secret", "ccrt-rsii-dev-session-secret")
	v.SetDefault("session.ttl", "8h")
	v.SetDefault("session.cookie_name", "portal_session")
	v.SetDefault("session.same_site", "Lax")
	v.SetDefault("session.sweep_schedule", "@every 30m")

	v.SetDefault("admin.default_username", "admin")
	v.SetDefault("admin.default_password", "ChangeMe123!")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate_limit.auth_limit", 10)
	v.SetDefault("rate_limit.auth_window", "15m")

	v.SetDefault("jotform.webhook_secret", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, "PORTAL_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// CORS_ORIGINS arrives as a single comma separated string.
	cfg.Server.CORS.AllowOrigins = splitList(cfg.Server.CORS.AllowOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the server cannot run without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be within 1-65535")
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("invalid config: db.path must not be empty")
		}
	case "postgres":
	default:
		return fmt.Errorf("invalid config: db.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Session.StorePath == "" {
		return fmt.Errorf("invalid config: session.store_path must not be empty")
	}
	if len(c.Session.Secret) < 16 {
		return fmt.Errorf("invalid config: session.secret must be at least 16 characters")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("invalid config: session.ttl must be positive")
	}
	if c.Admin.DefaultUsername == "" || c.Admin.DefaultPassword == "" {
		return fmt.Errorf("invalid config: admin default credential must not be empty")
	}
	return nil
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
