package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups the application configuration (read through Viper from env and optional files).
type Config struct {
	App     AppConfig
	DB      DBConfig
	Auth    AuthConfig
	HTTP    HTTPConfig
	Storage StorageConfig
	Mail    MailConfig
	PDF     PDFConfig
}

// AppConfig general application settings.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	Brand    string // partition key applied to funds and profiles
	LogLevel string
}

// DBConfig PostgreSQL settings.
// When DatabaseURL is set it is used as the full connection string.
type DBConfig struct {
	Driver      string // postgres | memory (development only)
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// ConnectionString returns DATABASE_URL when present, otherwise the DSN built from parts.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN builds the PostgreSQL connection string, URL-encoding the credentials.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// AuthConfig bearer token verification. JWKSURL wins over JWTSecret when both are set.
type AuthConfig struct {
	JWTSecret          string
	JWKSURL            string
	Issuer             string
	SystemAdminEmails  []string
	TokenExpireMinutes int
}

// IsSystemAdmin reports whether email is in the system admin allowlist.
func (c AuthConfig) IsSystemAdmin(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, e := range c.SystemAdminEmails {
		if e == email {
			return true
		}
	}
	return false
}

// HTTPConfig HTTP server settings.
type HTTPConfig struct {
	Host      string
	Port      int
	PublicURL string // origin used in links to the API (local file URLs)
	CORS      string // allowed origins, comma separated
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig object storage for generated PDFs.
type StorageConfig struct {
	Driver          string // gcs | local
	Bucket          string
	CredentialsFile string
	LocalDir        string
	SigningSecret   string // local driver only, defaults to AUTH_JWT_SECRET
	SignedURLTTL    time.Duration
}

// PDFConfig TrueType fonts embedded in rendered documents. Without them Hangul is not drawn.
type PDFConfig struct {
	FontFamily  string
	FontRegular string
	FontBold    string
}

// MailConfig SMTP delivery.
type MailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AdminTo  string
}

// Load reads the configuration from environment variables (and optionally from files).
// Env vars take precedence. Expected names: APP_ENV, DB_HOST, AUTH_JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // optional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "angel-club-api"),
			Brand:    getString(v, "APP_BRAND", "snusv"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Driver:      getString(v, "DB_DRIVER", "postgres"),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "angel_club"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", false),
		},
		Auth: AuthConfig{
			JWTSecret:          getString(v, "AUTH_JWT_SECRET", ""),
			JWKSURL:            getString(v, "AUTH_JWKS_URL", ""),
			Issuer:             getString(v, "AUTH_ISSUER", "angel-club"),
			SystemAdminEmails:  splitList(getString(v, "SYSTEM_ADMIN_EMAILS", "")),
			TokenExpireMinutes: getInt(v, "AUTH_TOKEN_EXPIRE_MINUTES", 60),
		},
		HTTP: HTTPConfig{
			Host:      getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:      getInt(v, "HTTP_PORT", 8080),
			PublicURL: getString(v, "HTTP_PUBLIC_URL", "http://localhost:8080"),
			CORS:      getString(v, "CORS_ALLOW_ORIGINS", "*"),
		},
		Storage: StorageConfig{
			Driver:          getString(v, "STORAGE_DRIVER", "local"),
			Bucket:          getString(v, "STORAGE_BUCKET", ""),
			CredentialsFile: getString(v, "GOOGLE_APPLICATION_CREDENTIALS", ""),
			LocalDir:        getString(v, "STORAGE_LOCAL_DIR", "./data/storage"),
			SignedURLTTL:    time.Duration(getInt(v, "STORAGE_SIGNED_URL_TTL_MINUTES", 10)) * time.Minute,
		},
		Mail: MailConfig{
			Enabled:  getBool(v, "MAIL_ENABLED", false),
			Host:     getString(v, "SMTP_HOST", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			Username: getString(v, "SMTP_USERNAME", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "MAIL_FROM", ""),
			AdminTo:  getString(v, "MAIL_ADMIN_TO", ""),
		},
		PDF: PDFConfig{
			FontFamily:  getString(v, "PDF_FONT_FAMILY", "nanum"),
			FontRegular: getString(v, "PDF_FONT_REGULAR", ""),
			FontBold:    getString(v, "PDF_FONT_BOLD", ""),
		},
	}

	if cfg.Auth.JWTSecret == "" && cfg.Auth.JWKSURL == "" {
		return nil, fmt.Errorf("config: AUTH_JWT_SECRET or AUTH_JWKS_URL is required")
	}
	cfg.Storage.SigningSecret = getString(v, "STORAGE_SIGNING_SECRET", cfg.Auth.JWTSecret)
	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "memory" {
		return nil, fmt.Errorf("config: unknown DB_DRIVER %q", cfg.DB.Driver)
	}
	switch cfg.Storage.Driver {
	case "local":
		if cfg.Storage.SigningSecret == "" {
			return nil, fmt.Errorf("config: STORAGE_SIGNING_SECRET is required for the local driver")
		}
	case "gcs":
		if cfg.Storage.Bucket == "" {
			return nil, fmt.Errorf("config: STORAGE_BUCKET is required for the gcs driver")
		}
	default:
		return nil, fmt.Errorf("config: unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
