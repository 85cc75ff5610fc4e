package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Env        string
	Port       string
	DBDriver   string // sqlite | pgx
	DBDSN      string
	LogLevel   string
	LogFormat  string // json | console
	LogFile    string
	CORSOrigin string
	LoginLimit int // login attempts per IP per 10 minutes

	JWTSecret     string
	JWTExpiration int // minutes
	JWTIssuer     string

	AdminEmail    string
	AdminName     string
	AdminPassword string
}

func (c Config) Production() bool { return c.Env == "production" }

// Load reads .env / config.env when present; environment variables win.
func Load() (Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "palletbay.db") // sqlite file in project root
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOGIN_RATE_LIMIT", 5)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION_MINUTES", 60)
	v.SetDefault("JWT_ISSUER", "palletbay")
	v.SetDefault("ADMIN_EMAIL", "admin@palletbay.local")
	v.SetDefault("ADMIN_NAME", "Admin")
	v.SetDefault("ADMIN_PASSWORD", "")

	cfg := Config{
		Env:           v.GetString("APP_ENV"),
		Port:          v.GetString("PORT"),
		DBDriver:      strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:         v.GetString("DB_DSN"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     strings.ToLower(v.GetString("LOG_FORMAT")),
		LogFile:       v.GetString("LOG_FILE"),
		CORSOrigin:    v.GetString("CORS_ORIGINS"),
		LoginLimit:    v.GetInt("LOGIN_RATE_LIMIT"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTExpiration: v.GetInt("JWT_EXPIRATION_MINUTES"),
		JWTIssuer:     v.GetString("JWT_ISSUER"),
		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminName:     v.GetString("ADMIN_NAME"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
	}
	err := cfg.validate()
	return cfg, err
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "pgx":
	default:
		return errors.New("config: DB_DRIVER must be sqlite or pgx")
	}
	if c.LoginLimit <= 0 {
		c.LoginLimit = 5
	}
	if c.JWTExpiration <= 0 {
		c.JWTExpiration = 60
	}
	if c.Production() {
		if c.JWTSecret == "" {
			return errors.New("config: JWT_SECRET is required in production")
		}
		if c.AdminPassword == "" {
			return errors.New("config: ADMIN_PASSWORD is required in production")
		}
		return nil
	}
	// Development fallbacks so the service starts out of the box.
	if c.JWTSecret == "" {
		c.JWTSecret = "dev-secret-change-me"
	}
	if c.AdminPassword == "" {
		c.AdminPassword = "Admin123!"
	}
	return nil
}
