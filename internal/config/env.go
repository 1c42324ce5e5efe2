package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Env struct {
	AppAddr  string `yaml:"app_addr"`
	GinMode  string `yaml:"gin_mode"`
	LogLevel string `yaml:"log_level"`

	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBName     string `yaml:"db_name"`

	JWTSecret          string        `yaml:"jwt_secret"`
	TokenTTL           time.Duration `yaml:"token_ttl"`
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout"`

	UploadDir     string `yaml:"upload_dir"`
	PublicBaseURL string `yaml:"public_base_url"`

	StoreName      string   `yaml:"store_name"`
	WhatsAppNumber string   `yaml:"whatsapp_number"`
	AllowedOrigins []string `yaml:"cors_allowed_origins"`
}

func defaultEnv() Env {
	return Env{
		AppAddr:            ":8080",
		LogLevel:           "info",
		DBUser:             "root",
		DBHost:             "127.0.0.1:3306",
		DBName:             "storefront",
		JWTSecret:          "change-me",
		TokenTTL:           24 * time.Hour,
		SessionIdleTimeout: 30 * time.Minute,
		UploadDir:          "./uploads",
		PublicBaseURL:      "http://localhost:8080",
		StoreName:          "Teejay Don Collections",
		WhatsAppNumber:     "2347031056948",
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
	}
}

// LoadEnv builds the runtime config: defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func LoadEnv() (Env, error) {
	env := defaultEnv()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return env, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &env); err != nil {
			return env, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(&env, os.Getenv); err != nil {
		return env, err
	}
	return env, nil
}

func applyEnvOverrides(env *Env, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", key, v)
		}
		*dst = d
		return nil
	}

	str("APP_ADDR", &env.AppAddr)
	str("GIN_MODE", &env.GinMode)
	str("LOG_LEVEL", &env.LogLevel)
	str("DB_USER", &env.DBUser)
	str("DB_PASSWORD", &env.DBPassword)
	str("DB_HOST", &env.DBHost)
	str("DB_NAME", &env.DBName)
	str("JWT_SECRET", &env.JWTSecret)
	str("UPLOAD_DIR", &env.UploadDir)
	str("PUBLIC_BASE_URL", &env.PublicBaseURL)
	str("STORE_NAME", &env.StoreName)
	str("WHATSAPP_NUMBER", &env.WhatsAppNumber)

	if err := dur("TOKEN_TTL", &env.TokenTTL); err != nil {
		return err
	}
	if err := dur("SESSION_IDLE_TIMEOUT", &env.SessionIdleTimeout); err != nil {
		return err
	}

	if v := strings.TrimSpace(getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		origins := []string{}
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		env.AllowedOrigins = origins
	}
	return nil
}

// DSN renders the MySQL connection string for this environment.
func (e Env) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=Local&charset=utf8mb4&clientFoundRows=true&timeout=5s&readTimeout=30s&writeTimeout=30s",
		e.DBUser,
		e.DBPassword,
		e.DBHost,
		e.DBName,
	)
}
