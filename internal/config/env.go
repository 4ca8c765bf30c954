package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort       = "10000"
	defaultConfigFile = "config.yml"
)

type Env struct {
	AppAddr     string `yaml:"app_addr" validate:"required"`
	GinMode     string `yaml:"gin_mode" validate:"omitempty,oneof=debug release test"`
	DataDir     string `yaml:"data_dir" validate:"required"`
	RoutesSeed  string `yaml:"routes_seed"`
	StoreDriver string `yaml:"store_driver" validate:"oneof=file memory mysql sqlite"`
	DBDSN       string `yaml:"db_dsn"`

	Payment PaymentEnv `yaml:"payment"`
	Auth    AuthEnv    `yaml:"auth"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	LogLevel           string   `yaml:"log_level"`
	LogFormat          string   `yaml:"log_format" validate:"omitempty,oneof=text json"`
}

// PaymentEnv selects the payment processor. The provider variant has no
// built-in credential: URL and token must be supplied.
type PaymentEnv struct {
	Provider      string        `yaml:"provider" validate:"oneof=simulated provider"`
	ProviderURL   string        `yaml:"provider_url" validate:"required_if=Provider provider"`
	ProviderToken string        `yaml:"provider_token" validate:"required_if=Provider provider"`
	CardDelay     time.Duration `yaml:"card_delay" validate:"gte=0"`
	PSEDelay      time.Duration `yaml:"pse_delay" validate:"gte=0"`
}

// AuthEnv enables admin-only routes when JWTSecret is set.
type AuthEnv struct {
	JWTSecret         string        `yaml:"jwt_secret"`
	AdminUsername     string        `yaml:"admin_username" validate:"required_with=JWTSecret"`
	AdminPasswordHash string        `yaml:"admin_password_hash" validate:"required_with=JWTSecret"`
	TokenTTL          time.Duration `yaml:"token_ttl" validate:"gte=0"`
}

func (a AuthEnv) Enabled() bool { return a.JWTSecret != "" }

func (e Env) usesSQL() bool {
	return e.StoreDriver == "mysql" || e.StoreDriver == "sqlite"
}

func defaults() Env {
	return Env{
		AppAddr:     ":" + defaultPort,
		DataDir:     "data",
		RoutesSeed:  "assets/routes.json",
		StoreDriver: "file",
		Payment: PaymentEnv{
			Provider:  "simulated",
			CardDelay: 2 * time.Second,
			PSEDelay:  3 * time.Second,
		},
		Auth: AuthEnv{
			TokenTTL: 24 * time.Hour,
		},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LoadEnv builds the configuration from defaults, an optional YAML file and the
// environment (including a .env file), in that order of precedence.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()

	env := defaults()

	file := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	explicit := file != ""
	if !explicit {
		file = defaultConfigFile
	}
	if err := loadYAML(file, &env); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Env{}, err
		}
	}

	if err := applyEnv(&env); err != nil {
		return Env{}, err
	}

	if err := validator.New().Struct(env); err != nil {
		return Env{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if env.usesSQL() && strings.TrimSpace(env.DBDSN) == "" {
		return Env{}, fmt.Errorf("invalid configuration: DB_DSN is required for store driver %s", env.StoreDriver)
	}
	return env, nil
}

func loadYAML(path string, env *Env) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, env); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(env *Env) error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) error {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		env.AppAddr = ":" + port
	}
	setString("APP_ADDR", &env.AppAddr)
	setString("GIN_MODE", &env.GinMode)
	setString("DATA_DIR", &env.DataDir)
	setString("ROUTES_SEED", &env.RoutesSeed)
	setString("STORE_DRIVER", &env.StoreDriver)
	setString("DB_DSN", &env.DBDSN)

	setString("PAYMENT_PROVIDER", &env.Payment.Provider)
	setString("PAYMENT_PROVIDER_URL", &env.Payment.ProviderURL)
	setString("PAYMENT_PROVIDER_TOKEN", &env.Payment.ProviderToken)
	if err := setDuration("PAYMENT_CARD_DELAY", &env.Payment.CardDelay); err != nil {
		return err
	}
	if err := setDuration("PAYMENT_PSE_DELAY", &env.Payment.PSEDelay); err != nil {
		return err
	}

	setString("JWT_SECRET", &env.Auth.JWTSecret)
	setString("ADMIN_USERNAME", &env.Auth.AdminUsername)
	setString("ADMIN_PASSWORD_HASH", &env.Auth.AdminPasswordHash)
	if err := setDuration("JWT_TTL", &env.Auth.TokenTTL); err != nil {
		return err
	}

	if origins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); origins != "" {
		env.CORSAllowedOrigins = env.CORSAllowedOrigins[:0]
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				env.CORSAllowedOrigins = append(env.CORSAllowedOrigins, o)
			}
		}
	}

	setString("LOG_LEVEL", &env.LogLevel)
	setString("LOG_FORMAT", &env.LogFormat)
	return nil
}
