package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/vytor/flashy/internal/logger"
)

type Config struct {
	Addr      string `mapstructure:"addr" validate:"required"`
	DBDriver  string `mapstructure:"db_driver" validate:"required,oneof=sqlite3 postgres"`
	DBPath    string `mapstructure:"db_path" validate:"required"`
	LogLevel  string `mapstructure:"log_level" validate:"loglevel"`
	ExportDir string `mapstructure:"export_dir" validate:"required"`
}

var defaults = map[string]any{
	"addr":       ":8080",
	"db_driver":  "sqlite3",
	"db_path":    "file:flashy.db",
	"log_level":  "INFO",
	"export_dir": "exports",
}

// Load reads configuration from a .env file (if present), an optional flashy.yaml
// and environment variables, in increasing order of precedence.
func Load() (Config, error) {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	v := viper.New()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}
	v.SetConfigName("flashy")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("mapstructure")
		if name == "" {
			return f.Name
		}
		return strings.ToUpper(name)
	})
	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, ok := logger.LookupLevel(fl.Field().String())
		return ok
	})
	return validate
}

// Validate checks every field and reports all problems in a single error.
func (c Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s cannot be empty", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value()))
		case "loglevel":
			msgs = append(msgs, fmt.Sprintf("%s must be one of DEBUG, INFO, WARN, ERROR, got %q", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
