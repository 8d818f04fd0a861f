package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env                string        `mapstructure:"env"`                 // current application environment (local, dev, prod etc)
	HTTPAddr           string        `mapstructure:"http_addr"`           // listen address for the API server
	JWTSecret          string        `mapstructure:"-"`                   // signing secret loaded from environment
	AccessTokenExpiry  time.Duration `mapstructure:"access_token_expiry"` // lifetime of issued bearer tokens
	GoogleAPIKey       string        `mapstructure:"-"`                   // Gemini API key loaded from environment
	OpenAIAPIKey       string        `mapstructure:"-"`                   // Whisper API key loaded from environment
	GenerationModel    string        `mapstructure:"generation_model"`    // default Gemini model for agents
	RegenerationModel  string        `mapstructure:"regeneration_model"`  // stronger model used after negative feedback
	TranscriptionModel string        `mapstructure:"transcription_model"` // Whisper model name
	CORSOrigins        []string      `mapstructure:"cors_origins"`        // allowed browser origins
	RefreshSweepSpec   string        `mapstructure:"refresh_sweep_spec"`  // cron spec for the roadmap refresh sweep
	DB                 DB            `mapstructure:"database"`            // database configuration section
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("http_addr", ":8000")
	v.SetDefault("access_token_expiry", "24h")
	v.SetDefault("generation_model", "gemini-2.5-flash-lite")
	v.SetDefault("regeneration_model", "gemini-2.5-pro")
	v.SetDefault("transcription_model", "whisper-1")
	v.SetDefault("cors_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("refresh_sweep_spec", "0 * * * *")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("google_api_key", "GOOGLE_API_KEY")
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.JWTSecret = v.GetString("jwt_secret")
	if cfg.JWTSecret == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	// Model API keys are optional: agents fall back to deterministic
	// output when no key is configured.
	cfg.GoogleAPIKey = v.GetString("google_api_key")
	cfg.OpenAIAPIKey = v.GetString("openai_api_key")

	return &cfg, nil
}
