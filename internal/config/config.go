package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Energy   EnergyConfig   `mapstructure:"energy"`
	LLM      LLMConfig      `mapstructure:"llm"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// EnergyConfig tunes the scoring engine and energy log retention. Zero
// values fall back to engine defaults.
type EnergyConfig struct {
	BonusRate            float64 `mapstructure:"bonus_rate" validate:"omitempty,gt=0,lte=1"`
	PatternWindowDays    int     `mapstructure:"pattern_window_days" validate:"omitempty,gt=0"`
	RetentionDays        int     `mapstructure:"retention_days" validate:"omitempty,gt=0"`
	CleanupIntervalHours int     `mapstructure:"cleanup_interval_hours" validate:"omitempty,gt=0"`
}

// LLMConfig contains settings for the optional weekly summary generator.
// An empty API key disables the feature.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name"`
}
