package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env             string        `mapstructure:"ENV"`
	Port            string        `mapstructure:"PORT"`
	AdminKey        string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed     string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	MaxUploadSizeMB int64         `mapstructure:"MAX_UPLOAD_MB"`

	AIProvider        string        `mapstructure:"AI_PROVIDER"`
	AIModel           string        `mapstructure:"AI_MODEL"`
	GeminiAPIKey      string        `mapstructure:"GEMINI_API_KEY"`
	GeminiBaseURL     string        `mapstructure:"GEMINI_BASE_URL"`
	OpenAIAPIKey      string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL     string        `mapstructure:"OPENAI_BASE_URL"`
	ClassifierTimeout time.Duration `mapstructure:"CLASSIFIER_TIMEOUT"`

	SeedDemoData bool `mapstructure:"SEED_DEMO_DATA"`

	RedisAddress      string `mapstructure:"REDIS_ADDRESS"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	ReportLimitPerDay int    `mapstructure:"REPORT_LIMIT_PER_DAY"`

	AuthJWTSecret string `mapstructure:"AUTH_JWT_SECRET"`

	GeocoderBaseURL   string `mapstructure:"GEOCODER_BASE_URL"`
	GeocoderUserAgent string `mapstructure:"GEOCODER_USER_AGENT"`
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("ADMIN_KEY", "")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_MB", 20)

	v.SetDefault("AI_PROVIDER", ProviderGemini)
	v.SetDefault("AI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("CLASSIFIER_TIMEOUT", "20s")

	v.SetDefault("SEED_DEMO_DATA", true)

	v.SetDefault("REDIS_ADDRESS", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REPORT_LIMIT_PER_DAY", 20)

	v.SetDefault("AUTH_JWT_SECRET", "")

	v.SetDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODER_USER_AGENT", "maintain-ai-backend")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.AIProvider = strings.ToLower(strings.TrimSpace(cfg.AIProvider))
	return cfg, nil
}

// CORSOrigins splits the comma separated allow list.
func (c Config) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowed, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
