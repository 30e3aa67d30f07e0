package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type MySQLConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type SMTPConfig struct {
	Host      string
	Port      int
	Address   string
	Password  string
	Recipient string
}

type Config struct {
	Addr             string
	StaticDir        string
	CORSAllowOrigins string

	// Número de WhatsApp del negocio (destino de wa.me).
	WhatsAppPhone string

	BunnyPullBaseURL string
	BunnyStorageZone string
	BunnyStorageKey  string
	QuoteMaxImageMB  int

	RecaptchaSecretKey string
	RecaptchaMinScore  float64

	OpenAIAPIKey string
	OpenAIModel  string
	OpenAIUseGPT bool

	GeocodeBaseURL string
	GeocodeTimeout time.Duration

	JWTSecret         string
	AdminUser         string
	AdminPassword     string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	StatsPushInterval time.Duration

	SMTP  SMTPConfig
	MySQL MySQLConfig
}

func Load() Config {
	port := getenv("PORT", "8080")

	return Config{
		Addr:             ":" + port,
		StaticDir:        os.Getenv("STATIC_DIR"),
		CORSAllowOrigins: os.Getenv("CORS_ALLOW_ORIGINS"),

		WhatsAppPhone: getenv("WHATSAPP_PHONE", "573157484662"),

		BunnyPullBaseURL: getenv("BUNNY_PULL_BASE_URL", "https://dh2ocolmedia.b-cdn.net"),
		BunnyStorageZone: getenv("BUNNY_STORAGE_ZONE", "dh2ocol"),
		BunnyStorageKey:  os.Getenv("BUNNY_STORAGE_ACCESS_KEY"),
		QuoteMaxImageMB:  getenvInt("QUOTE_MAX_IMAGE_MB", 8, 1, 32),

		RecaptchaSecretKey: os.Getenv("RECAPTCHA_SECRET_KEY"),
		RecaptchaMinScore:  getenvFloat("RECAPTCHA_MIN_SCORE", 0.5),

		OpenAIAPIKey: strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:  getenv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIUseGPT: getenvBool("CHATBOT_USE_GPT", false),

		GeocodeBaseURL: getenv("GEOCODE_BASE_URL", "https://api.bigdatacloud.net/data/reverse-geocode-client"),
		GeocodeTimeout: time.Duration(getenvInt("GEOCODE_TIMEOUT_SECONDS", 8, 1, 60)) * time.Second,

		JWTSecret:         getenv("JWT_SECRET_KEY", "jwt-secret-key-change-in-production"),
		AdminUser:         getenv("ADMIN_USER", "admin"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AccessTokenTTL:    time.Duration(getenvInt("ACCESS_TOKEN_TTL_MINUTES", 60, 1, 24*60)) * time.Minute,
		RefreshTokenTTL:   time.Duration(getenvInt("REFRESH_TOKEN_TTL_DAYS", 30, 1, 365)) * 24 * time.Hour,
		StatsPushInterval: time.Duration(getenvInt("STATS_PUSH_SECONDS", 30, 5, 600)) * time.Second,

		SMTP: SMTPConfig{
			Host:      getenv("SMTP_HOST", "smtp.gmail.com"),
			Port:      getenvInt("SMTP_PORT", 587, 1, 65535),
			Address:   os.Getenv("SMTP_ADDRESS"),
			Password:  os.Getenv("SMTP_PASSWORD"),
			Recipient: getenv("QUOTE_RECIPIENT", "dh2ocol@gmail.com"),
		},
		MySQL: MySQLConfig{
			Host:     getenv("DB_HOST", "127.0.0.1"),
			Port:     getenv("DB_PORT", "3306"),
			User:     getenv("DB_USER", "dh2ocol"),
			Password: getenv("DB_PASSWORD", "dh2ocol"),
			DBName:   getenv("DB_NAME", "dh2ocol"),
		},
	}
}

func getenv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getenvInt(key string, fallback int, min int, max int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if min > 0 && v < min {
		return fallback
	}
	if max > 0 && v > max {
		return fallback
	}
	return v
}

func getenvFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getenvBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
