package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Settings struct {
	AppEnv      string
	Port        string
	DatabaseDSN string
	JWTSecret   string
	LogLevel    string
	CorsOrigins []string
	AutoMigrate bool

	RendererURL         string
	RendererTimeout     time.Duration
	RendererMaxAttempts int

	SiteTitle               string
	CertificateNumberPrefix string

	// FailModuleOnExhaustedAttempts moves a module to FAILED once every
	// attempt of its required quiz is used without a pass.
	FailModuleOnExhaustedAttempts bool
}

func LoadSettings() *Settings {
	if err := godotenv.Load(); err != nil {
		Log.Debug(".env file not found, using process environment")
	}

	return &Settings{
		AppEnv:      getEnv("APP_ENV", "production"),
		Port:        getEnv("PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CorsOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		AutoMigrate: getBool("AUTO_MIGRATE", false),

		RendererURL:         getEnv("RENDERER_URL", "http://localhost:9000"),
		RendererTimeout:     getDuration("RENDERER_TIMEOUT", 10*time.Second),
		RendererMaxAttempts: getInt("RENDERER_MAX_ATTEMPTS", 3),

		SiteTitle:               getEnv("SITE_TITLE", "Learnpath"),
		CertificateNumberPrefix: getEnv("CERTIFICATE_NUMBER_PREFIX", "CERT"),

		FailModuleOnExhaustedAttempts: getBool("MODULE_FAIL_ON_EXHAUSTED_ATTEMPTS", false),
	}
}

func (s *Settings) IsDevelopment() bool {
	return s.AppEnv == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
