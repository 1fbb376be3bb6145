package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	// Document store
	DBUrl             string
	DocstoreDriver    string // postgres | memory
	ReadRetryAttempts int

	// Supabase Auth
	SupabaseUrl       string
	SupabaseKey       string
	SupabaseJWTSecret string

	FrontendURL    string
	AllowedOrigins []string

	GoogleMapsAPIKey string

	// Object storage (S3-compatible)
	StorageProvider  string
	StorageEndpoint  string
	StorageRegion    string
	StorageBucket    string
	StorageAccessKey string
	StorageSecretKey string
	StoragePublicURL string

	RedisURL      string
	RedisPassword string

	// MenuDraftTTL bounds how long an unsaved menu builder session survives.
	MenuDraftTTL time.Duration

	RateLimitWindowSeconds int
	RateLimitAuthThreshold int
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DOCSTORE_DRIVER", DriverPostgres)
	v.SetDefault("READ_RETRY_ATTEMPTS", 3)
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("STORAGE_PROVIDER", "aws")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("MENU_DRAFT_TTL", "24h")
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("RATE_LIMIT_AUTH_THRESHOLD", 10)
}

func LoadConfig() (*Config, error) {
	// Local only; production sets the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Port:      v.GetString("PORT"),
		Env:       v.GetString("APP_ENV"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		DBUrl:             v.GetString("DATABASE_URL"),
		DocstoreDriver:    strings.ToLower(v.GetString("DOCSTORE_DRIVER")),
		ReadRetryAttempts: v.GetInt("READ_RETRY_ATTEMPTS"),

		// Trailing slashes would produce ".co//auth".
		SupabaseUrl:       strings.TrimRight(v.GetString("SUPABASE_URL"), "/"),
		SupabaseKey:       firstSet(v, "SUPABASE_KEY", "SUPABASE_ANON_KEY"),
		SupabaseJWTSecret: firstSet(v, "SUPABASE_JWT_SECRET", "SUPABASE_JWT_KEY"),

		FrontendURL:    strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),

		GoogleMapsAPIKey: v.GetString("GOOGLE_MAPS_API_KEY"),

		StorageProvider:  v.GetString("STORAGE_PROVIDER"),
		StorageEndpoint:  v.GetString("STORAGE_ENDPOINT"),
		StorageRegion:    v.GetString("STORAGE_REGION"),
		StorageBucket:    v.GetString("STORAGE_BUCKET"),
		StorageAccessKey: v.GetString("STORAGE_ACCESS_KEY_ID"),
		StorageSecretKey: v.GetString("STORAGE_SECRET_ACCESS_KEY"),
		StoragePublicURL: v.GetString("STORAGE_PUBLIC_URL"),

		RedisURL:      firstSet(v, "REDIS_URL", "UPSTASH_REDIS_URL"),
		RedisPassword: firstSet(v, "REDIS_PASSWORD", "UPSTASH_REDIS_PASSWORD"),

		MenuDraftTTL: v.GetDuration("MENU_DRAFT_TTL"),

		RateLimitWindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		RateLimitAuthThreshold: v.GetInt("RATE_LIMIT_AUTH_THRESHOLD"),
	}

	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{cfg.FrontendURL}
	}
	if cfg.DocstoreDriver != DriverMemory {
		cfg.DocstoreDriver = DriverPostgres
	}

	if cfg.DocstoreDriver == DriverPostgres && cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting and menu builder sessions will use in-memory fallback.")
	}
	if cfg.GoogleMapsAPIKey == "" {
		log.Println("WARNING: GOOGLE_MAPS_API_KEY not configured. Addresses will be stored without coordinates.")
	}
	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func firstSet(v *viper.Viper, keys ...string) string {
	for _, k := range keys {
		if s := v.GetString(k); s != "" {
			return s
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimRight(strings.TrimSpace(part), "/"); part != "" {
			out = append(out, part)
		}
	}
	return out
}
