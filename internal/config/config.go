package config

import "os"

type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins string
}

type AuthConfig struct {
	SecretKey           string
	Algorithm           string
	AccessExpireMinutes string
	RefreshExpireDays   string
}

type RateLimitConfig struct {
	WindowSeconds string
	MaxRequests   string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type RedisConfig struct {
	URL      string
	Password string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getenv("PORT", "8080"),
			AllowedOrigins: os.Getenv("CORS_ALLOWED_ORIGINS"),
		},
		Auth: AuthConfig{
			SecretKey:           os.Getenv("SECRET_KEY"),
			Algorithm:           getenv("JWT_ALGORITHM", "HS256"),
			AccessExpireMinutes: getenv("ACCESS_TOKEN_EXPIRE_MINUTES", "15"),
			RefreshExpireDays:   getenv("REFRESH_TOKEN_EXPIRE_DAYS", "7"),
		},
		RateLimit: RateLimitConfig{
			WindowSeconds: getenv("RATE_LIMIT_WINDOW_SECONDS", "600"),
			MaxRequests:   getenv("RATE_LIMIT_MAX_REQUESTS", "100"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      os.Getenv("REDIS_URL"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
