package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port            string
	DBDSN           string
	UpstreamTimeout time.Duration

	// Collaborator base URLs (inside docker network recommended)
	CatalogURL string
	AuthURL    string

	// Optional infra; the service runs without either
	RedisAddr   string
	RabbitMQURL string

	// CORS
	CORSAllowOrigins []string
}

func Load() Config {
	cfg := Config{
		Port:            getenv("PORT", "8084"),
		DBDSN:           getenv("STOREFRONT_DB_DSN", ""),
		UpstreamTimeout: parseDuration(getenv("UPSTREAM_TIMEOUT", "5s"), 5*time.Second),

		CatalogURL: getenv("CATALOG_URL", "http://catalog-service-java:8086"),
		AuthURL:    getenv("AUTH_URL", "http://auth-service-go:8085"),

		RedisAddr:   getenv("REDIS_ADDR", ""),
		RabbitMQURL: getenv("RABBITMQ_URL", ""),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),
	}

	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
