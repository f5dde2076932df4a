package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Cart     CartConfig
	Session  SessionConfig
	Redis    RedisConfig
	CORS     CORSConfig
	S3       S3Config
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

// UpstreamConfig points at the SAASCOM REST API the gateway fronts.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CartConfig carries the synchronizer policy switches.
// IncrementViaAdd: "cart_view" restricts increment-through-add to requests
// originating from the cart view; "always" allows it anywhere.
// OnMutationFailure: "refetch" reconciles with a reload after a failed remote
// mutation; "rollback" restores the pre-mutation snapshot.
type CartConfig struct {
	IncrementViaAdd   string
	OnMutationFailure string
	ReconcileInterval time.Duration
	IdleTTL           time.Duration
}

type SessionConfig struct {
	CookieName    string
	IdentityCache time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Upstream: UpstreamConfig{
			BaseURL: getEnv("UPSTREAM_API_URL", "http://localhost:3333"),
			Timeout: parseDuration(getEnv("UPSTREAM_API_TIMEOUT", "30s"), 30*time.Second),
		},
		Cart: CartConfig{
			IncrementViaAdd:   getEnv("CART_INCREMENT_VIA_ADD", "cart_view"),
			OnMutationFailure: getEnv("CART_ON_MUTATION_FAILURE", "refetch"),
			ReconcileInterval: parseDuration(getEnv("CART_RECONCILE_INTERVAL", "5m"), 5*time.Minute),
			IdleTTL:           parseDuration(getEnv("CART_IDLE_TTL", "30m"), 30*time.Minute),
		},
		Session: SessionConfig{
			CookieName:    getEnv("SESSION_COOKIE_NAME", "@nextauth.token"),
			IdentityCache: parseDuration(getEnv("SESSION_IDENTITY_CACHE_TTL", "2m"), 2*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ENABLED", "false") == "true",
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "sa-east-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "saascom-uploads"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
	}

	if config.Upstream.BaseURL == "" {
		return nil, fmt.Errorf("UPSTREAM_API_URL is required")
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for i := 0; i < len(s); {
		end := i
		for end < len(s) && s[end] != ',' {
			end++
		}
		result = append(result, s[i:end])
		i = end + 1
	}
	return result
}
