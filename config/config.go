package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting the service consumes.
type Config struct {
	Environment string
	Port        string
	MongoURI    string
	RedisURI    string
	BaseURL     string

	JWTSecret     []byte
	AllowedEmails []string
	// AdminCredentials maps an allow-listed email to its bcrypt password hash.
	AdminCredentials map[string]string

	ImgBBKey      string
	DeployHookURL string
}

// Load reads configuration from the environment, loading .env first outside
// production. Missing optional values fall back to local-dev defaults.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:      env,
		Port:             os.Getenv("PORT"),
		MongoURI:         os.Getenv("MONGODB_URI"),
		RedisURI:         os.Getenv("REDIS_URI"),
		BaseURL:          os.Getenv("BASE_URL"),
		JWTSecret:        []byte(os.Getenv("JWT_SECRET")),
		AllowedEmails:    splitList(os.Getenv("ADMIN_ALLOWED_EMAILS")),
		AdminCredentials: parseCredentials(os.Getenv("ADMIN_CREDENTIALS")),
		ImgBBKey:         os.Getenv("IMGBB_API_KEY"),
		DeployHookURL:    os.Getenv("DEPLOY_HOOK_URL"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.MongoURI == "" {
		cfg.MongoURI = "mongodb://localhost:27017"
	}
	if cfg.RedisURI == "" {
		cfg.RedisURI = "redis://localhost:6379"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%s/", cfg.Port)
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if len(cfg.JWTSecret) == 0 {
		if env == "production" {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = []byte("dev-only-secret")
	}
	if len(cfg.AllowedEmails) == 0 && env == "production" {
		return nil, fmt.Errorf("ADMIN_ALLOWED_EMAILS must be set in production")
	}

	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseCredentials parses "email:bcryptHash,email:bcryptHash". Bcrypt hashes
// contain no commas or colons beyond the $-delimited prefix, so a single
// SplitN per entry is enough.
func parseCredentials(s string) map[string]string {
	creds := make(map[string]string)
	if s == "" {
		return creds
	}
	for _, part := range strings.Split(s, ",") {
		pair := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(pair) == 2 && pair[0] != "" && pair[1] != "" {
			creds[pair[0]] = pair[1]
		}
	}
	return creds
}
