package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration
type Config struct {
	Port           int    // Port for the HTTP API server
	WebsocketPort  int    // Port for the websocket chat server (used when ServerType is "both")
	ServerType     string // "http", "websocket", or "both"
	RedisURL       string
	RedisPassword  string
	MaxSessions    int
	SessionTimeout time.Duration
	GeminiAPIKey   string
	GeminiModel    string
	AllowedOrigins []string
	CacheDir       string
	CacheTTL       time.Duration // Catalog cache validity window
	CatalogURL     string
	RequestTimeout time.Duration // Outbound HTTP request timeout
	MaxRetries     int           // Outbound HTTP retry attempts
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	config := &Config{
		Port:           8080,
		WebsocketPort:  8081,
		ServerType:     "http",
		RedisURL:       "localhost:6379",
		RedisPassword:  "",
		MaxSessions:    100,
		SessionTimeout: 24 * time.Hour,
		GeminiModel:    "gemini-2.5-flash",
		AllowedOrigins: []string{"*"},
		CacheDir:       ".cache",
		CacheTTL:       24 * time.Hour,
		CatalogURL:     "https://cervezafortuna.com/inicio/cervezas/",
		RequestTimeout: 10 * time.Second,
		MaxRetries:     2,
	}

	// Required: GEMINI_API_KEY
	config.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	// Optional: GEMINI_MODEL
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.GeminiModel = model
	}

	// Optional: PORT
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		config.Port = p
	}

	// Optional: WS_PORT (used when SERVER_TYPE is "both")
	if wsPort := os.Getenv("WS_PORT"); wsPort != "" {
		p, err := strconv.Atoi(wsPort)
		if err != nil {
			return nil, fmt.Errorf("invalid WS_PORT: %w", err)
		}
		config.WebsocketPort = p
	}

	// Optional: SERVER_TYPE ("http", "websocket", or "both")
	if serverType := os.Getenv("SERVER_TYPE"); serverType != "" {
		switch serverType {
		case "http", "websocket", "both":
			config.ServerType = serverType
		default:
			return nil, fmt.Errorf("invalid SERVER_TYPE: must be 'http', 'websocket', or 'both'")
		}
	}

	// Optional: REDIS_URL
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		config.RedisURL = redisURL
	}

	// Optional: REDIS_PASSWORD
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.RedisPassword = redisPassword
	}

	// Optional: MAX_SESSIONS
	if maxSessions := os.Getenv("MAX_SESSIONS"); maxSessions != "" {
		m, err := strconv.Atoi(maxSessions)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_SESSIONS: %w", err)
		}
		config.MaxSessions = m
	}

	// Optional: SESSION_TIMEOUT_HOURS
	if timeout := os.Getenv("SESSION_TIMEOUT_HOURS"); timeout != "" {
		t, err := strconv.Atoi(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TIMEOUT_HOURS: %w", err)
		}
		config.SessionTimeout = time.Duration(t) * time.Hour
	}

	// Optional: ALLOWED_ORIGINS (comma-separated)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}

	// Optional: CACHE_DIR
	if cacheDir := os.Getenv("CACHE_DIR"); cacheDir != "" {
		config.CacheDir = cacheDir
	}

	// Optional: CACHE_TTL_HOURS
	if ttl := os.Getenv("CACHE_TTL_HOURS"); ttl != "" {
		t, err := strconv.Atoi(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL_HOURS: %w", err)
		}
		config.CacheTTL = time.Duration(t) * time.Hour
	}

	// Optional: BEER_CATALOG_URL
	if catalogURL := os.Getenv("BEER_CATALOG_URL"); catalogURL != "" {
		config.CatalogURL = catalogURL
	}

	// Optional: REQUEST_TIMEOUT (in seconds)
	if timeout := os.Getenv("REQUEST_TIMEOUT"); timeout != "" {
		t, err := strconv.Atoi(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
		}
		config.RequestTimeout = time.Duration(t) * time.Second
	}

	// Optional: MAX_RETRIES
	if retries := os.Getenv("MAX_RETRIES"); retries != "" {
		r, err := strconv.Atoi(retries)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_RETRIES: %w", err)
		}
		config.MaxRetries = r
	}

	return config, nil
}
