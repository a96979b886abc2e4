package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server configuration
type Config struct {
	Port           int
	VoicePort      int    // Port for the voice event server (used when ServerType is "both")
	ServerType     string // "http", "voice", or "both"
	RedisURL       string
	RedisPassword  string
	MaxSessions    int
	SessionTimeout time.Duration
	AllowedOrigins []string

	// Provisioning platform (assistant creation + phone numbers)
	ProvisioningURL     string
	ProvisioningAPIKey  string
	ProvisioningTimeout time.Duration
	DefaultAreaCode     string

	// Supabase persistence of final assistant records (optional)
	SupabaseURL string
	SupabaseKey string

	// NATS transport (optional, enabled when NATS_URL is set)
	NatsURL     string
	NatsSubject string
}

// LoadConfig loads configuration from environment variables with defaults
func LoadConfig() (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	config := &Config{
		Port:                8080,
		VoicePort:           8081,
		ServerType:          "http",
		RedisURL:            "localhost:6379",
		RedisPassword:       "",
		MaxSessions:         100,
		SessionTimeout:      30 * time.Minute,
		AllowedOrigins:      []string{"*"},
		ProvisioningURL:     "https://api.vapi.ai",
		ProvisioningTimeout: 30 * time.Second,
		DefaultAreaCode:     "01",
		NatsSubject:         "configurator.turn",
	}

	// Required: PROVISIONING_API_KEY
	config.ProvisioningAPIKey = os.Getenv("PROVISIONING_API_KEY")
	if config.ProvisioningAPIKey == "" {
		return nil, fmt.Errorf("PROVISIONING_API_KEY environment variable is required")
	}

	// Optional: PORT
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		config.Port = p
	}

	// Optional: VOICE_PORT (used when SERVER_TYPE is "both")
	if voicePort := os.Getenv("VOICE_PORT"); voicePort != "" {
		vp, err := strconv.Atoi(voicePort)
		if err != nil {
			return nil, fmt.Errorf("invalid VOICE_PORT: %w", err)
		}
		config.VoicePort = vp
	}

	// Optional: SERVER_TYPE ("http", "voice", or "both")
	if serverType := os.Getenv("SERVER_TYPE"); serverType != "" {
		switch serverType {
		case "http", "voice", "both":
			config.ServerType = serverType
		default:
			return nil, fmt.Errorf("invalid SERVER_TYPE: must be 'http', 'voice', or 'both'")
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

	// Optional: SESSION_TIMEOUT (in minutes)
	if timeout := os.Getenv("SESSION_TIMEOUT"); timeout != "" {
		t, err := strconv.Atoi(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TIMEOUT: %w", err)
		}
		config.SessionTimeout = time.Duration(t) * time.Minute
	}

	// Optional: ALLOWED_ORIGINS (comma-separated)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}

	// Optional: PROVISIONING_URL
	if provURL := os.Getenv("PROVISIONING_URL"); provURL != "" {
		config.ProvisioningURL = strings.TrimSuffix(provURL, "/")
	}

	// Optional: PROVISIONING_TIMEOUT (in seconds)
	if timeout := os.Getenv("PROVISIONING_TIMEOUT"); timeout != "" {
		t, err := strconv.Atoi(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid PROVISIONING_TIMEOUT: %w", err)
		}
		config.ProvisioningTimeout = time.Duration(t) * time.Second
	}

	// Optional: DEFAULT_AREA_CODE
	if areaCode := os.Getenv("DEFAULT_AREA_CODE"); areaCode != "" {
		config.DefaultAreaCode = areaCode
	}

	// Optional: SUPABASE_URL / SUPABASE_SERVICE_ROLE_KEY
	config.SupabaseURL = os.Getenv("SUPABASE_URL")
	config.SupabaseKey = os.Getenv("SUPABASE_SERVICE_ROLE_KEY")

	// Optional: NATS_URL / NATS_SUBJECT
	config.NatsURL = os.Getenv("NATS_URL")
	if subject := os.Getenv("NATS_SUBJECT"); subject != "" {
		config.NatsSubject = subject
	}

	return config, nil
}
