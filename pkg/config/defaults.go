// Package config provides centralized default values for the page builder
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	CORSAllowedOrigins []string

	// Database
	DBDriver                 string
	DBDSN                    string
	DBAuthToken              string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int
	SlowQueryThreshold       time.Duration

	// Editor
	AutosaveDebounce   time.Duration
	HistoryLimit       int
	MaxSessions        int
	SessionIdleTimeout time.Duration
	CommandQueueSize   int
	CarouselInterval   time.Duration

	// Rendering
	RenderCacheTTL     time.Duration
	RenderCacheMaxSize int
	CleanupInterval    time.Duration
	CleanupVerbose     bool

	// Live updates
	LiveWriteTimeout      time.Duration
	LivePingInterval      time.Duration
	LiveMaxClientsPerPage int

	// Publishing
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3Prefix       string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool
	PublishTimeout time.Duration

	// Version snapshot compression level, 1 (fastest) to 4 (best)
	VersionCompressionLevel int

	// Logging
	LogLevel     string
	LogJSON      bool
	LogToFile    bool
	LogDirectory string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	CORSAllowedOrigins = splitList(getEnvString("CORS_ALLOWED_ORIGINS", "http://localhost:4321,http://localhost:3000"))

	// Database
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBDSN = getEnvString("DB_DSN", "file:pagebuilder.db?_foreign_keys=on&_busy_timeout=5000")
	DBAuthToken = getEnvString("DB_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 250*time.Millisecond)

	// Editor
	AutosaveDebounce = getEnvDuration("AUTOSAVE_DEBOUNCE", 2*time.Second)
	HistoryLimit = getEnvInt("HISTORY_LIMIT", 200)
	MaxSessions = getEnvInt("MAX_SESSIONS", 500)
	SessionIdleTimeout = getEnvDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour)
	CommandQueueSize = getEnvInt("COMMAND_QUEUE_SIZE", 64)
	CarouselInterval = getEnvDuration("CAROUSEL_INTERVAL", 5*time.Second)

	// Rendering
	RenderCacheTTL = getEnvDuration("RENDER_CACHE_TTL", time.Hour)
	RenderCacheMaxSize = getEnvInt("RENDER_CACHE_MAX_SIZE", 32)
	CleanupInterval = getEnvDuration("CLEANUP_INTERVAL", 10*time.Minute)
	CleanupVerbose = getEnvBool("CLEANUP_VERBOSE", false)

	// Live updates
	LiveWriteTimeout = getEnvDuration("LIVE_WRITE_TIMEOUT", 10*time.Second)
	LivePingInterval = getEnvDuration("LIVE_PING_INTERVAL", 30*time.Second)
	LiveMaxClientsPerPage = getEnvInt("LIVE_MAX_CLIENTS_PER_PAGE", 8)

	// Publishing
	S3Bucket = getEnvString("S3_BUCKET", "")
	S3Region = getEnvString("S3_REGION", "us-east-1")
	S3Endpoint = getEnvString("S3_ENDPOINT", "")
	S3Prefix = getEnvString("S3_PREFIX", "sites/default")
	S3AccessKey = getEnvString("S3_ACCESS_KEY", "")
	S3SecretKey = getEnvString("S3_SECRET_KEY", "")
	S3UsePathStyle = getEnvBool("S3_USE_PATH_STYLE", false)
	PublishTimeout = getEnvDuration("PUBLISH_TIMEOUT", 30*time.Second)

	VersionCompressionLevel = getEnvInt("VERSION_COMPRESSION_LEVEL", 2)

	// Logging
	LogLevel = getEnvString("LOG_LEVEL", "INFO")
	LogJSON = getEnvBool("LOG_JSON", true)
	LogToFile = getEnvBool("LOG_TO_FILE", false)
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
