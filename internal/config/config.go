package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the binaries read from the environment. Optional
// integrations (mail, S3, Redis, AMQP) stay empty when unconfigured and the
// wiring code skips them.
type Config struct {
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string

	AWSRegion string
	S3Bucket  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AMQPURL        string
	LifecycleQueue string

	// ConflictFailOpen controls what happens when the conflict query itself
	// fails: false (default) rejects the booking, true lets it through and
	// leaves reconciliation to the desk.
	ConflictFailOpen bool
	// PreBlockWindow is how far ahead of check-in a freshly confirmed
	// reservation flips its room to occupied.
	PreBlockWindow time.Duration
	// StorageTimeout bounds every repository call made by a service.
	StorageTimeout time.Duration
	// NoShowGrace is how long after check-in a confirmed reservation may
	// sit before the scheduler cancels it and releases the room.
	NoShowGrace time.Duration
	// NoShowSweep is how often the scheduler looks for no-shows.
	NoShowSweep time.Duration

	PeriodCacheTTL    time.Duration
	DashboardCacheTTL time.Duration

	LoginRateLimit  int
	LoginRateWindow time.Duration

	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// LoadConfig reads .env when present, then the environment. Missing required
// values fall back to development defaults.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading environment directly")
	}

	return &Config{
		ServerPort: envStr("SERVER_PORT", "8080"),

		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envStr("DB_PORT", "5432"),
		DBUser:     envStr("DB_USER", "postgres"),
		DBPassword: envStr("DB_PASSWORD", "postgres"),
		DBName:     envStr("DB_NAME", "motel"),
		DBSSLMode:  envStr("DB_SSLMODE", "disable"),

		JWTSecret:       envStr("JWT_SECRET", "dev-secret-change-me"),
		AccessTokenTTL:  envDur("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: envDur("REFRESH_TOKEN_TTL", 720*time.Hour),

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      envInt("SMTP_PORT", 587),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  envStr("SMTP_FROM_NAME", "Motel Reception"),
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),

		AWSRegion: envStr("AWS_REGION", "us-east-1"),
		S3Bucket:  os.Getenv("S3_BUCKET"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		AMQPURL:        os.Getenv("AMQP_URL"),
		LifecycleQueue: envStr("LIFECYCLE_QUEUE", "motel.lifecycle"),

		ConflictFailOpen: envBool("CONFLICT_FAIL_OPEN", false),
		PreBlockWindow:   envDur("PRE_BLOCK_WINDOW", 2*time.Hour),
		StorageTimeout:   envDur("STORAGE_TIMEOUT", 5*time.Second),
		NoShowGrace:      envDur("NO_SHOW_GRACE", 2*time.Hour),
		NoShowSweep:      envDur("NO_SHOW_SWEEP", 10*time.Minute),

		PeriodCacheTTL:    envDur("PERIOD_CACHE_TTL", 10*time.Minute),
		DashboardCacheTTL: envDur("DASHBOARD_CACHE_TTL", 30*time.Second),

		LoginRateLimit:  envInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: envDur("LOGIN_RATE_WINDOW", time.Minute),

		AdminName:     envStr("ADMIN_NAME", "Administrator"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

// GetDBConnString builds the lib/pq connection string.
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// MailEnabled reports whether outgoing mail is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFromEmail != ""
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}

func envDur(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
