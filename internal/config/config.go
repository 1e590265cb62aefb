package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/layinded/swifter-fs/internal/models"
	"github.com/layinded/swifter-fs/pkg/db"
)

type Config struct {
	ServerAddr string
	LogLevel   string

	DatabaseURL string

	AccessSecret  []byte
	RefreshSecret []byte

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration

	KafkaBrokers []string
	EventsTopic  string

	ESURL      string
	ESUser     string
	ESPassword string
	AuditIndex string

	Social SocialConfig
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return Config{
		ServerAddr: EnvDefault("SERVER_ADDR", ":8000"),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		AccessSecret:  []byte(os.Getenv("SECRET_KEY")),
		RefreshSecret: []byte(os.Getenv("REFRESH_SECRET_KEY")),

		AccessTokenTTL:  EnvDurationDefault("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: EnvDurationDefault("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		ResetTokenTTL:   EnvDurationDefault("RESET_TOKEN_TTL", time.Hour),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		EventsTopic:  EnvDefault("EVENTS_TOPIC", "user_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		AuditIndex: EnvDefault("AUDIT_INDEX", "auth-audit"),

		Social: LoadSocial(),
	}
}

func (c Config) MustValidate() {
	MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	MustNonEmptyBytes(c.AccessSecret, "SECRET_KEY")
	MustNonEmptyBytes(c.RefreshSecret, "REFRESH_SECRET_KEY")
}

func InitDB(ctx context.Context, dsn string) (*gorm.DB, error) {
	gdb, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := gdb.AutoMigrate(&models.User{}, &models.RefreshToken{}); err != nil {
		return nil, err
	}
	return gdb, nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}
