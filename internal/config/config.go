package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Tokenizer TokenizerConfig
	Chat      ChatConfig
	Session   SessionConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type TokenizerConfig struct {
	URL     string
	Timeout time.Duration
}

type ChatConfig struct {
	BotPronoun          string
	GenericTerms        []string
	NegationDomainRules string
	InlineNegationWords []string
	RankPoolSize        int
	AlternativesLimit   int
	DefaultContactLimit int
	TurnEventTopic      string
}

type SessionConfig struct {
	Expiration         time.Duration
	ExclusionBackend   string // "memory" or "redis"
	ExclusionKeyPrefix string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/chat_turns.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Tokenizer: TokenizerConfig{
			URL:     getEnv("TOKENIZER_URL", "http://localhost:36146/tokenize"),
			Timeout: getEnvAsDuration("TOKENIZER_TIMEOUT", 10*time.Second),
		},
		Chat: ChatConfig{
			BotPronoun:          getEnv("BOT_PRONOUN", "หนู"),
			GenericTerms:        getEnvAsList("CHAT_GENERIC_TERMS", []string{"สมัครเรียน", "ข้อมูล", "ติดต่อ"}),
			NegationDomainRules: getEnv("CHAT_NEGATION_DOMAINS", "dorm:หอ;admissions:รับสมัคร|สมัคร"),
			InlineNegationWords: getEnvAsList("CHAT_INLINE_NEGATIONS", []string{"ไม่", "ไม่เอา", "ไม่ต้องการ"}),
			RankPoolSize:        getEnvAsInt("CHAT_RANK_POOL_SIZE", 8),
			AlternativesLimit:   getEnvAsInt("CHAT_ALTERNATIVES_LIMIT", 3),
			DefaultContactLimit: getEnvAsInt("CHAT_DEFAULT_CONTACT_LIMIT", 10),
			TurnEventTopic:      getEnv("CHAT_TURN_TOPIC", "chat_turns"),
		},
		Session: SessionConfig{
			Expiration:         getEnvAsDuration("SESSION_EXPIRATION", 24*time.Hour),
			ExclusionBackend:   strings.ToLower(getEnv("EXCLUSION_BACKEND", "memory")),
			ExclusionKeyPrefix: getEnv("EXCLUSION_KEY_PREFIX", "pcru:exclusion"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("10s") or plain milliseconds ("10000").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil && d > 0 {
		return d
	}
	if ms, err := strconv.Atoi(strValue); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

// getEnvAsList splits a comma separated value. An empty value yields an empty
// list rather than the fallback, so a deployment can disable the default.
func getEnvAsList(key string, fallback []string) []string {
	strValue, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	items := make([]string, 0)
	for _, part := range strings.Split(strValue, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
