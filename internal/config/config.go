package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr      string
	DBDSN         string
	Environment   string
	LogLevel      string
	TelegramToken string
	AdminChatIDs  []int64
	RabbitURL     string
	RedisAddr     string
	MigrationsDir string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		HTTPAddr:      os.Getenv("HTTP_ADDR"),
		DBDSN:         os.Getenv("DB_DSN"),
		Environment:   os.Getenv("ENV"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		RabbitURL:     os.Getenv("RABBITMQ_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		MigrationsDir: os.Getenv("MIGRATIONS_DIR"),
	}

	// Дефолтные значения
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	// Чаты администраторов через запятую: ADMIN_CHAT_IDS=123,456
	if raw := os.Getenv("ADMIN_CHAT_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid ADMIN_CHAT_IDS entry %q: %w", part, err)
			}
			cfg.AdminChatIDs = append(cfg.AdminChatIDs, id)
		}
	}

	log.Printf("Config loaded (env=%s)\n", cfg.Environment)

	return cfg, nil
}
