package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию приложения
type Config struct {
	BotToken   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Telegram ID администратора для первичной выдачи роли
	AdminChatID int64

	// Пути к рабочим файлам
	TemplatesDir string // каталог с шаблонами циклов (*.xlsx)
	OutputDir    string // каталог с готовыми программами
	TempDir      string // каталог для промежуточных файлов рендера

	// Параметры рендера таблиц
	MaxRows         int
	MaxColumns      int
	ChunkSize       int
	SampleRows      int
	EnableHDScaling bool

	// Дисковый кеш изображений
	CacheEnabled    bool
	CacheTTLMinutes int
	CacheMaxSize    int
	CacheFileDir    string

	// Google Sheets (необязательно)
	GoogleCredentialsPath string
	GoogleSheetID         string
}

// Load загружает конфигурацию из переменных окружения или .env файла
func Load() (*Config, error) {
	// .env необязателен: в проде всё приходит из окружения
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:   getEnv("BOT_TOKEN", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "gymbot"),

		AdminChatID: getEnvInt64("ADMIN_CHAT_ID", 0),

		TemplatesDir: getEnv("TEMPLATES_DIR", "templates"),
		OutputDir:    getEnv("OUTPUT_DIR", "output"),
		TempDir:      getEnv("TEMP_DIR", os.TempDir()),

		MaxRows:         getEnvInt("MAX_ROWS", 100),
		MaxColumns:      getEnvInt("MAX_COLUMNS", 50),
		ChunkSize:       getEnvInt("CHUNK_SIZE", 20),
		SampleRows:      getEnvInt("SAMPLE_ROWS", 30),
		EnableHDScaling: getEnvBool("ENABLE_HD_SCALING", true),

		CacheEnabled:    getEnvBool("CACHE_ENABLED", true),
		CacheTTLMinutes: getEnvInt("CACHE_TTL_MINUTES", 60),
		CacheMaxSize:    getEnvInt("CACHE_MAX_SIZE", 100),
		CacheFileDir:    getEnv("CACHE_FILE_DIR", "render-cache"),

		GoogleCredentialsPath: getEnv("GOOGLE_CREDENTIALS_PATH", ""),
		GoogleSheetID:         getEnv("GOOGLE_SHEET_ID", ""),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN не задан")
	}

	return cfg, nil
}

// DSN возвращает строку подключения к базе данных
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
