// Пакет config — загрузка и валидация конфигурации Browse Module
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Browse Module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера (диапазон 8040-8049)
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- HTTP Server Timeouts ---

	// Таймаут чтения HTTP-сервера (по умолчанию 30s)
	HTTPReadTimeout time.Duration
	// Таймаут записи HTTP-сервера (по умолчанию 60s)
	HTTPWriteTimeout time.Duration
	// Таймаут простоя HTTP-сервера (по умолчанию 120s)
	HTTPIdleTimeout time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown (по умолчанию 5s)
	ShutdownTimeout time.Duration

	// --- Image Store backend ---

	// Базовый URL Image Store backend (обязательный)
	StoreURL string
	// Таймаут запросов к Image Store (по умолчанию 30s)
	StoreTimeout time.Duration
	// Таймаут проксируемой загрузки файлов (по умолчанию 5m)
	UploadTimeout time.Duration
	// Максимальный размер загружаемого файла в байтах (по умолчанию 500MB)
	UploadMaxSize int64
	// Путь к CA-сертификату Image Store (пустая строка — стандартный пул)
	StoreCACertPath string

	// --- CORS ---

	// Список разрешённых origins браузерного UI (по умолчанию "*")
	CORSAllowedOrigins []string

	// --- Dependency health (topologymetrics) ---

	// Включение мониторинга зависимостей (по умолчанию true)
	DephealthEnabled bool
	// Имя группы в метриках (по умолчанию imagestore)
	DephealthGroup string
	// Probe path Image Store backend (по умолчанию /health)
	DephealthStoreHealthPath string
	// Интервал проверки зависимостей (по умолчанию 15s)
	DephealthCheckInterval time.Duration
	// Лейбл isentry=yes у всех зависимостей (по умолчанию true — BM входная точка)
	DephealthIsEntry bool
}

// Load загружает конфигурацию из переменных окружения.
// Возвращает ошибку, если обязательные переменные не заданы
// или значения некорректны.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// BM_PORT — порт HTTP-сервера (по умолчанию 8040)
	cfg.Port, err = getEnvInt("BM_PORT", 8040)
	if err != nil {
		return nil, fmt.Errorf("BM_PORT: %w", err)
	}

	// BM_LOG_LEVEL — уровень логирования (по умолчанию info)
	logLevel := getEnvDefault("BM_LOG_LEVEL", "info")
	cfg.LogLevel, err = parseLogLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("BM_LOG_LEVEL: %w", err)
	}

	// BM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("BM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("BM_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- HTTP Server Timeouts ---

	// BM_HTTP_READ_TIMEOUT — таймаут чтения (по умолчанию 30s)
	cfg.HTTPReadTimeout, err = getEnvDuration("BM_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("BM_HTTP_READ_TIMEOUT: %w", err)
	}

	// BM_HTTP_WRITE_TIMEOUT — таймаут записи (по умолчанию 60s)
	cfg.HTTPWriteTimeout, err = getEnvDuration("BM_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("BM_HTTP_WRITE_TIMEOUT: %w", err)
	}

	// BM_HTTP_IDLE_TIMEOUT — таймаут простоя (по умолчанию 120s)
	cfg.HTTPIdleTimeout, err = getEnvDuration("BM_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("BM_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// --- Graceful shutdown ---

	// BM_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("BM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("BM_SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- Image Store backend ---

	// BM_STORE_URL — базовый URL backend (обязательный)
	cfg.StoreURL, err = getEnvRequired("BM_STORE_URL")
	if err != nil {
		return nil, err
	}

	// BM_STORE_TIMEOUT — таймаут запросов к backend (по умолчанию 30s)
	cfg.StoreTimeout, err = getEnvDuration("BM_STORE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("BM_STORE_TIMEOUT: %w", err)
	}

	// BM_UPLOAD_TIMEOUT — таймаут проксируемой загрузки (по умолчанию 5m)
	cfg.UploadTimeout, err = getEnvDuration("BM_UPLOAD_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("BM_UPLOAD_TIMEOUT: %w", err)
	}

	// BM_UPLOAD_MAX_SIZE — максимальный размер файла в байтах (по умолчанию 500MB)
	cfg.UploadMaxSize, err = getEnvInt64("BM_UPLOAD_MAX_SIZE", 500_000_000)
	if err != nil {
		return nil, fmt.Errorf("BM_UPLOAD_MAX_SIZE: %w", err)
	}
	if cfg.UploadMaxSize <= 0 {
		return nil, fmt.Errorf("BM_UPLOAD_MAX_SIZE: значение должно быть > 0")
	}

	// BM_STORE_CA_CERT_PATH — CA-сертификат backend (опционально)
	cfg.StoreCACertPath = getEnvDefault("BM_STORE_CA_CERT_PATH", "")

	// --- CORS ---

	// BM_CORS_ALLOWED_ORIGINS — разрешённые origins через запятую (по умолчанию *)
	origins := getEnvDefault("BM_CORS_ALLOWED_ORIGINS", "*")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	// --- Dependency health ---

	// BM_DEPHEALTH_ENABLED — мониторинг зависимостей (по умолчанию true)
	cfg.DephealthEnabled, err = getEnvBool("BM_DEPHEALTH_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("BM_DEPHEALTH_ENABLED: %w", err)
	}

	// BM_DEPHEALTH_GROUP — имя группы в метриках (по умолчанию imagestore)
	cfg.DephealthGroup = getEnvDefault("BM_DEPHEALTH_GROUP", "imagestore")

	// BM_DEPHEALTH_STORE_HEALTH_PATH — probe path backend (по умолчанию /health)
	cfg.DephealthStoreHealthPath = getEnvDefault("BM_DEPHEALTH_STORE_HEALTH_PATH", "/health")

	// BM_DEPHEALTH_CHECK_INTERVAL — интервал проверки (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("BM_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("BM_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// BM_DEPHEALTH_ISENTRY — лейбл isentry (по умолчанию true)
	cfg.DephealthIsEntry, err = getEnvBool("BM_DEPHEALTH_ISENTRY", true)
	if err != nil {
		return nil, fmt.Errorf("BM_DEPHEALTH_ISENTRY: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvInt64 возвращает int64-значение переменной окружения или значение по умолчанию.
func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q (допустимые: true, false, 1, 0)", val)
	}
	return b, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
