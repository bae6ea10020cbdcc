// main.go — точка входа Browse Module.
// Сборка зависимостей: config, logger, Image Store клиент, сервис каталога,
// мониторинг зависимостей, HTTP-сервер с middleware-цепочкой.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/cardworks/imagestore/browse-module/api"
	"github.com/cardworks/imagestore/browse-module/internal/api/handlers"
	"github.com/cardworks/imagestore/browse-module/internal/api/middleware"
	"github.com/cardworks/imagestore/browse-module/internal/config"
	"github.com/cardworks/imagestore/browse-module/internal/server"
	"github.com/cardworks/imagestore/browse-module/internal/service"
	"github.com/cardworks/imagestore/browse-module/internal/storeclient"
)

func main() {
	// 0. .env для локальной разработки (в кластере переменные задаёт deployment)
	_ = godotenv.Load()

	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// 2. Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("Browse Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("store_url", cfg.StoreURL),
	)

	// 3. Image Store клиент
	store, err := storeclient.New(cfg.StoreURL, cfg.StoreCACertPath, cfg.StoreTimeout, cfg.UploadTimeout, logger)
	if err != nil {
		logger.Error("Ошибка создания Image Store клиента", slog.String("error", err.Error()))
		log.Fatalf("Image Store клиент: %v", err)
	}

	// 4. Сервис каталога (иерархия + поиск, резервный набор при отказе backend)
	catalog := service.NewCatalogService(store, logger)

	// 5. Мониторинг зависимостей (topologymetrics)
	if cfg.DephealthEnabled {
		dh, dhErr := service.NewDephealthService(
			"browse-module",
			cfg.DephealthGroup,
			cfg.StoreURL,
			cfg.DephealthStoreHealthPath,
			cfg.DephealthCheckInterval,
			cfg.DephealthIsEntry,
			logger,
		)
		if dhErr != nil {
			logger.Error("Ошибка инициализации dephealth", slog.String("error", dhErr.Error()))
			log.Fatalf("Dephealth: %v", dhErr)
		}
		if startErr := dh.Start(context.Background()); startErr != nil {
			logger.Error("Ошибка запуска dephealth", slog.String("error", startErr.Error()))
			log.Fatalf("Dephealth: %v", startErr)
		}
		defer dh.Stop()
	}

	// 6. Обработчики
	healthHandler := handlers.NewHealthHandler(catalog)
	apiHandler := handlers.NewAPIHandler(healthHandler, catalog, store, cfg.UploadMaxSize, logger)

	// 7. Middleware: request id → metrics → логирование → OpenAPI-валидация
	openapiMW, err := middleware.NewOpenAPIValidator(api.OpenAPISpec)
	if err != nil {
		logger.Error("Ошибка загрузки OpenAPI контракта", slog.String("error", err.Error()))
		log.Fatalf("OpenAPI контракт: %v", err)
	}

	// 8. HTTP-сервер
	srv := server.New(cfg, logger, apiHandler,
		middleware.RequestID(),
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
		openapiMW,
	)

	// 9. Запуск сервера (блокирующий вызов с graceful shutdown)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		log.Fatalf("Сервер завершился с ошибкой: %v", err)
	}

	logger.Info("Browse Module остановлен")
}
