// dephealth.go — интеграция с topologymetrics SDK для мониторинга зависимостей.
//
// Browse Module мониторит единственную зависимость:
//   - Image Store backend — HTTP checker к health endpoint (не critical:
//     при отказе включается резервный набор)
//
// БД у модуля нет — вся коллекция записей приходит от backend по HTTP,
// поэтому SQL-чекеров тоже нет. Отказ backend не роняет сервис (включается
// резервный набор), но в графе зависимостей он должен быть виден.
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
//   - app_dependency_status — категория статуса
//   - app_dependency_status_detail — детальный статус
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // регистрация HTTP checker factory
	"github.com/prometheus/client_golang/prometheus"
)

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга зависимостей.
// Метрики регистрируются в глобальном Prometheus registry.
//
// Параметры:
//   - serviceID — имя вершины графа текущего приложения (e.g. "browse-module")
//   - group — имя группы в метриках (BM_DEPHEALTH_GROUP)
//   - storeURL — базовый URL Image Store backend
//   - storeHealthPath — probe path backend (BM_DEPHEALTH_STORE_HEALTH_PATH)
//   - checkInterval — интервал проверки зависимостей (BM_DEPHEALTH_CHECK_INTERVAL)
//   - isEntry — при true добавляет лейбл isentry=yes ко всем зависимостям
func NewDephealthService(
	serviceID string,
	group string,
	storeURL string,
	storeHealthPath string,
	checkInterval time.Duration,
	isEntry bool,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, storeURL, storeHealthPath, checkInterval, isEntry, logger)
}

// NewDephealthServiceWithRegisterer создаёт сервис с указанным Prometheus registerer.
// Используется в тестах для изоляции метрик.
func NewDephealthServiceWithRegisterer(
	serviceID string,
	group string,
	storeURL string,
	storeHealthPath string,
	checkInterval time.Duration,
	isEntry bool,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, storeURL, storeHealthPath, checkInterval, isEntry,
		logger, dephealth.WithRegisterer(registerer))
}

// newDephealthService — внутренний конструктор.
func newDephealthService(
	serviceID string,
	group string,
	storeURL string,
	storeHealthPath string,
	checkInterval time.Duration,
	isEntry bool,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	storeDepOpts := []dephealth.DependencyOption{
		dephealth.FromURL(storeURL),
		dephealth.WithHTTPHealthPath(storeHealthPath),
		dephealth.CheckInterval(checkInterval),
		// Не critical: при отказе backend сервис продолжает отвечать
		// из резервного набора (деградация, а не отказ).
		dephealth.Critical(false),
	}
	if isEntry {
		storeDepOpts = append(storeDepOpts, dephealth.WithLabel("isentry", "yes"))
	}

	opts := make([]dephealth.Option, 0, 2+len(extraOpts))
	opts = append(opts,
		dephealth.WithLogger(logger),
		dephealth.HTTP("image-store", storeDepOpts...),
	)
	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен (Image Store)")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — имя зависимости, значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
