// catalog.go — сервис каталога изображений.
// Координирует Image Store клиент, резервный набор и Prometheus-метрики.
// Состояния между запросами нет: каждый запрос берёт свежий снимок
// коллекции и прогоняет его через чистые функции дерева/поиска.
package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cardworks/imagestore/browse-module/internal/domain/model"
)

// RecordSource — источник коллекции записей (Image Store backend).
// Реализуется storeclient.Client.
type RecordSource interface {
	// ListProducts возвращает полный снимок коллекции записей.
	ListProducts(ctx context.Context) ([]*model.ImageRecord, error)
}

// Prometheus-метрики каталога.
var (
	hierarchyTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bm_hierarchy_requests_total",
		Help: "Общее количество запросов листинга иерархии.",
	})
	hierarchyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bm_hierarchy_duration_seconds",
		Help:    "Длительность построения листинга иерархии.",
		Buckets: prometheus.DefBuckets,
	})
	searchTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bm_search_requests_total",
		Help: "Общее количество поисковых запросов.",
	})
	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bm_search_duration_seconds",
		Help:    "Длительность поисковых запросов.",
		Buckets: prometheus.DefBuckets,
	})
	fallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bm_store_fallback_total",
		Help: "Количество подмен снимка резервным набором (Image Store недоступен).",
	})
)

// CatalogService — сервис листинга иерархии и поиска по каталогу.
type CatalogService struct {
	source RecordSource
	logger *slog.Logger

	// degraded — последний снимок пришёл из резервного набора.
	// Используется readiness probe: сервис работоспособен, но деградирован.
	degraded atomic.Bool
}

// NewCatalogService создаёт сервис каталога.
func NewCatalogService(source RecordSource, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		source: source,
		logger: logger.With(slog.String("component", "catalog_service")),
	}
}

// snapshot возвращает текущий снимок коллекции записей.
// Отказ backend не поднимается выше: логируется и подменяется резервным
// набором, так что логика дерева/поиска всегда получает валидную коллекцию.
func (s *CatalogService) snapshot(ctx context.Context) []*model.ImageRecord {
	records, err := s.source.ListProducts(ctx)
	if err != nil {
		fallbackTotal.Inc()
		s.degraded.Store(true)
		s.logger.Warn("Image Store недоступен, используется резервный набор",
			slog.String("error", err.Error()),
		)
		return FallbackRecords()
	}

	s.degraded.Store(false)
	return records
}

// ListChildren возвращает листинг уровня иерархии для заданного пути.
func (s *CatalogService) ListChildren(ctx context.Context, path string) Listing {
	start := time.Now()
	hierarchyTotal.Inc()

	listing := ListChildren(s.snapshot(ctx), path)

	duration := time.Since(start)
	hierarchyDuration.Observe(duration.Seconds())

	s.logger.Debug("Листинг иерархии построен",
		slog.String("path", path),
		slog.Int("items", len(listing.Items)),
		slog.Duration("duration", duration),
	)
	return listing
}

// Search выполняет поиск по каталогу.
func (s *CatalogService) Search(ctx context.Context, query string) []SearchResult {
	start := time.Now()
	searchTotal.Inc()

	results := Search(s.snapshot(ctx), query)

	duration := time.Since(start)
	searchDuration.Observe(duration.Seconds())

	s.logger.Debug("Поиск выполнен",
		slog.Int("total", len(results)),
		slog.Duration("duration", duration),
	)
	return results
}

// CheckReady — readiness-проверка зависимости Image Store.
// Деградация не делает сервис неготовым: с резервным набором он продолжает
// отвечать, поэтому статус либо "ok", либо "degraded", но никогда "fail".
func (s *CatalogService) CheckReady() (status, message string) {
	if s.degraded.Load() {
		return "degraded", "Image Store недоступен, отдаётся резервный набор"
	}
	return "ok", ""
}
