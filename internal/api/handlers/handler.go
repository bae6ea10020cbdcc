// handler.go — основной обработчик API Browse Module.
// Объединяет health и бизнес-обработчики, делегируя запросы в сервисный
// слой (каталог) и в Image Store клиент (проксируемые операции).
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/cardworks/imagestore/browse-module/internal/service"
	"github.com/cardworks/imagestore/browse-module/internal/storeclient"
)

// Catalog — сервис листинга иерархии и поиска (service.CatalogService).
type Catalog interface {
	// ListChildren возвращает листинг уровня иерархии для заданного пути.
	ListChildren(ctx context.Context, path string) service.Listing
	// Search выполняет поиск по каталогу.
	Search(ctx context.Context, query string) []service.SearchResult
}

// StoreProxy — операции, проксируемые в Image Store (storeclient.Client).
type StoreProxy interface {
	// UploadProduct загружает файл в Image Store.
	UploadProduct(ctx context.Context, productType, filename string, file io.Reader) (*storeclient.UploadResult, error)
	// DeleteProduct удаляет запись по ID.
	DeleteProduct(ctx context.Context, id string) error
	// DeleteFolder удаляет все записи типа продукта.
	DeleteFolder(ctx context.Context, productType string) error
	// ListProductTypes возвращает список поддерживаемых типов продуктов.
	ListProductTypes(ctx context.Context) ([]string, error)
}

// APIHandler — основной обработчик API Browse Module.
type APIHandler struct {
	health        *HealthHandler
	catalog       Catalog
	store         StoreProxy
	uploadMaxSize int64
	logger        *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
// uploadMaxSize — максимальный размер загружаемого файла в байтах (BM_UPLOAD_MAX_SIZE).
func NewAPIHandler(
	health *HealthHandler,
	catalog Catalog,
	store StoreProxy,
	uploadMaxSize int64,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:        health,
		catalog:       catalog,
		store:         store,
		uploadMaxSize: uploadMaxSize,
		logger:        logger.With(slog.String("component", "api_handler")),
	}
}

// --- Health endpoints (делегируются в HealthHandler) ---

// HealthLive — liveness probe.
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe.
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики.
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
