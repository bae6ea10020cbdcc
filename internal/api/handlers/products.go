// products.go — проксируемые операции управления каталогом:
// удаление записи, удаление папки типа продукта, список типов.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/cardworks/imagestore/browse-module/internal/api/errors"
	"github.com/cardworks/imagestore/browse-module/internal/domain/model"
	"github.com/cardworks/imagestore/browse-module/internal/storeclient"
)

// productTypesResponse — ответ GET /api/v1/product-types.
type productTypesResponse struct {
	ProductTypes []string `json:"product_types"`
}

// HandleDeleteProduct — реализация DELETE /api/v1/products/{product_id}.
func (h *APIHandler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	if err := h.store.DeleteProduct(r.Context(), productID); err != nil {
		if errors.Is(err, storeclient.ErrNotFound) {
			apierrors.NotFound(w, "Запись не найдена")
			return
		}
		h.logger.Error("Ошибка удаления записи",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
		apierrors.StoreUnavailable(w, "Image Store недоступен, удаление не выполнено")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteFolder — реализация DELETE /api/v1/folders/{product_type}.
func (h *APIHandler) HandleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	productType := chi.URLParam(r, "product_type")

	if err := h.store.DeleteFolder(r.Context(), productType); err != nil {
		if errors.Is(err, storeclient.ErrNotFound) {
			apierrors.NotFound(w, "Папка не найдена")
			return
		}
		h.logger.Error("Ошибка удаления папки",
			slog.String("product_type", productType),
			slog.String("error", err.Error()),
		)
		apierrors.StoreUnavailable(w, "Image Store недоступен, удаление не выполнено")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleProductTypes — реализация GET /api/v1/product-types.
// При недоступности backend отдаём канонический справочник:
// UI обязан получить список типов в любом случае.
func (h *APIHandler) HandleProductTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.store.ListProductTypes(r.Context())
	if err != nil {
		h.logger.Warn("Image Store недоступен, типы продуктов из справочника",
			slog.String("error", err.Error()),
		)
		cats := model.Categories()
		types = make([]string, 0, len(cats))
		for _, c := range cats {
			types = append(types, c.Code)
		}
	}

	writeJSON(w, http.StatusOK, productTypesResponse{ProductTypes: types})
}
