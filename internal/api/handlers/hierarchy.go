// hierarchy.go — обработчик GET /api/v1/hierarchy.
// Листинг одного уровня виртуальной иерархии для заданного пути.
package handlers

import (
	"net/http"

	"github.com/cardworks/imagestore/browse-module/internal/domain/model"
)

// hierarchyResponse — ответ листинга иерархии.
// Имена полей повторяют контракт UI: items + currentPath.
type hierarchyResponse struct {
	Items       []model.Node `json:"items"`
	CurrentPath string       `json:"currentPath"`
}

// HandleHierarchy — реализация GET /api/v1/hierarchy?path=...
// Путь не валидируется: мусорный селектор эквивалентен пустому результату,
// путь глубже четырёх сегментов обрезается. Ошибок данных здесь не бывает —
// отказ backend уже подменён резервным набором уровнем ниже.
func (h *APIHandler) HandleHierarchy(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")

	listing := h.catalog.ListChildren(r.Context(), path)

	writeJSON(w, http.StatusOK, hierarchyResponse{
		Items:       listing.Items,
		CurrentPath: listing.CurrentPath,
	})
}
