// search.go — обработчик GET /api/v1/search.
// Подстрочный поиск по каталогу с восстановлением пути и хлебных крошек.
package handlers

import (
	"net/http"
	"strings"

	"github.com/cardworks/imagestore/browse-module/internal/service"
)

// searchResponse — ответ поиска с эхом запроса и количеством совпадений.
type searchResponse struct {
	Results []service.SearchResult `json:"results"`
	Query   string                 `json:"query"`
	Total   int                    `json:"total"`
}

// emptySearchResponse — ответ на пустой запрос: только results,
// без query/total (контракт UI различает эти два случая).
type emptySearchResponse struct {
	Results []service.SearchResult `json:"results"`
}

// HandleSearch — реализация GET /api/v1/search?q=...
// Пустой или пробельный q — корректный запрос с пустым результатом.
func (h *APIHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	if query == "" {
		writeJSON(w, http.StatusOK, emptySearchResponse{Results: []service.SearchResult{}})
		return
	}

	results := h.catalog.Search(r.Context(), query)

	writeJSON(w, http.StatusOK, searchResponse{
		Results: results,
		Query:   query,
		Total:   len(results),
	})
}
