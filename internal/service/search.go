// search.go — подстрочный поиск по коллекции записей.
//
// Поиск нерейтинговый: запись либо совпала, либо нет. Результаты идут
// в исходном порядке коллекции (backend отдаёт их в своём стабильном
// порядке, и мы его не переупорядочиваем).
package service

import (
	"strings"
	"time"

	"github.com/cardworks/imagestore/browse-module/internal/domain/model"
)

// SearchResult — одно совпадение поиска с восстановленным положением
// записи в виртуальной иерархии (путь + хлебные крошки).
type SearchResult struct {
	Id          string             `json:"id"`
	Name        string             `json:"name"`
	Type        model.NodeKind     `json:"type"`
	ImageURL    string             `json:"image_url"`
	UploadedAt  time.Time          `json:"uploaded_at"`
	ProductType string             `json:"product_type"`
	Path        string             `json:"path"`
	Breadcrumbs []model.Breadcrumb `json:"breadcrumbs"`
}

// Search возвращает записи, содержащие query как подстроку (без учёта
// регистра) в имени файла, в типе продукта (подчёркивания считаются
// пробелами) или в сыром ID. Пустой или пробельный запрос — пустой
// результат, не ошибка.
func Search(records []*model.ImageRecord, query string) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}
	}
	term := strings.ToLower(query)

	results := make([]SearchResult, 0)
	for _, r := range records {
		if !matches(r, term) {
			continue
		}
		results = append(results, SearchResult{
			Id:          r.ID,
			Name:        r.Filename,
			Type:        model.KindImage,
			ImageURL:    r.ImageURL,
			UploadedAt:  r.UploadedAt,
			ProductType: r.ProductType,
			Path:        RecordPath(r),
			Breadcrumbs: RecordBreadcrumbs(r),
		})
	}
	return results
}

// matches проверяет совпадение записи с нормализованным (lower-case) термом.
func matches(r *model.ImageRecord, term string) bool {
	if strings.Contains(strings.ToLower(r.Filename), term) {
		return true
	}
	productType := strings.ReplaceAll(strings.ToLower(r.ProductType), "_", " ")
	if strings.Contains(productType, term) {
		return true
	}
	return strings.Contains(r.ID, term)
}
