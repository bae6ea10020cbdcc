// fallback.go — резервный набор записей на случай недоступности backend.
//
// Сервис обязан деградировать мягко: отказ Image Store подменяется этим
// фиксированным снимком, и логика дерева/поиска работает с ним ровно так же,
// как с живыми данными. Набор демонстрационный (Cloudinary demo-изображения).
package service

import (
	"time"

	"github.com/cardworks/imagestore/browse-module/internal/domain/model"
)

// FallbackRecords возвращает свежую копию резервного набора.
// Копия — чтобы вызывающий код не мог испортить шаблон между запросами.
func FallbackRecords() []*model.ImageRecord {
	records := make([]*model.ImageRecord, len(fallbackTemplate))
	for i := range fallbackTemplate {
		r := fallbackTemplate[i]
		records[i] = &r
	}
	return records
}

var fallbackTemplate = []model.ImageRecord{
	{
		ID:          "1",
		ProductType: "metal_cards",
		ImageURL:    "https://res.cloudinary.com/demo/image/upload/sample.jpg",
		UploadedAt:  time.Date(2025, time.July, 31, 12, 0, 0, 0, time.UTC),
		Filename:    "metal_card_design_1.jpg",
	},
	{
		ID:          "2",
		ProductType: "metal_cards",
		ImageURL:    "https://res.cloudinary.com/demo/image/upload/golden_gate.jpg",
		UploadedAt:  time.Date(2025, time.July, 30, 12, 0, 0, 0, time.UTC),
		Filename:    "metal_card_design_2.jpg",
	},
	{
		ID:          "3",
		ProductType: "nfc_cards",
		ImageURL:    "https://res.cloudinary.com/demo/image/upload/kitten_1.jpg",
		UploadedAt:  time.Date(2025, time.July, 31, 12, 0, 0, 0, time.UTC),
		Filename:    "nfc_card_design_1.jpg",
	},
	{
		ID:          "4",
		ProductType: "nfc_cards",
		ImageURL:    "https://res.cloudinary.com/demo/image/upload/kitten_2.jpg",
		UploadedAt:  time.Date(2025, time.July, 24, 12, 0, 0, 0, time.UTC),
		Filename:    "nfc_card_design_2.jpg",
	},
	{
		ID:          "5",
		ProductType: "standees",
		ImageURL:    "https://res.cloudinary.com/demo/image/upload/building.jpg",
		UploadedAt:  time.Date(2025, time.July, 31, 12, 0, 0, 0, time.UTC),
		Filename:    "standee_design_1.jpg",
	},
	{
		ID:          "6",
		ProductType: "standees",
		ImageURL:    "https://res.cloudinary.com/demo/image/upload/couple.jpg",
		UploadedAt:  time.Date(2025, time.July, 30, 12, 0, 0, 0, time.UTC),
		Filename:    "standee_design_2.jpg",
	},
}
