// Пакет model — доменные модели Browse Module.
// ImageRecord — запись об изображении продукта из реестра Image Store.
package model

import "time"

// ImageRecord — одно загруженное изображение продукта.
// BM использует эту модель только для чтения: коллекция записей приходит
// целиком от Image Store backend и живёт ровно один запрос/ответ.
type ImageRecord struct {
	// ID — идентификатор записи (backend отдаёт _id из MongoDB)
	ID string
	// ProductType — код типа продукта (metal_cards, nfc_cards, standees, ...)
	ProductType string
	// Filename — оригинальное имя файла, по которому идёт поиск
	Filename string
	// ImageURL — URL отрендеренного изображения (CDN)
	ImageURL string
	// UploadedAt — момент загрузки (UTC)
	UploadedAt time.Time
}

// Date возвращает календарную дату загрузки (год, месяц 1-12, день).
// Декомпозиция всегда в UTC — backend хранит и отдаёт UTC-моменты.
// Одна и та же тройка используется при построении дерева, путей
// и хлебных крошек (инвариант байт-в-байт совпадения путей).
func (r *ImageRecord) Date() (year int, month int, day int) {
	y, m, d := r.UploadedAt.UTC().Date()
	return y, int(m), d
}
