// node.go — элементы листинга виртуальной иерархии и хлебные крошки.
package model

import "time"

// NodeKind — вид узла в виртуальном дереве.
// Закрытый набор: узел создаётся только через конструкторы ниже,
// поэтому image-узел без image-полей непредставим.
type NodeKind string

// Виды узлов.
const (
	KindProduct NodeKind = "product"
	KindYear    NodeKind = "year"
	KindMonth   NodeKind = "month"
	KindDay     NodeKind = "day"
	KindImage   NodeKind = "image"
)

// Node — один элемент листинга для заданного пути (папка или изображение).
// Id нелистового узла — кумулятивный путь до него (используется как path
// следующего запроса), у image-узла — собственный ID записи.
type Node struct {
	Id   string   `json:"id"`
	Name string   `json:"name"`
	Type NodeKind `json:"type"`
	// Count — количество записей-потомков (у product- и day-узлов)
	Count *int `json:"count,omitempty"`

	// Поля image-узлов
	ImageURL    string     `json:"image_url,omitempty"`
	UploadedAt  *time.Time `json:"uploaded_at,omitempty"`
	ProductType string     `json:"product_type,omitempty"`
}

// FolderNode создаёт узел-папку (product, year, month, day).
// count < 0 — количество не публикуется (year- и month-узлы).
func FolderNode(kind NodeKind, id, name string, count int) Node {
	n := Node{Id: id, Name: name, Type: kind}
	if count >= 0 {
		c := count
		n.Count = &c
	}
	return n
}

// ImageNode создаёт листовой узел-изображение из записи реестра.
func ImageNode(r *ImageRecord) Node {
	uploadedAt := r.UploadedAt
	return Node{
		Id:          r.ID,
		Name:        r.Filename,
		Type:        KindImage,
		ImageURL:    r.ImageURL,
		UploadedAt:  &uploadedAt,
		ProductType: r.ProductType,
	}
}

// Breadcrumb — одна хлебная крошка: человекочитаемая метка
// и кумулятивный путь до соответствующего уровня дерева.
type Breadcrumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}
