// breadcrumbs.go — построение путей и хлебных крошек виртуальной иерархии.
//
// Путь — `/`-соединённая последовательность из 0-4 селекторов
// (тип продукта, год, месяц, день). Две дороги к крошкам одной записи —
// прямое разложение timestamp (RecordBreadcrumbs) и разбор строки пути
// (PathBreadcrumbs) — обязаны давать байт-в-байт одинаковый результат:
// навигация UI из результата поиска опирается на строгое равенство путей.
package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cardworks/imagestore/browse-module/internal/domain/model"
)

// maxPathDepth — глубина дерева: тип продукта / год / месяц / день.
const maxPathDepth = 4

// rootCrumb — фиксированная корневая крошка.
var rootCrumb = model.Breadcrumb{Name: "Products", Path: ""}

// ParsePath разбирает строку пути на селекторы: split по "/",
// пустые сегменты отбрасываются. Сегменты глубже четвёртого игнорируются —
// это осознанная толерантность к избыточным путям, а не жёсткая валидация.
func ParsePath(path string) []string {
	parts := make([]string, 0, maxPathDepth)
	for _, p := range strings.Split(path, "/") {
		if p == "" {
			continue
		}
		parts = append(parts, p)
		if len(parts) == maxPathDepth {
			break
		}
	}
	return parts
}

// JoinPath собирает строку пути из селекторов.
func JoinPath(parts ...string) string {
	return strings.Join(parts, "/")
}

// RecordPath возвращает 4-сегментный путь листового уровня записи:
// "metal_cards/2025/7/31". Месяц и день — без ведущих нулей.
func RecordPath(r *model.ImageRecord) string {
	year, month, day := r.Date()
	return fmt.Sprintf("%s/%d/%d/%d", r.ProductType, year, month, day)
}

// RecordBreadcrumbs строит полную цепочку из пяти крошек для записи,
// раскладывая её timestamp: Products → тип продукта → год → месяц → день.
func RecordBreadcrumbs(r *model.ImageRecord) []model.Breadcrumb {
	year, month, day := r.Date()

	yearStr := strconv.Itoa(year)
	monthStr := strconv.Itoa(month)
	dayStr := strconv.Itoa(day)

	p1 := r.ProductType
	p2 := JoinPath(p1, yearStr)
	p3 := JoinPath(p1, yearStr, monthStr)
	p4 := JoinPath(p1, yearStr, monthStr, dayStr)

	return []model.Breadcrumb{
		rootCrumb,
		{Name: model.CategoryDisplayName(r.ProductType), Path: p1},
		{Name: yearStr, Path: p2},
		{Name: monthName(month), Path: p3},
		{Name: "Day " + dayStr, Path: p4},
	}
}

// PathBreadcrumbs строит цепочку крошек из строки пути.
// Метка каждого сегмента определяется его позицией: тип продукта
// (отображаемое имя из справочника), год (как есть), месяц (полное имя,
// если 1-12), день ("Day {d}"). Нераспознанный сегмент проходит насквозь
// без изменений — крошки никогда не падают на мусорном пути.
func PathBreadcrumbs(path string) []model.Breadcrumb {
	parts := ParsePath(path)

	crumbs := make([]model.Breadcrumb, 0, len(parts)+1)
	crumbs = append(crumbs, rootCrumb)

	for i, part := range parts {
		crumbs = append(crumbs, model.Breadcrumb{
			Name: segmentLabel(i, part),
			Path: JoinPath(parts[:i+1]...),
		})
	}
	return crumbs
}

// segmentLabel возвращает метку сегмента пути по его позиции.
func segmentLabel(level int, segment string) string {
	switch level {
	case 0:
		return model.CategoryDisplayName(segment)
	case 1:
		return segment
	case 2:
		if m, err := strconv.Atoi(segment); err == nil && m >= 1 && m <= 12 {
			return monthName(m)
		}
		return segment
	case 3:
		return "Day " + segment
	default:
		return segment
	}
}

// monthName возвращает полное английское имя месяца (1-12).
func monthName(m int) string {
	return time.Month(m).String()
}
