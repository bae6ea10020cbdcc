// hierarchy.go — построение виртуальной иерархии из плоской коллекции записей.
//
// Дерево не хранится нигде: каждый запрос заново группирует текущий снимок
// коллекции по типу продукта и календарной дате загрузки. Функции чистые —
// один вход, один детерминированный выход, без разделяемого состояния.
package service

import (
	"sort"
	"strconv"

	"github.com/cardworks/imagestore/browse-module/internal/domain/model"
)

// Listing — результат листинга одного уровня дерева.
type Listing struct {
	// Items — дочерние узлы текущего пути
	Items []model.Node
	// CurrentPath — эхо запрошенного пути
	CurrentPath string
}

// ListChildren возвращает дочерние узлы для заданного пути.
//
// Глубина пути определяет уровень:
//
//	0 — корень: все канонические типы продуктов (включая пустые, count=0)
//	1 — годы, присутствующие в данных типа (по убыванию)
//	2 — месяцы года (по убыванию, полные имена)
//	3 — дни месяца (по убыванию, "Day {d}", с count)
//	4 — листовые image-узлы в исходном порядке коллекции
//
// Селектор, не совпавший ни с одной записью (включая нечисловой год
// или месяц), эквивалентен пустому результату — это не ошибка.
func ListChildren(records []*model.ImageRecord, path string) Listing {
	parts := ParsePath(path)
	matched := filterBySelectors(records, parts)

	var items []model.Node
	switch len(parts) {
	case 0:
		items = listProductTypes(matched)
	case 1:
		items = listYears(matched, parts)
	case 2:
		items = listMonths(matched, parts)
	case 3:
		items = listDays(matched, parts)
	default:
		items = listImages(matched)
	}

	return Listing{Items: items, CurrentPath: JoinPath(parts...)}
}

// filterBySelectors отбирает записи, совпадающие со всеми уже
// потреблёнными селекторами пути (тип продукта, год, месяц, день).
func filterBySelectors(records []*model.ImageRecord, parts []string) []*model.ImageRecord {
	if len(parts) == 0 {
		return records
	}

	// Нечисловой селектор даты просто не совпадёт ни с одной записью:
	// Atoi вернёт 0, а нулевых годов/месяцев/дней в данных не бывает.
	var year, month, day int
	if len(parts) > 1 {
		year, _ = strconv.Atoi(parts[1])
	}
	if len(parts) > 2 {
		month, _ = strconv.Atoi(parts[2])
	}
	if len(parts) > 3 {
		day, _ = strconv.Atoi(parts[3])
	}

	var matched []*model.ImageRecord
	for _, r := range records {
		if r.ProductType != parts[0] {
			continue
		}
		y, m, d := r.Date()
		if len(parts) > 1 && y != year {
			continue
		}
		if len(parts) > 2 && m != month {
			continue
		}
		if len(parts) > 3 && d != day {
			continue
		}
		matched = append(matched, r)
	}
	return matched
}

// listProductTypes — корневой уровень: ровно канонический набор типов
// продуктов из справочника, независимо от данных. Count считается по
// коллекции и может быть нулевым.
func listProductTypes(records []*model.ImageRecord) []model.Node {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.ProductType]++
	}

	cats := model.Categories()
	items := make([]model.Node, 0, len(cats))
	for _, c := range cats {
		items = append(items, model.FolderNode(model.KindProduct, c.Code, c.DisplayName, counts[c.Code]))
	}
	return items
}

// listYears — годы, реально присутствующие среди записей типа,
// по убыванию. Пустые годы не синтезируются.
func listYears(records []*model.ImageRecord, parts []string) []model.Node {
	years := distinctDesc(records, func(y, _, _ int) int { return y })

	items := make([]model.Node, 0, len(years))
	for _, y := range years {
		name := strconv.Itoa(y)
		items = append(items, model.FolderNode(model.KindYear, JoinPath(parts[0], name), name, -1))
	}
	return items
}

// listMonths — месяцы выбранного года по убыванию, с полными именами.
func listMonths(records []*model.ImageRecord, parts []string) []model.Node {
	months := distinctDesc(records, func(_, m, _ int) int { return m })

	items := make([]model.Node, 0, len(months))
	for _, m := range months {
		id := JoinPath(parts[0], parts[1], strconv.Itoa(m))
		items = append(items, model.FolderNode(model.KindMonth, id, monthName(m), -1))
	}
	return items
}

// listDays — дни выбранного месяца по убыванию, с количеством записей.
func listDays(records []*model.ImageRecord, parts []string) []model.Node {
	counts := make(map[int]int)
	for _, r := range records {
		_, _, d := r.Date()
		counts[d]++
	}
	days := distinctDesc(records, func(_, _, d int) int { return d })

	items := make([]model.Node, 0, len(days))
	for _, d := range days {
		dayStr := strconv.Itoa(d)
		id := JoinPath(parts[0], parts[1], parts[2], dayStr)
		items = append(items, model.FolderNode(model.KindDay, id, "Day "+dayStr, counts[d]))
	}
	return items
}

// listImages — листовой уровень: image-узлы в исходном порядке коллекции.
func listImages(records []*model.ImageRecord) []model.Node {
	items := make([]model.Node, 0, len(records))
	for _, r := range records {
		items = append(items, model.ImageNode(r))
	}
	return items
}

// distinctDesc возвращает уникальные значения компоненты даты по убыванию.
func distinctDesc(records []*model.ImageRecord, pick func(y, m, d int) int) []int {
	seen := make(map[int]bool)
	var vals []int
	for _, r := range records {
		v := pick(r.Date())
		if !seen[v] {
			seen[v] = true
			vals = append(vals, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(vals)))
	return vals
}
