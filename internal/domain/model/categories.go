// categories.go — статический справочник типов продуктов.
// Единственное место, где перечислены канонические категории: им пользуются
// и построение дерева (корневой уровень), и хлебные крошки. Справочник
// встроен в бинарник через go:embed и парсится один раз при старте.
package model

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var categoriesYAML []byte

// Category — описание одного типа продукта.
type Category struct {
	// Code — машинный код типа (metal_cards)
	Code string `yaml:"code"`
	// DisplayName — отображаемое имя (Metal Cards)
	DisplayName string `yaml:"display_name"`
	// Icon — имя иконки для UI
	Icon string `yaml:"icon"`
}

// categories — загруженный справочник (порядок = порядок в YAML).
var categories []Category

// categoryIndex — code → Category для O(1) поиска отображаемого имени.
var categoryIndex map[string]Category

func init() {
	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(categoriesYAML, &doc); err != nil {
		panic(fmt.Sprintf("model: некорректный categories.yaml: %v", err))
	}
	if len(doc.Categories) == 0 {
		panic("model: categories.yaml не содержит ни одной категории")
	}

	categories = doc.Categories
	categoryIndex = make(map[string]Category, len(categories))
	for _, c := range categories {
		categoryIndex[c.Code] = c
	}
}

// Categories возвращает канонический список типов продуктов.
// Корневой листинг всегда содержит ровно эти папки, даже с нулём записей.
func Categories() []Category {
	return categories
}

// CategoryDisplayName возвращает отображаемое имя для кода типа продукта.
// Неизвестные коды не ошибка: данные могут содержать новые типы раньше,
// чем обновится справочник. Для них имя выводится из кода:
// подчёркивания → пробелы, каждое слово с заглавной буквы.
func CategoryDisplayName(code string) string {
	if c, ok := categoryIndex[code]; ok {
		return c.DisplayName
	}
	return titleFromCode(code)
}

// KnownCategory сообщает, входит ли код в канонический справочник.
func KnownCategory(code string) bool {
	_, ok := categoryIndex[code]
	return ok
}

// titleFromCode превращает machine-код в человекочитаемое имя:
// "acrylic_standees" → "Acrylic Standees".
func titleFromCode(code string) string {
	words := strings.Split(strings.ReplaceAll(code, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
