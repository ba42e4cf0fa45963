package models

// Term - общие поля для категорий, удобств и особенностей окружения
type Term struct {
	DictionaryModel
	Name string `gorm:"size:120;not null"`
	Slug string `gorm:"size:140;uniqueIndex;not null"`
	Icon string `gorm:"size:255"`
}

type Category struct {
	Term
}

type Amenity struct {
	Term
}

type EnvironmentFeature struct {
	Term
}

// TermKind - какой справочник затрагивает операция
type TermKind string

const (
	TermKindCategory    TermKind = "categories"
	TermKindAmenity     TermKind = "amenities"
	TermKindEnvironment TermKind = "environment-features"
)

// Table - имя таблицы для вида справочника, "" для неизвестного вида
func (k TermKind) Table() string {
	switch k {
	case TermKindCategory:
		return "categories"
	case TermKindAmenity:
		return "amenities"
	case TermKindEnvironment:
		return "environment_features"
	}
	return ""
}
