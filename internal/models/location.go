package models

// Province -> District -> Ward: трехуровневый справочник адресов

type Province struct {
	DictionaryModel
	Name string `gorm:"size:120;not null"`
	Code string `gorm:"size:20;uniqueIndex"`

	Districts []District `gorm:"foreignKey:ProvinceID;constraint:OnDelete:CASCADE"`
}

type District struct {
	DictionaryModel
	ProvinceID uint   `gorm:"not null;index"`
	Name       string `gorm:"size:120;not null"`
	Code       string `gorm:"size:20;uniqueIndex"`

	Wards []Ward `gorm:"foreignKey:DistrictID;constraint:OnDelete:CASCADE"`
}

type Ward struct {
	DictionaryModel
	DistrictID uint   `gorm:"not null;index"`
	Name       string `gorm:"size:120;not null"`
	Code       string `gorm:"size:20;uniqueIndex"`
}
