package models

// Post - объявление об аренде
type Post struct {
	BaseModel
	OwnerID     string     `gorm:"type:varchar(36);not null;index"`
	CategoryID  uint       `gorm:"not null;index"`
	Title       string     `gorm:"size:255;not null"`
	Description string     `gorm:"type:text"`
	Price       float64    `gorm:"not null;index"`
	Area        float64    `gorm:"not null"`
	Address     string     `gorm:"size:255"`
	ProvinceID  uint       `gorm:"not null;index"`
	DistrictID  uint       `gorm:"not null;index"`
	WardID      *uint      `gorm:"index"`
	Status      PostStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	ViewCount   int        `gorm:"not null;default:0"`

	Owner               User                 `gorm:"foreignKey:OwnerID"`
	Category            Category             `gorm:"foreignKey:CategoryID"`
	Province            Province             `gorm:"foreignKey:ProvinceID"`
	District            District             `gorm:"foreignKey:DistrictID"`
	Ward                *Ward                `gorm:"foreignKey:WardID"`
	Images              []PostImage          `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Amenities           []Amenity            `gorm:"many2many:post_amenities"`
	EnvironmentFeatures []EnvironmentFeature `gorm:"many2many:post_environment_features"`
}

func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

func (p *Post) IsOwnedBy(userID string) bool {
	return p.OwnerID == userID
}

type PostImage struct {
	BaseModel
	PostID       string `gorm:"type:varchar(36);not null;index"`
	URL          string `gorm:"size:500;not null"`
	ThumbnailURL string `gorm:"size:500"`
	StorageKey   string `gorm:"size:500;not null"`
	ThumbnailKey string `gorm:"size:500"`
	MimeType     string `gorm:"size:100"`
	Size         int64
	SortOrder    int `gorm:"not null;default:0"`
}
