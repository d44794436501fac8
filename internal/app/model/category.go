package model

import "time"

// Category groups products. Siblings share ParentID and are ordered by OrderIndex.
type Category struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Name        string  `gorm:"uniqueIndex;not null" json:"name"`
	NameEn      *string `gorm:"type:text" json:"name_en"`
	NameRu      *string `gorm:"type:text" json:"name_ru"`
	NameHe      *string `gorm:"type:text" json:"name_he"`
	NameAz      *string `gorm:"type:text" json:"name_az"`
	Description string  `gorm:"type:text" json:"description"`
	ParentID    *uint   `gorm:"index" json:"parent_id"`
	OrderIndex  int     `gorm:"not null;default:0" json:"order_index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Parent *Category `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}
