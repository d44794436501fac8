package model

import "time"

type Product struct {
	ID             uint     `gorm:"primarykey" json:"id"`
	Title          string   `gorm:"not null" json:"title"`
	Description    string   `gorm:"type:text;not null" json:"description"`
	Price          *float64 `json:"price"` // legacy single-currency price
	PriceUSD       *float64 `gorm:"column:price_usd" json:"price_usd"`
	PriceEUR       *float64 `gorm:"column:price_eur" json:"price_eur"`
	PriceILS       *float64 `gorm:"column:price_ils" json:"price_ils"`
	PriceAZN       *float64 `gorm:"column:price_azn" json:"price_azn"`
	ImageURL       string   `json:"image_url"`
	CategoryID     uint     `gorm:"index;not null" json:"category_id"`
	ItemOrderIndex int      `gorm:"not null;default:0" json:"item_order_index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
}

func (Product) TableName() string {
	return "products"
}
