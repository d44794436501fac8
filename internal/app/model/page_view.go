package model

import "time"

// PageView is one storefront page hit reported by the client.
type PageView struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Path      string    `gorm:"not null;index" json:"path"`
	Referrer  string    `json:"referrer"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (PageView) TableName() string {
	return "page_views"
}
