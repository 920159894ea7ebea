package db_models

import "github.com/lib/pq"

type Thumbnail struct {
	OwnedModel
	Title         string         `gorm:"not null" json:"title"`
	Template      string         `gorm:"size:32;index" json:"template"`
	GradientStart string         `gorm:"size:9" json:"gradient_start"`
	GradientEnd   string         `gorm:"size:9" json:"gradient_end"`
	Direction     string         `gorm:"size:16" json:"direction"`
	Headline      string         `json:"headline"`
	Subtitle      string         `json:"subtitle"`
	TextColor     string         `gorm:"size:9" json:"text_color"`
	Width         int            `json:"width"`
	Height        int            `json:"height"`
	Image         []byte         `json:"-"`
	ImageSize     int            `json:"image_size"`
	Tags          pq.StringArray `gorm:"type:text[]" json:"tags"`
}
