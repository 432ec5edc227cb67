// models/card.go
package models

import "time"

// FruitCard is a target card the player has to uncover. Weight biases how
// often the card appears in a board; Order controls catalog listing.
type FruitCard struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:100;not null"`
	ImageURL  string    `json:"image" gorm:"type:text"`
	Code      string    `json:"code" gorm:"size:50;uniqueIndex;not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true;index:idx_fruit_active_weight"`
	Weight    int       `json:"weight" gorm:"default:1;index:idx_fruit_active_weight;check:weight >= 1"`
	Order     int       `json:"order" gorm:"default:0;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TextCards []TextCard `json:"-" gorm:"foreignKey:CorrectFruitID"`
}

// TextCard is the matching half of a pair; CorrectFruit points at the fruit
// card it pairs with. A card without a pairing is kept but never dealt.
type TextCard struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Title          string     `json:"title" gorm:"size:100;not null"`
	ImageURL       string     `json:"image" gorm:"type:text"`
	CorrectFruitID *uint      `json:"correct_fruit_id" gorm:"index"`
	CorrectFruit   *FruitCard `json:"correct_fruit,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Code           string     `json:"code" gorm:"size:50;uniqueIndex;not null"`
	IsActive       bool       `json:"is_active" gorm:"default:true;index:idx_text_active_weight"`
	Weight         int        `json:"weight" gorm:"default:1;index:idx_text_active_weight;check:weight >= 1"`
	Order          int        `json:"order" gorm:"default:0;index"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
