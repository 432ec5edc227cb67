// models/promo.go
package models

import "time"

// PromoCode is one redeemable code in the pool. A code is either fully
// unclaimed (IsUsed false, PlayerID nil, ClaimedAt nil) or fully claimed —
// the three fields flip together inside the claim update and never revert.
// Deleting the claiming player nulls PlayerID but does not return the code
// to the pool.
type PromoCode struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Code      string     `json:"code" gorm:"size:20;uniqueIndex;not null"`
	IsUsed    bool       `json:"is_used" gorm:"default:false;index"`
	PlayerID  *string    `json:"player_id,omitempty" gorm:"type:uuid;index"`
	Player    *Player    `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
