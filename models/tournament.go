// models/tournament.go
package models

import "time"

// Tournament is a promotional banner shown in the client while active.
type Tournament struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Active    bool      `json:"active" gorm:"default:true;index"`
	PrizePool string    `json:"prize_pool" gorm:"size:100"`
	CreatedAt time.Time `json:"created_at"`
}
