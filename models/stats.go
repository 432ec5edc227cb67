// models/stats.go
package models

import "time"

// DailyStat is one materialized row of the analytics rollup: session volume
// and average score for a single calendar day (UTC). Upserted by the
// scheduler so the admin dashboard does not rescan game_sessions.
type DailyStat struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Date      string    `json:"date" gorm:"size:10;uniqueIndex;not null"` // YYYY-MM-DD
	Sessions  int64     `json:"sessions" gorm:"default:0"`
	Finished  int64     `json:"finished" gorm:"default:0"`
	AvgScore  float64   `json:"avg_score" gorm:"default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}
