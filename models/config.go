// models/config.go
package models

import "time"

// GameConfig is a singleton row (pk = 1). Every save bumps ConfigVersion so
// clients can detect stale config bundles.
type GameConfig struct {
	ID                  uint      `json:"-" gorm:"primaryKey"`
	ConfigVersion       uint      `json:"version" gorm:"default:1"`
	MaintenanceMode     bool      `json:"maintenance_mode" gorm:"default:false"`
	TimerSeconds        int       `json:"timer_seconds" gorm:"default:60;check:timer_seconds >= 10"`
	PromoScoreThreshold int       `json:"promo_score_threshold" gorm:"default:100;check:promo_score_threshold >= 1"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DifficultySettings describes one playable tier: timing, scoring knobs and
// presentation. Level is unique; Order controls admin listing.
type DifficultySettings struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	DifficultyLevel int    `json:"level" gorm:"uniqueIndex;not null"`
	NameEN          string `json:"name_en" gorm:"size:100"`
	NameUZ          string `json:"name_uz" gorm:"size:100"`
	NameRU          string `json:"name_ru" gorm:"size:100"`
	DescriptionEN   string `json:"description_en" gorm:"type:text"`
	DescriptionUZ   string `json:"description_uz" gorm:"type:text"`
	DescriptionRU   string `json:"description_ru" gorm:"type:text"`

	TimeSeconds         int     `json:"time_seconds" gorm:"default:180"`
	BasePoints          int     `json:"base_points" gorm:"default:5"`
	LevelMultiplier     int     `json:"level_multiplier" gorm:"default:2"`
	ComboBonusPerMatch  float64 `json:"combo_bonus" gorm:"default:1.5"`
	ComboPenaltyOnWrong float64 `json:"combo_penalty" gorm:"default:0.5"`

	ShuffleEnabled   bool   `json:"shuffle_enabled" gorm:"default:false"`
	ShuffleFrequency int    `json:"shuffle_frequency" gorm:"default:0"`
	HintsEnabled     bool   `json:"hints_enabled" gorm:"default:true"`
	CardColorText    string `json:"card_color_text" gorm:"size:200"`
	CardColorFruit   string `json:"card_color_fruit" gorm:"size:200"`

	IsActive  bool      `json:"is_active" gorm:"default:true"`
	Order     int       `json:"order" gorm:"default:0;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
