// models/session.go
package models

import "time"

const (
	DifficultyEasy   = 1
	DifficultyMedium = 2
	DifficultyHard   = 3
	DifficultyRanked = 4
)

const (
	SessionStatusOpen      = "open"
	SessionStatusFinished  = "finished"
	SessionStatusAbandoned = "abandoned"
)

// GameSession is one play-through. A session is created open and closed
// exactly once: the finish transition sets every result field together with
// EndedAt in a single guarded update, so a second finish can never reapply.
type GameSession struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	SessionID string `json:"session_id" gorm:"size:100;uniqueIndex;not null"`
	PlayerID  string `json:"player_id" gorm:"type:uuid;index;not null"`
	Player    Player `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	Difficulty   int        `json:"difficulty" gorm:"default:1"`
	ScoreBalls   int        `json:"score_balls" gorm:"default:0;index:,sort:desc;check:score_balls >= 0"`
	StartedAt    time.Time  `json:"started_at" gorm:"index:,sort:desc"`
	EndedAt      *time.Time `json:"ended_at"`
	Duration     int        `json:"duration" gorm:"default:0;check:duration >= 0"`
	CorrectCount int        `json:"correct_count" gorm:"default:0"`
	WrongCount   int        `json:"wrong_count" gorm:"default:0"`
	BestCombo    int        `json:"best_combo" gorm:"default:0"`
	Status       string     `json:"status" gorm:"size:20;default:'open'"`
}

// Finished reports whether the one-shot finish transition has happened.
func (s *GameSession) Finished() bool {
	return s.EndedAt != nil
}
