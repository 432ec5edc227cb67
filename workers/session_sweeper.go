// workers/session_sweeper.go
package workers

import (
	"context"
	"log"
	"time"

	"card-match-backend/models"

	"gorm.io/gorm"
)

// abandonGrace is added on top of the configured timer before an open
// session counts as abandoned, to absorb slow clients and clock skew.
const abandonGrace = 2 * time.Minute

// SessionSweeper marks open sessions abandoned once the game timer plus
// grace has long expired. Abandoned sessions never reach the leaderboard
// (they have no ended_at) but stop counting as in-flight.
type SessionSweeper struct {
	DB *gorm.DB
}

func NewSessionSweeper(db *gorm.DB) *SessionSweeper {
	return &SessionSweeper{DB: db}
}

// Run sweeps once per interval until the context is cancelled.
func (w *SessionSweeper) Run(ctx context.Context, interval time.Duration) {
	log.Println("Starting session sweeper...")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Session sweeper stopped.")
			return
		case <-ticker.C:
			if err := w.sweep(); err != nil {
				log.Printf("[Sweeper] sweep failed: %v", err)
			}
		}
	}
}

func (w *SessionSweeper) sweep() error {
	var cfg models.GameConfig
	if err := w.DB.First(&cfg, 1).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil // nothing configured yet, nothing to sweep
		}
		return err
	}

	cutoff := time.Now().UTC().
		Add(-time.Duration(cfg.TimerSeconds) * time.Second).
		Add(-abandonGrace)

	res := w.DB.Model(&models.GameSession{}).
		Where("status = ? AND ended_at IS NULL AND started_at < ?", models.SessionStatusOpen, cutoff).
		Update("status", models.SessionStatusAbandoned)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("[Sweeper] marked %d session(s) abandoned", res.RowsAffected)
	}
	return nil
}
