// services/redemption_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"card-match-backend/models"

	"gorm.io/gorm"
)

// RedemptionService hands out promo codes to qualifying finished sessions.
// The promo pool is the only shared mutable state touched by concurrently
// finishing sessions, so the claim step has to be atomic: no two sessions
// may ever walk away with the same code.
type RedemptionService struct {
	DB *gorm.DB
}

func NewRedemptionService(db *gorm.DB) *RedemptionService {
	return &RedemptionService{DB: db}
}

// TryRedeem awards one unclaimed promo code to the session's player if the
// finished score meets the threshold. It returns (nil, nil) both when the
// score is below the threshold and when the pool is exhausted — the player
// cannot tell the two apart, the logs can.
//
// The claim is a compare-and-swap: pick the first unclaimed code, then flip
// it with an update guarded on `is_used = false`. A guarded single-row
// UPDATE is atomic on any SQL backend, so when N sessions race for K codes
// exactly K updates report one affected row each and every winner holds a
// distinct code. A loser saw its candidate stolen mid-flight and retries
// with the next one; the loop only reports exhaustion after a read of the
// pool finds nothing unclaimed.
func (s *RedemptionService) TryRedeem(session *models.GameSession, threshold int) (*models.PromoCode, error) {
	if session.ScoreBalls < threshold {
		log.Printf("[PROMO] session %s scored %d, below threshold %d — no redemption",
			session.SessionID, session.ScoreBalls, threshold)
		return nil, nil
	}

	now := time.Now().UTC()

	for {
		var promo models.PromoCode
		err := s.DB.Where("is_used = ?", false).Order("id").First(&promo).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[PROMO] pool exhausted — session %s qualified with %d but no code left",
				session.SessionID, session.ScoreBalls)
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("promo candidate lookup: %w", err)
		}

		res := s.DB.Model(&models.PromoCode{}).
			Where("id = ? AND is_used = ?", promo.ID, false).
			Updates(map[string]interface{}{
				"is_used":    true,
				"player_id":  session.PlayerID,
				"claimed_at": now,
			})
		if res.Error != nil {
			return nil, fmt.Errorf("promo claim update: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			promo.IsUsed = true
			promo.PlayerID = &session.PlayerID
			promo.ClaimedAt = &now
			log.Printf("[PROMO] code %s claimed by player %s (session %s, score %d)",
				promo.Code, session.PlayerID, session.SessionID, session.ScoreBalls)
			return &promo, nil
		}
		// Another session claimed this candidate first; try the next one.
	}
}
