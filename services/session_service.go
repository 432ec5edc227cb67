// services/session_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"card-match-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionService owns the session ledger: creating open sessions and driving
// the one-shot finish transition.
type SessionService struct {
	DB *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db}
}

// Start creates an open session for the player.
func (s *SessionService) Start(playerID string, difficulty int) (*models.GameSession, error) {
	session := &models.GameSession{
		SessionID:  uuid.NewString(),
		PlayerID:   playerID,
		Difficulty: difficulty,
		StartedAt:  time.Now().UTC(),
		Status:     models.SessionStatusOpen,
	}
	if err := s.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// FinishInput carries the client-reported results of one session.
type FinishInput struct {
	SessionID    string
	ScoreBalls   int
	Duration     int
	CorrectCount int
	WrongCount   int
	BestCombo    int
}

func (in *FinishInput) validate() error {
	if in.SessionID == "" {
		return fmt.Errorf("%w: session_id is required", ErrValidation)
	}
	if in.ScoreBalls < 0 || in.Duration < 0 || in.CorrectCount < 0 || in.WrongCount < 0 || in.BestCombo < 0 {
		return fmt.Errorf("%w: result fields must be non-negative", ErrValidation)
	}
	return nil
}

// Finish closes the session exactly once. The transition is a guarded update
// on `ended_at IS NULL`: if two finish requests race on the same session,
// one commits the results and the other sees zero affected rows and gets
// ErrAlreadyFinished. Ownership is checked before touching state — finishing
// someone else's session is a permission error, not a not-found.
func (s *SessionService) Finish(playerID string, in FinishInput) (*models.GameSession, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var session models.GameSession
	if err := s.DB.Where("session_id = ?", in.SessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if session.PlayerID != playerID {
		return nil, ErrNotSessionOwner
	}
	if session.Finished() {
		return nil, ErrAlreadyFinished
	}

	now := time.Now().UTC()
	res := s.DB.Model(&models.GameSession{}).
		Where("session_id = ? AND ended_at IS NULL", in.SessionID).
		Updates(map[string]interface{}{
			"score_balls":   in.ScoreBalls,
			"duration":      in.Duration,
			"correct_count": in.CorrectCount,
			"wrong_count":   in.WrongCount,
			"best_combo":    in.BestCombo,
			"ended_at":      now,
			"status":        models.SessionStatusFinished,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("finish session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Lost a concurrent finish race after the read above.
		return nil, ErrAlreadyFinished
	}

	session.ScoreBalls = in.ScoreBalls
	session.Duration = in.Duration
	session.CorrectCount = in.CorrectCount
	session.WrongCount = in.WrongCount
	session.BestCombo = in.BestCombo
	session.EndedAt = &now
	session.Status = models.SessionStatusFinished
	return &session, nil
}
