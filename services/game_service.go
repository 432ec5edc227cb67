// services/game_service.go
package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"card-match-backend/models"
	"card-match-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Map frontend mode strings to integer difficulty values
var difficultyMap = map[string]int{
	"easy":   models.DifficultyEasy,
	"medium": models.DifficultyMedium,
	"hard":   models.DifficultyHard,
	"ranked": models.DifficultyRanked,
}

// GameService glues the public gameplay flow together: player login-on-start,
// the one-shot finish transition and the conditional promo redemption.
type GameService struct {
	DB         *gorm.DB
	Sessions   *SessionService
	Redemption *RedemptionService
	Config     *ConfigService
	JWTSecret  []byte
}

func NewGameService(db *gorm.DB, jwtSecret []byte) *GameService {
	return &GameService{
		DB:         db,
		Sessions:   NewSessionService(db),
		Redemption: NewRedemptionService(db),
		Config:     NewConfigService(db),
		JWTSecret:  jwtSecret,
	}
}

// StartSession upserts the player by phone number, opens a session and
// returns a bearer token the client must present when finishing.
func (s *GameService) StartSession(c *fiber.Ctx) error {
	var req struct {
		PhoneNumber string `json:"phone_number"`
		Name        string `json:"name"`
		Mode        string `json:"mode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if !models.ValidPhoneNumber(req.PhoneNumber) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "phone number must be in format +998XXXXXXXXX"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	cfg, err := s.Config.Load()
	if err != nil {
		log.Printf("[GAME] config load failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load config"})
	}
	if cfg.MaintenanceMode {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "game is under maintenance"})
	}

	mode := strings.ToLower(req.Mode)
	difficulty, ok := difficultyMap[mode]
	if !ok {
		difficulty = models.DifficultyRanked
	}

	now := time.Now().UTC()
	var player models.Player
	err = s.DB.Where("phone_number = ?", req.PhoneNumber).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		player = models.Player{
			ID:          uuid.NewString(),
			Name:        req.Name,
			PhoneNumber: req.PhoneNumber,
			LastLoginAt: &now,
		}
		if err := s.DB.Create(&player).Error; err != nil {
			log.Printf("[GAME] player create failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create player"})
		}
	} else if err != nil {
		log.Printf("[GAME] player lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	} else {
		if player.Name != req.Name {
			player.Name = req.Name
		}
		player.LastLoginAt = &now
		if err := s.DB.Save(&player).Error; err != nil {
			log.Printf("[GAME] player update failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
	}

	session, err := s.Sessions.Start(player.ID, difficulty)
	if err != nil {
		log.Printf("[GAME] session start failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to start session"})
	}

	token, err := utils.GenerateToken(s.JWTSecret, player.ID, player.IsStaff, player.IsSuperuser, 24*time.Hour)
	if err != nil {
		log.Printf("[GAME] token issue failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to issue token"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id":  session.SessionID,
		"server_time": now.Format(time.RFC3339),
		"player":      player,
		"token":       token,
	})
}

// FinishSession applies the one-shot finish transition and, when the score
// meets the promo threshold, attempts exactly one redemption. A redemption
// failure never rolls the committed finish back — the player simply sees
// new_promo_code: null, the operator sees a [PROMO] error line.
func (s *GameService) FinishSession(c *fiber.Ctx) error {
	playerID := c.Locals("player_id").(string)

	var req struct {
		SessionID    string `json:"session_id"`
		ScoreBalls   int    `json:"score_balls"`
		Duration     int    `json:"duration"`
		CorrectCount int    `json:"correct_count"`
		WrongCount   int    `json:"wrong_count"`
		BestCombo    int    `json:"best_combo"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	session, err := s.Sessions.Finish(playerID, FinishInput{
		SessionID:    req.SessionID,
		ScoreBalls:   req.ScoreBalls,
		Duration:     req.Duration,
		CorrectCount: req.CorrectCount,
		WrongCount:   req.WrongCount,
		BestCombo:    req.BestCombo,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrSessionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
		case errors.Is(err, ErrNotSessionOwner):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "session belongs to another player"})
		case errors.Is(err, ErrAlreadyFinished):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "session already finished"})
		default:
			log.Printf("[GAME] finish failed for session %s: %v", req.SessionID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to finish session"})
		}
	}

	// The finish is committed from here on. Threshold is read fresh per call.
	var newPromoCode *string
	cfg, err := s.Config.Load()
	if err != nil {
		log.Printf("[PROMO] config load failed after finish of %s: %v", session.SessionID, err)
	} else {
		promo, err := s.Redemption.TryRedeem(session, cfg.PromoScoreThreshold)
		if err != nil {
			log.Printf("[PROMO] redemption infrastructure error for session %s: %v", session.SessionID, err)
		} else if promo != nil {
			newPromoCode = &promo.Code
		}
	}

	return c.JSON(fiber.Map{
		"status":         "success",
		"new_promo_code": newPromoCode,
	})
}
