// services/player_service.go
package services

import (
	"errors"
	"log"
	"time"

	"card-match-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlayerService serves the public profile and player settings endpoints.
type PlayerService struct {
	DB *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{DB: db}
}

type profileHistoryItem struct {
	Date       time.Time `json:"date"`
	Score      int       `json:"score"`
	Difficulty int       `json:"difficulty"`
	Duration   int       `json:"duration"`
}

type profilePromoItem struct {
	Code      string     `json:"code"`
	ClaimedAt *time.Time `json:"claimed_at"`
}

// GetProfile returns the player with recent history and claimed promos.
// Lookup by phone query param creates a guest on first sight (original
// client behavior); otherwise the bearer token identifies the player.
func (s *PlayerService) GetProfile(c *fiber.Ctx) error {
	var player models.Player

	if phone := c.Query("phone_number"); phone != "" {
		if !models.ValidPhoneNumber(phone) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "phone number must be in format +998XXXXXXXXX"})
		}
		err := s.DB.Where("phone_number = ?", phone).First(&player).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			now := time.Now().UTC()
			player = models.Player{ID: uuid.NewString(), Name: "Guest", PhoneNumber: phone, LastLoginAt: &now}
			if err := s.DB.Create(&player).Error; err != nil {
				log.Printf("[PLAYER] guest create failed: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
			}
		} else if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
	} else if playerID, ok := c.Locals("player_id").(string); ok && playerID != "" {
		if err := s.DB.First(&player, "id = ?", playerID).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
	} else {
		return c.JSON(fiber.Map{"player": nil, "history": []profileHistoryItem{}, "promos": []profilePromoItem{}})
	}

	var sessions []models.GameSession
	if err := s.DB.Where("player_id = ?", player.ID).
		Order("started_at DESC").
		Limit(20).
		Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	history := make([]profileHistoryItem, 0, len(sessions))
	for _, sess := range sessions {
		history = append(history, profileHistoryItem{
			Date:       sess.StartedAt,
			Score:      sess.ScoreBalls,
			Difficulty: sess.Difficulty,
			Duration:   sess.Duration,
		})
	}

	var promoRows []models.PromoCode
	if err := s.DB.Where("player_id = ?", player.ID).
		Order("claimed_at DESC").
		Find(&promoRows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	promos := make([]profilePromoItem, 0, len(promoRows))
	for _, p := range promoRows {
		promos = append(promos, profilePromoItem{Code: p.Code, ClaimedAt: p.ClaimedAt})
	}

	return c.JSON(fiber.Map{
		"player":  player,
		"history": history,
		"promos":  promos,
	})
}

// UpdateSettings patches theme/language for the authenticated player.
func (s *PlayerService) UpdateSettings(c *fiber.Ctx) error {
	playerID := c.Locals("player_id").(string)

	var req struct {
		Theme    *string `json:"theme"`
		Language *string `json:"language"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var player models.Player
	if err := s.DB.First(&player, "id = ?", playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if req.Theme != nil {
		if *req.Theme != models.ThemeLight && *req.Theme != models.ThemeDark {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "theme must be light or dark"})
		}
		player.Theme = *req.Theme
	}
	if req.Language != nil {
		switch *req.Language {
		case models.LanguageEN, models.LanguageUZ, models.LanguageRU:
			player.Language = *req.Language
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "language must be en, uz or ru"})
		}
	}

	if err := s.DB.Save(&player).Error; err != nil {
		log.Printf("[PLAYER] settings save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save settings"})
	}

	return c.JSON(player)
}
