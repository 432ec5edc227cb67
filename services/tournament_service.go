// services/tournament_service.go
package services

import (
	"card-match-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TournamentService struct {
	DB *gorm.DB
}

func NewTournamentService(db *gorm.DB) *TournamentService {
	return &TournamentService{DB: db}
}

// GetActiveTournaments lists tournament banners currently shown in the client.
func (s *TournamentService) GetActiveTournaments(c *fiber.Ctx) error {
	var tournaments []models.Tournament
	if err := s.DB.Where("active = ?", true).Order("created_at DESC").Find(&tournaments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load tournaments"})
	}
	return c.JSON(tournaments)
}
