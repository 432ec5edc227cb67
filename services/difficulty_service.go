// services/difficulty_service.go
package services

import (
	"errors"
	"log"
	"math"

	"card-match-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DifficultyService is the admin CRUD over difficulty tiers plus the
// scoring-formula preview used while editing a tier.
type DifficultyService struct {
	DB *gorm.DB
}

func NewDifficultyService(db *gorm.DB) *DifficultyService {
	return &DifficultyService{DB: db}
}

type difficultyPayload struct {
	Level            *int              `json:"level"`
	Names            map[string]string `json:"names"`
	Descriptions     map[string]string `json:"descriptions"`
	TimeSeconds      *int              `json:"time_seconds"`
	BasePoints       *int              `json:"base_points"`
	LevelMultiplier  *int              `json:"level_multiplier"`
	ComboBonus       *float64          `json:"combo_bonus"`
	ComboPenalty     *float64          `json:"combo_penalty"`
	ShuffleEnabled   *bool             `json:"shuffle_enabled"`
	ShuffleFrequency *int              `json:"shuffle_frequency"`
	HintsEnabled     *bool             `json:"hints_enabled"`
	CardColors       map[string]string `json:"card_colors"`
	IsActive         *bool             `json:"is_active"`
	Order            *int              `json:"order"`
}

func difficultyResponse(d *models.DifficultySettings) fiber.Map {
	return fiber.Map{
		"id":    d.ID,
		"level": d.DifficultyLevel,
		"names": fiber.Map{
			"en": d.NameEN,
			"uz": d.NameUZ,
			"ru": d.NameRU,
		},
		"descriptions": fiber.Map{
			"en": d.DescriptionEN,
			"uz": d.DescriptionUZ,
			"ru": d.DescriptionRU,
		},
		"time_seconds":      d.TimeSeconds,
		"base_points":       d.BasePoints,
		"level_multiplier":  d.LevelMultiplier,
		"combo_bonus":       d.ComboBonusPerMatch,
		"combo_penalty":     d.ComboPenaltyOnWrong,
		"shuffle_enabled":   d.ShuffleEnabled,
		"shuffle_frequency": d.ShuffleFrequency,
		"hints_enabled":     d.HintsEnabled,
		"card_colors": fiber.Map{
			"text":  d.CardColorText,
			"fruit": d.CardColorFruit,
		},
		"is_active": d.IsActive,
		"order":     d.Order,
	}
}

func (s *DifficultyService) GetSettings(c *fiber.Ctx) error {
	var settings []models.DifficultySettings
	if err := s.DB.Order("\"order\"").Find(&settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch settings"})
	}

	data := make([]fiber.Map, 0, len(settings))
	for i := range settings {
		data = append(data, difficultyResponse(&settings[i]))
	}
	return c.JSON(data)
}

func (s *DifficultyService) CreateSetting(c *fiber.Ctx) error {
	var req difficultyPayload
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	level := 1
	if req.Level != nil {
		level = *req.Level
	}

	var existing models.DifficultySettings
	if err := s.DB.Where("difficulty_level = ?", level).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "difficulty level already exists"})
	}

	setting := models.DifficultySettings{
		DifficultyLevel:     level,
		NameEN:              "New Level",
		NameUZ:              "Yangi Daraja",
		NameRU:              "Новый Уровень",
		TimeSeconds:         180,
		BasePoints:          5,
		LevelMultiplier:     2,
		ComboBonusPerMatch:  1.5,
		ComboPenaltyOnWrong: 0.5,
		HintsEnabled:        true,
		IsActive:            true,
	}
	applyDifficultyPayload(&setting, &req)

	if err := s.DB.Create(&setting).Error; err != nil {
		log.Printf("[DIFFICULTY] create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create setting"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": setting.ID})
}

func (s *DifficultyService) UpdateSetting(c *fiber.Ctx) error {
	var setting models.DifficultySettings
	if err := s.DB.First(&setting, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "setting not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req difficultyPayload
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	applyDifficultyPayload(&setting, &req)

	if err := s.DB.Save(&setting).Error; err != nil {
		log.Printf("[DIFFICULTY] update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update setting"})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *DifficultyService) DeleteSetting(c *fiber.Ctx) error {
	var setting models.DifficultySettings
	if err := s.DB.First(&setting, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "setting not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if err := s.DB.Delete(&setting).Error; err != nil {
		log.Printf("[DIFFICULTY] delete failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete setting"})
	}
	return c.JSON(fiber.Map{"success": true})
}

func applyDifficultyPayload(setting *models.DifficultySettings, req *difficultyPayload) {
	if req.Names != nil {
		if v, ok := req.Names["en"]; ok {
			setting.NameEN = v
		}
		if v, ok := req.Names["uz"]; ok {
			setting.NameUZ = v
		}
		if v, ok := req.Names["ru"]; ok {
			setting.NameRU = v
		}
	}
	if req.Descriptions != nil {
		if v, ok := req.Descriptions["en"]; ok {
			setting.DescriptionEN = v
		}
		if v, ok := req.Descriptions["uz"]; ok {
			setting.DescriptionUZ = v
		}
		if v, ok := req.Descriptions["ru"]; ok {
			setting.DescriptionRU = v
		}
	}
	if req.TimeSeconds != nil {
		setting.TimeSeconds = *req.TimeSeconds
	}
	if req.BasePoints != nil {
		setting.BasePoints = *req.BasePoints
	}
	if req.LevelMultiplier != nil {
		setting.LevelMultiplier = *req.LevelMultiplier
	}
	if req.ComboBonus != nil {
		setting.ComboBonusPerMatch = *req.ComboBonus
	}
	if req.ComboPenalty != nil {
		setting.ComboPenaltyOnWrong = *req.ComboPenalty
	}
	if req.ShuffleEnabled != nil {
		setting.ShuffleEnabled = *req.ShuffleEnabled
	}
	if req.ShuffleFrequency != nil {
		setting.ShuffleFrequency = *req.ShuffleFrequency
	}
	if req.HintsEnabled != nil {
		setting.HintsEnabled = *req.HintsEnabled
	}
	if req.CardColors != nil {
		if v, ok := req.CardColors["text"]; ok {
			setting.CardColorText = v
		}
		if v, ok := req.CardColors["fruit"]; ok {
			setting.CardColorFruit = v
		}
	}
	if req.IsActive != nil {
		setting.IsActive = *req.IsActive
	}
	if req.Order != nil {
		setting.Order = *req.Order
	}
}

// previewExampleMatches is the perfect-run length the preview assumes.
const previewExampleMatches = 8

// PreviewSettings estimates what a perfect run scores under the submitted
// knobs, before the admin saves them.
func (s *DifficultyService) PreviewSettings(c *fiber.Ctx) error {
	var req struct {
		TimeSeconds     *int     `json:"time_seconds"`
		BasePoints      *int     `json:"base_points"`
		LevelMultiplier *int     `json:"level_multiplier"`
		ComboBonus      *float64 `json:"combo_bonus"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	timeSeconds := 180
	basePoints := 5
	multiplier := 2
	comboBonus := 1.5
	if req.TimeSeconds != nil {
		timeSeconds = *req.TimeSeconds
	}
	if req.BasePoints != nil {
		basePoints = *req.BasePoints
	}
	if req.LevelMultiplier != nil {
		multiplier = *req.LevelMultiplier
	}
	if req.ComboBonus != nil {
		comboBonus = *req.ComboBonus
	}

	total := TotalScore(previewExampleMatches, basePoints, multiplier, comboBonus)

	label := "Easy"
	if basePoints >= 20 {
		label = "Hard"
	} else if basePoints >= 10 {
		label = "Medium"
	}

	return c.JSON(fiber.Map{
		"preview": fiber.Map{
			"total_score_perfect":      total,
			"average_points_per_match": math.Round(float64(total)/previewExampleMatches*100) / 100,
			"time_per_match":           math.Round(float64(timeSeconds)/previewExampleMatches*100) / 100,
			"estimated_difficulty":     label,
		},
	})
}
