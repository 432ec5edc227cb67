// services/config_service.go
package services

import (
	"fmt"
	"log"

	"card-match-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ConfigService manages the singleton game configuration row. Load reads a
// fresh snapshot per call — the promo threshold may be edited by an admin
// between two session finishes and each finish uses the value current at
// invocation.
type ConfigService struct {
	DB *gorm.DB
}

func NewConfigService(db *gorm.DB) *ConfigService {
	return &ConfigService{DB: db}
}

const configRowID = 1

// Load returns the config row, creating it with defaults on first use.
func (s *ConfigService) Load() (*models.GameConfig, error) {
	var cfg models.GameConfig
	err := s.DB.First(&cfg, configRowID).Error
	if err == nil {
		return &cfg, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("load game config: %w", err)
	}

	cfg = models.GameConfig{
		ID:                  configRowID,
		ConfigVersion:       1,
		TimerSeconds:        60,
		PromoScoreThreshold: 100,
	}
	if err := s.DB.Create(&cfg).Error; err != nil {
		return nil, fmt.Errorf("create game config: %w", err)
	}
	log.Println("[CONFIG] created default game config")
	return &cfg, nil
}

// GetAdminConfig returns the raw config row for the admin panel.
func (s *ConfigService) GetAdminConfig(c *fiber.Ctx) error {
	cfg, err := s.Load()
	if err != nil {
		log.Printf("[CONFIG] load failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load config"})
	}
	return c.JSON(fiber.Map{
		"maintenance_mode":      cfg.MaintenanceMode,
		"promo_score_threshold": cfg.PromoScoreThreshold,
		"timer_seconds":         cfg.TimerSeconds,
		"version":               cfg.ConfigVersion,
	})
}

// UpdateAdminConfig applies partial updates and bumps the config version.
// Superuser only (enforced in routing).
func (s *ConfigService) UpdateAdminConfig(c *fiber.Ctx) error {
	var req struct {
		MaintenanceMode     *bool `json:"maintenance_mode"`
		PromoScoreThreshold *int  `json:"promo_score_threshold"`
		TimerSeconds        *int  `json:"timer_seconds"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	cfg, err := s.Load()
	if err != nil {
		log.Printf("[CONFIG] load failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load config"})
	}

	if req.MaintenanceMode != nil {
		cfg.MaintenanceMode = *req.MaintenanceMode
	}
	if req.PromoScoreThreshold != nil {
		if *req.PromoScoreThreshold < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "promo_score_threshold must be >= 1"})
		}
		cfg.PromoScoreThreshold = *req.PromoScoreThreshold
	}
	if req.TimerSeconds != nil {
		if *req.TimerSeconds < 10 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "timer_seconds must be >= 10"})
		}
		cfg.TimerSeconds = *req.TimerSeconds
	}

	cfg.ConfigVersion++
	if err := s.DB.Save(cfg).Error; err != nil {
		log.Printf("[CONFIG] save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save config"})
	}

	log.Printf("[CONFIG] updated to v%d (threshold=%d, timer=%ds, maintenance=%t)",
		cfg.ConfigVersion, cfg.PromoScoreThreshold, cfg.TimerSeconds, cfg.MaintenanceMode)
	return c.JSON(fiber.Map{"success": true, "version": cfg.ConfigVersion})
}

// GetPublicConfig serves the client bootstrap bundle: config plus active cards.
func (s *ConfigService) GetPublicConfig(c *fiber.Ctx) error {
	cfg, err := s.Load()
	if err != nil {
		log.Printf("[CONFIG] load failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load config"})
	}

	var fruits []models.FruitCard
	if err := s.DB.Where("is_active = ?", true).Order("\"order\", title").Find(&fruits).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load fruit cards"})
	}

	var texts []models.TextCard
	if err := s.DB.Preload("CorrectFruit").Where("is_active = ?", true).Order("\"order\", title").Find(&texts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load text cards"})
	}

	return c.JSON(fiber.Map{
		"config":      cfg,
		"fruit_cards": fruits,
		"text_cards":  texts,
	})
}
