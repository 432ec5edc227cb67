// services/promo_service.go
package services

import (
	"crypto/rand"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"card-match-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const promoCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const promoCodeLength = 8

// PromoService is the admin surface over the promo-code pool: inventory
// listing, bulk generation and CSV export. Claiming lives in
// RedemptionService; this side only guarantees that fresh codes are unique
// and start unclaimed.
type PromoService struct {
	DB *gorm.DB
}

func NewPromoService(db *gorm.DB) *PromoService {
	return &PromoService{DB: db}
}

func randomPromoCode() (string, error) {
	buf := make([]byte, promoCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	var b strings.Builder
	for _, v := range buf {
		b.WriteByte(promoCodeCharset[int(v)%len(promoCodeCharset)])
	}
	return b.String(), nil
}

// GetPromoCodes lists the pool, optionally filtered by ?unused=true.
func (s *PromoService) GetPromoCodes(c *fiber.Ctx) error {
	query := s.DB.Preload("Player").Order("created_at DESC")
	if c.Query("unused") == "true" {
		query = query.Where("is_used = ?", false)
	}

	var codes []models.PromoCode
	if err := query.Find(&codes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch promo codes"})
	}

	data := make([]fiber.Map, 0, len(codes))
	for _, code := range codes {
		var player fiber.Map
		if code.Player != nil {
			player = fiber.Map{"id": code.Player.ID, "name": code.Player.Name}
		}
		data = append(data, fiber.Map{
			"id":         code.ID,
			"code":       code.Code,
			"is_used":    code.IsUsed,
			"player":     player,
			"claimed_at": code.ClaimedAt,
			"created_at": code.CreatedAt,
		})
	}
	return c.JSON(data)
}

// GeneratePromoCodes bulk-creates unclaimed codes. Duplicate random codes
// are regenerated until the unique constraint is satisfied. Superuser only
// (enforced in routing).
func (s *PromoService) GeneratePromoCodes(c *fiber.Ctx) error {
	var req struct {
		Count int `json:"count"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Count < 1 {
		req.Count = 1
	}
	if req.Count > 10000 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "count must be <= 10000"})
	}

	created := make([]fiber.Map, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		promo, err := s.createUniqueCode()
		if err != nil {
			log.Printf("[PROMO] bulk generation failed after %d codes: %v", len(created), err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to generate codes"})
		}
		created = append(created, fiber.Map{"id": promo.ID, "code": promo.Code})
	}

	log.Printf("[PROMO] generated %d new codes", len(created))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"codes":   created,
	})
}

func (s *PromoService) createUniqueCode() (*models.PromoCode, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := randomPromoCode()
		if err != nil {
			return nil, err
		}

		var count int64
		if err := s.DB.Model(&models.PromoCode{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			continue
		}

		promo := &models.PromoCode{Code: code}
		if err := s.DB.Create(promo).Error; err != nil {
			// Unique-constraint race with another generator; try a new code.
			continue
		}
		return promo, nil
	}
	return nil, fmt.Errorf("could not generate a unique code in 5 attempts")
}

// ExportPromoCodesCSV streams the pool as CSV.
func (s *PromoService) ExportPromoCodesCSV(c *fiber.Ctx) error {
	var codes []models.PromoCode
	if err := s.DB.Preload("Player").Order("created_at DESC").Find(&codes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="promo_codes.csv"`)

	w := csv.NewWriter(c)
	defer w.Flush()

	if err := w.Write([]string{"id", "code", "is_used", "player", "claimed_at", "created_at"}); err != nil {
		return err
	}
	for _, code := range codes {
		playerName := ""
		if code.Player != nil {
			playerName = code.Player.Name
		}
		claimedAt := ""
		if code.ClaimedAt != nil {
			claimedAt = code.ClaimedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			strconv.FormatUint(uint64(code.ID), 10),
			code.Code,
			strconv.FormatBool(code.IsUsed),
			playerName,
			claimedAt,
			code.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
