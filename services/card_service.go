// services/card_service.go
package services

import (
	"errors"
	"log"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"card-match-backend/models"
	"card-match-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// CardService is the admin CRUD over the fruit/text card catalogs. Card
// images go to R2 when configured, local uploads/ otherwise.
type CardService struct {
	DB *gorm.DB
}

func NewCardService(db *gorm.DB) *CardService {
	return &CardService{DB: db}
}

// parseBool accepts multipart form booleans sent as strings.
func parseBool(value string, fallback bool) bool {
	if value == "" {
		return fallback
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

func parseIntField(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// storeCardImage uploads the image and returns its public URL.
func storeCardImage(fileHeader *multipart.FileHeader, prefix string) (string, error) {
	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".png"
	}
	key := prefix + "/" + uuid.NewString() + ext

	if utils.R2Enabled() {
		return utils.UploadImageToR2(fileHeader, key)
	}

	localPath := utils.GetUploadPath(key)
	if err := utils.SaveFile(fileHeader, localPath); err != nil {
		return "", err
	}
	return "/" + localPath, nil
}

// cardCode returns the explicit code or a slug derived from the title.
func cardCode(code, title string) string {
	if code != "" {
		return code
	}
	return slug.Make(title)
}

// --- Fruit cards ---

func (s *CardService) GetFruitCards(c *fiber.Ctx) error {
	var cards []models.FruitCard
	if err := s.DB.Order("\"order\", title").Find(&cards).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch fruit cards"})
	}
	return c.JSON(cards)
}

func (s *CardService) CreateFruitCard(c *fiber.Ctx) error {
	title := c.FormValue("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}

	card := models.FruitCard{
		Title:    title,
		Code:     cardCode(c.FormValue("code"), title),
		IsActive: parseBool(c.FormValue("is_active"), true),
		Weight:   parseIntField(c.FormValue("weight"), 1),
		Order:    parseIntField(c.FormValue("order"), 0),
	}
	if card.Weight < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "weight must be >= 1"})
	}

	if imageFile, err := c.FormFile("image"); err == nil && imageFile.Size > 0 {
		url, err := storeCardImage(imageFile, "fruits")
		if err != nil {
			log.Printf("[CARDS] fruit image upload failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload image"})
		}
		card.ImageURL = url
	}

	if err := s.DB.Create(&card).Error; err != nil {
		log.Printf("[CARDS] fruit create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create card"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": card.ID})
}

func (s *CardService) UpdateFruitCard(c *fiber.Ctx) error {
	var card models.FruitCard
	if err := s.DB.First(&card, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "card not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if v := c.FormValue("title"); v != "" {
		card.Title = v
	}
	if v := c.FormValue("is_active"); v != "" {
		card.IsActive = parseBool(v, card.IsActive)
	}
	if v := c.FormValue("weight"); v != "" {
		card.Weight = parseIntField(v, card.Weight)
	}
	if v := c.FormValue("order"); v != "" {
		card.Order = parseIntField(v, card.Order)
	}

	if imageFile, err := c.FormFile("image"); err == nil && imageFile.Size > 0 {
		url, err := storeCardImage(imageFile, "fruits")
		if err != nil {
			log.Printf("[CARDS] fruit image upload failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload image"})
		}
		card.ImageURL = url
	}

	if err := s.DB.Save(&card).Error; err != nil {
		log.Printf("[CARDS] fruit update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update card"})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *CardService) DeleteFruitCard(c *fiber.Ctx) error {
	var card models.FruitCard
	if err := s.DB.First(&card, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "card not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if err := s.DB.Delete(&card).Error; err != nil {
		log.Printf("[CARDS] fruit delete failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete card"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// --- Text cards ---

func (s *CardService) GetTextCards(c *fiber.Ctx) error {
	var cards []models.TextCard
	if err := s.DB.Preload("CorrectFruit").Order("\"order\", title").Find(&cards).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch text cards"})
	}
	return c.JSON(cards)
}

// resolveFruit parses the correct_fruit_id form value. Returns (nil, nil)
// for empty or "null" (explicitly unpaired).
func (s *CardService) resolveFruit(raw string) (*uint, error) {
	if raw == "" || raw == "null" {
		return nil, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	var fruit models.FruitCard
	if err := s.DB.First(&fruit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &fruit.ID, nil
}

func (s *CardService) CreateTextCard(c *fiber.Ctx) error {
	title := c.FormValue("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}

	fruitID, err := s.resolveFruit(c.FormValue("correct_fruit_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fruit card not found"})
	}

	card := models.TextCard{
		Title:          title,
		Code:           cardCode(c.FormValue("code"), title),
		CorrectFruitID: fruitID,
		IsActive:       parseBool(c.FormValue("is_active"), true),
		Weight:         parseIntField(c.FormValue("weight"), 1),
		Order:          parseIntField(c.FormValue("order"), 0),
	}
	if card.Weight < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "weight must be >= 1"})
	}

	if imageFile, err := c.FormFile("image"); err == nil && imageFile.Size > 0 {
		url, err := storeCardImage(imageFile, "texts")
		if err != nil {
			log.Printf("[CARDS] text image upload failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload image"})
		}
		card.ImageURL = url
	}

	if err := s.DB.Create(&card).Error; err != nil {
		log.Printf("[CARDS] text create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create card"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": card.ID})
}

func (s *CardService) UpdateTextCard(c *fiber.Ctx) error {
	var card models.TextCard
	if err := s.DB.First(&card, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "card not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if v := c.FormValue("title"); v != "" {
		card.Title = v
	}
	if v := c.FormValue("is_active"); v != "" {
		card.IsActive = parseBool(v, card.IsActive)
	}
	if v := c.FormValue("weight"); v != "" {
		card.Weight = parseIntField(v, card.Weight)
	}
	if v := c.FormValue("order"); v != "" {
		card.Order = parseIntField(v, card.Order)
	}
	if form, err := c.MultipartForm(); err == nil {
		if vals, ok := form.Value["correct_fruit_id"]; ok && len(vals) > 0 {
			fruitID, err := s.resolveFruit(vals[0])
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fruit card not found"})
			}
			card.CorrectFruitID = fruitID
		}
	}

	if imageFile, err := c.FormFile("image"); err == nil && imageFile.Size > 0 {
		url, err := storeCardImage(imageFile, "texts")
		if err != nil {
			log.Printf("[CARDS] text image upload failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload image"})
		}
		card.ImageURL = url
	}

	if err := s.DB.Save(&card).Error; err != nil {
		log.Printf("[CARDS] text update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update card"})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *CardService) DeleteTextCard(c *fiber.Ctx) error {
	var card models.TextCard
	if err := s.DB.First(&card, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "card not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if err := s.DB.Delete(&card).Error; err != nil {
		log.Printf("[CARDS] text delete failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete card"})
	}
	return c.JSON(fiber.Map{"success": true})
}
