// services/admin_service.go
package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"card-match-backend/models"
	"card-match-backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminService covers admin authentication and player management.
type AdminService struct {
	DB        *gorm.DB
	JWTSecret []byte
}

func NewAdminService(db *gorm.DB, jwtSecret []byte) *AdminService {
	return &AdminService{DB: db, JWTSecret: jwtSecret}
}

func adminPermissions(p *models.Player) fiber.Map {
	return fiber.Map{
		"can_manage_users":    p.IsSuperuser,
		"can_manage_content":  true,
		"can_manage_settings": p.IsSuperuser,
		"can_view_analytics":  true,
	}
}

// Login authenticates a staff player by phone and password and issues a JWT.
func (s *AdminService) Login(c *fiber.Ctx) error {
	var req struct {
		PhoneNumber string `json:"phone_number"`
		Password    string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.PhoneNumber == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "phone number and password required"})
	}

	var player models.Player
	err := s.DB.Where("phone_number = ?", req.PhoneNumber).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && (!player.IsStaff || !player.IsActive)) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials or insufficient permissions"})
	}
	if err != nil {
		log.Printf("[ADMIN] login lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(req.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials or insufficient permissions"})
	}

	token, err := utils.GenerateToken(s.JWTSecret, player.ID, player.IsStaff, player.IsSuperuser, 12*time.Hour)
	if err != nil {
		log.Printf("[ADMIN] token issue failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to issue token"})
	}

	now := time.Now().UTC()
	player.LastLoginAt = &now
	if err := s.DB.Save(&player).Error; err != nil {
		log.Printf("[ADMIN] last login update failed: %v", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"name":         player.Name,
			"phone":        player.PhoneNumber,
			"is_superuser": player.IsSuperuser,
			"permissions":  adminPermissions(&player),
		},
	})
}

// Logout is stateless with bearer tokens; the client just drops the token.
func (s *AdminService) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}

// Profile returns the authenticated admin's identity and permissions.
func (s *AdminService) Profile(c *fiber.Ctx) error {
	playerID := c.Locals("player_id").(string)

	var player models.Player
	if err := s.DB.First(&player, "id = ?", playerID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	return c.JSON(fiber.Map{
		"name":         player.Name,
		"phone":        player.PhoneNumber,
		"is_superuser": player.IsSuperuser,
		"permissions":  adminPermissions(&player),
	})
}

// playerRow is one row of the management listing, with per-player aggregates.
type playerRow struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	TotalGames int64     `json:"total_games"`
	BestScore  int       `json:"best_score"`
	IsStaff    bool      `json:"is_staff"`
	CreatedAt  time.Time `json:"created_at"`
}

// GetPlayers lists players with search and pagination.
func (s *AdminService) GetPlayers(c *fiber.Ctx) error {
	search := c.Query("search")
	page, _ := strconv.Atoi(c.Query("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := s.DB.Model(&models.Player{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone_number LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var players []models.Player
	if err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&players).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	rows := make([]playerRow, 0, len(players))
	for _, p := range players {
		row, err := s.playerAggregates(&p)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		rows = append(rows, row)
	}

	return c.JSON(fiber.Map{
		"players":     rows,
		"total":       total,
		"page":        page,
		"per_page":    perPage,
		"total_pages": (total + int64(perPage) - 1) / int64(perPage),
	})
}

func (s *AdminService) playerAggregates(p *models.Player) (playerRow, error) {
	var totalGames int64
	if err := s.DB.Model(&models.GameSession{}).Where("player_id = ?", p.ID).Count(&totalGames).Error; err != nil {
		return playerRow{}, err
	}
	var bestScore int
	row := s.DB.Model(&models.GameSession{}).
		Where("player_id = ?", p.ID).
		Select("COALESCE(MAX(score_balls), 0)").
		Row()
	if err := row.Scan(&bestScore); err != nil {
		return playerRow{}, err
	}
	return playerRow{
		ID:         p.ID,
		Name:       p.Name,
		Phone:      p.PhoneNumber,
		TotalGames: totalGames,
		BestScore:  bestScore,
		IsStaff:    p.IsStaff,
		CreatedAt:  p.CreatedAt,
	}, nil
}

// UpdatePlayer toggles is_active / is_staff. Superuser only (enforced in
// routing).
func (s *AdminService) UpdatePlayer(c *fiber.Ctx) error {
	var player models.Player
	if err := s.DB.First(&player, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		IsActive *bool `json:"is_active"`
		IsStaff  *bool `json:"is_staff"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.IsActive != nil {
		player.IsActive = *req.IsActive
	}
	if req.IsStaff != nil {
		player.IsStaff = *req.IsStaff
	}

	if err := s.DB.Save(&player).Error; err != nil {
		log.Printf("[ADMIN] player update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update player"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// ExportPlayersCSV streams the player list with aggregates as CSV.
func (s *AdminService) ExportPlayersCSV(c *fiber.Ctx) error {
	var players []models.Player
	if err := s.DB.Order("created_at DESC").Find(&players).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="players.csv"`)

	w := csv.NewWriter(c)
	defer w.Flush()

	if err := w.Write([]string{"id", "name", "phone", "total_games", "best_score", "is_staff", "created_at"}); err != nil {
		return err
	}
	for _, p := range players {
		row, err := s.playerAggregates(&p)
		if err != nil {
			return err
		}
		record := []string{
			row.ID,
			row.Name,
			row.Phone,
			strconv.FormatInt(row.TotalGames, 10),
			strconv.Itoa(row.BestScore),
			fmt.Sprintf("%t", row.IsStaff),
			row.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
