// services/analytics_service.go
package services

import (
	"log"
	"math"
	"strconv"
	"time"

	"card-match-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AnalyticsService serves the admin dashboard aggregates and owns the daily
// rollup the scheduler materializes into daily_stats.
type AnalyticsService struct {
	DB *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type difficultyAggregate struct {
	AvgScore    *float64
	TotalGames  int64
	AvgDuration *float64
}

// GetOverview returns the dashboard totals, per-difficulty stats and the
// daily session series for the requested window (default 30 days).
func (s *AnalyticsService) GetOverview(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "30"))
	if days < 1 || days > 365 {
		days = 30
	}
	startDate := time.Now().UTC().AddDate(0, 0, -days)

	var totalPlayers, totalSessions, activeSessions int64
	if err := s.DB.Model(&models.Player{}).Count(&totalPlayers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if err := s.DB.Model(&models.GameSession{}).Count(&totalSessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if err := s.DB.Model(&models.GameSession{}).Where("started_at >= ?", startDate).Count(&activeSessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var totalPromos, claimedPromos int64
	if err := s.DB.Model(&models.PromoCode{}).Count(&totalPromos).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if err := s.DB.Model(&models.PromoCode{}).Where("is_used = ?", true).Count(&claimedPromos).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	claimRate := 0.0
	if totalPromos > 0 {
		claimRate = round2(float64(claimedPromos) / float64(totalPromos) * 100)
	}

	difficultyStats := make([]fiber.Map, 0, 3)
	for _, level := range []int{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
		var agg difficultyAggregate
		err := s.DB.Model(&models.GameSession{}).
			Where("difficulty = ? AND ended_at IS NOT NULL", level).
			Select("AVG(score_balls) AS avg_score, COUNT(*) AS total_games, AVG(duration) AS avg_duration").
			Scan(&agg).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}

		avgScore, avgDuration := 0.0, 0.0
		if agg.AvgScore != nil {
			avgScore = round2(*agg.AvgScore)
		}
		if agg.AvgDuration != nil {
			avgDuration = round2(*agg.AvgDuration)
		}
		difficultyStats = append(difficultyStats, fiber.Map{
			"level":        level,
			"avg_score":    avgScore,
			"total_games":  agg.TotalGames,
			"avg_duration": avgDuration,
		})
	}

	daily := make([]fiber.Map, 0, days)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := days - 1; i >= 0; i-- {
		dayStart := today.AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)

		var count int64
		if err := s.DB.Model(&models.GameSession{}).
			Where("started_at >= ? AND started_at < ?", dayStart, dayEnd).
			Count(&count).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		daily = append(daily, fiber.Map{
			"date":     dayStart.Format("2006-01-02"),
			"sessions": count,
		})
	}

	return c.JSON(fiber.Map{
		"overview": fiber.Map{
			"total_players":          totalPlayers,
			"total_sessions":         totalSessions,
			"active_sessions_period": activeSessions,
			"total_promos":           totalPromos,
			"claimed_promos":         claimedPromos,
			"claim_rate":             claimRate,
		},
		"difficulty_stats": difficultyStats,
		"daily_sessions":   daily,
	})
}

// GetTopPlayers returns the 20 best players by best score.
func (s *AnalyticsService) GetTopPlayers(c *fiber.Ctx) error {
	type topPlayerRow struct {
		ID         string
		Name       string
		Phone      string
		TotalGames int64
		BestScore  int
		AvgScore   *float64
		CreatedAt  time.Time
	}

	var rows []topPlayerRow
	err := s.DB.Model(&models.Player{}).
		Select(`players.id, players.name, players.phone_number AS phone,
			COUNT(game_sessions.id) AS total_games,
			COALESCE(MAX(game_sessions.score_balls), 0) AS best_score,
			AVG(game_sessions.score_balls) AS avg_score,
			players.created_at`).
		Joins("LEFT JOIN game_sessions ON game_sessions.player_id = players.id").
		Group("players.id, players.name, players.phone_number, players.created_at").
		Order("best_score DESC").
		Limit(20).
		Scan(&rows).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	data := make([]fiber.Map, 0, len(rows))
	for _, row := range rows {
		avgScore := 0.0
		if row.AvgScore != nil {
			avgScore = round2(*row.AvgScore)
		}
		data = append(data, fiber.Map{
			"id":          row.ID,
			"name":        row.Name,
			"phone":       row.Phone,
			"total_games": row.TotalGames,
			"best_score":  row.BestScore,
			"avg_score":   avgScore,
			"created_at":  row.CreatedAt,
		})
	}
	return c.JSON(data)
}

// GetDailyStats serves the materialized rollup rows, newest first.
func (s *AnalyticsService) GetDailyStats(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "90"))
	if limit < 1 || limit > 365 {
		limit = 90
	}

	var stats []models.DailyStat
	if err := s.DB.Order("date DESC").Limit(limit).Find(&stats).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch daily stats"})
	}
	return c.JSON(stats)
}

// RollupDay recomputes the daily_stats row for the given UTC day.
func (s *AnalyticsService) RollupDay(day time.Time) error {
	dayStart := day.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var sessions, finished int64
	if err := s.DB.Model(&models.GameSession{}).
		Where("started_at >= ? AND started_at < ?", dayStart, dayEnd).
		Count(&sessions).Error; err != nil {
		return err
	}
	if err := s.DB.Model(&models.GameSession{}).
		Where("started_at >= ? AND started_at < ? AND ended_at IS NOT NULL", dayStart, dayEnd).
		Count(&finished).Error; err != nil {
		return err
	}

	var avgScore *float64
	row := s.DB.Model(&models.GameSession{}).
		Where("started_at >= ? AND started_at < ? AND ended_at IS NOT NULL", dayStart, dayEnd).
		Select("AVG(score_balls)").
		Row()
	if err := row.Scan(&avgScore); err != nil {
		return err
	}

	stat := models.DailyStat{
		Date:     dayStart.Format("2006-01-02"),
		Sessions: sessions,
		Finished: finished,
	}
	if avgScore != nil {
		stat.AvgScore = round2(*avgScore)
	}

	var existing models.DailyStat
	err := s.DB.Where("date = ?", stat.Date).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return s.DB.Create(&stat).Error
	}
	if err != nil {
		return err
	}

	existing.Sessions = stat.Sessions
	existing.Finished = stat.Finished
	existing.AvgScore = stat.AvgScore
	if err := s.DB.Save(&existing).Error; err != nil {
		return err
	}
	log.Printf("[ANALYTICS] rolled up %s: %d sessions, %d finished", stat.Date, sessions, finished)
	return nil
}
