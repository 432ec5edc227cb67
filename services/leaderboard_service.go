// services/leaderboard_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"card-match-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const leaderboardCacheTTL = 30 * time.Second

// LeaderboardEntry is one row of the public top-10 listing.
type LeaderboardEntry struct {
	PlayerName string `json:"player_name"`
	ScoreBalls int    `json:"score_balls"`
	Duration   int    `json:"duration"`
	Difficulty int    `json:"difficulty"`
	PlayedAt   string `json:"played_at"`
}

// LeaderboardService serves the top-10 with a short-TTL Redis read-through
// cache. RDB may be nil — then every request goes straight to Postgres.
type LeaderboardService struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{DB: db, RDB: rdb}
}

// GetLeaderboard returns the top 10 finished sessions: highest score first,
// fastest (lowest duration) breaking ties. Default board is ranked.
func (s *LeaderboardService) GetLeaderboard(c *fiber.Ctx) error {
	difficulty := models.DifficultyRanked
	if param := c.Query("difficulty"); param != "" {
		if n, err := strconv.Atoi(param); err == nil {
			difficulty = n
		} else if n, ok := difficultyMap[strings.ToLower(param)]; ok {
			difficulty = n
		} else {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid difficulty, use: easy, medium, hard, ranked or number 1-4",
			})
		}
	}
	if difficulty < models.DifficultyEasy || difficulty > models.DifficultyRanked {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid difficulty value"})
	}

	if entries, ok := s.cacheGet(c.Context(), difficulty); ok {
		return c.JSON(entries)
	}

	entries, err := s.topEntries(difficulty)
	if err != nil {
		log.Printf("[LEADERBOARD] query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load leaderboard"})
	}

	s.cacheSet(c.Context(), difficulty, entries)
	return c.JSON(entries)
}

func (s *LeaderboardService) topEntries(difficulty int) ([]LeaderboardEntry, error) {
	var sessions []models.GameSession
	err := s.DB.Preload("Player").
		Where("ended_at IS NOT NULL AND difficulty = ?", difficulty).
		Order("score_balls DESC, duration ASC").
		Limit(10).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(sessions))
	for _, sess := range sessions {
		entries = append(entries, LeaderboardEntry{
			PlayerName: sess.Player.Name,
			ScoreBalls: sess.ScoreBalls,
			Duration:   sess.Duration,
			Difficulty: sess.Difficulty,
			PlayedAt:   sess.StartedAt.UTC().Format(time.RFC3339),
		})
	}
	return entries, nil
}

func (s *LeaderboardService) cacheGet(ctx context.Context, difficulty int) ([]LeaderboardEntry, bool) {
	if s.RDB == nil {
		return nil, false
	}
	raw, err := s.RDB.Get(ctx, leaderboardCacheKey(difficulty)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[LEADERBOARD] cache read failed: %v", err)
		}
		return nil, false
	}
	var entries []LeaderboardEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Printf("[LEADERBOARD] cache decode failed: %v", err)
		return nil, false
	}
	return entries, true
}

func (s *LeaderboardService) cacheSet(ctx context.Context, difficulty int, entries []LeaderboardEntry) {
	if s.RDB == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.RDB.Set(ctx, leaderboardCacheKey(difficulty), raw, leaderboardCacheTTL).Err(); err != nil {
		log.Printf("[LEADERBOARD] cache write failed: %v", err)
	}
}

func leaderboardCacheKey(difficulty int) string {
	return fmt.Sprintf("leaderboard:%d", difficulty)
}
