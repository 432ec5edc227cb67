package services

import (
	"path/filepath"
	"testing"
	"time"

	"card-match-backend/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway sqlite database. A single connection keeps
// concurrent test goroutines interleaving at the statement level without
// tripping sqlite's writer lock.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.GameConfig{},
		&models.DifficultySettings{},
		&models.FruitCard{},
		&models.TextCard{},
		&models.Player{},
		&models.GameSession{},
		&models.PromoCode{},
		&models.Tournament{},
		&models.DailyStat{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func newTestPlayer(t *testing.T, db *gorm.DB, name, phone string) *models.Player {
	t.Helper()

	player := &models.Player{
		ID:          uuid.NewString(),
		Name:        name,
		PhoneNumber: phone,
	}
	if err := db.Create(player).Error; err != nil {
		t.Fatalf("create test player: %v", err)
	}
	return player
}

// newFinishedSession inserts a session that already went through the finish
// transition with the given score.
func newFinishedSession(t *testing.T, db *gorm.DB, playerID string, score int) *models.GameSession {
	t.Helper()

	now := time.Now().UTC()
	session := &models.GameSession{
		SessionID:  uuid.NewString(),
		PlayerID:   playerID,
		Difficulty: models.DifficultyRanked,
		ScoreBalls: score,
		StartedAt:  now.Add(-time.Minute),
		EndedAt:    &now,
		Duration:   60,
		Status:     models.SessionStatusFinished,
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("create finished session: %v", err)
	}
	return session
}

func newPromoCode(t *testing.T, db *gorm.DB, code string) *models.PromoCode {
	t.Helper()

	promo := &models.PromoCode{Code: code}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("create promo code %s: %v", code, err)
	}
	return promo
}
