package workers

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

func newSweeperTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "sweeper.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.GameConfig{}, &models.Player{}, &models.GameSession{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	if err := db.Create(&models.GameConfig{ID: 1, ConfigVersion: 1, TimerSeconds: 60, PromoScoreThreshold: 100}).Error; err != nil {
		t.Fatalf("seed config: %v", err)
	}
	return db
}

func seedSession(t *testing.T, db *gorm.DB, startedAt time.Time, status string) *models.GameSession {
	t.Helper()

	player := &models.Player{ID: uuid.NewString(), Name: "Test", PhoneNumber: "+99890" + uuid.NewString()[:7]}
	if err := db.Create(player).Error; err != nil {
		t.Fatalf("create player: %v", err)
	}
	session := &models.GameSession{
		SessionID: uuid.NewString(),
		PlayerID:  player.ID,
		StartedAt: startedAt,
		Status:    status,
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}
	return session
}

func TestSweep_MarksExpiredOpenSessions(t *testing.T) {
	db := newSweeperTestDB(t)
	sweeper := NewSessionSweeper(db)

	now := time.Now().UTC()
	stale := seedSession(t, db, now.Add(-10*time.Minute), models.SessionStatusOpen)
	fresh := seedSession(t, db, now.Add(-30*time.Second), models.SessionStatusOpen)

	if err := sweeper.sweep(); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	var staleStored, freshStored models.GameSession
	if err := db.Where("session_id = ?", stale.SessionID).First(&staleStored).Error; err != nil {
		t.Fatalf("reload stale session: %v", err)
	}
	if err := db.Where("session_id = ?", fresh.SessionID).First(&freshStored).Error; err != nil {
		t.Fatalf("reload fresh session: %v", err)
	}

	if staleStored.Status != models.SessionStatusAbandoned {
		t.Fatalf("stale session not abandoned: %q", staleStored.Status)
	}
	if staleStored.EndedAt != nil {
		t.Fatal("abandoned session must not look finished")
	}
	if freshStored.Status != models.SessionStatusOpen {
		t.Fatalf("fresh session must stay open: %q", freshStored.Status)
	}
}

func TestSweep_IgnoresFinishedSessions(t *testing.T) {
	db := newSweeperTestDB(t)
	sweeper := NewSessionSweeper(db)

	endedAt := time.Now().UTC().Add(-9 * time.Minute)
	session := seedSession(t, db, time.Now().UTC().Add(-10*time.Minute), models.SessionStatusFinished)
	if err := db.Model(&models.GameSession{}).
		Where("session_id = ?", session.SessionID).
		Update("ended_at", endedAt).Error; err != nil {
		t.Fatalf("mark finished: %v", err)
	}

	if err := sweeper.sweep(); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	var stored models.GameSession
	if err := db.Where("session_id = ?", session.SessionID).First(&stored).Error; err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if stored.Status != models.SessionStatusFinished {
		t.Fatalf("finished session touched by sweeper: %q", stored.Status)
	}
}
