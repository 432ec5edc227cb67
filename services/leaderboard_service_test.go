package services

import (
	"fmt"
	"testing"
	"time"

	"card-match-backend/models"

	"github.com/google/uuid"
)

func TestTopEntries_OrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)

	player := newTestPlayer(t, db, "Alice", "+998901234540")

	scores := []struct {
		score    int
		duration int
	}{
		{100, 50}, {300, 40}, {200, 60}, {300, 30},
	}
	now := time.Now().UTC()
	for _, sc := range scores {
		session := &models.GameSession{
			SessionID:  uuid.NewString(),
			PlayerID:   player.ID,
			Difficulty: models.DifficultyRanked,
			ScoreBalls: sc.score,
			Duration:   sc.duration,
			StartedAt:  now,
			EndedAt:    &now,
			Status:     models.SessionStatusFinished,
		}
		if err := db.Create(session).Error; err != nil {
			t.Fatalf("create session: %v", err)
		}
	}

	// An open session must never appear on the board.
	open := &models.GameSession{
		SessionID:  uuid.NewString(),
		PlayerID:   player.ID,
		Difficulty: models.DifficultyRanked,
		ScoreBalls: 999,
		StartedAt:  now,
		Status:     models.SessionStatusOpen,
	}
	if err := db.Create(open).Error; err != nil {
		t.Fatalf("create open session: %v", err)
	}

	entries, err := svc.topEntries(models.DifficultyRanked)
	if err != nil {
		t.Fatalf("topEntries failed: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("unexpected entry count: got=%d want=4", len(entries))
	}

	// Highest score first, fastest run breaking the tie.
	wantScores := []int{300, 300, 200, 100}
	for i, want := range wantScores {
		if entries[i].ScoreBalls != want {
			t.Fatalf("entry %d: score got=%d want=%d", i, entries[i].ScoreBalls, want)
		}
	}
	if entries[0].Duration != 30 || entries[1].Duration != 40 {
		t.Fatalf("tie not broken by duration: %d then %d", entries[0].Duration, entries[1].Duration)
	}
}

func TestTopEntries_CapsAtTen(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)

	now := time.Now().UTC()
	for i := 0; i < 12; i++ {
		player := newTestPlayer(t, db, fmt.Sprintf("P%d", i), fmt.Sprintf("+9989012347%02d", i))
		session := &models.GameSession{
			SessionID:  uuid.NewString(),
			PlayerID:   player.ID,
			Difficulty: models.DifficultyRanked,
			ScoreBalls: 10 * (i + 1),
			StartedAt:  now,
			EndedAt:    &now,
			Status:     models.SessionStatusFinished,
		}
		if err := db.Create(session).Error; err != nil {
			t.Fatalf("create session: %v", err)
		}
	}

	entries, err := svc.topEntries(models.DifficultyRanked)
	if err != nil {
		t.Fatalf("topEntries failed: %v", err)
	}
	if len(entries) != 10 {
		t.Fatalf("leaderboard must cap at 10, got %d", len(entries))
	}
	if entries[0].ScoreBalls != 120 {
		t.Fatalf("top entry wrong: got=%d want=120", entries[0].ScoreBalls)
	}
}
