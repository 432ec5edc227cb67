package services

import (
	"errors"
	"sync"
	"testing"

	"card-match-backend/models"
)

func TestStart_CreatesOpenSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	player := newTestPlayer(t, db, "Alice", "+998901234530")
	session, err := svc.Start(player.ID, models.DifficultyMedium)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if session.SessionID == "" {
		t.Fatal("session has no public id")
	}
	if session.Finished() {
		t.Fatal("new session must be open")
	}
	if session.Status != models.SessionStatusOpen {
		t.Fatalf("unexpected status: %q", session.Status)
	}
}

func TestFinish_CommitsResultsOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	player := newTestPlayer(t, db, "Alice", "+998901234531")
	session, err := svc.Start(player.ID, models.DifficultyRanked)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	finished, err := svc.Finish(player.ID, FinishInput{
		SessionID:    session.SessionID,
		ScoreBalls:   120,
		Duration:     58,
		CorrectCount: 12,
		WrongCount:   2,
		BestCombo:    6,
	})
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if !finished.Finished() {
		t.Fatal("session not marked finished")
	}
	if finished.ScoreBalls != 120 || finished.Duration != 58 || finished.BestCombo != 6 {
		t.Fatalf("results not applied: %+v", finished)
	}

	var stored models.GameSession
	if err := db.Where("session_id = ?", session.SessionID).First(&stored).Error; err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if stored.EndedAt == nil || stored.ScoreBalls != 120 || stored.Status != models.SessionStatusFinished {
		t.Fatalf("stored session wrong: %+v", stored)
	}
}

func TestFinish_RejectsNegativeScore(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	player := newTestPlayer(t, db, "Alice", "+998901234532")
	session, _ := svc.Start(player.ID, models.DifficultyEasy)

	_, err := svc.Finish(player.ID, FinishInput{SessionID: session.SessionID, ScoreBalls: -1})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestFinish_UnknownSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	player := newTestPlayer(t, db, "Alice", "+998901234533")
	_, err := svc.Finish(player.ID, FinishInput{SessionID: "no-such-session"})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestFinish_ForeignSessionIsPermissionError(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	owner := newTestPlayer(t, db, "Alice", "+998901234534")
	intruder := newTestPlayer(t, db, "Mallory", "+998901234535")
	session, _ := svc.Start(owner.ID, models.DifficultyEasy)

	_, err := svc.Finish(intruder.ID, FinishInput{SessionID: session.SessionID, ScoreBalls: 10})
	if !errors.Is(err, ErrNotSessionOwner) {
		t.Fatalf("expected ErrNotSessionOwner, got %v", err)
	}

	var stored models.GameSession
	if err := db.Where("session_id = ?", session.SessionID).First(&stored).Error; err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if stored.EndedAt != nil {
		t.Fatal("foreign finish must not mutate the session")
	}
}

func TestFinish_SecondCallRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	player := newTestPlayer(t, db, "Alice", "+998901234536")
	session, _ := svc.Start(player.ID, models.DifficultyRanked)

	if _, err := svc.Finish(player.ID, FinishInput{SessionID: session.SessionID, ScoreBalls: 90, Duration: 50}); err != nil {
		t.Fatalf("first Finish failed: %v", err)
	}

	_, err := svc.Finish(player.ID, FinishInput{SessionID: session.SessionID, ScoreBalls: 500, Duration: 10})
	if !errors.Is(err, ErrAlreadyFinished) {
		t.Fatalf("expected ErrAlreadyFinished, got %v", err)
	}

	// The second call must not have reapplied anything.
	var stored models.GameSession
	if err := db.Where("session_id = ?", session.SessionID).First(&stored).Error; err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if stored.ScoreBalls != 90 || stored.Duration != 50 {
		t.Fatalf("second finish mutated the session: %+v", stored)
	}
}

func TestFinish_ConcurrentDoubleFinish(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	player := newTestPlayer(t, db, "Alice", "+998901234537")
	session, _ := svc.Start(player.ID, models.DifficultyRanked)

	var err1, err2 error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err1 = svc.Finish(player.ID, FinishInput{SessionID: session.SessionID, ScoreBalls: 100, Duration: 40})
	}()
	go func() {
		defer wg.Done()
		_, err2 = svc.Finish(player.ID, FinishInput{SessionID: session.SessionID, ScoreBalls: 200, Duration: 30})
	}()
	wg.Wait()

	succeeded := 0
	for _, err := range []error{err1, err2} {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, ErrAlreadyFinished) {
			t.Fatalf("unexpected error from concurrent finish: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("exactly one concurrent finish must commit, got %d", succeeded)
	}

	var stored models.GameSession
	if err := db.Where("session_id = ?", session.SessionID).First(&stored).Error; err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if stored.ScoreBalls != 100 && stored.ScoreBalls != 200 {
		t.Fatalf("stored score matches neither finish: %d", stored.ScoreBalls)
	}
}
