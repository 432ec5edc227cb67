package services

import (
	"fmt"
	"sync"
	"testing"

	"card-match-backend/models"
)

func TestTryRedeem_BelowThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := NewRedemptionService(db)

	player := newTestPlayer(t, db, "Alice", "+998901234501")
	session := newFinishedSession(t, db, player.ID, 80)
	newPromoCode(t, db, "CODEAAAA")

	promo, err := svc.TryRedeem(session, 100)
	if err != nil {
		t.Fatalf("TryRedeem failed: %v", err)
	}
	if promo != nil {
		t.Fatalf("expected no code below threshold, got %q", promo.Code)
	}

	var unclaimed int64
	if err := db.Model(&models.PromoCode{}).Where("is_used = ?", false).Count(&unclaimed).Error; err != nil {
		t.Fatalf("count unclaimed: %v", err)
	}
	if unclaimed != 1 {
		t.Fatalf("pool was modified: %d unclaimed, want 1", unclaimed)
	}
}

func TestTryRedeem_ClaimsOneCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewRedemptionService(db)

	player := newTestPlayer(t, db, "Alice", "+998901234502")
	session := newFinishedSession(t, db, player.ID, 150)
	newPromoCode(t, db, "CODEAAAA")
	newPromoCode(t, db, "CODEBBBB")

	promo, err := svc.TryRedeem(session, 100)
	if err != nil {
		t.Fatalf("TryRedeem failed: %v", err)
	}
	if promo == nil {
		t.Fatal("expected a code, got none")
	}
	// First by insertion order.
	if promo.Code != "CODEAAAA" {
		t.Fatalf("unexpected code: got=%q want=%q", promo.Code, "CODEAAAA")
	}

	var stored models.PromoCode
	if err := db.Where("code = ?", promo.Code).First(&stored).Error; err != nil {
		t.Fatalf("reload promo: %v", err)
	}
	if !stored.IsUsed {
		t.Fatal("claimed code not marked used")
	}
	if stored.PlayerID == nil || *stored.PlayerID != player.ID {
		t.Fatalf("claimed code not bound to player: %v", stored.PlayerID)
	}
	if stored.ClaimedAt == nil {
		t.Fatal("claimed code missing claimed_at")
	}
}

func TestTryRedeem_PoolExhausted(t *testing.T) {
	db := newTestDB(t)
	svc := NewRedemptionService(db)

	player := newTestPlayer(t, db, "Alice", "+998901234503")
	session := newFinishedSession(t, db, player.ID, 500)

	promo, err := svc.TryRedeem(session, 100)
	if err != nil {
		t.Fatalf("TryRedeem failed: %v", err)
	}
	if promo != nil {
		t.Fatalf("expected exhaustion, got code %q", promo.Code)
	}
}

// No intermediate claim state may ever be observable: is_used, player_id and
// claimed_at flip together.
func TestTryRedeem_ClaimAtomicity(t *testing.T) {
	db := newTestDB(t)
	svc := NewRedemptionService(db)

	for i := 0; i < 4; i++ {
		newPromoCode(t, db, fmt.Sprintf("ATOM%04d", i))
	}
	for i := 0; i < 4; i++ {
		player := newTestPlayer(t, db, fmt.Sprintf("P%d", i), fmt.Sprintf("+99890123451%d", i))
		session := newFinishedSession(t, db, player.ID, 200)
		if _, err := svc.TryRedeem(session, 100); err != nil {
			t.Fatalf("TryRedeem failed: %v", err)
		}
	}

	var codes []models.PromoCode
	if err := db.Find(&codes).Error; err != nil {
		t.Fatalf("load codes: %v", err)
	}
	for _, code := range codes {
		claimed := code.IsUsed
		hasOwner := code.PlayerID != nil
		hasTime := code.ClaimedAt != nil
		if claimed != hasOwner || claimed != hasTime {
			t.Fatalf("code %s in partial state: used=%t owner=%t time=%t",
				code.Code, claimed, hasOwner, hasTime)
		}
	}
}

// With K codes and N > K concurrent qualifying sessions, exactly K succeed
// and every winner holds a distinct code.
func TestTryRedeem_ExactlyKOfNUnderContention(t *testing.T) {
	const numCodes = 3
	const numSessions = 10

	db := newTestDB(t)
	svc := NewRedemptionService(db)

	for i := 0; i < numCodes; i++ {
		newPromoCode(t, db, fmt.Sprintf("RACE%04d", i))
	}

	sessions := make([]*models.GameSession, numSessions)
	for i := 0; i < numSessions; i++ {
		player := newTestPlayer(t, db, fmt.Sprintf("P%d", i), fmt.Sprintf("+9989012346%02d", i))
		sessions[i] = newFinishedSession(t, db, player.ID, 150)
	}

	results := make([]*models.PromoCode, numSessions)
	errs := make([]error, numSessions)

	var wg sync.WaitGroup
	for i := 0; i < numSessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.TryRedeem(sessions[i], 100)
		}(i)
	}
	wg.Wait()

	winners := 0
	seen := make(map[string]int)
	for i := 0; i < numSessions; i++ {
		if errs[i] != nil {
			t.Fatalf("TryRedeem %d failed: %v", i, errs[i])
		}
		if results[i] != nil {
			winners++
			seen[results[i].Code]++
		}
	}

	if winners != numCodes {
		t.Fatalf("wrong number of winners: got=%d want=%d", winners, numCodes)
	}
	for code, n := range seen {
		if n != 1 {
			t.Fatalf("code %s was claimed %d times", code, n)
		}
	}

	var unclaimed int64
	if err := db.Model(&models.PromoCode{}).Where("is_used = ?", false).Count(&unclaimed).Error; err != nil {
		t.Fatalf("count unclaimed: %v", err)
	}
	if unclaimed != 0 {
		t.Fatalf("%d codes left unclaimed, want 0", unclaimed)
	}
}

// Threshold 100, pool {A, B}. S1 scores 150 and takes a code, S2 scores 80
// and takes nothing, then S3 and S4 race for the last code — exactly one of
// them gets it.
func TestTryRedeem_TwoCodeScenario(t *testing.T) {
	db := newTestDB(t)
	svc := NewRedemptionService(db)

	newPromoCode(t, db, "CODEAAAA")
	newPromoCode(t, db, "CODEBBBB")

	p1 := newTestPlayer(t, db, "P1", "+998901234521")
	p2 := newTestPlayer(t, db, "P2", "+998901234522")
	p3 := newTestPlayer(t, db, "P3", "+998901234523")
	p4 := newTestPlayer(t, db, "P4", "+998901234524")

	s1 := newFinishedSession(t, db, p1.ID, 150)
	promo1, err := svc.TryRedeem(s1, 100)
	if err != nil {
		t.Fatalf("S1 TryRedeem failed: %v", err)
	}
	if promo1 == nil {
		t.Fatal("S1 should have received a code")
	}
	if promo1.PlayerID == nil || *promo1.PlayerID != p1.ID {
		t.Fatal("S1's code not bound to P1")
	}

	s2 := newFinishedSession(t, db, p2.ID, 80)
	promo2, err := svc.TryRedeem(s2, 100)
	if err != nil {
		t.Fatalf("S2 TryRedeem failed: %v", err)
	}
	if promo2 != nil {
		t.Fatalf("S2 scored below threshold but got %q", promo2.Code)
	}

	var unclaimed int64
	if err := db.Model(&models.PromoCode{}).Where("is_used = ?", false).Count(&unclaimed).Error; err != nil {
		t.Fatalf("count unclaimed: %v", err)
	}
	if unclaimed != 1 {
		t.Fatalf("pool should have 1 unclaimed code, has %d", unclaimed)
	}

	s3 := newFinishedSession(t, db, p3.ID, 200)
	s4 := newFinishedSession(t, db, p4.ID, 300)

	var promo3, promo4 *models.PromoCode
	var err3, err4 error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		promo3, err3 = svc.TryRedeem(s3, 100)
	}()
	go func() {
		defer wg.Done()
		promo4, err4 = svc.TryRedeem(s4, 100)
	}()
	wg.Wait()

	if err3 != nil || err4 != nil {
		t.Fatalf("concurrent TryRedeem failed: %v / %v", err3, err4)
	}
	if (promo3 == nil) == (promo4 == nil) {
		t.Fatalf("exactly one of S3/S4 must win the last code: S3=%v S4=%v", promo3, promo4)
	}
}
