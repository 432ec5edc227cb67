package services

import (
	"strings"
	"testing"

	"card-match-backend/models"
)

func TestRandomPromoCode_Format(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := randomPromoCode()
		if err != nil {
			t.Fatalf("randomPromoCode failed: %v", err)
		}
		if len(code) != promoCodeLength {
			t.Fatalf("unexpected length: got=%d want=%d (%q)", len(code), promoCodeLength, code)
		}
		for _, r := range code {
			if !strings.ContainsRune(promoCodeCharset, r) {
				t.Fatalf("code %q contains %q outside charset", code, r)
			}
		}
		seen[code] = true
	}
	if len(seen) < 45 {
		t.Fatalf("suspiciously many duplicates: %d unique of 50", len(seen))
	}
}

func TestCreateUniqueCode_StartsUnclaimed(t *testing.T) {
	db := newTestDB(t)
	svc := NewPromoService(db)

	promo, err := svc.createUniqueCode()
	if err != nil {
		t.Fatalf("createUniqueCode failed: %v", err)
	}
	if promo.IsUsed {
		t.Fatal("new code must start unclaimed")
	}
	if promo.PlayerID != nil || promo.ClaimedAt != nil {
		t.Fatal("new code must have no owner or claim time")
	}

	var stored models.PromoCode
	if err := db.Where("code = ?", promo.Code).First(&stored).Error; err != nil {
		t.Fatalf("reload code: %v", err)
	}
	if stored.IsUsed {
		t.Fatal("stored code must start unclaimed")
	}
}

func TestCreateUniqueCode_NoCollisions(t *testing.T) {
	db := newTestDB(t)
	svc := NewPromoService(db)

	seen := make(map[string]bool)
	for i := 0; i < 30; i++ {
		promo, err := svc.createUniqueCode()
		if err != nil {
			t.Fatalf("createUniqueCode %d failed: %v", i, err)
		}
		if seen[promo.Code] {
			t.Fatalf("duplicate code generated: %q", promo.Code)
		}
		seen[promo.Code] = true
	}
}
