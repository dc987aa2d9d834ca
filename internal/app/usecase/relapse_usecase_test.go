package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fardannozami/streak-limpo/internal/app/usecase"
	"github.com/fardannozami/streak-limpo/internal/clock"
	"github.com/fardannozami/streak-limpo/internal/domain"
)

// =============================================================================
// RELAPSE TESTS
// =============================================================================
//
// After a successful relapse:
// (a) relapse count increases by exactly 1
// (b) the cached anchor equals the instant captured at call time
// (c) today's habit set is empty
// (d) the quote comes from the fixed catalog
//
// A failed remote update leaves every local entry untouched.
//
// =============================================================================

func relapseFixture() (*mockProfileRepo, *mockHabitCache, *mockProfileCache, *clock.Fixed) {
	anchor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	profiles := newMockProfileRepo()
	profiles.profiles["u1"] = &domain.UserProfile{UserID: "u1", StreakAnchor: anchor, RelapseCount: 2}

	habits := newMockHabitCache()
	habits.days("u1")["2024-01-05"] = []string{"1", "2"}
	habits.days("u1")["2024-01-04"] = []string{"3"}

	cache := newMockProfileCache(&domain.UserProfile{UserID: "u1", StreakAnchor: anchor, RelapseCount: 2})
	clk := clock.NewFixed(time.Date(2024, 1, 5, 15, 30, 0, 0, time.UTC), time.UTC)
	return profiles, habits, cache, clk
}

func TestRecordRelapse_Success(t *testing.T) {
	profiles, habits, cache, clk := relapseFixture()
	uc := usecase.NewRecordRelapseUsecase(profiles, habits, cache, clk, nil)
	uc.SetRandom(func(n int) int { return n - 1 })
	now := clk.Now()

	result, err := uc.Execute(context.Background(), domain.Session{UserID: "u1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// (a)
	if profiles.profiles["u1"].RelapseCount != 3 {
		t.Errorf("Expected remote RelapseCount=3, got %d", profiles.profiles["u1"].RelapseCount)
	}
	if cache.profiles["u1"].RelapseCount != 3 {
		t.Errorf("Expected cached RelapseCount=3, got %d", cache.profiles["u1"].RelapseCount)
	}
	// (b)
	if !cache.profiles["u1"].StreakAnchor.Equal(now) {
		t.Errorf("Expected cached anchor %v, got %v", now, cache.profiles["u1"].StreakAnchor)
	}
	if !result.NewAnchor.Equal(now) || !profiles.profiles["u1"].StreakAnchor.Equal(now) {
		t.Errorf("Expected anchor %v everywhere, got result=%v remote=%v", now, result.NewAnchor, profiles.profiles["u1"].StreakAnchor)
	}
	if cache.profiles["u1"].LastRelapseAt == nil || !cache.profiles["u1"].LastRelapseAt.Equal(now) {
		t.Errorf("Expected LastRelapseAt %v, got %v", now, cache.profiles["u1"].LastRelapseAt)
	}
	// (c)
	if _, ok := habits.days("u1")["2024-01-05"]; ok {
		t.Errorf("Expected today's habits purged, got %v", habits.days("u1")["2024-01-05"])
	}
	if len(habits.days("u1")["2024-01-04"]) != 1 {
		t.Errorf("Expected previous day untouched, got %v", habits.days("u1")["2024-01-04"])
	}
	// (d)
	if result.Quote != domain.MotivationalQuotes[len(domain.MotivationalQuotes)-1] {
		t.Errorf("Expected last quote from catalog, got %q", result.Quote)
	}
}

func TestRecordRelapse_QuoteAlwaysFromCatalog(t *testing.T) {
	for i := 0; i < 20; i++ {
		profiles, habits, cache, clk := relapseFixture()
		uc := usecase.NewRecordRelapseUsecase(profiles, habits, cache, clk, nil)

		result, err := uc.Execute(context.Background(), domain.Session{UserID: "u1"})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		found := false
		for _, q := range domain.MotivationalQuotes {
			if q == result.Quote {
				found = true
			}
		}
		if !found {
			t.Fatalf("Quote %q not in catalog", result.Quote)
		}
	}
}

func TestRecordRelapse_RemoteFailureTouchesNothing(t *testing.T) {
	profiles, habits, cache, clk := relapseFixture()
	profiles.relapseErr = errRemoteDown
	before := *cache.profiles["u1"]
	uc := usecase.NewRecordRelapseUsecase(profiles, habits, cache, clk, nil)

	_, err := uc.Execute(context.Background(), domain.Session{UserID: "u1"})
	if !errors.Is(err, errRemoteDown) {
		t.Fatalf("Expected wrapped remote error, got %v", err)
	}

	if len(habits.days("u1")["2024-01-05"]) != 2 {
		t.Errorf("Expected today's habits kept, got %v", habits.days("u1")["2024-01-05"])
	}
	if cache.writes != 0 || cache.profiles["u1"].RelapseCount != before.RelapseCount || !cache.profiles["u1"].StreakAnchor.Equal(before.StreakAnchor) {
		t.Errorf("Expected cached profile untouched, got %+v", cache.profiles["u1"])
	}
}

func TestRecordRelapse_NoCachedProfileUsesRemote(t *testing.T) {
	profiles, habits, _, clk := relapseFixture()
	cache := newMockProfileCache()
	uc := usecase.NewRecordRelapseUsecase(profiles, habits, cache, clk, nil)

	if _, err := uc.Execute(context.Background(), domain.Session{UserID: "u1"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cache.profiles["u1"] == nil || cache.profiles["u1"].RelapseCount != 3 {
		t.Errorf("Expected cache filled from remote with RelapseCount=3, got %+v", cache.profiles["u1"])
	}
}

func TestRecordRelapse_Preconditions(t *testing.T) {
	profiles, habits, cache, clk := relapseFixture()
	uc := usecase.NewRecordRelapseUsecase(profiles, habits, cache, clk, nil)

	if _, err := uc.Execute(context.Background(), domain.Session{}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("Expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), domain.Session{UserID: "ghost"}); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("Expected ErrProfileNotFound, got %v", err)
	}
	if len(habits.days("u1")["2024-01-05"]) != 2 {
		t.Errorf("Expected habits untouched after failures, got %v", habits.days("u1")["2024-01-05"])
	}
}
