package domain

import (
	"context"
	"time"
)

// UserProfile is the per-user document. StreakAnchor is only ever written by
// onboarding and by relapse recording.
type UserProfile struct {
	UserID              string     `json:"user_id"`
	StreakAnchor        time.Time  `json:"streak_anchor"`
	RelapseCount        int        `json:"relapse_count"`
	LastRelapseAt       *time.Time `json:"last_relapse_at,omitempty"`
	VictoryMode         string     `json:"victory_mode"`
	FocusPillar         string     `json:"focus_pillar"`
	AddictionScore      int        `json:"addiction_score"`
	OnboardingCompleted bool       `json:"onboarding_completed"`
	Email               string     `json:"email"`
	CreatedAt           time.Time  `json:"created_at"`
	LastUpdated         time.Time  `json:"last_updated"`
}

// HasAnchor reports whether the streak anchor is usable.
func (p *UserProfile) HasAnchor() bool {
	return p != nil && !p.StreakAnchor.IsZero()
}

// ProfileRepository is the remote profile store and the source of truth for
// the streak anchor and relapse count.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	UpsertProfile(ctx context.Context, profile *UserProfile) error
	// ApplyRelapse sets the anchor and last relapse to at and increments the
	// relapse count in a single update. Returns ErrProfileNotFound when the
	// user has no profile.
	ApplyRelapse(ctx context.Context, userID string, at time.Time) error
}

// ProfileCache is the local mirror of each user's profile, keyed by
// UserID. It is never the source of truth.
type ProfileCache interface {
	Read(userID string) (*UserProfile, bool)
	Write(profile *UserProfile) error
}

// RelapseResult is what the user sees after confirming a relapse.
type RelapseResult struct {
	Quote     string
	NewAnchor time.Time
}

// OnboardingAnswer is one answered assessment question.
type OnboardingAnswer struct {
	QuestionID int
	Score      *int
	Value      string
}

const (
	LastScoredQuestion    = 15
	VictoryModeQuestion   = 16
	FocusPillarQuestion   = 17
	UndefinedProfileValue = "INDEFINIDO"
)
