package usecase_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/fardannozami/streak-limpo/internal/domain"
)

var errRemoteDown = errors.New("remote unavailable")

// mockHabitCache keeps one day map per user.
type mockHabitCache struct {
	users map[string]map[string][]string
}

func newMockHabitCache() *mockHabitCache {
	return &mockHabitCache{users: make(map[string]map[string][]string)}
}

func (m *mockHabitCache) days(userID string) map[string][]string {
	d, ok := m.users[userID]
	if !ok {
		d = make(map[string][]string)
		m.users[userID] = d
	}
	return d
}

func (m *mockHabitCache) Get(userID, dayKey string) ([]string, error) {
	ids, ok := m.days(userID)[dayKey]
	if !ok {
		return []string{}, nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}

func (m *mockHabitCache) Put(userID, dayKey string, ids []string) error {
	m.days(userID)[dayKey] = ids
	return nil
}

func (m *mockHabitCache) Delete(userID, dayKey string) error {
	delete(m.days(userID), dayKey)
	return nil
}

type mockHistoryRepo struct {
	mu      sync.Mutex
	err     error
	getErr  error
	history map[string]*domain.DailyHistory
	calls   int
}

func newMockHistoryRepo() *mockHistoryRepo {
	return &mockHistoryRepo{history: make(map[string]*domain.DailyHistory)}
}

func (m *mockHistoryRepo) UpsertDailyHistory(ctx context.Context, userID string, h *domain.DailyHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.history[userID+"/"+h.DayKey] = h
	return nil
}

func (m *mockHistoryRepo) GetDailyHistory(ctx context.Context, userID, dayKey string) (*domain.DailyHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.history[userID+"/"+dayKey], nil
}

type mockProfileRepo struct {
	profiles   map[string]*domain.UserProfile
	getErr     error
	relapseErr error
	upsertErr  error
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*domain.UserProfile)}
}

func (m *mockProfileRepo) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockProfileRepo) UpsertProfile(ctx context.Context, profile *domain.UserProfile) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	cp := *profile
	m.profiles[profile.UserID] = &cp
	return nil
}

func (m *mockProfileRepo) ApplyRelapse(ctx context.Context, userID string, at time.Time) error {
	if m.relapseErr != nil {
		return m.relapseErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.StreakAnchor = at
	relapsedAt := at
	p.LastRelapseAt = &relapsedAt
	p.RelapseCount++
	p.LastUpdated = at
	return nil
}

type mockProfileCache struct {
	profiles map[string]*domain.UserProfile
	writes   int
}

func newMockProfileCache(cached ...*domain.UserProfile) *mockProfileCache {
	m := &mockProfileCache{profiles: make(map[string]*domain.UserProfile)}
	for _, p := range cached {
		m.profiles[p.UserID] = p
	}
	return m
}

func (m *mockProfileCache) Read(userID string) (*domain.UserProfile, bool) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

func (m *mockProfileCache) Write(profile *domain.UserProfile) error {
	cp := *profile
	m.profiles[profile.UserID] = &cp
	m.writes++
	return nil
}

type mockTriggerRepo struct {
	events    []*domain.TriggerEvent
	appendErr error
	listErr   error
}

func (m *mockTriggerRepo) AppendTrigger(ctx context.Context, event *domain.TriggerEvent) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	event.ID = "trigger-" + strconv.Itoa(len(m.events)+1)
	m.events = append(m.events, event)
	return nil
}

func (m *mockTriggerRepo) ListTriggersSince(ctx context.Context, userID, sinceDay string) ([]*domain.TriggerEvent, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*domain.TriggerEvent
	for i := len(m.events) - 1; i >= 0; i-- {
		e := m.events[i]
		if e.UserID == userID && e.DateKey >= sinceDay {
			out = append(out, e)
		}
	}
	return out, nil
}
