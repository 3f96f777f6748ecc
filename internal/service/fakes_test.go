package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/daily-report-service/internal/auth"
	"github.com/spec-kit/daily-report-service/internal/domain"
	"github.com/spec-kit/daily-report-service/internal/events"
	"github.com/spec-kit/daily-report-service/internal/repository"
)

type fakeSalesRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.Sales
	err    error
}

func newFakeSalesRepo() *fakeSalesRepo {
	return &fakeSalesRepo{nextID: 1, byID: map[int64]*domain.Sales{}}
}

func (f *fakeSalesRepo) add(t *testing.T, email, password, department, position string) *domain.Sales {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	role, err := domain.RoleForPosition(position)
	require.NoError(t, err)

	s := &domain.Sales{
		Name:         email,
		Email:        email,
		PasswordHash: hash,
		Department:   department,
		Position:     position,
		Role:         role,
	}
	require.NoError(t, f.Create(context.Background(), s))
	return s
}

func (f *fakeSalesRepo) Create(_ context.Context, s *domain.Sales) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Email == s.Email {
			return repository.ErrDuplicateEmail
		}
	}
	s.ID = f.nextID
	f.nextID++
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	stored := *s
	f.byID[s.ID] = &stored
	return nil
}

func (f *fakeSalesRepo) Update(_ context.Context, s *domain.Sales) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[s.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *s
	f.byID[s.ID] = &stored
	return nil
}

func (f *fakeSalesRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	s.PasswordHash = hash
	return nil
}

func (f *fakeSalesRepo) GetByID(_ context.Context, id int64) (*domain.Sales, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSalesRepo) GetByEmail(_ context.Context, email string) (*domain.Sales, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.byID {
		if s.Email == email {
			copied := *s
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSalesRepo) List(_ context.Context) ([]domain.Sales, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Sales, 0, len(f.byID))
	for id := int64(1); id < f.nextID; id++ {
		if s, ok := f.byID[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeHistoryRepo struct {
	mu     sync.Mutex
	hashes map[int64][]string
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{hashes: map[int64][]string{}}
}

func (f *fakeHistoryRepo) Add(_ context.Context, salesID int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hashes[salesID] = append([]string{hash}, f.hashes[salesID]...)
	return nil
}

func (f *fakeHistoryRepo) ListRecent(_ context.Context, salesID int64, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hashes := f.hashes[salesID]
	if len(hashes) > limit {
		hashes = hashes[:limit]
	}
	return append([]string(nil), hashes...), nil
}

type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func subscribeAll(d events.Dispatcher, types ...events.EventType) *eventLog {
	l := &eventLog{}
	for _, eventType := range types {
		d.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.events = append(l.events, e)
			return nil
		})
	}
	return l
}

func (l *eventLog) types() []events.EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]events.EventType, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Type)
	}
	return out
}

func (l *eventLog) last() events.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.events[len(l.events)-1]
}
