package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"optimeet/meethub/internal/model"
)

// In-memory repository fakes. They mirror the database contracts the
// services rely on: gorm.ErrDuplicatedKey on unique-constraint
// violations and gorm.ErrRecordNotFound on missing rows.

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]model.Session

	// createErrs is consumed one per Create call before normal
	// behavior resumes; used to force collisions.
	createErrs  []error
	createCalls int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]model.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, exists := r.sessions[session.Code]; exists {
		return gorm.ErrDuplicatedKey
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = time.Now()
	r.sessions[session.Code] = *session
	return nil
}

func (r *fakeSessionRepo) GetByCode(_ context.Context, code string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &session, nil
}

func (r *fakeSessionRepo) UpdateExpiry(_ context.Context, code string, expiresAt time.Time) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	session.ExpiresAt = expiresAt
	r.sessions[code] = session
	return &session, nil
}

func (r *fakeSessionRepo) ListExpiredCodes(_ context.Context, now time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var codes []string
	for code, session := range r.sessions {
		if now.After(session.ExpiresAt) {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

func (r *fakeSessionRepo) DeleteByCodes(_ context.Context, codes []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for _, code := range codes {
		if _, ok := r.sessions[code]; ok {
			delete(r.sessions, code)
			deleted++
		}
	}
	return deleted, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Name]; exists {
		return gorm.ErrDuplicatedKey
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.Name] = *user
	return nil
}

func (r *fakeUserRepo) GetByName(_ context.Context, name string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) ListByNames(_ context.Context, names []string) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []model.User
	for _, name := range names {
		if user, ok := r.users[name]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) UpdateReady(_ context.Context, name string, ready bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[name]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.IsReady = ready
	r.users[name] = user
	return nil
}

type fakeIntervalRepo struct {
	mu        sync.Mutex
	intervals map[uuid.UUID]model.AvailabilityInterval
}

func newFakeIntervalRepo() *fakeIntervalRepo {
	return &fakeIntervalRepo{intervals: make(map[uuid.UUID]model.AvailabilityInterval)}
}

func (r *fakeIntervalRepo) Create(_ context.Context, interval *model.AvailabilityInterval) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.intervals {
		if existing.SessionCode == interval.SessionCode &&
			existing.UserName == interval.UserName &&
			existing.DayOfWeek == interval.DayOfWeek &&
			existing.StartTime == interval.StartTime &&
			existing.EndTime == interval.EndTime {
			return gorm.ErrDuplicatedKey
		}
	}
	if interval.ID == uuid.Nil {
		interval.ID = uuid.New()
	}
	interval.CreatedAt = time.Now()
	r.intervals[interval.ID] = *interval
	return nil
}

func (r *fakeIntervalRepo) GetByID(_ context.Context, id uuid.UUID) (*model.AvailabilityInterval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	interval, ok := r.intervals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &interval, nil
}

func (r *fakeIntervalRepo) ListByUser(_ context.Context, userName string) ([]model.AvailabilityInterval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AvailabilityInterval
	for _, interval := range r.intervals {
		if interval.UserName == userName {
			out = append(out, interval)
		}
	}
	sortIntervals(out)
	return out, nil
}

func (r *fakeIntervalRepo) ListBySession(_ context.Context, sessionCode string) ([]model.AvailabilityInterval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AvailabilityInterval
	for _, interval := range r.intervals {
		if interval.SessionCode == sessionCode {
			out = append(out, interval)
		}
	}
	sortIntervals(out)
	return out, nil
}

func (r *fakeIntervalRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.intervals, id)
	return nil
}

func (r *fakeIntervalRepo) DeleteBySessionCodes(_ context.Context, codes []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inSet := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		inSet[code] = struct{}{}
	}
	var deleted int64
	for id, interval := range r.intervals {
		if _, ok := inSet[interval.SessionCode]; ok {
			delete(r.intervals, id)
			deleted++
		}
	}
	return deleted, nil
}

func sortIntervals(intervals []model.AvailabilityInterval) {
	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].DayOfWeek != intervals[j].DayOfWeek {
			return intervals[i].DayOfWeek < intervals[j].DayOfWeek
		}
		return intervals[i].StartTime < intervals[j].StartTime
	})
}
