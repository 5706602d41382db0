package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"optimeet/meethub/internal/model"
	"optimeet/meethub/internal/repository"
)

// AddIntervalInput carries one availability claim. Times are
// zero-padded "HH:MM" strings.
type AddIntervalInput struct {
	SessionCode string
	UserName    string
	DayOfWeek   int
	StartTime   string
	EndTime     string
}

type AvailabilityService interface {
	// Add records an interval for caller. caller must equal
	// in.UserName; intervals are exclusively owned.
	Add(ctx context.Context, caller string, in AddIntervalInput) (*model.AvailabilityInterval, error)
	// ListByUser returns all of one user's intervals across sessions,
	// ordered by day then start time.
	ListByUser(ctx context.Context, userName string) ([]model.AvailabilityInterval, error)
	// ListBySession returns every interval attached to a session.
	ListBySession(ctx context.Context, sessionCode string) ([]model.AvailabilityInterval, error)
	// Remove deletes an interval owned by caller. Refused once the
	// owning session has expired: the data turns read-only, it is not
	// discarded.
	Remove(ctx context.Context, id uuid.UUID, caller string) error
	// RemoveAny deletes any interval regardless of owner or session
	// state. Admin only.
	RemoveAny(ctx context.Context, id uuid.UUID) error
}

type availabilityService struct {
	intervalRepo repository.IntervalRepository
	sessionRepo  repository.SessionRepository
	userRepo     repository.UserRepository
	timeouts     Timeouts
}

func NewAvailabilityService(
	intervalRepo repository.IntervalRepository,
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	timeouts Timeouts,
) AvailabilityService {
	return &availabilityService{
		intervalRepo: intervalRepo,
		sessionRepo:  sessionRepo,
		userRepo:     userRepo,
		timeouts:     timeouts,
	}
}

func (s *availabilityService) Add(ctx context.Context, caller string, in AddIntervalInput) (*model.AvailabilityInterval, error) {
	if caller != in.UserName {
		return nil, ErrNotSameUser
	}
	if !model.ValidDayOfWeek(in.DayOfWeek) {
		return nil, ErrInvalidDayOfWeek
	}
	if !model.ValidClock(in.StartTime) || !model.ValidClock(in.EndTime) {
		return nil, ErrInvalidTimeFormat
	}
	if in.EndTime <= in.StartTime {
		return nil, ErrInvalidTimeRange
	}
	if !sessionCodePattern.MatchString(in.SessionCode) {
		return nil, ErrInvalidSessionCode
	}

	qctx, cancel := s.timeouts.forQuery(ctx)
	defer cancel()

	session, err := s.sessionRepo.GetByCode(qctx, in.SessionCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.Expired(time.Now()) {
		return nil, ErrSessionNotFound
	}

	if _, err := s.userRepo.GetByName(qctx, in.UserName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	interval := &model.AvailabilityInterval{
		SessionCode: in.SessionCode,
		UserName:    in.UserName,
		DayOfWeek:   in.DayOfWeek,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
	}
	// The composite unique index is the authoritative duplicate check.
	if err := s.intervalRepo.Create(qctx, interval); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateInterval
		}
		return nil, fmt.Errorf("create interval: %w", err)
	}
	return interval, nil
}

func (s *availabilityService) ListByUser(ctx context.Context, userName string) ([]model.AvailabilityInterval, error) {
	qctx, cancel := s.timeouts.forQuery(ctx)
	defer cancel()

	intervals, err := s.intervalRepo.ListByUser(qctx, userName)
	if err != nil {
		return nil, fmt.Errorf("list intervals by user: %w", err)
	}
	return intervals, nil
}

func (s *availabilityService) ListBySession(ctx context.Context, sessionCode string) ([]model.AvailabilityInterval, error) {
	actx, cancel := s.timeouts.forAggregate(ctx)
	defer cancel()

	intervals, err := s.intervalRepo.ListBySession(actx, sessionCode)
	if err != nil {
		return nil, fmt.Errorf("list intervals by session: %w", err)
	}
	return intervals, nil
}

func (s *availabilityService) Remove(ctx context.Context, id uuid.UUID, caller string) error {
	qctx, cancel := s.timeouts.forQuery(ctx)
	defer cancel()

	interval, err := s.intervalRepo.GetByID(qctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIntervalNotFound
		}
		return fmt.Errorf("get interval: %w", err)
	}
	if interval.UserName != caller {
		return ErrNotIntervalOwner
	}

	session, err := s.sessionRepo.GetByCode(qctx, interval.SessionCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("get owning session: %w", err)
	}
	if session.Expired(time.Now()) {
		return ErrSessionReadOnly
	}

	if err := s.intervalRepo.Delete(qctx, id); err != nil {
		return fmt.Errorf("delete interval: %w", err)
	}
	return nil
}

func (s *availabilityService) RemoveAny(ctx context.Context, id uuid.UUID) error {
	qctx, cancel := s.timeouts.forQuery(ctx)
	defer cancel()

	if _, err := s.intervalRepo.GetByID(qctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIntervalNotFound
		}
		return fmt.Errorf("get interval: %w", err)
	}
	if err := s.intervalRepo.Delete(qctx, id); err != nil {
		return fmt.Errorf("delete interval: %w", err)
	}
	return nil
}

var _ AvailabilityService = (*availabilityService)(nil)
