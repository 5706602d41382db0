package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"optimeet/meethub/internal/model"
	"optimeet/meethub/internal/repository"
)

// minResolvedParticipants is the floor of distinct contributors a
// session needs before it can resolve. A lone participant never sees
// results against an empty comparison set.
const minResolvedParticipants = 2

type ReadinessService interface {
	// SetReady flips the identity-level ready flag and returns the
	// updated record. The flag is global: it applies to every session
	// the user belongs to. There is no precondition that the user has
	// submitted any availability.
	SetReady(ctx context.Context, userName string, ready bool) (*model.User, error)
	// IsSessionResolved reports whether every distinct contributor to
	// the session (at least two of them) is currently ready. Pure
	// query, recomputed on every call.
	IsSessionResolved(ctx context.Context, sessionCode string) (bool, error)
}

type readinessService struct {
	userRepo     repository.UserRepository
	intervalRepo repository.IntervalRepository
	timeouts     Timeouts
}

func NewReadinessService(
	userRepo repository.UserRepository,
	intervalRepo repository.IntervalRepository,
	timeouts Timeouts,
) ReadinessService {
	return &readinessService{
		userRepo:     userRepo,
		intervalRepo: intervalRepo,
		timeouts:     timeouts,
	}
}

func (s *readinessService) SetReady(ctx context.Context, userName string, ready bool) (*model.User, error) {
	qctx, cancel := s.timeouts.forQuery(ctx)
	defer cancel()

	if err := s.userRepo.UpdateReady(qctx, userName, ready); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update ready flag: %w", err)
	}

	user, err := s.userRepo.GetByName(qctx, userName)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *readinessService) IsSessionResolved(ctx context.Context, sessionCode string) (bool, error) {
	actx, cancel := s.timeouts.forAggregate(ctx)
	defer cancel()

	intervals, err := s.intervalRepo.ListBySession(actx, sessionCode)
	if err != nil {
		return false, fmt.Errorf("list intervals: %w", err)
	}

	contributors := distinctUserNames(intervals)
	if len(contributors) < minResolvedParticipants {
		return false, nil
	}

	users, err := s.userRepo.ListByNames(actx, contributors)
	if err != nil {
		return false, fmt.Errorf("list contributors: %w", err)
	}
	if len(users) < len(contributors) {
		// A contributor without an identity record cannot be ready.
		return false, nil
	}
	for _, u := range users {
		if !u.IsReady {
			return false, nil
		}
	}
	return true, nil
}

// distinctUserNames returns the sorted set of user names appearing in
// intervals.
func distinctUserNames(intervals []model.AvailabilityInterval) []string {
	seen := make(map[string]struct{}, len(intervals))
	names := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		if _, ok := seen[iv.UserName]; ok {
			continue
		}
		seen[iv.UserName] = struct{}{}
		names = append(names, iv.UserName)
	}
	sort.Strings(names)
	return names
}

var _ ReadinessService = (*readinessService)(nil)
