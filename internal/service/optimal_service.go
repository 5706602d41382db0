package service

import (
	"context"
	"fmt"
	"sort"

	"optimeet/meethub/internal/model"
	"optimeet/meethub/internal/repository"
)

// Candidate is a computed common-availability window: a span on one
// weekday where every contributor's recorded interval overlaps.
type Candidate struct {
	DayOfWeek         int      `json:"day_of_week"`
	StartTime         string   `json:"start_time"`
	EndTime           string   `json:"end_time"`
	ParticipantCount  int      `json:"participant_count"`
	TotalParticipants int      `json:"total_participants"`
	AvailableUsers    []string `json:"available_users"`
}

// DurationMinutes is the candidate window length.
func (c Candidate) DurationMinutes() int {
	return model.MinuteOfDay(c.EndTime) - model.MinuteOfDay(c.StartTime)
}

type OptimalTimeService interface {
	// Compute aggregates a session's intervals into candidate windows
	// of at least minDurationMinutes, ordered by day ascending and,
	// within a day, longest window first. The list may be empty.
	Compute(ctx context.Context, sessionCode string, minDurationMinutes int) ([]Candidate, error)
}

type optimalTimeService struct {
	sessions     SessionService
	intervalRepo repository.IntervalRepository
	timeouts     Timeouts
}

func NewOptimalTimeService(
	sessions SessionService,
	intervalRepo repository.IntervalRepository,
	timeouts Timeouts,
) OptimalTimeService {
	return &optimalTimeService{
		sessions:     sessions,
		intervalRepo: intervalRepo,
		timeouts:     timeouts,
	}
}

func (s *optimalTimeService) Compute(ctx context.Context, sessionCode string, minDurationMinutes int) ([]Candidate, error) {
	if minDurationMinutes <= 0 {
		return nil, ErrInvalidMinDuration
	}
	if _, err := s.sessions.Resolve(ctx, sessionCode); err != nil {
		return nil, err
	}

	actx, cancel := s.timeouts.forAggregate(ctx)
	defer cancel()

	intervals, err := s.intervalRepo.ListBySession(actx, sessionCode)
	if err != nil {
		return nil, fmt.Errorf("list session intervals: %w", err)
	}

	buckets := make(map[int][]model.AvailabilityInterval)
	for _, iv := range intervals {
		buckets[iv.DayOfWeek] = append(buckets[iv.DayOfWeek], iv)
	}

	candidates := make([]Candidate, 0, len(buckets))
	for day, bucket := range buckets {
		start, end := tightestWindow(bucket)
		if end <= start {
			continue
		}
		if model.MinuteOfDay(end)-model.MinuteOfDay(start) < minDurationMinutes {
			continue
		}

		users := distinctUserNames(bucket)
		total := len(users)
		// Every interval in the bucket constrained the window, so the
		// contributing set is the whole bucket.
		count := len(users)
		if count != total {
			continue
		}

		candidates = append(candidates, Candidate{
			DayOfWeek:         day,
			StartTime:         start,
			EndTime:           end,
			ParticipantCount:  count,
			TotalParticipants: total,
			AvailableUsers:    users,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DayOfWeek != candidates[j].DayOfWeek {
			return candidates[i].DayOfWeek < candidates[j].DayOfWeek
		}
		return candidates[i].DurationMinutes() > candidates[j].DurationMinutes()
	})
	return candidates, nil
}

// tightestWindow treats every interval in the bucket as a hard
// constraint on one shared window: the latest start and the earliest
// end across all of them. Exact only while each participant records at
// most one interval per weekday; a participant with several disjoint
// intervals on a day over-constrains the result. Isolated here so a
// per-user union could replace it without touching the pipeline.
func tightestWindow(bucket []model.AvailabilityInterval) (start, end string) {
	// Zero-padded HH:MM strings order lexicographically.
	start, end = bucket[0].StartTime, bucket[0].EndTime
	for _, iv := range bucket[1:] {
		if iv.StartTime > start {
			start = iv.StartTime
		}
		if iv.EndTime < end {
			end = iv.EndTime
		}
	}
	return start, end
}

var _ OptimalTimeService = (*optimalTimeService)(nil)
