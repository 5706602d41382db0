package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"

	"optimeet/meethub/internal/model"
	"optimeet/meethub/internal/repository"
	"optimeet/meethub/pkg/crypto"
)

// maxCodeAttempts bounds the generate-insert loop before session
// creation gives up with ErrCodeGenerationExhausted.
const maxCodeAttempts = 10

var sessionCodePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

type SessionService interface {
	// Create generates a fresh session with a unique 8-character code
	// and a fixed TTL.
	Create(ctx context.Context) (*model.Session, error)
	// Resolve returns the live session with the given code. An absent
	// code and an expired one are indistinguishable to the caller.
	Resolve(ctx context.Context, code string) (*model.Session, error)
	// Extend resets expires_at to now+TTL, reviving the session even if
	// it already expired. Admin only; the code never changes.
	Extend(ctx context.Context, code string) (*model.Session, error)
	// PurgeExpired physically deletes expired sessions and their
	// intervals. Reads never depend on this; it only bounds storage.
	PurgeExpired(ctx context.Context) (int64, error)
}

type sessionService struct {
	sessionRepo  repository.SessionRepository
	intervalRepo repository.IntervalRepository
	ttl          time.Duration
	timeouts     Timeouts
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	intervalRepo repository.IntervalRepository,
	ttl time.Duration,
	timeouts Timeouts,
) SessionService {
	return &sessionService{
		sessionRepo:  sessionRepo,
		intervalRepo: intervalRepo,
		ttl:          ttl,
		timeouts:     timeouts,
	}
}

func (s *sessionService) Create(ctx context.Context) (*model.Session, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := crypto.GenerateCode(model.SessionCodeLength)
		if err != nil {
			return nil, fmt.Errorf("generate session code: %w", err)
		}

		session := &model.Session{
			Code:      code,
			ExpiresAt: time.Now().Add(s.ttl),
		}

		// The insert is the uniqueness check: a concurrent writer who
		// picked the same code loses here and we just try again.
		qctx, cancel := s.timeouts.forQuery(ctx)
		err = s.sessionRepo.Create(qctx, session)
		cancel()
		if err == nil {
			return session, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, fmt.Errorf("create session: %w", err)
	}
	return nil, ErrCodeGenerationExhausted
}

func (s *sessionService) Resolve(ctx context.Context, code string) (*model.Session, error) {
	if !sessionCodePattern.MatchString(code) {
		return nil, ErrInvalidSessionCode
	}

	qctx, cancel := s.timeouts.forQuery(ctx)
	defer cancel()

	session, err := s.sessionRepo.GetByCode(qctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.Expired(time.Now()) {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionService) Extend(ctx context.Context, code string) (*model.Session, error) {
	if !sessionCodePattern.MatchString(code) {
		return nil, ErrInvalidSessionCode
	}

	qctx, cancel := s.timeouts.forQuery(ctx)
	defer cancel()

	session, err := s.sessionRepo.UpdateExpiry(qctx, code, time.Now().Add(s.ttl))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("extend session: %w", err)
	}
	return session, nil
}

func (s *sessionService) PurgeExpired(ctx context.Context) (int64, error) {
	actx, cancel := s.timeouts.forAggregate(ctx)
	defer cancel()

	codes, err := s.sessionRepo.ListExpiredCodes(actx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("list expired sessions: %w", err)
	}
	if len(codes) == 0 {
		return 0, nil
	}

	if _, err := s.intervalRepo.DeleteBySessionCodes(actx, codes); err != nil {
		return 0, fmt.Errorf("delete expired intervals: %w", err)
	}
	deleted, err := s.sessionRepo.DeleteByCodes(actx, codes)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return deleted, nil
}

var _ SessionService = (*sessionService)(nil)
