package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"optimeet/meethub/internal/model"
	"optimeet/meethub/internal/repository"
	"optimeet/meethub/pkg/crypto"
	jwtpkg "optimeet/meethub/pkg/jwt"
)

const minPasswordLength = 8

// refreshKeyPrefix namespaces refresh-token JTIs in the state store.
const refreshKeyPrefix = "refresh:"

// TokenSet represents a set of tokens returned after authentication.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthService interface {
	Register(ctx context.Context, name, password string) (*model.User, error)
	Login(ctx context.Context, name, password string) (*TokenSet, error)
	// RefreshToken rotates a valid refresh token for a new token pair.
	// The old token is revoked; replaying it fails.
	RefreshToken(ctx context.Context, refreshToken string) (*TokenSet, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo   repository.UserRepository
	stateStore repository.StateStore
	jwtManager *jwtpkg.Manager
	timeouts   Timeouts
}

func NewAuthService(
	userRepo repository.UserRepository,
	stateStore repository.StateStore,
	jwtManager *jwtpkg.Manager,
	timeouts Timeouts,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		stateStore: stateStore,
		jwtManager: jwtManager,
		timeouts:   timeouts,
	}
}

func (s *authService) Register(ctx context.Context, name, password string) (*model.User, error) {
	if !model.ValidUserName(name) {
		return nil, ErrInvalidUserName
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		PasswordHash: hash,
		Role:         model.RoleMember,
	}

	qctx, cancel := s.timeouts.forQuery(ctx)
	defer cancel()

	if err := s.userRepo.Create(qctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, name, password string) (*TokenSet, error) {
	qctx, cancel := s.timeouts.forQuery(ctx)
	defer cancel()

	user, err := s.userRepo.GetByName(qctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !crypto.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(qctx, user.Name, string(user.Role))
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenSet, error) {
	claims, err := s.jwtManager.Validate(refreshToken)
	if err != nil || claims.TokenType != jwtpkg.TokenTypeRefresh {
		return nil, ErrRefreshTokenInvalid
	}

	qctx, cancel := s.timeouts.forQuery(ctx)
	defer cancel()

	key := refreshKeyPrefix + claims.ID
	val, err := s.stateStore.Get(qctx, key)
	if err != nil {
		return nil, fmt.Errorf("check refresh token: %w", err)
	}
	if val == nil {
		return nil, ErrRefreshTokenInvalid
	}

	// Rotation: the presented token is spent before the new pair is
	// issued.
	if err := s.stateStore.Delete(qctx, key); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	return s.issueTokens(qctx, claims.Subject, claims.Role)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtManager.Validate(refreshToken)
	if err != nil || claims.TokenType != jwtpkg.TokenTypeRefresh {
		return ErrRefreshTokenInvalid
	}

	qctx, cancel := s.timeouts.forQuery(ctx)
	defer cancel()

	if err := s.stateStore.Delete(qctx, refreshKeyPrefix+claims.ID); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *authService) issueTokens(ctx context.Context, name, role string) (*TokenSet, error) {
	access, err := s.jwtManager.GenerateAccessToken(name, role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, claims, err := s.jwtManager.GenerateRefreshToken(name, role)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	key := refreshKeyPrefix + claims.ID
	if err := s.stateStore.Set(ctx, key, []byte(name), s.jwtManager.RefreshTokenTTL()); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenSet{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}

var _ AuthService = (*authService)(nil)
