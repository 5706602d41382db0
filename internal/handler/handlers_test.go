package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"optimeet/meethub/internal/config"
	"optimeet/meethub/internal/model"
	"optimeet/meethub/internal/service"
	jwtpkg "optimeet/meethub/pkg/jwt"
)

// Service stubs with overridable behavior per test.

type stubSessionService struct {
	createFn  func(ctx context.Context) (*model.Session, error)
	resolveFn func(ctx context.Context, code string) (*model.Session, error)
	extendFn  func(ctx context.Context, code string) (*model.Session, error)
	purgeFn   func(ctx context.Context) (int64, error)
}

func (s *stubSessionService) Create(ctx context.Context) (*model.Session, error) {
	return s.createFn(ctx)
}

func (s *stubSessionService) Resolve(ctx context.Context, code string) (*model.Session, error) {
	return s.resolveFn(ctx, code)
}

func (s *stubSessionService) Extend(ctx context.Context, code string) (*model.Session, error) {
	return s.extendFn(ctx, code)
}

func (s *stubSessionService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.purgeFn(ctx)
}

type stubAvailabilityService struct {
	addFn           func(ctx context.Context, caller string, in service.AddIntervalInput) (*model.AvailabilityInterval, error)
	listByUserFn    func(ctx context.Context, userName string) ([]model.AvailabilityInterval, error)
	listBySessionFn func(ctx context.Context, sessionCode string) ([]model.AvailabilityInterval, error)
	removeFn        func(ctx context.Context, id uuid.UUID, caller string) error
	removeAnyFn     func(ctx context.Context, id uuid.UUID) error
}

func (s *stubAvailabilityService) Add(ctx context.Context, caller string, in service.AddIntervalInput) (*model.AvailabilityInterval, error) {
	return s.addFn(ctx, caller, in)
}

func (s *stubAvailabilityService) ListByUser(ctx context.Context, userName string) ([]model.AvailabilityInterval, error) {
	return s.listByUserFn(ctx, userName)
}

func (s *stubAvailabilityService) ListBySession(ctx context.Context, sessionCode string) ([]model.AvailabilityInterval, error) {
	return s.listBySessionFn(ctx, sessionCode)
}

func (s *stubAvailabilityService) Remove(ctx context.Context, id uuid.UUID, caller string) error {
	return s.removeFn(ctx, id, caller)
}

func (s *stubAvailabilityService) RemoveAny(ctx context.Context, id uuid.UUID) error {
	return s.removeAnyFn(ctx, id)
}

type stubReadinessService struct {
	setReadyFn func(ctx context.Context, userName string, ready bool) (*model.User, error)
	resolvedFn func(ctx context.Context, sessionCode string) (bool, error)
}

func (s *stubReadinessService) SetReady(ctx context.Context, userName string, ready bool) (*model.User, error) {
	return s.setReadyFn(ctx, userName, ready)
}

func (s *stubReadinessService) IsSessionResolved(ctx context.Context, sessionCode string) (bool, error) {
	return s.resolvedFn(ctx, sessionCode)
}

type stubOptimalService struct {
	computeFn func(ctx context.Context, sessionCode string, minDurationMinutes int) ([]service.Candidate, error)
}

func (s *stubOptimalService) Compute(ctx context.Context, sessionCode string, minDurationMinutes int) ([]service.Candidate, error) {
	return s.computeFn(ctx, sessionCode, minDurationMinutes)
}

type stubAuthService struct{}

func (s *stubAuthService) Register(context.Context, string, string) (*model.User, error) {
	return nil, errors.New("not stubbed")
}

func (s *stubAuthService) Login(context.Context, string, string) (*service.TokenSet, error) {
	return nil, errors.New("not stubbed")
}

func (s *stubAuthService) RefreshToken(context.Context, string) (*service.TokenSet, error) {
	return nil, errors.New("not stubbed")
}

func (s *stubAuthService) Logout(context.Context, string) error {
	return errors.New("not stubbed")
}

type routerFixture struct {
	router       *gin.Engine
	jwtManager   *jwtpkg.Manager
	sessions     *stubSessionService
	availability *stubAvailabilityService
	readiness    *stubReadinessService
	optimal      *stubOptimalService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &routerFixture{
		jwtManager:   jwtpkg.NewManager("test-signing-key", "meethub-test", 15*time.Minute, 24*time.Hour),
		sessions:     &stubSessionService{},
		availability: &stubAvailabilityService{},
		readiness:    &stubReadinessService{},
		optimal:      &stubOptimalService{},
	}

	cfg := &config.Config{}
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE"}

	f.router = SetupRouter(
		cfg, zap.NewNop(), f.jwtManager,
		NewAuthHandler(&stubAuthService{}),
		NewSessionHandler(f.sessions),
		NewAvailabilityHandler(f.availability),
		NewReadinessHandler(f.readiness),
		NewOptimalTimeHandler(f.optimal),
	)
	return f
}

func (f *routerFixture) token(t *testing.T, name string, role model.Role) string {
	t.Helper()
	token, err := f.jwtManager.GenerateAccessToken(name, string(role))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestRouter_Authentication(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("protected route without token", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/v1/sessions", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("garbage bearer token", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/v1/sessions", "garbage", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("healthz is public", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/healthz", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestRouter_AdminGate(t *testing.T) {
	f := newRouterFixture(t)
	f.sessions.extendFn = func(_ context.Context, code string) (*model.Session, error) {
		return &model.Session{Code: code, ExpiresAt: time.Now().Add(time.Hour)}, nil
	}

	t.Run("member is refused", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/v1/admin/sessions/LIVEAAA1/extend", f.token(t, "alice", model.RoleMember), nil)
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})

	t.Run("admin passes", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/v1/admin/sessions/LIVEAAA1/extend", f.token(t, "root", model.RoleAdmin), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestSessionHandler_Get(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("maps missing session to 404", func(t *testing.T) {
		f.sessions.resolveFn = func(context.Context, string) (*model.Session, error) {
			return nil, service.ErrSessionNotFound
		}
		w := f.do(t, http.MethodGet, "/api/v1/sessions/ZZZZ9999", f.token(t, "alice", model.RoleMember), nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("maps malformed code to 400", func(t *testing.T) {
		f.sessions.resolveFn = func(context.Context, string) (*model.Session, error) {
			return nil, service.ErrInvalidSessionCode
		}
		w := f.do(t, http.MethodGet, "/api/v1/sessions/nope", f.token(t, "alice", model.RoleMember), nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestAvailabilityHandler_Add(t *testing.T) {
	f := newRouterFixture(t)

	body := map[string]interface{}{
		"session_code": "LIVEAAA1",
		"user_name":    "alice",
		"day_of_week":  1,
		"start_time":   "09:00",
		"end_time":     "12:00",
	}

	t.Run("passes the token subject as caller", func(t *testing.T) {
		var gotCaller string
		f.availability.addFn = func(_ context.Context, caller string, in service.AddIntervalInput) (*model.AvailabilityInterval, error) {
			gotCaller = caller
			return &model.AvailabilityInterval{
				ID:          uuid.New(),
				SessionCode: in.SessionCode,
				UserName:    in.UserName,
				DayOfWeek:   in.DayOfWeek,
				StartTime:   in.StartTime,
				EndTime:     in.EndTime,
			}, nil
		}

		w := f.do(t, http.MethodPost, "/api/v1/intervals", f.token(t, "alice", model.RoleMember), body)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if gotCaller != "alice" {
			t.Errorf("expected caller alice, got %q", gotCaller)
		}
	})

	t.Run("maps ownership mismatch to 403", func(t *testing.T) {
		f.availability.addFn = func(context.Context, string, service.AddIntervalInput) (*model.AvailabilityInterval, error) {
			return nil, service.ErrNotSameUser
		}
		w := f.do(t, http.MethodPost, "/api/v1/intervals", f.token(t, "bob", model.RoleMember), body)
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})

	t.Run("maps duplicate tuple to 409", func(t *testing.T) {
		f.availability.addFn = func(context.Context, string, service.AddIntervalInput) (*model.AvailabilityInterval, error) {
			return nil, service.ErrDuplicateInterval
		}
		w := f.do(t, http.MethodPost, "/api/v1/intervals", f.token(t, "alice", model.RoleMember), body)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("day zero is not treated as missing", func(t *testing.T) {
		var gotDay = -1
		f.availability.addFn = func(_ context.Context, _ string, in service.AddIntervalInput) (*model.AvailabilityInterval, error) {
			gotDay = in.DayOfWeek
			return &model.AvailabilityInterval{ID: uuid.New()}, nil
		}

		sunday := map[string]interface{}{
			"session_code": "LIVEAAA1",
			"user_name":    "alice",
			"day_of_week":  0,
			"start_time":   "09:00",
			"end_time":     "12:00",
		}
		w := f.do(t, http.MethodPost, "/api/v1/intervals", f.token(t, "alice", model.RoleMember), sunday)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if gotDay != 0 {
			t.Errorf("expected day 0 to reach the service, got %d", gotDay)
		}
	})
}

func TestAvailabilityHandler_Remove(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("maps foreign interval to 403", func(t *testing.T) {
		f.availability.removeFn = func(context.Context, uuid.UUID, string) error {
			return service.ErrNotIntervalOwner
		}
		w := f.do(t, http.MethodDelete, "/api/v1/intervals/"+uuid.NewString(), f.token(t, "bob", model.RoleMember), nil)
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})

	t.Run("maps expired session to 409", func(t *testing.T) {
		f.availability.removeFn = func(context.Context, uuid.UUID, string) error {
			return service.ErrSessionReadOnly
		}
		w := f.do(t, http.MethodDelete, "/api/v1/intervals/"+uuid.NewString(), f.token(t, "alice", model.RoleMember), nil)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("rejects a malformed id before hitting the service", func(t *testing.T) {
		f.availability.removeFn = func(context.Context, uuid.UUID, string) error {
			t.Fatal("service must not be called")
			return nil
		}
		w := f.do(t, http.MethodDelete, "/api/v1/intervals/not-a-uuid", f.token(t, "alice", model.RoleMember), nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestReadinessHandler(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("set ready passes the caller through", func(t *testing.T) {
		var gotName string
		var gotReady bool
		f.readiness.setReadyFn = func(_ context.Context, name string, ready bool) (*model.User, error) {
			gotName, gotReady = name, ready
			return &model.User{Name: name, IsReady: ready}, nil
		}

		w := f.do(t, http.MethodPut, "/api/v1/users/me/ready", f.token(t, "alice", model.RoleMember),
			map[string]interface{}{"is_ready": true})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if gotName != "alice" || !gotReady {
			t.Errorf("expected alice/true, got %s/%v", gotName, gotReady)
		}
	})

	t.Run("explicit false is a valid payload", func(t *testing.T) {
		f.readiness.setReadyFn = func(_ context.Context, name string, ready bool) (*model.User, error) {
			return &model.User{Name: name, IsReady: ready}, nil
		}

		w := f.do(t, http.MethodPut, "/api/v1/users/me/ready", f.token(t, "alice", model.RoleMember),
			map[string]interface{}{"is_ready": false})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("resolved is reported as a bare flag", func(t *testing.T) {
		f.readiness.resolvedFn = func(context.Context, string) (bool, error) {
			return true, nil
		}

		w := f.do(t, http.MethodGet, "/api/v1/sessions/LIVEAAA1/resolved", f.token(t, "alice", model.RoleMember), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var envelope struct {
			Data struct {
				Resolved bool `json:"resolved"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if !envelope.Data.Resolved {
			t.Error("expected resolved true")
		}
	})
}

func TestOptimalHandler_Compute(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("parses min_duration from the query", func(t *testing.T) {
		var gotMinutes int
		f.optimal.computeFn = func(_ context.Context, _ string, minutes int) ([]service.Candidate, error) {
			gotMinutes = minutes
			return []service.Candidate{}, nil
		}

		w := f.do(t, http.MethodGet, "/api/v1/sessions/LIVEAAA1/optimal-times?min_duration=90", f.token(t, "alice", model.RoleMember), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if gotMinutes != 90 {
			t.Errorf("expected 90 minutes, got %d", gotMinutes)
		}
	})

	t.Run("defaults when the parameter is absent", func(t *testing.T) {
		var gotMinutes int
		f.optimal.computeFn = func(_ context.Context, _ string, minutes int) ([]service.Candidate, error) {
			gotMinutes = minutes
			return []service.Candidate{}, nil
		}

		w := f.do(t, http.MethodGet, "/api/v1/sessions/LIVEAAA1/optimal-times", f.token(t, "alice", model.RoleMember), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if gotMinutes != defaultMinDurationMinutes {
			t.Errorf("expected default %d, got %d", defaultMinDurationMinutes, gotMinutes)
		}
	})

	t.Run("maps invalid duration to 400", func(t *testing.T) {
		f.optimal.computeFn = func(context.Context, string, int) ([]service.Candidate, error) {
			return nil, service.ErrInvalidMinDuration
		}

		w := f.do(t, http.MethodGet, "/api/v1/sessions/LIVEAAA1/optimal-times?min_duration=0", f.token(t, "alice", model.RoleMember), nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("rejects a non-numeric duration", func(t *testing.T) {
		f.optimal.computeFn = func(context.Context, string, int) ([]service.Candidate, error) {
			t.Fatal("service must not be called")
			return nil, nil
		}

		w := f.do(t, http.MethodGet, "/api/v1/sessions/LIVEAAA1/optimal-times?min_duration=abc", f.token(t, "alice", model.RoleMember), nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}
