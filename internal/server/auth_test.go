package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/spacemate/spacemate/internal/auth/domain"
	"github.com/spacemate/spacemate/internal/auth/session"
	"github.com/spacemate/spacemate/internal/config"
	profiledomain "github.com/spacemate/spacemate/internal/profile/domain"
	"go.uber.org/zap"
)

type fakeAuthService struct {
	loginResult *authdomain.LoginResult
	loginErr    error
	session     *authdomain.Session
	authErr     error

	loginCalls  int
	logoutCalls int
	lastToken   string
}

func (f *fakeAuthService) CreateUser(ctx context.Context, req authdomain.CreateUserRequest) (*authdomain.User, error) {
	_ = ctx
	return &authdomain.User{ID: snowflake.ID(200), Email: req.Email}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, req authdomain.LoginRequest) (*authdomain.LoginResult, error) {
	f.loginCalls++
	_ = ctx
	_ = req
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, rawToken string) error {
	f.logoutCalls++
	f.lastToken = rawToken
	_ = ctx
	return nil
}

func (f *fakeAuthService) Authenticate(ctx context.Context, rawToken string) (*authdomain.Session, error) {
	f.lastToken = rawToken
	_ = ctx
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.session, nil
}

func (f *fakeAuthService) ChangePassword(ctx context.Context, userID snowflake.ID, newPassword string) error {
	_ = ctx
	_ = userID
	_ = newPassword
	return nil
}

type fakeProfileService struct {
	profile *profiledomain.Profile
	err     error
}

func (f *fakeProfileService) Get(ctx context.Context, id snowflake.ID) (*profiledomain.Profile, error) {
	_ = ctx
	_ = id
	if f.err != nil {
		return nil, f.err
	}
	if f.profile == nil {
		return nil, profiledomain.ErrNotFound
	}
	return f.profile, nil
}

func (f *fakeProfileService) LinkProperty(ctx context.Context, id snowflake.ID, propertyID snowflake.ID, phone string) error {
	_ = ctx
	_ = id
	_ = propertyID
	_ = phone
	return nil
}

func newAuthRouter(authsvc authdomain.Service, profileSvc profiledomain.Service) (*gin.Engine, *Server) {
	gin.SetMode(gin.TestMode)

	srv := &Server{
		log:        zap.NewNop(),
		sessions:   session.NewManager(config.Config{}),
		authsvc:    authsvc,
		profileSvc: profileSvc,
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/login", srv.Login)
	router.POST("/auth/logout", srv.Logout)
	router.GET("/auth/me", srv.AuthRequired(), srv.Me)
	return router, srv
}

func TestLoginSetsSessionCookie(t *testing.T) {
	authsvc := &fakeAuthService{
		loginResult: &authdomain.LoginResult{
			Session: &authdomain.SessionView{
				Metadata: map[string]any{"user_id": "200", "role": "guest"},
			},
			RawToken:  "session-token",
			ExpiresAt: time.Now().Add(time.Hour),
			UserID:    snowflake.ID(200),
		},
	}
	router, _ := newAuthRouter(authsvc, &fakeProfileService{})

	resp := postJSON(t, router, "/auth/login", `{"email":"guest@example.com","password":"longenough"}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if authsvc.loginCalls != 1 {
		t.Fatalf("expected one login call, got %d", authsvc.loginCalls)
	}
	cookie := sessionCookie(resp)
	if cookie == nil || cookie.Value != "session-token" {
		t.Fatalf("expected session cookie, got %+v", cookie)
	}
}

func TestLoginWrongPasswordReturns401(t *testing.T) {
	authsvc := &fakeAuthService{loginErr: authdomain.ErrInvalidCredentials}
	router, _ := newAuthRouter(authsvc, &fakeProfileService{})

	resp := postJSON(t, router, "/auth/login", `{"email":"guest@example.com","password":"wrong"}`)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
	body := decodeError(t, resp)
	if body.Error.Type != "unauthorized" {
		t.Fatalf("unexpected error type %q", body.Error.Type)
	}
	if sessionCookie(resp) != nil {
		t.Fatal("expected no session cookie on failed login")
	}
}

func TestMeReturnsProfile(t *testing.T) {
	authsvc := &fakeAuthService{
		session: &authdomain.Session{
			ID:        snowflake.ID(300),
			UserID:    snowflake.ID(200),
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	profileSvc := &fakeProfileService{
		profile: &profiledomain.Profile{
			ID:       snowflake.ID(200),
			Email:    "guest@example.com",
			FullName: "Guest One",
			Role:     "guest",
		},
	}
	router, _ := newAuthRouter(authsvc, profileSvc)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "session-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if authsvc.lastToken != "session-token" {
		t.Fatalf("expected session token to be forwarded, got %q", authsvc.lastToken)
	}

	var profile profiledomain.Profile
	if err := json.Unmarshal(resp.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Email != "guest@example.com" || profile.Role != "guest" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestMeWithoutCookieReturns401(t *testing.T) {
	router, _ := newAuthRouter(&fakeAuthService{}, &fakeProfileService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestMeExpiredSessionReturns401(t *testing.T) {
	authsvc := &fakeAuthService{authErr: authdomain.ErrSessionExpired}
	router, _ := newAuthRouter(authsvc, &fakeProfileService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "stale-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestLogoutRevokesAndClearsCookie(t *testing.T) {
	authsvc := &fakeAuthService{}
	router, _ := newAuthRouter(authsvc, &fakeProfileService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "session-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if authsvc.logoutCalls != 1 {
		t.Fatalf("expected one logout call, got %d", authsvc.logoutCalls)
	}

	cookie := sessionCookie(resp)
	if cookie == nil {
		t.Fatal("expected clearing cookie to be written")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("expected expired empty cookie, got value=%q maxAge=%d", cookie.Value, cookie.MaxAge)
	}
}
