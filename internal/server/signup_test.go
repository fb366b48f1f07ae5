package server

import (
	"bytes"
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
	registrationdomain "github.com/spacemate/spacemate/internal/registration/domain"
	"go.uber.org/zap"
)

type fakeRegistrationService struct {
	result *registrationdomain.Result
	err    error

	guestCalls  int
	adminCalls  int
	wardenCalls int
	lastGuest   registrationdomain.GuestSignupRequest
	lastWarden  registrationdomain.WardenSignupRequest
}

func (f *fakeRegistrationService) CompleteGuestSignup(ctx context.Context, req registrationdomain.GuestSignupRequest) (*registrationdomain.Result, error) {
	f.guestCalls++
	f.lastGuest = req
	_ = ctx
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeRegistrationService) CompletePGAdminSignup(ctx context.Context, req registrationdomain.AdminSignupRequest) (*registrationdomain.Result, error) {
	f.adminCalls++
	_ = ctx
	_ = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeRegistrationService) CompleteWardenSignup(ctx context.Context, req registrationdomain.WardenSignupRequest) (*registrationdomain.Result, error) {
	f.wardenCalls++
	f.lastWarden = req
	_ = ctx
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func signupResult() *registrationdomain.Result {
	return &registrationdomain.Result{
		Session: &authdomain.SessionView{
			Metadata: map[string]any{"user_id": "200", "role": "guest"},
		},
		RawToken:  "session-token",
		ExpiresAt: time.Now().Add(time.Hour),
		UserID:    snowflake.ID(200),
	}
}

func newSignupRouter(svc registrationdomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	srv := &Server{
		log:             zap.NewNop(),
		sessions:        session.NewManager(config.Config{}),
		registrationSvc: svc,
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	signup := router.Group("/auth/signup")
	signup.Use(srv.SignupRateLimit())
	signup.POST("/guest", srv.SignupGuest)
	signup.POST("/pg-admin", srv.SignupPGAdmin)
	signup.POST("/warden", srv.SignupWarden)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func sessionCookie(resp *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range resp.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			return c
		}
	}
	return nil
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestSignupGuestSetsSessionCookie(t *testing.T) {
	svc := &fakeRegistrationService{result: signupResult()}
	router := newSignupRouter(svc)

	resp := postJSON(t, router, "/auth/signup/guest", `{
		"email": "guest@example.com",
		"password": "longenough",
		"full_name": "Guest One",
		"gender": "male",
		"pg_property_id": "101",
		"room_id": "202",
		"join_date": "2026-09-01",
		"end_date": "2027-02-28"
	}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.guestCalls != 1 {
		t.Fatalf("expected one guest signup call, got %d", svc.guestCalls)
	}
	if svc.lastGuest.PGPropertyID != snowflake.ID(101) || svc.lastGuest.RoomID != snowflake.ID(202) {
		t.Fatalf("unexpected parsed ids: property=%d room=%d", svc.lastGuest.PGPropertyID, svc.lastGuest.RoomID)
	}
	if got := svc.lastGuest.JoinDate.Format("2006-01-02"); got != "2026-09-01" {
		t.Fatalf("unexpected join date %s", got)
	}
	if got := svc.lastGuest.EndDate.Format("2006-01-02"); got != "2027-02-28" {
		t.Fatalf("unexpected end date %s", got)
	}

	cookie := sessionCookie(resp)
	if cookie == nil {
		t.Fatal("expected session cookie to be set")
	}
	if cookie.Value != "session-token" {
		t.Fatalf("unexpected cookie value %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Fatal("expected session cookie to be http-only")
	}

	var view authdomain.SessionView
	if err := json.Unmarshal(resp.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode session view: %v", err)
	}
	if view.Metadata["role"] != "guest" {
		t.Fatalf("unexpected session metadata: %v", view.Metadata)
	}
}

func TestSignupGuestInvalidRoomID(t *testing.T) {
	svc := &fakeRegistrationService{result: signupResult()}
	router := newSignupRouter(svc)

	resp := postJSON(t, router, "/auth/signup/guest", `{
		"email": "guest@example.com",
		"password": "longenough",
		"pg_property_id": "101",
		"room_id": "not-a-number"
	}`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if svc.guestCalls != 0 {
		t.Fatal("expected registration service not to be called")
	}

	body := decodeError(t, resp)
	if body.Error.Type != "validation_error" {
		t.Fatalf("unexpected error type %q", body.Error.Type)
	}
	if len(body.Error.Errors) != 1 || body.Error.Errors[0].Field != "room_id" {
		t.Fatalf("unexpected validation errors: %+v", body.Error.Errors)
	}
}

func TestSignupGuestMissingJoinDate(t *testing.T) {
	svc := &fakeRegistrationService{result: signupResult()}
	router := newSignupRouter(svc)

	resp := postJSON(t, router, "/auth/signup/guest", `{
		"email": "guest@example.com",
		"password": "longenough",
		"pg_property_id": "101",
		"room_id": "202",
		"end_date": "2027-02-28"
	}`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if svc.guestCalls != 0 {
		t.Fatal("expected registration service not to be called")
	}

	body := decodeError(t, resp)
	if len(body.Error.Errors) != 1 || body.Error.Errors[0].Field != "join_date" {
		t.Fatalf("unexpected validation errors: %+v", body.Error.Errors)
	}
}

func TestSignupGuestDuplicateEmailConflicts(t *testing.T) {
	svc := &fakeRegistrationService{err: authdomain.ErrUserExists}
	router := newSignupRouter(svc)

	resp := postJSON(t, router, "/auth/signup/guest", `{
		"email": "guest@example.com",
		"password": "longenough",
		"pg_property_id": "101",
		"room_id": "202",
		"join_date": "2026-09-01",
		"end_date": "2027-02-28"
	}`)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
	body := decodeError(t, resp)
	if body.Error.Type != "conflict" {
		t.Fatalf("unexpected error type %q", body.Error.Type)
	}
	if sessionCookie(resp) != nil {
		t.Fatal("expected no session cookie on failure")
	}
}

func TestSignupGuestRoomTakenConflicts(t *testing.T) {
	svc := &fakeRegistrationService{err: registrationdomain.ErrRoomUnavailable}
	router := newSignupRouter(svc)

	resp := postJSON(t, router, "/auth/signup/guest", `{
		"email": "guest@example.com",
		"password": "longenough",
		"pg_property_id": "101",
		"room_id": "202",
		"join_date": "2026-09-01",
		"end_date": "2027-02-28"
	}`)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestSignupPGAdminProfileLagReturns503(t *testing.T) {
	svc := &fakeRegistrationService{err: registrationdomain.ErrProfileNotReady}
	router := newSignupRouter(svc)

	resp := postJSON(t, router, "/auth/signup/pg-admin", `{
		"email": "owner@example.com",
		"password": "longenough",
		"property_name": "Green Stay",
		"total_rooms": 10,
		"monthly_rent": 5000
	}`)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
}

func TestSignupWardenUnknownPropertyReturns404(t *testing.T) {
	svc := &fakeRegistrationService{err: registrationdomain.ErrReferenceNotFound}
	router := newSignupRouter(svc)

	resp := postJSON(t, router, "/auth/signup/warden", `{
		"email": "warden@example.com",
		"password": "longenough",
		"pg_property_id": "999"
	}`)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	if svc.wardenCalls != 1 {
		t.Fatalf("expected one warden signup call, got %d", svc.wardenCalls)
	}
	if svc.lastWarden.PGPropertyID != snowflake.ID(999) {
		t.Fatalf("unexpected parsed property id %d", svc.lastWarden.PGPropertyID)
	}
}

func TestMapErrorRateLimited(t *testing.T) {
	status, payload := mapError(ErrTooManyRequests)
	if status != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", status)
	}
	if payload.Type != "too_many_requests" {
		t.Fatalf("unexpected payload type %q", payload.Type)
	}
}
