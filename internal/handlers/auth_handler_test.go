package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"institution-portal/config"
	"institution-portal/models"
	"institution-portal/services/mailer"
)

func newAuthRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWTSecret: []byte("test-secret"),
		TokenTTL:  time.Hour,
		OTPTTL:    5 * time.Minute,
	}
	h := NewAuthHandler(db, cfg, mailer.NewConsoleMailer())
	r := gin.New()
	auth := r.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/verify-action", h.VerifyAction)
		auth.POST("/login", h.Login)
		auth.POST("/forgot-password", h.ForgotPassword)
	}
	return r
}

func jsonBody(t *testing.T, body map[string]any) *bytes.Reader {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return bytes.NewReader(payload)
}

func postJSON(t *testing.T, r *gin.Engine, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, jsonBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func storedOTP(t *testing.T, db *gorm.DB, email string) string {
	t.Helper()
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	return user.OTPCode
}

func TestSignupVerifyLoginFlow(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	w := postJSON(t, r, "/auth/signup", map[string]any{
		"name": "Amna", "email": "amna@test.local", "password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("signup status = %d, body = %s", w.Code, w.Body.String())
	}

	// Login before verification is refused.
	w = postJSON(t, r, "/auth/login", map[string]any{
		"email": "amna@test.local", "password": "secret123",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("unverified login status = %d, want 403", w.Code)
	}

	otp := storedOTP(t, db, "amna@test.local")
	if len(otp) != 6 {
		t.Fatalf("stored OTP = %q, want 6 digits", otp)
	}
	w = postJSON(t, r, "/auth/verify-action", map[string]any{
		"email": "amna@test.local", "otp": otp, "action": "signup",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("verify status = %d, body = %s", w.Code, w.Body.String())
	}

	w = postJSON(t, r, "/auth/login", map[string]any{
		"email": "amna@test.local", "password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		Role        string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.AccessToken == "" || resp.TokenType != "bearer" {
		t.Errorf("login response = %+v, want bearer token", resp)
	}
	if resp.Role != models.RoleUnassigned {
		t.Errorf("role = %q, want %q before joining an institution", resp.Role, models.RoleUnassigned)
	}
}

func TestSignupRejectsVerifiedEmail(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	if w := postJSON(t, r, "/auth/signup", map[string]any{
		"name": "Amna", "email": "amna@test.local", "password": "secret123",
	}); w.Code != http.StatusOK {
		t.Fatalf("signup status = %d", w.Code)
	}
	otp := storedOTP(t, db, "amna@test.local")
	if w := postJSON(t, r, "/auth/verify-action", map[string]any{
		"email": "amna@test.local", "otp": otp, "action": "signup",
	}); w.Code != http.StatusOK {
		t.Fatalf("verify status = %d", w.Code)
	}

	w := postJSON(t, r, "/auth/signup", map[string]any{
		"name": "Amna", "email": "amna@test.local", "password": "other456",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("re-signup status = %d, want 400", w.Code)
	}
}

func TestSignupRefreshesUnverifiedAccount(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	if w := postJSON(t, r, "/auth/signup", map[string]any{
		"name": "Amna", "email": "amna@test.local", "password": "first123",
	}); w.Code != http.StatusOK {
		t.Fatalf("first signup status = %d", w.Code)
	}
	firstOTP := storedOTP(t, db, "amna@test.local")

	if w := postJSON(t, r, "/auth/signup", map[string]any{
		"name": "Amna Khan", "email": "amna@test.local", "password": "second456",
	}); w.Code != http.StatusOK {
		t.Fatalf("second signup status = %d", w.Code)
	}
	secondOTP := storedOTP(t, db, "amna@test.local")
	if firstOTP != secondOTP {
		// The old code must be dead once a new one is issued.
		if w := postJSON(t, r, "/auth/verify-action", map[string]any{
			"email": "amna@test.local", "otp": firstOTP, "action": "signup",
		}); w.Code != http.StatusBadRequest {
			t.Errorf("stale OTP status = %d, want 400", w.Code)
		}
	}

	// The refreshed credentials win and no duplicate row is created.
	if w := postJSON(t, r, "/auth/verify-action", map[string]any{
		"email": "amna@test.local", "otp": secondOTP, "action": "signup",
	}); w.Code != http.StatusOK {
		t.Fatalf("verify refreshed account status = %d", w.Code)
	}
	if w := postJSON(t, r, "/auth/login", map[string]any{
		"email": "amna@test.local", "password": "second456",
	}); w.Code != http.StatusOK {
		t.Errorf("login with refreshed password status = %d, want 200", w.Code)
	}

	var count int64
	db.Model(&models.User{}).Where("email = ?", "amna@test.local").Count(&count)
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}
}

func TestVerifyActionRejectsWrongOTP(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	if w := postJSON(t, r, "/auth/signup", map[string]any{
		"name": "Amna", "email": "amna@test.local", "password": "secret123",
	}); w.Code != http.StatusOK {
		t.Fatalf("signup status = %d", w.Code)
	}

	w := postJSON(t, r, "/auth/verify-action", map[string]any{
		"email": "amna@test.local", "otp": "000000x", "action": "signup",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("wrong OTP status = %d, want 400", w.Code)
	}
}

func TestVerifyActionRejectsExpiredOTP(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	if w := postJSON(t, r, "/auth/signup", map[string]any{
		"name": "Amna", "email": "amna@test.local", "password": "secret123",
	}); w.Code != http.StatusOK {
		t.Fatalf("signup status = %d", w.Code)
	}
	otp := storedOTP(t, db, "amna@test.local")

	stale := time.Now().Add(-time.Hour)
	if err := db.Model(&models.User{}).Where("email = ?", "amna@test.local").
		Update("otp_created_at", stale).Error; err != nil {
		t.Fatalf("age the OTP: %v", err)
	}

	w := postJSON(t, r, "/auth/verify-action", map[string]any{
		"email": "amna@test.local", "otp": otp, "action": "signup",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expired OTP status = %d, want 400", w.Code)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	if w := postJSON(t, r, "/auth/signup", map[string]any{
		"name": "Amna", "email": "amna@test.local", "password": "secret123",
	}); w.Code != http.StatusOK {
		t.Fatalf("signup status = %d", w.Code)
	}
	otp := storedOTP(t, db, "amna@test.local")
	if w := postJSON(t, r, "/auth/verify-action", map[string]any{
		"email": "amna@test.local", "otp": otp, "action": "signup",
	}); w.Code != http.StatusOK {
		t.Fatalf("verify status = %d", w.Code)
	}

	if w := postJSON(t, r, "/auth/forgot-password", map[string]any{
		"email": "amna@test.local",
	}); w.Code != http.StatusOK {
		t.Fatalf("forgot-password status = %d", w.Code)
	}
	resetOTP := storedOTP(t, db, "amna@test.local")

	// Reset without a new password is refused.
	if w := postJSON(t, r, "/auth/verify-action", map[string]any{
		"email": "amna@test.local", "otp": resetOTP, "action": "reset",
	}); w.Code != http.StatusBadRequest {
		t.Fatalf("reset without password status = %d, want 400", w.Code)
	}

	if w := postJSON(t, r, "/auth/verify-action", map[string]any{
		"email": "amna@test.local", "otp": resetOTP, "action": "reset", "new_password": "changed789",
	}); w.Code != http.StatusOK {
		t.Fatalf("reset status = %d", w.Code)
	}

	if w := postJSON(t, r, "/auth/login", map[string]any{
		"email": "amna@test.local", "password": "secret123",
	}); w.Code != http.StatusUnauthorized {
		t.Errorf("old password login status = %d, want 401", w.Code)
	}
	if w := postJSON(t, r, "/auth/login", map[string]any{
		"email": "amna@test.local", "password": "changed789",
	}); w.Code != http.StatusOK {
		t.Errorf("new password login status = %d, want 200", w.Code)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	w := postJSON(t, r, "/auth/login", map[string]any{
		"email": "nobody@test.local", "password": "whatever1",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
