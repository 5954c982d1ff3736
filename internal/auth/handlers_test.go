package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fdg312/fuel-score/internal/config"
	"github.com/fdg312/fuel-score/internal/userctx"
	"github.com/golang-jwt/jwt/v5"
)

func testConfig(mode string, required bool) *config.Config {
	return &config.Config{
		AuthMode:      mode,
		AuthRequired:  required,
		JWTSecret:     "test-secret-key-for-testing-only",
		JWTIssuer:     "fuel-score-test",
		JWTTTLMinutes: 60,
	}
}

func issueDevToken(t *testing.T, svc *Service, userID string) string {
	t.Helper()
	resp, err := svc.SignInDev(t.Context(), userID)
	if err != nil {
		t.Fatalf("SignInDev: %v", err)
	}
	return resp.AccessToken
}

func TestHandleDevAuth(t *testing.T) {
	handler := NewHandlers(NewService(testConfig(config.AuthModeDev, false)))

	t.Run("DefaultUser", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/dev", nil)
		w := httptest.NewRecorder()

		handler.HandleDevAuth(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
		}
		var resp DevAuthResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.AccessToken == "" || resp.TokenType != "Bearer" {
			t.Fatalf("unexpected response: %+v", resp)
		}
		if resp.UserID != "dev-user" {
			t.Errorf("expected user_id dev-user, got %q", resp.UserID)
		}
		if resp.ExpiresIn != 3600 {
			t.Errorf("expected expires_in 3600, got %d", resp.ExpiresIn)
		}
	})

	t.Run("CustomUser", func(t *testing.T) {
		body, _ := json.Marshal(DevAuthRequest{UserID: "runner-42"})
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/dev", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleDevAuth(w, req)

		var resp DevAuthResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if w.Code != http.StatusOK || resp.UserID != "runner-42" {
			t.Fatalf("expected runner-42 token, got %d %+v", w.Code, resp)
		}
	})

	t.Run("InvalidUser", func(t *testing.T) {
		body, _ := json.Marshal(DevAuthRequest{UserID: "has spaces"})
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/dev", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleDevAuth(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/dev", strings.NewReader("{"))
		w := httptest.NewRecorder()

		handler.HandleDevAuth(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}
	})
}

func TestHandleDevAuthDisabled(t *testing.T) {
	handler := NewHandlers(NewService(testConfig(config.AuthModeNone, false)))

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/dev", nil)
	w := httptest.NewRecorder()
	handler.HandleDevAuth(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestVerifyJWT(t *testing.T) {
	cfg := testConfig(config.AuthModeDev, true)
	svc := NewService(cfg)

	token := issueDevToken(t, svc, "runner-1")
	sub, err := svc.VerifyJWT(token)
	if err != nil || sub != "runner-1" {
		t.Fatalf("expected runner-1, got %q (%v)", sub, err)
	}

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewService(&config.Config{AuthMode: config.AuthModeDev, JWTSecret: "other", JWTIssuer: cfg.JWTIssuer, JWTTTLMinutes: 60})
		if _, err := other.VerifyJWT(token); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		other := NewService(&config.Config{AuthMode: config.AuthModeDev, JWTSecret: cfg.JWTSecret, JWTIssuer: "someone-else", JWTTTLMinutes: 60})
		if _, err := other.VerifyJWT(token); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		later := NewService(cfg)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		if _, err := later.VerifyJWT(token); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
		}
	})

	t.Run("NoneAlg", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "x", Issuer: cfg.JWTIssuer})
		raw, _ := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if _, err := svc.VerifyJWT(raw); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestMiddleware(t *testing.T) {
	var seenUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, _ = userctx.GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("RequiredRejectsMissingToken", func(t *testing.T) {
		cfg := testConfig(config.AuthModeDev, true)
		h := NewMiddleware(cfg, NewService(cfg)).Wrap(next)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/profiles", nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("RequiredAllowsPublicPaths", func(t *testing.T) {
		cfg := testConfig(config.AuthModeDev, true)
		h := NewMiddleware(cfg, NewService(cfg)).Wrap(next)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("RequiredAcceptsToken", func(t *testing.T) {
		cfg := testConfig(config.AuthModeDev, true)
		svc := NewService(cfg)
		h := NewMiddleware(cfg, svc).Wrap(next)

		req := httptest.NewRequest(http.MethodGet, "/v1/profiles", nil)
		req.Header.Set("Authorization", "Bearer "+issueDevToken(t, svc, "runner-7"))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK || seenUser != "runner-7" {
			t.Fatalf("expected 200 for runner-7, got %d user=%q", w.Code, seenUser)
		}
	})

	t.Run("OptionalPassesWithoutToken", func(t *testing.T) {
		cfg := testConfig(config.AuthModeDev, false)
		h := NewMiddleware(cfg, NewService(cfg)).Wrap(next)

		seenUser = ""
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/profiles", nil))
		if w.Code != http.StatusOK || seenUser != "" {
			t.Fatalf("expected anonymous pass-through, got %d user=%q", w.Code, seenUser)
		}
	})

	t.Run("OptionalRejectsBadToken", func(t *testing.T) {
		cfg := testConfig(config.AuthModeDev, false)
		h := NewMiddleware(cfg, NewService(cfg)).Wrap(next)

		req := httptest.NewRequest(http.MethodGet, "/v1/profiles", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}
