package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"renew-admin/pkg/config"
	"renew-admin/pkg/database"
	"renew-admin/pkg/database/dbtest"
	"renew-admin/pkg/jwt"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "router-test-secret"

func newApp(t *testing.T, protect bool) (*gin.Engine, *database.Provider, *jwt.Verifier) {
	t.Helper()

	p := dbtest.NewProvider(t)
	cfg := &config.Config{
		JWT:      config.JWTConfig{SigningKey: testSecret, ProtectAPI: protect},
	}
	v := jwt.NewVerifierFromConfig(cfg.JWT)

	return New(Deps{Config: cfg, DB: p, Verifier: v, Version: "test"}), p, v
}

func do(h http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPublicAPI(t *testing.T) {
	t.Parallel()

	app, p, _ := newApp(t, false)
	dbtest.Seed(t, p, 2, 3)

	tests := []struct {
		path string
		want int
	}{
		{path: "/api/notifications", want: 2},
		{path: "/api/renew-histories", want: 3},
	}
	for _, tt := range tests {
		w := do(app, tt.path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, want %d", tt.path, w.Code, http.StatusOK)
		}
		var body []json.RawMessage
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: invalid JSON array: %v", tt.path, err)
		}
		if len(body) != tt.want {
			t.Errorf("%s: len = %d, want %d", tt.path, len(body), tt.want)
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Errorf("%s: missing X-Request-ID", tt.path)
		}
	}
}

func TestProtectedAPI(t *testing.T) {
	t.Parallel()

	app, p, v := newApp(t, true)
	dbtest.Seed(t, p, 1, 1)

	t.Run("未携带token返回401", func(t *testing.T) {
		w := do(app, "/api/notifications", "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("有效token返回200", func(t *testing.T) {
		token, err := v.GenerateToken(jwtlib.MapClaims{"sub": "admin"}, time.Hour)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		for _, path := range []string{"/api/notifications", "/api/renew-histories"} {
			if w := do(app, path, token); w.Code != http.StatusOK {
				t.Errorf("%s: status = %d, want %d", path, w.Code, http.StatusOK)
			}
		}
	})

	t.Run("健康检查不需要token", func(t *testing.T) {
		if w := do(app, "/health", ""); w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	app, p, _ := newApp(t, false)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		if w := do(app, path, ""); w.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want %d, body = %s", path, w.Code, http.StatusOK, w.Body.String())
		}
	}

	// 先产生一次请求指标
	do(app, "/api/notifications", "")
	w := do(app, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Error("/metrics does not expose http_requests_total")
	}

	dbtest.Break(t, p)
	if w := do(app, "/health/ready", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("/health/ready after close: status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestStoreFailureThroughRouter(t *testing.T) {
	t.Parallel()

	app, p, _ := newApp(t, false)
	dbtest.Break(t, p)

	w := do(app, "/api/notifications", "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if got, want := w.Body.String(), `{"error":"Failed to fetch notifications"}`; got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}
