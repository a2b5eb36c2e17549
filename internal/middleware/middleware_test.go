package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func secured(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user":  c.MustGet(ContextUserID).(uint),
			"salon": c.MustGet(ContextSalonID).(uint),
			"role":  c.GetString(ContextUserRole),
		})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret"}
	r := secured(cfg)
	exp := time.Now().Add(time.Hour).Unix()

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + sign(t, "other", jwt.MapClaims{"sub": 1, "salonId": 2, "role": "owner", "exp": exp}), http.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"sub": 1, "salonId": 2, "role": "owner", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized},
		{"no expiry", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"sub": 1, "salonId": 2, "role": "owner"}), http.StatusUnauthorized},
		{"no salon", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"sub": 1, "role": "owner", "exp": exp}), http.StatusUnauthorized},
		{"no role", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"sub": 1, "salonId": 2, "exp": exp}), http.StatusUnauthorized},
		{"unknown role", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"sub": 1, "salonId": 2, "role": "admin", "exp": exp}), http.StatusUnauthorized},
		{"string subject", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"sub": "1", "salonId": 2, "role": "owner", "exp": exp}), http.StatusUnauthorized},
		{"valid", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"sub": 1, "salonId": 2, "role": "owner", "exp": exp}), http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.JSONEq(t, `{"user":1,"salon":2,"role":"owner"}`, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret"}
	exp := time.Now().Add(time.Hour).Unix()

	r := gin.New()
	r.PATCH("/salon", AuthMiddleware(cfg), RequireRole(RoleOwner), func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(role string) int {
		req := httptest.NewRequest(http.MethodPatch, "/salon", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, "s3cret", jwt.MapClaims{"sub": 1, "salonId": 2, "role": role, "exp": exp}))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call(RoleOwner))
	assert.Equal(t, http.StatusForbidden, call(RoleStaff))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://studio.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://studio.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), ArrivalOrderHeader)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestLogger(&log))
	r.GET("/ping/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodGet, "/ping/7", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Contains(t, buf.String(), `"path":"/ping/:id"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)

	buf.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/8", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}
