package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bookshelf-api/pkg/apperror"
	"github.com/oksasatya/bookshelf-api/pkg/helpers"
	"github.com/oksasatya/bookshelf-api/pkg/response"
)

func init() { gin.SetMode(gin.TestMode) }

type verifierFunc func(string) (string, error)

func (f verifierFunc) VerifyToken(t string) (string, error) { return f(t) }

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuth(t *testing.T) {
	v := verifierFunc(func(tok string) (string, error) {
		if tok == "good" {
			return "user-1", nil
		}
		return "", errors.New("bad token")
	})
	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", Auth(v), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
		{"scheme is case insensitive", "bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "user-1", w.Body.String())
				return
			}
			body := decodeError(t, w)
			assert.Equal(t, apperror.MsgUnauthorized, body.Message)
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.RequestID)
			assert.Equal(t, body.RequestID, w.Header().Get(HeaderRequestID))
		})
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(helpers.NewNopLogger()))
	r.GET("/conflict", func(c *gin.Context) {
		_ = c.Error(apperror.Conflict(apperror.MsgConflictEmail))
	})
	r.GET("/details", func(c *gin.Context) {
		_ = c.Error(apperror.BadRequest(apperror.MsgValidationFailed).WithDetails(map[string]string{"name": "must be filled in"}))
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("db exploded"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conflict", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.MsgConflictEmail, decodeError(t, w).Message)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/details", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]any{"name": "must be filled in"}, decodeError(t, w).Error)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, apperror.MsgServerError, body.Message)
	assert.NotContains(t, w.Body.String(), "db exploded")
}

func TestRecoveryAndNotFound(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(helpers.NewNopLogger()))
	r.NoRoute(NotFound())
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.MsgServerError, decodeError(t, w).Message)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.MsgNotFound, decodeError(t, w).Message)
}

func newLimited(t *testing.T, max int, allow AllowFunc) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(RealIP(), RateLimit(rdb, max, time.Minute, KeyByIP(), allow))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r, mr
}

func hit(r *gin.Engine, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	r, mr := newLimited(t, 2, nil)

	w := hit(r, "/ping", "203.0.113.7")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, hit(r, "/ping", "203.0.113.7").Code)

	w = hit(r, "/ping", "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, apperror.MsgRateLimited, decodeError(t, w).Message)

	// other clients have their own window
	assert.Equal(t, http.StatusOK, hit(r, "/ping", "198.51.100.1").Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, hit(r, "/ping", "203.0.113.7").Code)
}

func TestRateLimit_Bypass(t *testing.T) {
	r, _ := newLimited(t, 1, AllowAny(AllowPaths("/health"), AllowPrivateIP()))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "/health", "203.0.113.7").Code)
		assert.Equal(t, http.StatusOK, hit(r, "/ping", "10.0.0.5").Code)
	}
	assert.Equal(t, http.StatusOK, hit(r, "/ping", "203.0.113.7").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "/ping", "203.0.113.7").Code)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	r := gin.New()
	r.Use(RateLimit(rdb, 1, time.Minute, KeyByIP(), nil))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "/ping", "203.0.113.7").Code)
	}
}

func TestRateLimit_NilClientIsNoop(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(nil, 1, time.Minute, KeyByIP(), nil))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "/ping", "203.0.113.7").Code)
	}
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("CF-Connecting-IP", "198.51.100.9")
	req.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "198.51.100.9", w.Body.String())

	assert.Equal(t, "203.0.113.1", hit(r, "/ip", "203.0.113.1, 10.0.0.1").Body.String())
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestIDKey)) })

	const inbound = "0f8b7c2e-4d1a-4f3b-9e6a-2b5c8d7e1f00"
	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(HeaderRequestID, inbound)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, inbound, w.Body.String())
	assert.Equal(t, inbound, w.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(HeaderRequestID, "not an id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not an id", w.Body.String())
	assert.Len(t, w.Body.String(), 36)
}
