package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bookshelf-api/config"
	"github.com/oksasatya/bookshelf-api/internal/container"
	"github.com/oksasatya/bookshelf-api/internal/infrastructure/memory"
	"github.com/oksasatya/bookshelf-api/pkg/apperror"
	"github.com/oksasatya/bookshelf-api/pkg/helpers"
	"github.com/oksasatya/bookshelf-api/pkg/response"
)

func init() { gin.SetMode(gin.TestMode) }

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	store  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		AppName:        "bookshelf-test",
		Env:            "test",
		StoreDriver:    config.StoreDriverMemory,
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		BcryptCost:     4,
		RateLimitMax:   100,
		MetricsEnabled: true,
	}
	store := memory.NewStore()
	c := container.NewWithStores(cfg, helpers.NewNopLogger(), container.Stores{Users: store.Users(), Books: store.Books()})
	return &testServer{t: t, engine: New(c), store: store}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type profile struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	YearOfBirth   int      `json:"yearOfBirth"`
	FavoriteBooks []string `json:"favoriteBooks"`
	ReadBooks     []string `json:"readBooks"`
	Goal          float64  `json:"goal"`
}

func (s *testServer) signupAndSignin(name, email string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/signup", "", gin.H{"name": name, "yearOfBirth": 1990, "email": email, "password": "secret"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/signin", "", gin.H{"email": email, "password": "secret"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return decode[map[string]string](s.t, w)["token"]
}

func bookBody(id string) gin.H {
	return gin.H{
		"id":   id,
		"etag": "e-" + id,
		"volumeInfo": gin.H{
			"title":   "Book " + id,
			"authors": []string{"Author"},
			"imageLinks": gin.H{
				"thumbnail": "http://books.example.com/" + id + ".jpg",
			},
		},
	}
}

func TestSignupAndSignin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/signup", "", gin.H{"name": "Ann", "yearOfBirth": 1990, "email": "ann@x.com", "password": "secret"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[map[string]any](t, w)
	assert.Equal(t, map[string]any{"name": "Ann", "yearOfBirth": float64(1990), "email": "ann@x.com"}, created)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = s.do(http.MethodPost, "/signup", "", gin.H{"name": "Other", "yearOfBirth": 1980, "email": "ann@x.com", "password": "x"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.MsgConflictEmail, decode[response.ErrorBody](t, w).Message)

	w = s.do(http.MethodPost, "/signin", "", gin.H{"email": "ann@x.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperror.MsgWrongCredentials, decode[response.ErrorBody](t, w).Message)

	w = s.do(http.MethodPost, "/signin", "", gin.H{"email": "ann@x.com", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[map[string]string](t, w)["token"])
}

func TestSignup_Validation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/signup", "", gin.H{"name": "A", "yearOfBirth": 1850, "email": "nope"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[response.ErrorBody](t, w)
	assert.False(t, body.Success)
	details, ok := body.Error.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "yearOfBirth")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")

	w = s.do(http.MethodPost, "/signup", "", `{"name": "Ann",`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/users/me"},
		{http.MethodPatch, "/users/me"},
		{http.MethodGet, "/users/me/goal"},
		{http.MethodGet, "/books/me/favorite"},
		{http.MethodPost, "/books/me/read"},
		{http.MethodDelete, "/books/me/read/isbn1"},
		{http.MethodGet, "/books/search?q=x"},
	} {
		w := s.do(r.method, r.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, r.path)
		w = s.do(r.method, r.path, "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, r.path)
	}
}

func TestProfile(t *testing.T) {
	s := newTestServer(t)
	token := s.signupAndSignin("Ann", "ann@x.com")
	s.signupAndSignin("Bob", "bob@x.com")

	w := s.do(http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[profile](t, w)
	assert.Equal(t, "Ann", p.Name)
	assert.Equal(t, 1990, p.YearOfBirth)
	assert.NotNil(t, p.FavoriteBooks)
	assert.NotContains(t, w.Body.String(), "password")

	w = s.do(http.MethodPatch, "/users/me", token, gin.H{"name": "Annie"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Annie", decode[profile](t, w).Name)

	w = s.do(http.MethodPatch, "/users/me", token, gin.H{"email": "bob@x.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPatch, "/users/me", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, "/users/me", token, gin.H{"name": "A"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoalRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.signupAndSignin("Ann", "ann@x.com")

	w := s.do(http.MethodPatch, "/users/me/goal", token, gin.H{"goal": 30})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(30), decode[map[string]float64](t, w)["goal"])

	w = s.do(http.MethodGet, "/users/me/goal", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(30), decode[map[string]float64](t, w)["goal"])

	w = s.do(http.MethodPatch, "/users/me/goal", token, gin.H{"goal": "many"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPatch, "/users/me/goal", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookLists(t *testing.T) {
	s := newTestServer(t)
	token := s.signupAndSignin("Ann", "ann@x.com")

	w := s.do(http.MethodPost, "/books/me/favorite", token, bookBody("isbn1"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"isbn1"}, decode[profile](t, w).FavoriteBooks)

	w = s.do(http.MethodPost, "/books/me/favorite", token, bookBody("isbn1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"isbn1"}, decode[profile](t, w).FavoriteBooks)

	w = s.do(http.MethodGet, "/books/me/favorite", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[map[string][]map[string]any](t, w)["favoriteBooks"]
	require.Len(t, listed, 1)
	assert.Equal(t, "isbn1", listed[0]["id"])

	w = s.do(http.MethodGet, "/books/me/read", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"readBooks":[]}`, strings.TrimSpace(w.Body.String()))

	w = s.do(http.MethodDelete, "/books/me/read/isbn1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.MsgBookNotInList, decode[response.ErrorBody](t, w).Message)

	w = s.do(http.MethodDelete, "/books/me/favorite/bad!id", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/books/me/favorite", token, gin.H{"id": "isbn2", "volumeInfo": gin.H{"title": "x", "authors": []string{}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[response.ErrorBody](t, w).Error, "volumeInfo.authors")

	w = s.do(http.MethodDelete, "/books/me/favorite/isbn1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[profile](t, w).FavoriteBooks)
	assert.Zero(t, s.store.BookCount())
}

func TestSharedBookScenario(t *testing.T) {
	s := newTestServer(t)
	a := s.signupAndSignin("User A", "a@x.com")

	w := s.do(http.MethodPost, "/books/me/favorite", a, bookBody("isbn1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[profile](t, w).FavoriteBooks, 1)
	assert.Equal(t, 1, s.store.BookCount())

	b := s.signupAndSignin("User B", "b@x.com")
	w = s.do(http.MethodPost, "/books/me/read", b, bookBody("isbn1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[profile](t, w).ReadBooks, 1)
	assert.Equal(t, 1, s.store.BookCount())

	w = s.do(http.MethodDelete, "/books/me/favorite/isbn1", a, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, s.store.BookCount())

	w = s.do(http.MethodDelete, "/books/me/read/isbn1", b, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, s.store.BookCount())
}

func TestSearchWithoutIndex(t *testing.T) {
	s := newTestServer(t)
	token := s.signupAndSignin("Ann", "ann@x.com")

	w := s.do(http.MethodGet, "/books/search?q=dune", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"books":[]}`, strings.TrimSpace(w.Body.String()))

	w = s.do(http.MethodGet, "/books/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOpsAndFallback(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])

	w = s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bookshelf_http_requests_total")

	w = s.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode[response.ErrorBody](t, w)
	assert.Equal(t, apperror.MsgNotFound, body.Message)
	assert.NotEmpty(t, body.RequestID)
}

func TestDeletedUserTokenYieldsNotFound(t *testing.T) {
	s := newTestServer(t)
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	token, _, err := jwt.GenerateToken("7b0c5d0e-2f5e-4c1b-9d43-6c6f0c9f8d11")
	require.NoError(t, err)

	w := s.do(http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.MsgUserNotFound, decode[response.ErrorBody](t, w).Message)
}

func TestSignup_PasswordLength(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/signup", "", gin.H{"name": "Ann", "yearOfBirth": 1990, "email": "ann@x.com", "password": strings.Repeat("p", 100)})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[response.ErrorBody](t, w)
	assert.Contains(t, body.Error, "password")

	password := strings.Repeat("p", 72)
	w = s.do(http.MethodPost, "/signup", "", gin.H{"name": "Ann", "yearOfBirth": 1990, "email": "ann@x.com", "password": password})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/signin", "", gin.H{"email": "ann@x.com", "password": password})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEmailIsTrimmedBeforeValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/signup", "", gin.H{"name": "Ann", "yearOfBirth": 1990, "email": "  Ann@X.com ", "password": "secret"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "ann@x.com", decode[map[string]any](t, w)["email"])

	w = s.do(http.MethodPost, "/signin", "", gin.H{"email": " ann@x.com", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[map[string]string](t, w)["token"]

	w = s.do(http.MethodPatch, "/users/me", token, gin.H{"email": " annie@x.com  "})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "annie@x.com", decode[profile](t, w).Email)

	w = s.do(http.MethodPatch, "/users/me", token, gin.H{"email": " annie@ "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
