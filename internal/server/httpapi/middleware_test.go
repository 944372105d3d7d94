package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/common"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/auth"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/config"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/models"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/sessions"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/users"
)

type fakeUsersRepo struct {
	users map[string]*models.User
	next  int
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	f.next++
	user.ID = fmt.Sprintf("u-%d", f.next)
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUsersRepo) CountNonAdmin(ctx context.Context) (int, error) {
	n := 0
	for _, u := range f.users {
		if !u.IsAdmin {
			n++
		}
	}
	return n, nil
}

func (f *fakeUsersRepo) SetAdmin(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.IsAdmin = true
	return u, nil
}

type noopSessionsRepo struct{}

func (noopSessionsRepo) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	return nil
}

func (noopSessionsRepo) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

var _ sessions.Repository = noopSessionsRepo{}

const testSecret = "test-secret"

func newUsersService(repo *fakeUsersRepo) *users.Service {
	cfg := &config.Config{
		SecretKey:                   testSecret,
		AccessTokenValidityDuration: time.Hour,
		MaxUsers:                    5,
	}
	return users.NewService(repo, noopSessionsRepo{}, cfg)
}

func authRouter(t *testing.T, repo *fakeUsersRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(newUsersService(repo), []byte(testSecret)), func(c *gin.Context) {
		user, ok := UserFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	return r
}

func mintToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return token
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	repo := &fakeUsersRepo{users: map[string]*models.User{"u-1": {ID: "u-1"}}}
	r := authRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "u-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_Cookie(t *testing.T) {
	repo := &fakeUsersRepo{users: map[string]*models.User{"u-1": {ID: "u-1"}}}
	r := authRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: mintToken(t, "u-1")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_QueryParam(t *testing.T) {
	repo := &fakeUsersRepo{users: map[string]*models.User{"u-1": {ID: "u-1"}}}
	r := authRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/protected?token="+mintToken(t, "u-1"), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_MissingCredential(t *testing.T) {
	repo := &fakeUsersRepo{users: map[string]*models.User{}}
	r := authRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	repo := &fakeUsersRepo{users: map[string]*models.User{}}
	r := authRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "ghost"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	repo := &fakeUsersRepo{users: map[string]*models.User{}}
	r := authRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimiter_AllowWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	assert.True(t, rl.Allow("ip-1"))
	assert.True(t, rl.Allow("ip-1"))
	assert.True(t, rl.Allow("ip-1"))
	assert.False(t, rl.Allow("ip-1"))

	// other clients are unaffected
	assert.True(t, rl.Allow("ip-2"))
}

func TestRateLimiter_WindowReset(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(1, 15*time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("ip-1"))
	assert.False(t, rl.Allow("ip-1"))

	rl.now = func() time.Time { return now.Add(16 * time.Minute) }
	assert.True(t, rl.Allow("ip-1"))
}

func TestRateLimiter_CleanupRemovesStaleEntries(t *testing.T) {
	rl := NewRateLimiter(1, 5*time.Millisecond)
	rl.Allow("ip-1")
	rl.Allow("ip-2")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rl.Cleanup(ctx)

	assert.Eventually(t, func() bool {
		rl.mu.Lock()
		defer rl.mu.Unlock()
		return len(rl.requests) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestRateLimitMiddleware_TooManyRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1, time.Minute)
	r := gin.New()
	r.GET("/", RateLimit(rl), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
