package httpapi

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/auth"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/models"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/users"
)

const userContextKey = "authUser"

// UserFromContext returns the authenticated user stored by RequireAuth.
func UserFromContext(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// credentialFromRequest extracts the bearer token, falling back to the
// auth cookie and then the token query parameter.
func credentialFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("token")
}

// RequireAuth validates the request's JWT and loads the user onto the
// context. Requests without a valid credential get a 401.
func RequireAuth(usersSvc *users.Service, secretKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := credentialFromRequest(c)
		if credential == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		userID, err := auth.GetUserIDFromToken(credential, secretKey)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication token"})
			c.Abort()
			return
		}

		user, err := usersSvc.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication token"})
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RateLimiter counts requests per key within a fixed window.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string]*requestInfo
	limit    int
	window   time.Duration
	now      func() time.Time
}

type requestInfo struct {
	count   int
	resetAt time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string]*requestInfo),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	info, exists := rl.requests[key]
	if !exists || now.After(info.resetAt) {
		rl.requests[key] = &requestInfo{count: 1, resetAt: now.Add(rl.window)}
		return true
	}

	if info.count >= rl.limit {
		return false
	}

	info.count++
	return true
}

// Cleanup removes stale counters once per window until ctx is done. Run it
// in its own goroutine.
func (rl *RateLimiter) Cleanup(ctx context.Context) {
	if rl.window <= 0 {
		return
	}
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, info := range rl.requests {
				if now.After(info.resetAt) {
					delete(rl.requests, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// RateLimit rejects requests over the per-IP budget with a 429.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, please try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}
