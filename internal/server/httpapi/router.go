// Package httpapi exposes the vault over a JSON REST API built on gin.
package httpapi

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/logging"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/logo"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/accounts"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/config"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/files"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/users"
)

const (
	rateLimitRequests = 100
	rateLimitWindow   = 15 * time.Minute
)

// NewDefaultRateLimiter returns a limiter with the API's per-IP budget.
func NewDefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(rateLimitRequests, rateLimitWindow)
}

// Deps bundles everything the router needs.
type Deps struct {
	Config   *config.Config
	Logger   logging.Logger
	DB       *sql.DB
	Users    *users.Service
	Accounts *accounts.Service
	Files    *files.Service
	Resolver *logo.Resolver

	// RateLimiter may be supplied so the caller can run its Cleanup loop.
	// When nil a default one is created.
	RateLimiter *RateLimiter
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	secretKey := []byte(deps.Config.SecretKey)

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = NewDefaultRateLimiter()
	}
	api := r.Group("/api")
	api.Use(RateLimit(limiter))

	authHandler := &AuthHandler{Users: deps.Users, TokenValidity: deps.Config.AccessTokenValidityDuration}
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	filesHandler := &FilesHandler{
		Files:     deps.Files,
		Users:     deps.Users,
		SecretKey: secretKey,
		MaxSize:   deps.Config.MaxUploadSize,
		Logger:    deps.Logger,
	}
	// dual auth (temp token or JWT) is handled inside Download
	api.GET("/accounts/file/:id", filesHandler.Download)

	proxyHandler := &ProxyHandler{
		Client:  &http.Client{},
		Timeout: deps.Config.ProxyFetchTimeout,
		Logger:  deps.Logger,
	}
	api.GET("/proxy-image", proxyHandler.ProxyImage)

	logoHandler := &LogoHandler{Resolver: deps.Resolver}
	api.GET("/logo", logoHandler.Resolve)

	statusHandler := &StatusHandler{
		DB:          deps.DB,
		S3Endpoint:  deps.Config.S3BaseEndpoint,
		S3Bucket:    deps.Config.S3Bucket,
		S3Available: deps.Config.S3BaseEndpoint != "",
	}
	api.GET("/status", statusHandler.Status)

	protected := api.Group("")
	protected.Use(RequireAuth(deps.Users, secretKey))

	protected.GET("/auth/me", authHandler.Me)
	protected.PUT("/auth/promote", authHandler.PromoteAdmin)

	accountsHandler := &AccountsHandler{Accounts: deps.Accounts}
	protected.POST("/accounts", accountsHandler.Create)
	protected.GET("/accounts", accountsHandler.List)
	protected.GET("/accounts/:id", accountsHandler.Get)
	protected.PUT("/accounts/:id", accountsHandler.Update)
	protected.DELETE("/accounts/:id", accountsHandler.Delete)

	protected.POST("/accounts/:id/file", filesHandler.Upload)
	protected.DELETE("/accounts/:id/file", filesHandler.DeleteAttachment)
	protected.POST("/accounts/file/:id/generate-access", filesHandler.GenerateAccess)

	return r
}
