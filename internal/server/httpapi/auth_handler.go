package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/models"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/users"
)

type AuthHandler struct {
	Users         *users.Service
	TokenValidity time.Duration
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and email are required"})
		return
	}

	user, token, err := h.Users.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.IsAdmin)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setAuthCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(user), "token": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, token, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setAuthCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user), "token": token})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

type promoteRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// PromoteAdmin grants admin rights to another user. Admin only.
func (h *AuthHandler) PromoteAdmin(c *gin.Context) {
	caller, ok := UserFromContext(c)
	if !ok || !caller.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}

	var req promoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	user, err := h.Users.PromoteAdmin(c.Request.Context(), req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	c.SetCookie("token", token, int(h.TokenValidity.Seconds()), "/", "", false, true)
}
