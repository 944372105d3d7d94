package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/accounts"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/models"
)

type AccountsHandler struct {
	Accounts *accounts.Service
}

type accountRequest struct {
	Website  string `json:"website" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	WebLogo  string `json:"weblogo"`
	Note     string `json:"note"`
}

type attachedFileResponse struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

type accountResponse struct {
	ID           string                `json:"id"`
	SerialNumber int64                 `json:"serialNumber"`
	Website      string                `json:"website"`
	Name         string                `json:"name"`
	Username     string                `json:"username"`
	Email        string                `json:"email"`
	Password     string                `json:"password"`
	WebLogo      string                `json:"weblogo"`
	Note         string                `json:"note"`
	UserID       string                `json:"userId"`
	AttachedFile *attachedFileResponse `json:"attachedFile,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

func toAccountResponse(a *models.Account) accountResponse {
	resp := accountResponse{
		ID:           a.ID,
		SerialNumber: a.SerialNumber,
		Website:      a.Website,
		Name:         a.Name,
		Username:     a.Username,
		Email:        a.Email,
		Password:     a.Password,
		WebLogo:      a.WebLogo,
		Note:         a.Note,
		UserID:       a.UserID,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if a.AttachedFile != nil {
		resp.AttachedFile = &attachedFileResponse{
			Filename:    a.AttachedFile.Filename,
			ContentType: a.AttachedFile.ContentType,
			Size:        a.AttachedFile.Size,
			UploadedAt:  a.AttachedFile.UploadedAt,
		}
	}
	return resp
}

func (h *AccountsHandler) Create(c *gin.Context) {
	user, ok := UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "website and name are required"})
		return
	}

	account, err := h.Accounts.Create(c.Request.Context(), user.ID, &models.Account{
		Website:  req.Website,
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		WebLogo:  req.WebLogo,
		Note:     req.Note,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": toAccountResponse(account)})
}

func (h *AccountsHandler) List(c *gin.Context) {
	user, ok := UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	list, err := h.Accounts.List(c.Request.Context(), user)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]accountResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, toAccountResponse(a))
	}
	c.JSON(http.StatusOK, gin.H{"accounts": resp})
}

func (h *AccountsHandler) Get(c *gin.Context) {
	user, ok := UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	account, err := h.Accounts.Get(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": toAccountResponse(account)})
}

func (h *AccountsHandler) Update(c *gin.Context) {
	user, ok := UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "website and name are required"})
		return
	}

	account, err := h.Accounts.Update(c.Request.Context(), user, c.Param("id"), &models.Account{
		Website:  req.Website,
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		WebLogo:  req.WebLogo,
		Note:     req.Note,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": toAccountResponse(account)})
}

func (h *AccountsHandler) Delete(c *gin.Context) {
	user, ok := UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.Accounts.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
