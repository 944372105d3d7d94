package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/common"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/logging"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/auth"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/blobstore"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/files"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/models"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/users"
)

// uploadFieldName is the multipart form field carrying the attachment.
const uploadFieldName = "attachedFile"

type FilesHandler struct {
	Files     *files.Service
	Users     *users.Service
	SecretKey []byte
	MaxSize   int64
	Logger    logging.Logger
}

// Upload replaces the account's attachment with the uploaded file.
func (h *FilesHandler) Upload(c *gin.Context) {
	user, ok := UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	header, err := c.FormFile(uploadFieldName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	if header.Size > h.MaxSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer f.Close()

	contentType := header.Header.Get("Content-Type")
	account, err := h.Files.Upload(c.Request.Context(), user, c.Param("id"), header.Filename, contentType, header.Size, f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": toAccountResponse(account)})
}

// DeleteAttachment removes the account's attached file.
func (h *FilesHandler) DeleteAttachment(c *gin.Context) {
	user, ok := UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	account, err := h.Files.DeleteAttachment(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": toAccountResponse(account)})
}

// GenerateAccess mints a temporary download URL for the attachment.
func (h *FilesHandler) GenerateAccess(c *gin.Context) {
	user, ok := UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	url, expires, err := h.Files.GenerateAccess(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "expires": expires.UTC().Format(time.RFC3339)})
}

// Download streams the attachment. The route is not behind RequireAuth:
// access is granted either by an unexpired temporary token bound to this
// account or by a JWT from the query string or Authorization header.
func (h *FilesHandler) Download(c *gin.Context) {
	accountID := c.Param("id")

	var (
		file *models.AttachedFile
		obj  *blobstore.Object
		err  error
	)

	if temp := c.Query("temp"); temp != "" {
		file, obj, err = h.Files.DownloadWithToken(c.Request.Context(), temp, accountID)
	} else {
		user, authErr := h.userFromCredential(c)
		if authErr != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		file, obj, err = h.Files.DownloadForUser(c.Request.Context(), user, accountID)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	defer obj.Body.Close()

	disposition := "inline"
	if c.Query("download") == "true" {
		disposition = "attachment"
	}

	c.Header("Content-Type", obj.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, file.Filename))
	c.Header("Cache-Control", "private, max-age=3600")
	if obj.Size > 0 {
		c.Header("Content-Length", fmt.Sprintf("%d", obj.Size))
	}
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, obj.Body); err != nil {
		h.Logger.Warn(c.Request.Context(), "error streaming attachment", "account", accountID, "error", err)
	}
}

func (h *FilesHandler) userFromCredential(c *gin.Context) (*models.User, error) {
	credential := credentialFromRequest(c)
	if credential == "" {
		return nil, common.ErrorUnauthorized
	}
	userID, err := auth.GetUserIDFromToken(credential, h.SecretKey)
	if err != nil {
		return nil, err
	}
	return h.Users.GetByID(c.Request.Context(), userID)
}
