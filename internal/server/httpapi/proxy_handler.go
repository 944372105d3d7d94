package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/logging"
)

// ProxyHandler fetches a remote image on behalf of the browser so that
// provider CORS policies do not block logo rendering.
type ProxyHandler struct {
	Client  *http.Client
	Timeout time.Duration
	Logger  logging.Logger
}

func (h *ProxyHandler) ProxyImage(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid url"})
		return
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "image fetch timed out"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "error fetching image"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusBadGateway, gin.H{"error": "error fetching image"})
		return
	}

	c.Header("Content-Type", resp.Header.Get("Content-Type"))
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		h.Logger.Warn(c.Request.Context(), "error relaying image body", "url", target, "error", err)
	}
}
