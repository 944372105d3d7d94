package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/logo"
)

// LogoHandler resolves a site logo for a domain, returning a data URL the
// browser can render directly.
type LogoHandler struct {
	Resolver *logo.Resolver
}

func (h *LogoHandler) Resolve(c *gin.Context) {
	domain := c.Query("domain")
	if domain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "domain parameter is required"})
		return
	}

	url, err := h.Resolver.Resolve(c.Request.Context(), domain)
	if err != nil {
		if errors.Is(err, logo.ErrInvalidDomain) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid domain"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"domain": logo.CleanDomain(domain), "url": url})
}
