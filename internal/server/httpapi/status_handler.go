package httpapi

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusHandler reports database reachability and blob store configuration.
type StatusHandler struct {
	DB          *sql.DB
	S3Endpoint  string
	S3Bucket    string
	S3Available bool
}

func (h *StatusHandler) Status(c *gin.Context) {
	dbStatus := "ok"
	if err := h.DB.PingContext(c.Request.Context()); err != nil {
		dbStatus = "unreachable"
	}

	blobStatus := "ok"
	if !h.S3Available {
		blobStatus = "not configured"
	}

	code := http.StatusOK
	if dbStatus != "ok" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"database": dbStatus,
		"blobStore": gin.H{
			"status":   blobStatus,
			"endpoint": h.S3Endpoint,
			"bucket":   h.S3Bucket,
		},
	})
}
