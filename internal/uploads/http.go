package uploads

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type presignReq struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Kind        string `json:"kind"`
}

// Register attaches the presign route behind the auth gate. Callers skip
// registration entirely when uploads are not configured.
func Register(rg *gin.RouterGroup, p *Presigner, gate gin.HandlerFunc) {
	rg.POST("/presign", gate, func(c *gin.Context) {
		var req presignReq
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.FileName) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "fileName is required"})
			return
		}
		if req.ContentType == "" {
			req.ContentType = "application/octet-stream"
		}

		out, err := p.PresignPut(c.Request.Context(), ObjectKey(req.Kind, req.FileName), req.ContentType)
		if err != nil {
			log.Printf("[uploads] presign: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		c.JSON(http.StatusOK, out)
	})
}
