package activity

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veriflow-mrv/veriflow-backend/internal/auth"
)

// Register attaches the activity feed route behind the auth gate.
func Register(rg *gin.RouterGroup, feed *FeedRepo, gate gin.HandlerFunc) {
	rg.GET("", gate, func(c *gin.Context) {
		requester := auth.RequesterFrom(c)
		if requester == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}

		limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
		entries, err := feed.List(c.Request.Context(), requester.ID, limit)
		if err != nil {
			log.Printf("[activity] list: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"count": len(entries), "entries": entries})
	})
}
