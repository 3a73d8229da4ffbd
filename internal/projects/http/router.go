package http

import (
	"github.com/gin-gonic/gin"

	"github.com/veriflow-mrv/veriflow-backend/internal/projects/service"
)

// Handler bundles the dependencies for project HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
}

func New(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}

// Register attaches project routes. Listing and reads are public;
// mutations sit behind the auth gate.
func (h *Handler) Register(rg *gin.RouterGroup, gate gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.GET("/:id", h.getByID)
	rg.POST("", gate, h.create)
	rg.PUT("/:id", gate, h.update)
	rg.DELETE("/:id", gate, h.delete)
}
