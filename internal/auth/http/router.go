package http

import (
	"github.com/gin-gonic/gin"

	"github.com/veriflow-mrv/veriflow-backend/internal/auth/service"
)

// Handler bundles the dependencies for auth HTTP endpoints.
type Handler struct {
	svc *service.AuthService
}

func New(svc *service.AuthService) *Handler {
	return &Handler{svc: svc}
}

// Register attaches auth routes. Profile sits behind the auth gate.
func (h *Handler) Register(rg *gin.RouterGroup, gate gin.HandlerFunc) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.GET("/me", gate, h.me)
}
