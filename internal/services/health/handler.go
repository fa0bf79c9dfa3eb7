package health

import (
	"github.com/gin-gonic/gin"

	"groundwater-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		respond.OK(c, h.Svc.Status())
	})
	rg.GET("/status", func(c *gin.Context) {
		respond.OK(c, h.Svc.Report(c.Request.Context()))
	})
	rg.GET("/capabilities", func(c *gin.Context) {
		respond.OK(c, h.Svc.Capabilities())
	})
}
