package handler

import (
	"net/http"

	"telecom-inventory/internal/middleware"
	"telecom-inventory/internal/service"
	"telecom-inventory/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService service.StatsService
	checker      *middleware.PermissionChecker
}

// NewStatsHandler sets up the routing dependencies for dashboard stats
func NewStatsHandler(statsService service.StatsService, checker *middleware.PermissionChecker) *StatsHandler {
	return &StatsHandler{statsService: statsService, checker: checker}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *StatsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/stats", h.checker.RequirePermission("view_dashboard"), h.GetStats)
}

// GetStats handles GET /stats returning dashboard counters
// @Summary      Dashboard statistics
// @Description  Entity counts across users, roles, permissions, suppliers by status, inventory by category and the audit trail
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.StatsResponse}
// @Router       /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute statistics"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
