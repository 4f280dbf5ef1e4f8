package handler

import (
	"net/http"

	"telecom-inventory/internal/middleware"
	"telecom-inventory/internal/service"
	"telecom-inventory/pkg/pagination"
	"telecom-inventory/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
	checker      *middleware.PermissionChecker
}

// NewAuditHandler sets up the routing dependencies for audit endpoints
func NewAuditHandler(auditService service.AuditService, checker *middleware.PermissionChecker) *AuditHandler {
	return &AuditHandler{auditService: auditService, checker: checker}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit", h.checker.RequirePermission("view_audit"), h.ListEntries)
}

// ListEntries handles GET /audit with paging and filters
// @Summary      List audit trail entries
// @Description  Newest first; filterable by entity type/id, username and operation type
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page         query     int     false  "Page number"
// @Param        limit        query     int     false  "Items per page"
// @Param        entity_type  query     string  false  "Filter by entity type"
// @Param        entity_id    query     string  false  "Filter by entity id"
// @Param        username     query     string  false  "Filter by actor username"
// @Param        operation    query     string  false  "Filter by operation type"
// @Success      200          {object}  response.Response{data=object}
// @Router       /audit [get]
func (h *AuditHandler) ListEntries(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.auditService.ListEntries(c.Request.Context(), params, service.AuditListRequest{
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		Username:   c.Query("username"),
		Operation:  c.Query("operation"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch audit entries"))
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, entries, total, params.Page, params.Limit))
}
