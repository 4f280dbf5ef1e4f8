package handler

import (
	"net/http"

	"telecom-inventory/internal/middleware"
	"telecom-inventory/internal/service"
	"telecom-inventory/pkg/response"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	rbacService service.RBACService
	exports     service.ExportService
	checker     *middleware.PermissionChecker
}

// NewRoleHandler sets up the routing dependencies for role and permission
// endpoints
func NewRoleHandler(rbacService service.RBACService, exports service.ExportService, checker *middleware.PermissionChecker) *RoleHandler {
	return &RoleHandler{rbacService: rbacService, exports: exports, checker: checker}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *RoleHandler) RegisterRoutes(router *gin.RouterGroup) {
	manage := h.checker.RequirePermission("manage_roles")

	roles := router.Group("/roles", manage)
	{
		roles.GET("", h.ListRoles)
		roles.GET("/export", h.ExportRoles)
		roles.GET("/:id", h.GetRole)
		roles.POST("", h.CreateRole)
		roles.PUT("/:id", h.UpdateRole)
		roles.DELETE("/:id", h.DeleteRole)
		roles.PUT("/:id/permissions", h.SetRolePermissions)
		roles.POST("/bulk-permissions", h.BulkSetPermissions)
	}

	perms := router.Group("/permissions", manage)
	{
		perms.GET("", h.ListPermissions)
		perms.GET("/export", h.ExportPermissions)
		perms.POST("", h.CreatePermission)
		perms.PUT("/:id", h.UpdatePermission)
		perms.DELETE("/:id", h.DeletePermission)
	}
}

// ListRoles handles GET /roles
// @Summary      List roles
// @Description  Lists roles with their permissions; pass include_inactive=true for deactivated roles too
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        include_inactive  query     bool  false  "Include deactivated roles"
// @Success      200               {object}  response.Response{data=[]service.RoleResponse}
// @Router       /roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	roles, err := h.rbacService.ListRoles(c.Request.Context(), includeInactive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch roles"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, roles))
}

// GetRole handles GET /roles/:id
// @Summary      Get role by ID
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Role ID"
// @Success      200  {object}  response.Response{data=service.RoleResponse}
// @Failure      404  {object}  response.Response
// @Router       /roles/{id} [get]
func (h *RoleHandler) GetRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	role, err := h.rbacService.GetRole(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, role))
}

// CreateRole handles POST /roles
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRoleRequest  true  "Create Role Payload"
// @Success      201      {object}  response.Response{data=service.RoleResponse}
// @Failure      400      {object}  response.Response
// @Router       /roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req service.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	role, err := h.rbacService.CreateRole(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, role))
}

// UpdateRole handles PUT /roles/:id
// @Summary      Update a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                        true  "Role ID"
// @Param        payload  body      service.UpdateRoleRequest  true  "Update Role Payload"
// @Success      200      {object}  response.Response{data=service.RoleResponse}
// @Failure      400      {object}  response.Response
// @Router       /roles/{id} [put]
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	role, err := h.rbacService.UpdateRole(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.checker.InvalidateAll()
	c.JSON(http.StatusOK, response.Success(http.StatusOK, role))
}

// DeleteRole handles DELETE /roles/:id, deactivating the role
// @Summary      Delete a role
// @Description  Deactivates the role; it disappears from assignment but keeps its audit history
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Role ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /roles/{id} [delete]
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.rbacService.DeleteRole(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.checker.InvalidateAll()
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Role deleted"))
}

// SetRolePermissions handles PUT /roles/:id/permissions
// @Summary      Set role permissions
// @Description  Replaces the role's permission set with the named permissions
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                            true  "Role ID"
// @Param        payload  body      service.SetPermissionsRequest  true  "Permission Names"
// @Success      200      {object}  response.Response{data=service.RoleResponse}
// @Failure      400      {object}  response.Response
// @Router       /roles/{id}/permissions [put]
func (h *RoleHandler) SetRolePermissions(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.SetPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	role, err := h.rbacService.SetRolePermissions(c.Request.Context(), middleware.CurrentActor(c), id, req.Permissions)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.checker.InvalidateAll()
	c.JSON(http.StatusOK, response.Success(http.StatusOK, role))
}

// BulkSetPermissions handles POST /roles/bulk-permissions
// @Summary      Bulk permission assignment
// @Description  Applies replace/add/remove of the named permissions to many roles; per-role failures do not abort the batch
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.BulkPermissionRequest  true  "Bulk Assignment Payload"
// @Success      200      {object}  response.Response{data=service.BulkResult}
// @Failure      400      {object}  response.Response
// @Router       /roles/bulk-permissions [post]
func (h *RoleHandler) BulkSetPermissions(c *gin.Context) {
	var req service.BulkPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.rbacService.BulkSetRolePermissions(c.Request.Context(), middleware.CurrentActor(c), req.IDs, req.Permissions, req.Operation)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.checker.InvalidateAll()
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListPermissions handles GET /permissions
// @Summary      List permissions
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.PermissionResponse}
// @Router       /permissions [get]
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	perms, err := h.rbacService.ListPermissions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch permissions"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, perms))
}

// CreatePermission handles POST /permissions
// @Summary      Create a permission
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePermissionRequest  true  "Create Permission Payload"
// @Success      201      {object}  response.Response{data=service.PermissionResponse}
// @Failure      400      {object}  response.Response
// @Router       /permissions [post]
func (h *RoleHandler) CreatePermission(c *gin.Context) {
	var req service.CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	perm, err := h.rbacService.CreatePermission(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, perm))
}

// UpdatePermission handles PUT /permissions/:id
// @Summary      Update a permission
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                              true  "Permission ID"
// @Param        payload  body      service.UpdatePermissionRequest  true  "Update Permission Payload"
// @Success      200      {object}  response.Response{data=service.PermissionResponse}
// @Failure      400      {object}  response.Response
// @Router       /permissions/{id} [put]
func (h *RoleHandler) UpdatePermission(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	perm, err := h.rbacService.UpdatePermission(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, perm))
}

// DeletePermission handles DELETE /permissions/:id
// @Summary      Delete a permission
// @Description  Removes the permission and every role assignment referencing it
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Permission ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /permissions/{id} [delete]
func (h *RoleHandler) DeletePermission(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.rbacService.DeletePermission(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.checker.InvalidateAll()
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Permission deleted"))
}

// ExportRoles handles GET /roles/export streaming a CSV dump
// @Summary      Export roles as CSV
// @Tags         roles
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200  {string}  string  "CSV content"
// @Router       /roles/export [get]
func (h *RoleHandler) ExportRoles(c *gin.Context) {
	data, err := h.exports.ExportRoles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="roles.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportPermissions handles GET /permissions/export streaming a CSV dump
// @Summary      Export permissions as CSV
// @Tags         permissions
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200  {string}  string  "CSV content"
// @Router       /permissions/export [get]
func (h *RoleHandler) ExportPermissions(c *gin.Context) {
	data, err := h.exports.ExportPermissions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="permissions.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
