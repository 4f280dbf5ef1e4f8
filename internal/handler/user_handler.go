package handler

import (
	"net/http"
	"strconv"

	"telecom-inventory/internal/middleware"
	"telecom-inventory/internal/service"
	"telecom-inventory/pkg/pagination"
	"telecom-inventory/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
	rbacService service.RBACService
	exports     service.ExportService
	checker     *middleware.PermissionChecker
}

// NewUserHandler sets up the routing dependencies for user endpoints
func NewUserHandler(userService service.UserService, rbacService service.RBACService, exports service.ExportService, checker *middleware.PermissionChecker) *UserHandler {
	return &UserHandler{userService: userService, rbacService: rbacService, exports: exports, checker: checker}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Public routes
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)

	router.GET("/me", h.checker.RequireAuth(), h.GetMe)

	users := router.Group("/users")
	{
		users.GET("", h.checker.RequirePermission("view_user"), h.ListUsers)
		users.GET("/export", h.checker.RequirePermission("view_user"), h.ExportUsers)
		users.GET("/:id", h.checker.RequirePermission("view_user"), h.GetUser)
		users.POST("", h.checker.RequirePermission("create_user"), h.CreateUser)
		users.PUT("/:id", h.checker.RequirePermission("edit_user"), h.UpdateUser)
		users.DELETE("/:id", h.checker.RequirePermission("delete_user"), h.DeleteUser)
		users.PUT("/:id/roles", h.checker.RequirePermission("manage_roles"), h.SetUserRoles)
		users.POST("/bulk-roles", h.checker.RequirePermission("manage_roles"), h.BulkSetRoles)
	}
}

// Register handles self-service registration against the allowlist
// @Summary      Register a new account
// @Description  Creates an account for a pre-approved employee; the id/email pair must be on the allowlist
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RegisterRequest  true  "Registration Payload"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Router       /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// Login handles POST /login to authenticate and return a JWT token
// @Summary      Login user
// @Description  Authenticates by username and password, returning a JWT token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      401      {object}  response.Response
// @Router       /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	tokenRes, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return
	}

	middleware.SetTokenCookie(c, tokenRes.Token)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokenRes))
}

// Logout handles POST /logout to clear the auth cookie
func (h *UserHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Logged out"))
}

// GetMe handles GET /me to return the current authenticated user
// @Summary      Get current user
// @Description  Get the currently authenticated user with roles and permissions
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      404  {object}  response.Response
// @Router       /me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := c.Get("userID")
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	user, err := h.userService.GetUserByUserID(c.Request.Context(), userID.(uint))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "User not found"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// ListUsers handles GET /users with paging, sorting and search
// @Summary      List users
// @Description  Retrieves a paginated list of users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        search  query     string  false  "Search by username or email"
// @Success      200     {object}  response.Response{data=object}
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := pagination.Parse(c, "user_infos.created_at", "email")

	users, total, err := h.userService.ListUsers(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch users"))
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, users, total, params.Page, params.Limit))
}

// GetUser handles GET /users/:id
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// CreateUser handles POST /users (admin path, bypasses the allowlist)
// @Summary      Create a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateUserRequest  true  "Create User Payload"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Router       /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// UpdateUser handles PUT /users/:id
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                        true  "User ID"
// @Param        payload  body      service.UpdateUserRequest  true  "Update Payload"
// @Success      200      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.checker.InvalidateUser(user.UserID)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// DeleteUser handles DELETE /users/:id
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "User deleted"))
}

// SetUserRoles handles PUT /users/:id/roles replacing the user's role set
// @Summary      Set user roles
// @Description  Replaces the target user's role assignments with the named roles
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                     true  "User ID"
// @Param        payload  body      service.SetRolesRequest true  "Role Names"
// @Success      200      {object}  response.Response{data=object}
// @Failure      400      {object}  response.Response
// @Router       /users/{id}/roles [put]
func (h *UserHandler) SetUserRoles(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.SetRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	roles, err := h.rbacService.SetUserRoles(c.Request.Context(), middleware.CurrentActor(c), id, req.Roles)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.checker.InvalidateAll()
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"id":    id,
		"roles": roles,
	}))
}

// BulkSetRoles handles POST /users/bulk-roles applying one role operation
// to many users
// @Summary      Bulk role assignment
// @Description  Applies replace/add/remove of the named roles to many users; per-user failures do not abort the batch
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.BulkAssignRequest  true  "Bulk Assignment Payload"
// @Success      200      {object}  response.Response{data=service.BulkResult}
// @Failure      400      {object}  response.Response
// @Router       /users/bulk-roles [post]
func (h *UserHandler) BulkSetRoles(c *gin.Context) {
	var req service.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.rbacService.BulkSetUserRoles(c.Request.Context(), middleware.CurrentActor(c), req.IDs, req.Roles, req.Operation)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.checker.InvalidateAll()
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ExportUsers handles GET /users/export streaming a CSV dump
// @Summary      Export users as CSV
// @Tags         users
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200  {string}  string  "CSV content"
// @Router       /users/export [get]
func (h *UserHandler) ExportUsers(c *gin.Context) {
	data, err := h.exports.ExportUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="users.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// parseID reads the :id path parameter as an unsigned integer
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid id"))
		return 0, false
	}
	return uint(id), true
}
