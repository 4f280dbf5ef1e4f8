package handler

import (
	"net/http"

	"telecom-inventory/internal/middleware"
	"telecom-inventory/internal/service"
	"telecom-inventory/pkg/pagination"
	"telecom-inventory/pkg/response"

	"github.com/gin-gonic/gin"
)

type SupplierHandler struct {
	supplierService service.SupplierService
	checker         *middleware.PermissionChecker
}

// NewSupplierHandler sets up the routing dependencies for supplier
// endpoints
func NewSupplierHandler(supplierService service.SupplierService, checker *middleware.PermissionChecker) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService, checker: checker}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *SupplierHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Public application endpoint
	router.POST("/suppliers/register", h.Register)

	suppliers := router.Group("/suppliers")
	{
		suppliers.GET("", h.checker.RequirePermission("view_supplier"), h.ListSuppliers)
		suppliers.GET("/:id", h.checker.RequirePermission("view_supplier"), h.GetSupplier)
		suppliers.POST("/:id/approve", h.checker.RequirePermission("manage_supplier_approval"), h.Approve)
		suppliers.POST("/:id/reject", h.checker.RequirePermission("manage_supplier_approval"), h.Reject)
		suppliers.POST("/:id/revoke", h.checker.RequirePermission("manage_supplier_approval"), h.Revoke)
	}
}

// Register handles POST /suppliers/register filing a pending application
// @Summary      Register a supplier
// @Description  Files a supplier application in pending status; no account is created until approval
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SupplierRegisterRequest  true  "Supplier Application"
// @Success      201      {object}  response.Response{data=service.SupplierResponse}
// @Failure      400      {object}  response.Response
// @Router       /suppliers/register [post]
func (h *SupplierHandler) Register(c *gin.Context) {
	var req service.SupplierRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	supplier, err := h.supplierService.Register(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, supplier))
}

// ListSuppliers handles GET /suppliers with paging and a status filter
// @Summary      List suppliers
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        status  query     string  false  "Filter by status (pending/approved/rejected)"
// @Param        search  query     string  false  "Search by company name or email"
// @Success      200     {object}  response.Response{data=object}
// @Router       /suppliers [get]
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	params := pagination.Parse(c, "created_at", "company_name")
	status := c.Query("status")

	suppliers, total, err := h.supplierService.ListSuppliers(c.Request.Context(), params, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch suppliers"))
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, suppliers, total, params.Page, params.Limit))
}

// GetSupplier handles GET /suppliers/:id
// @Summary      Get supplier by ID
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Supplier ID"
// @Success      200  {object}  response.Response{data=service.SupplierResponse}
// @Failure      404  {object}  response.Response
// @Router       /suppliers/{id} [get]
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, supplier))
}

// Approve handles POST /suppliers/:id/approve
// @Summary      Approve a supplier
// @Description  Approves a pending application and provisions the supplier portal account
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Supplier ID"
// @Success      200  {object}  response.Response{data=service.SupplierResponse}
// @Failure      400  {object}  response.Response
// @Router       /suppliers/{id}/approve [post]
func (h *SupplierHandler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	supplier, err := h.supplierService.Approve(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, supplier))
}

// Reject handles POST /suppliers/:id/reject removing a pending application
// @Summary      Reject a supplier
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Supplier ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /suppliers/{id}/reject [post]
func (h *SupplierHandler) Reject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.supplierService.Reject(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Supplier rejected"))
}

// Revoke handles POST /suppliers/:id/revoke tearing down an approved
// supplier and its account
// @Summary      Revoke an approved supplier
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Supplier ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /suppliers/{id}/revoke [post]
func (h *SupplierHandler) Revoke(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.supplierService.Revoke(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Supplier revoked"))
}
