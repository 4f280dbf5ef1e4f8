package handler

import (
	"net/http"

	"telecom-inventory/internal/middleware"
	"telecom-inventory/internal/service"
	"telecom-inventory/pkg/pagination"
	"telecom-inventory/pkg/response"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	itemService service.ItemService
	checker     *middleware.PermissionChecker
}

// NewItemHandler sets up the routing dependencies for inventory endpoints
func NewItemHandler(itemService service.ItemService, checker *middleware.PermissionChecker) *ItemHandler {
	return &ItemHandler{itemService: itemService, checker: checker}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/items")
	{
		items.GET("", h.checker.RequirePermission("view_inventory"), h.ListItems)
		items.GET("/:id", h.checker.RequirePermission("view_inventory"), h.GetItem)
		items.POST("", h.checker.RequirePermission("create_inventory"), h.CreateItem)
		items.PUT("/:id", h.checker.RequirePermission("update_inventory"), h.UpdateItem)
		items.DELETE("/:id", h.checker.RequirePermission("delete_inventory"), h.DeleteItem)
	}
}

// ListItems handles GET /items with paging, sorting and a category filter
// @Summary      List inventory items
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Items per page"
// @Param        category  query     string  false  "Filter by category"
// @Param        search    query     string  false  "Search by name or SKU"
// @Success      200       {object}  response.Response{data=object}
// @Router       /items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	params := pagination.Parse(c, "created_at", "name", "sku", "quantity")
	category := c.Query("category")

	items, total, err := h.itemService.ListItems(c.Request.Context(), params, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch items"))
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, items, total, params.Page, params.Limit))
}

// GetItem handles GET /items/:id
// @Summary      Get inventory item by ID
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Item ID"
// @Success      200  {object}  response.Response{data=service.ItemResponse}
// @Failure      404  {object}  response.Response
// @Router       /items/{id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// CreateItem handles POST /items
// @Summary      Create an inventory item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateItemRequest  true  "Create Item Payload"
// @Success      201      {object}  response.Response{data=service.ItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateItem handles PUT /items/:id
// @Summary      Update an inventory item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                        true  "Item ID"
// @Param        payload  body      service.UpdateItemRequest  true  "Update Item Payload"
// @Success      200      {object}  response.Response{data=service.ItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem handles DELETE /items/:id
// @Summary      Delete an inventory item
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Item deleted"))
}
