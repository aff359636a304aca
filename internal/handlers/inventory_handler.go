package handlers

import (
	"context"
	"net/http"

	"stock-service/internal/commands"
	"stock-service/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	logger  *zap.Logger
	service InventoryService
}

func NewInventoryHandler(logger *zap.Logger, service InventoryService) *InventoryHandler {
	return &InventoryHandler{
		logger:  logger,
		service: service,
	}
}

func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inventory := rg.Group("/inventory")
	{
		inventory.GET("", h.ListInventory)
		inventory.GET("/low-stock", h.ListLowStock)
		inventory.GET("/:id", h.GetInventory)
		inventory.GET("/product/:productId", h.GetInventoryByProduct)
		inventory.POST("", h.CreateInventory)
		inventory.PUT("/:id", h.UpdateInventory)
		inventory.PUT("/product/:productId", h.SetStock)
		inventory.PUT("/product/:productId/add", h.AddStock)
		inventory.PUT("/product/:productId/remove", h.RemoveStock)
		inventory.DELETE("/:id", h.DeleteInventory)
	}
}

// ListInventory handles GET /api/inventory
// @Summary      List inventory records
// @Tags         inventory
// @Produce      json
// @Success      200  {array}  domain.Inventory
// @Router       /inventory [get]
func (h *InventoryHandler) ListInventory(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// ListLowStock handles GET /api/inventory/low-stock
// @Summary      List low-stock inventory records
// @Description  Records whose quantity is at or below their minimum stock level.
// @Tags         inventory
// @Produce      json
// @Success      200  {array}  domain.Inventory
// @Router       /inventory/low-stock [get]
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	records, err := h.service.ListLowStock(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetInventory handles GET /api/inventory/:id
// @Summary      Get an inventory record
// @Tags         inventory
// @Produce      json
// @Param        id   path      string  true  "Inventory ID (UUID)"
// @Success      200  {object}  domain.Inventory
// @Failure      404  {object}  ErrorResponse
// @Router       /inventory/{id} [get]
func (h *InventoryHandler) GetInventory(c *gin.Context) {
	id, ok := parseID(c, "id", "inventory")
	if !ok {
		return
	}

	inventory, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, inventory)
}

// GetInventoryByProduct handles GET /api/inventory/product/:productId
// @Summary      Get the inventory record of a product
// @Tags         inventory
// @Produce      json
// @Param        productId  path      string  true  "Product ID (UUID)"
// @Success      200        {object}  domain.Inventory
// @Failure      404        {object}  ErrorResponse  "Product or inventory not found"
// @Router       /inventory/product/{productId} [get]
func (h *InventoryHandler) GetInventoryByProduct(c *gin.Context) {
	productID, ok := parseID(c, "productId", "product")
	if !ok {
		return
	}

	inventory, err := h.service.GetByProduct(c.Request.Context(), productID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, inventory)
}

// CreateInventory handles POST /api/inventory
// @Summary      Create the inventory record of a product
// @Description  The product is referenced as {"product": {"id": "..."}}. A product has at most one record.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Request-ID  header    string            false  "Request ID for idempotency"
// @Param        request       body      InventoryRequest  true   "Inventory"
// @Success      201           {object}  domain.Inventory
// @Failure      400           {object}  ErrorResponse  "Missing product or negative values"
// @Failure      404           {object}  ErrorResponse  "Product not found"
// @Failure      409           {object}  ErrorResponse  "Inventory already exists for product"
// @Router       /inventory [post]
func (h *InventoryHandler) CreateInventory(c *gin.Context) {
	var req InventoryRequest
	if !bindJSON(c, &req) {
		return
	}

	inventory, err := h.service.Create(c.Request.Context(), commands.CreateInventoryCommand{
		ProductID:     req.ProductID(),
		Quantity:      req.Quantity,
		MinStockLevel: req.MinStockLevel,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, inventory)
}

// UpdateInventory handles PUT /api/inventory/:id
// @Summary      Update an inventory record
// @Description  Overwrites quantity and minimum stock level.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id       path      string            true  "Inventory ID (UUID)"
// @Param        request  body      InventoryRequest  true  "Inventory"
// @Success      200      {object}  domain.Inventory
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Router       /inventory/{id} [put]
func (h *InventoryHandler) UpdateInventory(c *gin.Context) {
	id, ok := parseID(c, "id", "inventory")
	if !ok {
		return
	}

	var req InventoryRequest
	if !bindJSON(c, &req) {
		return
	}

	inventory, err := h.service.Update(c.Request.Context(), commands.UpdateInventoryCommand{
		ID:            id,
		Quantity:      req.Quantity,
		MinStockLevel: req.MinStockLevel,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, inventory)
}

// SetStock handles PUT /api/inventory/product/:productId
// @Summary      Set the stock of a product
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        productId  path      string        true  "Product ID (UUID)"
// @Param        request    body      StockRequest  true  "New quantity"
// @Success      200        {object}  domain.Inventory
// @Failure      400        {object}  ErrorResponse  "Missing or negative quantity"
// @Failure      404        {object}  ErrorResponse
// @Router       /inventory/product/{productId} [put]
func (h *InventoryHandler) SetStock(c *gin.Context) {
	h.handleStock(c, h.service.SetStock)
}

// AddStock handles PUT /api/inventory/product/:productId/add
// @Summary      Add stock to a product
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        productId  path      string        true  "Product ID (UUID)"
// @Param        request    body      StockRequest  true  "Quantity to add (> 0)"
// @Success      200        {object}  domain.Inventory
// @Failure      400        {object}  ErrorResponse  "Missing or non-positive quantity"
// @Failure      404        {object}  ErrorResponse
// @Router       /inventory/product/{productId}/add [put]
func (h *InventoryHandler) AddStock(c *gin.Context) {
	h.handleStock(c, h.service.AddStock)
}

// RemoveStock handles PUT /api/inventory/product/:productId/remove
// @Summary      Remove stock from a product
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        productId  path      string        true  "Product ID (UUID)"
// @Param        request    body      StockRequest  true  "Quantity to remove (> 0)"
// @Success      200        {object}  domain.Inventory
// @Failure      400        {object}  ErrorResponse  "Missing or non-positive quantity"
// @Failure      404        {object}  ErrorResponse
// @Failure      409        {object}  ErrorResponse  "Not enough stock"
// @Router       /inventory/product/{productId}/remove [put]
func (h *InventoryHandler) RemoveStock(c *gin.Context) {
	h.handleStock(c, h.service.RemoveStock)
}

func (h *InventoryHandler) handleStock(c *gin.Context, op func(context.Context, commands.StockCommand) (*domain.Inventory, error)) {
	productID, ok := parseID(c, "productId", "product")
	if !ok {
		return
	}

	var req StockRequest
	if !bindJSON(c, &req) {
		return
	}

	inventory, err := op(c.Request.Context(), commands.StockCommand{
		ProductID: productID,
		Quantity:  *req.Quantity,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, inventory)
}

// DeleteInventory handles DELETE /api/inventory/:id
// @Summary      Delete an inventory record
// @Tags         inventory
// @Param        id   path  string  true  "Inventory ID (UUID)"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /inventory/{id} [delete]
func (h *InventoryHandler) DeleteInventory(c *gin.Context) {
	id, ok := parseID(c, "id", "inventory")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	h.logger.Info("Inventory deleted", zap.String("inventory_id", id.String()))
	c.Status(http.StatusNoContent)
}
