package handlers

import (
	"net/http"

	"stock-service/internal/commands"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	logger  *zap.Logger
	service ProductService
}

func NewProductHandler(logger *zap.Logger, service ProductService) *ProductHandler {
	return &ProductHandler{
		logger:  logger,
		service: service,
	}
}

func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.GET("/category/:categoryId", h.ListProductsByCategory)
		products.POST("", h.CreateProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
}

// ListProducts handles GET /api/products
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200  {array}   domain.Product
// @Router       /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /api/products/:id
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID (UUID)"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListProductsByCategory handles GET /api/products/category/:categoryId
// @Summary      List the products of a category
// @Tags         products
// @Produce      json
// @Param        categoryId  path      string  true  "Category ID (UUID)"
// @Success      200         {array}   domain.Product
// @Failure      404         {object}  ErrorResponse  "Category not found"
// @Router       /products/category/{categoryId} [get]
func (h *ProductHandler) ListProductsByCategory(c *gin.Context) {
	categoryID, ok := parseID(c, "categoryId", "category")
	if !ok {
		return
	}

	products, err := h.service.ListByCategory(c.Request.Context(), categoryID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct handles POST /api/products
// @Summary      Create a product
// @Description  SKUs are unique. The optional category is referenced as {"category": {"id": "..."}}.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        X-Request-ID  header    string          false  "Request ID for idempotency"
// @Param        request       body      ProductRequest  true   "Product"
// @Success      201           {object}  domain.Product
// @Failure      400           {object}  ErrorResponse
// @Failure      404           {object}  ErrorResponse  "Category not found"
// @Failure      409           {object}  ErrorResponse  "Duplicate SKU"
// @Router       /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.service.Create(c.Request.Context(), commands.CreateProductCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		SKU:         req.SKU,
		CategoryID:  req.CategoryID(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/:id
// @Summary      Update a product
// @Description  Overwrites name, description, price and sku. The category is kept unless one is given.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id       path      string          true  "Product ID (UUID)"
// @Param        request  body      ProductRequest  true  "Product"
// @Success      200      {object}  domain.Product
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	var req ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.service.Update(c.Request.Context(), commands.UpdateProductCommand{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		SKU:         req.SKU,
		CategoryID:  req.CategoryID(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/:id
// @Summary      Delete a product
// @Description  Also removes the product's inventory record.
// @Tags         products
// @Param        id   path  string  true  "Product ID (UUID)"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	c.Status(http.StatusNoContent)
}
