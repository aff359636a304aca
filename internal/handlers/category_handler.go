package handlers

import (
	"net/http"

	"stock-service/internal/commands"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	logger  *zap.Logger
	service CategoryService
}

func NewCategoryHandler(logger *zap.Logger, service CategoryService) *CategoryHandler {
	return &CategoryHandler{
		logger:  logger,
		service: service,
	}
}

// RegisterRoutes mounts the category routes on rg
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategory)
		categories.POST("", h.CreateCategory)
		categories.PUT("/:id", h.UpdateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
	}
}

// ListCategories handles GET /api/categories
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {array}   domain.Category
// @Failure      500  {object}  ErrorResponse
// @Router       /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategory handles GET /api/categories/:id
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        id   path      string  true  "Category ID (UUID)"
// @Success      200  {object}  domain.Category
// @Failure      400  {object}  ErrorResponse  "Invalid ID"
// @Failure      404  {object}  ErrorResponse  "Category not found"
// @Router       /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "id", "category")
	if !ok {
		return
	}

	category, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory handles POST /api/categories
// @Summary      Create a category
// @Description  Category names are unique. Send X-Request-ID to make the request idempotent.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        X-Request-ID  header    string           false  "Request ID for idempotency"
// @Param        request       body      CategoryRequest  true   "Category"
// @Success      201           {object}  domain.Category
// @Failure      400           {object}  ErrorResponse  "Invalid request"
// @Failure      409           {object}  ErrorResponse  "Duplicate name"
// @Router       /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.service.Create(c.Request.Context(), commands.CreateCategoryCommand{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles PUT /api/categories/:id
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id       path      string           true  "Category ID (UUID)"
// @Param        request  body      CategoryRequest  true  "Category"
// @Success      200      {object}  domain.Category
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Router       /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id", "category")
	if !ok {
		return
	}

	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.service.Update(c.Request.Context(), commands.UpdateCategoryCommand{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/categories/:id
// @Summary      Delete a category
// @Description  Fails with 409 while any product references the category.
// @Tags         categories
// @Param        id   path  string  true  "Category ID (UUID)"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse  "Category has associated products"
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id", "category")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	h.logger.Info("Category deleted", zap.String("category_id", id.String()))
	c.Status(http.StatusNoContent)
}
