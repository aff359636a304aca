package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DataHandler struct {
	logger  *zap.Logger
	service CleanupService
}

func NewDataHandler(logger *zap.Logger, service CleanupService) *DataHandler {
	return &DataHandler{
		logger:  logger,
		service: service,
	}
}

func (h *DataHandler) RegisterRoutes(rg *gin.RouterGroup) {
	data := rg.Group("/data/cleanup")
	{
		data.DELETE("/all", h.CleanupAll)
		data.DELETE("/seeded", h.CleanupSeeded)
	}
}

// CleanupAll handles DELETE /api/data/cleanup/all
// @Summary      Delete all data
// @Description  Removes every inventory record, product and category in one transaction.
// @Tags         data
// @Produce      json
// @Success      200  {object}  CleanupResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /data/cleanup/all [delete]
func (h *DataHandler) CleanupAll(c *gin.Context) {
	result, err := h.service.CleanupAll(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, CleanupResponse{
		Message:    "All data cleaned up successfully",
		Inventory:  result.Inventory,
		Products:   result.Products,
		Categories: result.Categories,
	})
}

// CleanupSeeded handles DELETE /api/data/cleanup/seeded
// @Summary      Delete the sample data
// @Description  Removes the seeded products, their inventory and the seeded categories. Other data is kept.
// @Tags         data
// @Produce      json
// @Success      200  {object}  CleanupResponse
// @Failure      409  {object}  ErrorResponse  "A seeded category is still referenced"
// @Router       /data/cleanup/seeded [delete]
func (h *DataHandler) CleanupSeeded(c *gin.Context) {
	result, err := h.service.CleanupSeeded(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, CleanupResponse{
		Message:    "Seeded data cleaned up successfully",
		Inventory:  result.Inventory,
		Products:   result.Products,
		Categories: result.Categories,
	})
}
