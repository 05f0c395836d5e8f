package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/masjidtools/qurbani-backend/internal/middleware"
	"github.com/masjidtools/qurbani-backend/internal/models"
	"github.com/masjidtools/qurbani-backend/internal/repository"
)

// HouseHandler exposes the house grouping view and the priority update that
// propagates to every member of a house.
type HouseHandler struct {
	repo   repository.HouseRepository
	logger *zap.Logger
}

func NewHouseHandler(repo repository.HouseRepository, logger *zap.Logger) *HouseHandler {
	return &HouseHandler{repo: repo, logger: logger}
}

type updateHousePriorityRequest struct {
	HouseName     string `json:"house_name" binding:"required"`
	HousePriority *int   `json:"house_priority"`
}

// List handles GET /v1/houses
func (h *HouseHandler) List(c *gin.Context) {
	mosqueID := middleware.GetMosqueID(c)

	houses, err := h.repo.ListByMosque(c.Request.Context(), mosqueID)
	if err != nil {
		h.logger.Error("failed to list houses", zap.Error(err))
		internalError(c, "failed to fetch houses")
		return
	}

	c.JSON(http.StatusOK, houses)
}

// UpdatePriority handles PATCH /v1/houses
func (h *HouseHandler) UpdatePriority(c *gin.Context) {
	var req updateHousePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "house name is required")
		return
	}

	priority := models.DefaultHousePriority
	if req.HousePriority != nil {
		priority = *req.HousePriority
	}

	mosqueID := middleware.GetMosqueID(c)

	updated, err := h.repo.UpdatePriority(c.Request.Context(), mosqueID, req.HouseName, priority)
	if err != nil {
		h.logger.Error("failed to update house priority", zap.Error(err))
		internalError(c, "failed to update house priority")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"house_name":     req.HouseName,
		"house_priority": priority,
		"updated_count":  updated,
	})
}
