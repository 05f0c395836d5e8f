package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/masjidtools/qurbani-backend/internal/distribution"
	"github.com/masjidtools/qurbani-backend/internal/middleware"
)

// DistributionHandler exposes the calculation trigger and its read-only
// summary.
type DistributionHandler struct {
	engine *distribution.Engine
	logger *zap.Logger
}

func NewDistributionHandler(engine *distribution.Engine, logger *zap.Logger) *DistributionHandler {
	return &DistributionHandler{engine: engine, logger: logger}
}

// Calculate handles POST /v1/distribution: one atomic distribution run for
// the caller's mosque. Safe to re-invoke — unchanged data yields identical
// shares.
func (h *DistributionHandler) Calculate(c *gin.Context) {
	mosqueID := middleware.GetMosqueID(c)

	result, err := h.engine.Run(c.Request.Context(), mosqueID)
	if err != nil {
		if errors.Is(err, distribution.ErrNoMembers) {
			errorJSON(c, http.StatusBadRequest, kindNoMembers, "no members found, please add members first")
			return
		}
		h.logger.Error("distribution run failed", zap.Error(err))
		internalError(c, "failed to calculate distribution")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":              "distribution calculated successfully",
		"totals":               result.Totals,
		"per_person":           result.PerPerson,
		"total_family_members": result.TotalFamilyMembers,
		"total_members":        result.TotalMembers,
	})
}

// Summary handles GET /v1/distribution: the same totals plus counts by
// status, computed without writing anything.
func (h *DistributionHandler) Summary(c *gin.Context) {
	mosqueID := middleware.GetMosqueID(c)

	summary, err := h.engine.Summary(c.Request.Context(), mosqueID)
	if err != nil {
		h.logger.Error("distribution summary failed", zap.Error(err))
		internalError(c, "failed to fetch distribution summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}
