package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/masjidtools/qurbani-backend/internal/middleware"
	"github.com/masjidtools/qurbani-backend/internal/repository"
)

// DonorHandler handles donor record CRUD. All operations are scoped to the
// caller's mosque.
type DonorHandler struct {
	repo   repository.DonorRepository
	logger *zap.Logger
}

func NewDonorHandler(repo repository.DonorRepository, logger *zap.Logger) *DonorHandler {
	return &DonorHandler{repo: repo, logger: logger}
}

type donorRequest struct {
	Name  string   `json:"name" binding:"required"`
	Phone *string  `json:"phone"`
	Beef  Quantity `json:"beef"`
	Lungs Quantity `json:"lungs"`
	Bone  Quantity `json:"bone"`
}

type updateDonorRequest struct {
	ID uuid.UUID `json:"id" binding:"required"`
	donorRequest
}

func (r donorRequest) toInput() repository.DonorInput {
	phone := r.Phone
	if phone != nil && *phone == "" {
		phone = nil
	}
	return repository.DonorInput{
		Name:  r.Name,
		Phone: phone,
		Beef:  r.Beef.Decimal,
		Lungs: r.Lungs.Decimal,
		Bone:  r.Bone.Decimal,
	}
}

// List handles GET /v1/donors
func (h *DonorHandler) List(c *gin.Context) {
	mosqueID := middleware.GetMosqueID(c)

	donors, err := h.repo.ListByMosque(c.Request.Context(), mosqueID)
	if err != nil {
		h.logger.Error("failed to list donors", zap.Error(err))
		internalError(c, "failed to fetch donors")
		return
	}

	c.JSON(http.StatusOK, donors)
}

// Create handles POST /v1/donors
func (h *DonorHandler) Create(c *gin.Context) {
	var req donorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name is required")
		return
	}

	mosqueID := middleware.GetMosqueID(c)

	donor, err := h.repo.Create(c.Request.Context(), mosqueID, req.toInput())
	if err != nil {
		h.logger.Error("failed to create donor", zap.Error(err))
		internalError(c, "failed to create donor")
		return
	}

	c.JSON(http.StatusCreated, donor)
}

// Update handles PATCH /v1/donors
func (h *DonorHandler) Update(c *gin.Context) {
	var req updateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "donor id and name are required")
		return
	}

	mosqueID := middleware.GetMosqueID(c)

	donor, err := h.repo.Update(c.Request.Context(), mosqueID, req.ID, req.toInput())
	if err != nil {
		h.logger.Error("failed to update donor", zap.Error(err))
		internalError(c, "failed to update donor")
		return
	}
	if donor == nil {
		notFound(c, "donor not found")
		return
	}

	c.JSON(http.StatusOK, donor)
}

// Delete handles DELETE /v1/donors?id=<uuid>
func (h *DonorHandler) Delete(c *gin.Context) {
	donorID, err := uuid.Parse(c.Query("id"))
	if err != nil {
		badRequest(c, "donor id is required")
		return
	}

	mosqueID := middleware.GetMosqueID(c)

	deleted, err := h.repo.Delete(c.Request.Context(), mosqueID, donorID)
	if err != nil {
		h.logger.Error("failed to delete donor", zap.Error(err))
		internalError(c, "failed to delete donor")
		return
	}
	if !deleted {
		notFound(c, "donor not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "donor deleted"})
}
