package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/masjidtools/qurbani-backend/internal/middleware"
	"github.com/masjidtools/qurbani-backend/internal/models"
	"github.com/masjidtools/qurbani-backend/internal/repository"
)

// MemberHandler handles member record CRUD, pagination, and the manual
// status toggle volunteers use while handing out shares.
type MemberHandler struct {
	repo   repository.MemberRepository
	logger *zap.Logger
}

func NewMemberHandler(repo repository.MemberRepository, logger *zap.Logger) *MemberHandler {
	return &MemberHandler{repo: repo, logger: logger}
}

type memberRequest struct {
	Name          string `json:"name" binding:"required"`
	FatherName    string `json:"father_name" binding:"required"`
	HouseName     string `json:"house_name" binding:"required"`
	HousePriority *int   `json:"house_priority"`
	FamilyMembers *int   `json:"family_members"`
}

func (r memberRequest) toInput() repository.MemberInput {
	priority := models.DefaultHousePriority
	if r.HousePriority != nil {
		priority = *r.HousePriority
	}
	family := 1
	if r.FamilyMembers != nil && *r.FamilyMembers > 1 {
		family = *r.FamilyMembers
	}
	return repository.MemberInput{
		Name:          r.Name,
		FatherName:    r.FatherName,
		HouseName:     r.HouseName,
		HousePriority: priority,
		FamilyMembers: family,
	}
}

// patchMemberRequest covers both PATCH shapes: a status-only toggle
// ({id, status}) and a full detail update. Presence of the detail fields
// decides which one it is, matching how the entry form uses the endpoint.
type patchMemberRequest struct {
	ID            uuid.UUID `json:"id" binding:"required"`
	Status        string    `json:"status"`
	Name          string    `json:"name"`
	FatherName    string    `json:"father_name"`
	HouseName     string    `json:"house_name"`
	HousePriority *int      `json:"house_priority"`
	FamilyMembers *int      `json:"family_members"`
}

// List handles GET /v1/members?page=&limit=&search=&sort=
func (h *MemberHandler) List(c *gin.Context) {
	mosqueID := middleware.GetMosqueID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	params := repository.ListMembersParams{
		Page:       page,
		Limit:      limit,
		Search:     c.Query("search"),
		ByPriority: c.Query("sort") == "priority",
	}

	result, err := h.repo.List(c.Request.Context(), mosqueID, params)
	if err != nil {
		h.logger.Error("failed to list members", zap.Error(err))
		internalError(c, "failed to fetch members")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": result.Members,
		"pagination": gin.H{
			"total":       result.Total,
			"page":        result.Page,
			"limit":       result.Limit,
			"total_pages": result.TotalPages,
		},
	})
}

// Create handles POST /v1/members
func (h *MemberHandler) Create(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name, father name, and house name are required")
		return
	}

	mosqueID := middleware.GetMosqueID(c)

	member, err := h.repo.Create(c.Request.Context(), mosqueID, req.toInput())
	if err != nil {
		h.logger.Error("failed to create member", zap.Error(err))
		internalError(c, "failed to create member")
		return
	}

	c.JSON(http.StatusCreated, member)
}

// Update handles PATCH /v1/members
func (h *MemberHandler) Update(c *gin.Context) {
	var req patchMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "member id is required")
		return
	}

	mosqueID := middleware.GetMosqueID(c)

	// Status-only toggle.
	if req.Status != "" && req.Name == "" && req.FatherName == "" && req.HouseName == "" {
		if req.Status != models.StatusPending && req.Status != models.StatusCompleted {
			badRequest(c, "status must be PENDING or COMPLETED")
			return
		}
		member, err := h.repo.UpdateStatus(c.Request.Context(), mosqueID, req.ID, req.Status)
		if err != nil {
			h.logger.Error("failed to update member status", zap.Error(err))
			internalError(c, "failed to update member")
			return
		}
		if member == nil {
			notFound(c, "member not found")
			return
		}
		c.JSON(http.StatusOK, member)
		return
	}

	if req.Name == "" || req.FatherName == "" || req.HouseName == "" {
		badRequest(c, "name, father name, and house name are required")
		return
	}

	in := memberRequest{
		Name:          req.Name,
		FatherName:    req.FatherName,
		HouseName:     req.HouseName,
		HousePriority: req.HousePriority,
		FamilyMembers: req.FamilyMembers,
	}.toInput()

	member, err := h.repo.Update(c.Request.Context(), mosqueID, req.ID, in)
	if err != nil {
		h.logger.Error("failed to update member", zap.Error(err))
		internalError(c, "failed to update member")
		return
	}
	if member == nil {
		notFound(c, "member not found")
		return
	}

	c.JSON(http.StatusOK, member)
}

// Delete handles DELETE /v1/members?id=<uuid>
func (h *MemberHandler) Delete(c *gin.Context) {
	memberID, err := uuid.Parse(c.Query("id"))
	if err != nil {
		badRequest(c, "member id is required")
		return
	}

	mosqueID := middleware.GetMosqueID(c)

	deleted, err := h.repo.Delete(c.Request.Context(), mosqueID, memberID)
	if err != nil {
		h.logger.Error("failed to delete member", zap.Error(err))
		internalError(c, "failed to delete member")
		return
	}
	if !deleted {
		notFound(c, "member not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "member deleted"})
}
