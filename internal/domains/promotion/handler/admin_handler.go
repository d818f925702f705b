package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mamareykjavik-backend/internal/domains/promotion/model"
	"mamareykjavik-backend/internal/domains/promotion/service"
	"mamareykjavik-backend/internal/shared/response"
)

// AdminHandler serves the back-office promo management endpoints.
// All routes require an admin token.
type AdminHandler struct {
	service service.ServiceInterface
}

func NewAdminHandler(svc service.ServiceInterface) *AdminHandler {
	return &AdminHandler{service: svc}
}

// Create handles POST /api/v1/admin/promotions
func (h *AdminHandler) Create(c *gin.Context) {
	var req model.CreatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	promo, err := h.service.CreatePromo(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, promo)
}

// Get handles GET /api/v1/admin/promotions/:id
func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	detail, err := h.service.GetPromoByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// List handles GET /api/v1/admin/promotions?page=1&limit=20
func (h *AdminHandler) List(c *gin.Context) {
	page, limit := pagination(c)

	promos, total, err := h.service.ListPromos(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, promos, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// Update handles PUT /api/v1/admin/promotions/:id
func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	promo, err := h.service.UpdatePromo(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, promo)
}

// UpdateStatus handles PATCH /api/v1/admin/promotions/:id/status
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		response.BadRequest(c, "is_active is required")
		return
	}

	if err := h.service.UpdatePromoStatus(c.Request.Context(), id, *req.IsActive); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "is_active": *req.IsActive})
}

// Delete handles DELETE /api/v1/admin/promotions/:id
//
// Soft delete. Codes that have been redeemed cannot be deleted and
// must be deactivated instead.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeletePromo(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

// ListRedemptions handles GET /api/v1/admin/promotions/:id/redemptions
func (h *AdminHandler) ListRedemptions(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	page, limit := pagination(c)

	records, total, err := h.service.ListRedemptions(c.Request.Context(), id, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, records, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promo id")
		return uuid.Nil, false
	}
	return id, true
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
