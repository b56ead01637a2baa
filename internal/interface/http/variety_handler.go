package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LewisCM14/allotment-sub001/internal/application"
	"github.com/LewisCM14/allotment-sub001/pkg/response"
	"github.com/LewisCM14/allotment-sub001/pkg/validation"
)

type VarietyHandler struct {
	Svc *application.VarietyService
}

func NewVarietyHandler(svc *application.VarietyService) *VarietyHandler {
	return &VarietyHandler{Svc: svc}
}

type activateRequest struct {
	Quantity int `json:"quantity" binding:"required,gte=1,lte=1000"`
}

// ListActive GET /api/active-varieties (auth required)
func (h *VarietyHandler) ListActive(c *gin.Context) {
	list, err := h.Svc.ListActive(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list, "active varieties", nil)
}

// Activate PUT /api/active-varieties/:varietyID (auth required)
// Activating an already-active variety updates its quantity.
func (h *VarietyHandler) Activate(c *gin.Context) {
	var req activateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	av, err := h.Svc.Activate(c.Request.Context(), c.GetString("request_id"), c.GetString("userID"), c.Param("varietyID"), req.Quantity)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, av, "variety activated", nil)
}

// Deactivate DELETE /api/active-varieties/:varietyID (auth required)
func (h *VarietyHandler) Deactivate(c *gin.Context) {
	err := h.Svc.Deactivate(c.Request.Context(), c.GetString("request_id"), c.GetString("userID"), c.Param("varietyID"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "variety deactivated", nil)
}
