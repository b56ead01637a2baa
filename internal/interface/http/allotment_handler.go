package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LewisCM14/allotment-sub001/internal/application"
	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/pkg/response"
	"github.com/LewisCM14/allotment-sub001/pkg/validation"
)

type AllotmentHandler struct {
	Svc *application.AllotmentService
}

func NewAllotmentHandler(svc *application.AllotmentService) *AllotmentHandler {
	return &AllotmentHandler{Svc: svc}
}

type allotmentRequest struct {
	PostalZipCode string  `json:"postal_zip_code" binding:"required,min=3,max=10"`
	WidthMeters   float64 `json:"width_meters" binding:"required,gt=0,lte=100"`
	LengthMeters  float64 `json:"length_meters" binding:"required,gt=0,lte=100"`
}

func allotmentBody(a *entity.Allotment) gin.H {
	return gin.H{
		"id":              a.ID,
		"postal_zip_code": a.PostalZipCode,
		"width_meters":    a.WidthMeters,
		"length_meters":   a.LengthMeters,
		"created_at":      a.CreatedAt,
		"updated_at":      a.UpdatedAt,
	}
}

// Get GET /api/allotment (auth required)
func (h *AllotmentHandler) Get(c *gin.Context) {
	a, err := h.Svc.Get(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, allotmentBody(a), "allotment", nil)
}

// Upsert PUT /api/allotment (auth required)
// Creates the user's allotment on first call, updates it afterwards.
func (h *AllotmentHandler) Upsert(c *gin.Context) {
	var req allotmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Svc.Upsert(c.Request.Context(), c.GetString("request_id"), c.GetString("userID"), application.AllotmentInput{
		PostalZipCode: req.PostalZipCode,
		WidthMeters:   req.WidthMeters,
		LengthMeters:  req.LengthMeters,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, allotmentBody(a), "allotment saved", nil)
}
