package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LewisCM14/allotment-sub001/internal/application"
	"github.com/LewisCM14/allotment-sub001/pkg/response"
)

type GrowGuideHandler struct {
	Svc *application.GrowGuideService
}

func NewGrowGuideHandler(svc *application.GrowGuideService) *GrowGuideHandler {
	return &GrowGuideHandler{Svc: svc}
}

// ListBotanicalGroups GET /api/grow-guides/botanical-groups
func (h *GrowGuideHandler) ListBotanicalGroups(c *gin.Context) {
	groups, err := h.Svc.ListBotanicalGroups(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, groups, "botanical groups", nil)
}

// GetFamily GET /api/grow-guides/families/:id
func (h *GrowGuideHandler) GetFamily(c *gin.Context) {
	f, err := h.Svc.GetFamily(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, f, "family", nil)
}

// ListVarieties GET /api/grow-guides/varieties
func (h *GrowGuideHandler) ListVarieties(c *gin.Context) {
	vs, err := h.Svc.ListVarieties(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, vs, "varieties", nil)
}

// GetVariety GET /api/grow-guides/varieties/:id
func (h *GrowGuideHandler) GetVariety(c *gin.Context) {
	v, err := h.Svc.GetVariety(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v, "variety", nil)
}

// Search GET /api/grow-guides/search?q=...&size=...
func (h *GrowGuideHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "missing query parameter q", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchVarieties(c.Request.Context(), q, size)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}
