package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LewisCM14/allotment-sub001/internal/application"
	"github.com/LewisCM14/allotment-sub001/pkg/response"
	"github.com/LewisCM14/allotment-sub001/pkg/validation"
)

type PreferenceHandler struct {
	Svc   *application.PreferenceService
	Tasks *application.TaskService
}

func NewPreferenceHandler(svc *application.PreferenceService, tasks *application.TaskService) *PreferenceHandler {
	return &PreferenceHandler{Svc: svc, Tasks: tasks}
}

type preferencesRequest struct {
	FeedDay  string `json:"feed_day" binding:"required,weekday"`
	WaterDay string `json:"water_day" binding:"required,weekday"`
}

// Get GET /api/preferences (auth required)
func (h *PreferenceHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "preferences", nil)
}

// Update PUT /api/preferences (auth required)
func (h *PreferenceHandler) Update(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), c.GetString("request_id"), c.GetString("userID"), req.FeedDay, req.WaterDay)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "preferences updated", nil)
}

// WeeklyTasks GET /api/tasks/weekly (auth required)
func (h *PreferenceHandler) WeeklyTasks(c *gin.Context) {
	tasks, err := h.Tasks.WeeklyTasks(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tasks, "weekly tasks", gin.H{"count": len(tasks)})
}
