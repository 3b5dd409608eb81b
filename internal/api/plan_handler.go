package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/logger"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/service"
)

// PlanHandler serves training plans and their day transitions.
type PlanHandler struct {
	planService service.TrainingPlanService
	log         *logger.Logger
}

func NewPlanHandler(planService service.TrainingPlanService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{planService: planService, log: log.With("handler", "PlanHandler")}
}

// --- DTOs ---

// CreatePlanRequest defines the payload for creating a 4-day plan.
type CreatePlanRequest struct {
	TraineeID    string               `json:"traineeId"`
	TrainerName  string               `json:"trainerName"`
	Title        string               `json:"title"`
	StartDate    *time.Time           `json:"startDate"` // RFC 3339
	Notes        *string              `json:"notes"`
	TaskIDs      []string             `json:"taskIds"`
	TopicConfigs []TopicConfigRequest `json:"topicConfigs"`
}

// TopicConfigRequest attaches a topic; days defaults to all four.
type TopicConfigRequest struct {
	TopicID       string  `json:"topicId"`
	TargetLevel   string  `json:"targetLevel"`
	Days          []int   `json:"days"`
	EmphasisNotes *string `json:"emphasisNotes"`
}

type UpdatePlanStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ExportPlanResponse struct {
	ObjectKey   string    `json:"objectKey"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// --- Handler Methods ---

// CreatePlan godoc
// @Summary Create a 4-day training plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body CreatePlanRequest true "Plan definition"
// @Success 201 {object} PlanResponse
// @Failure 400 {object} gin.H "Validation error or unknown task/topic ids"
// @Failure 404 {object} gin.H "Trainee not found"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	in := service.CreatePlanInput{
		TraineeID:    req.TraineeID,
		TrainerName:  req.TrainerName,
		Title:        req.Title,
		StartDate:    req.StartDate,
		Notes:        req.Notes,
		TaskIDs:      req.TaskIDs,
		TopicConfigs: make([]service.TopicConfig, 0, len(req.TopicConfigs)),
	}
	for _, tc := range req.TopicConfigs {
		in.TopicConfigs = append(in.TopicConfigs, service.TopicConfig{
			TopicID:       tc.TopicID,
			TargetLevel:   domain.KnowledgeLevel(tc.TargetLevel),
			Days:          tc.Days,
			EmphasisNotes: tc.EmphasisNotes,
		})
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err, "Failed to create training plan.")
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// ListPlans godoc
// @Summary List training plans
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by plan status"
// @Success 200 {array} PlanResponse
// @Failure 400 {object} gin.H "Unknown status"
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.planService.ListPlans(c.Request.Context(), domain.PlanStatus(c.Query("status")))
	if err != nil {
		respondError(c, h.log, err, "Failed to list training plans.")
		return
	}
	c.JSON(http.StatusOK, MapPlansToResponse(plans))
}

// GetPlan godoc
// @Summary Get a plan with its days, attachments and sessions
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} PlanDetailResponse
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	detail, err := h.planService.GetPlan(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondError(c, h.log, err, "Failed to load training plan.")
		return
	}
	c.JSON(http.StatusOK, MapPlanDetailToResponse(detail))
}

// UpdatePlanStatus godoc
// @Summary Set a plan's status directly
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Param status body UpdatePlanStatusRequest true "New status"
// @Success 200 {object} PlanResponse
// @Failure 400 {object} gin.H "Unknown status"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId}/status [patch]
func (h *PlanHandler) UpdatePlanStatus(c *gin.Context) {
	var req UpdatePlanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	plan, err := h.planService.UpdatePlanStatus(c.Request.Context(), c.Param("planId"), domain.PlanStatus(req.Status))
	if err != nil {
		respondError(c, h.log, err, "Failed to update plan status.")
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// DeletePlan godoc
// @Summary Delete a plan with its days and attachments
// @Tags Plans
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 204
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	if err := h.planService.DeletePlan(c.Request.Context(), c.Param("planId")); err != nil {
		respondError(c, h.log, err, "Failed to delete training plan.")
		return
	}
	c.Status(http.StatusNoContent)
}

// StartDay godoc
// @Summary Start a plan day, creating its session
// @Description Repeated calls return the existing session.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Param dayNumber path int true "Day number (1-4)"
// @Success 201 {object} StartDayResponse "Session created"
// @Success 200 {object} StartDayResponse "Existing session"
// @Failure 404 {object} gin.H "Plan or day not found"
// @Failure 409 {object} gin.H "Day cannot be started"
// @Router /plans/{planId}/days/{dayNumber}/start [post]
func (h *PlanHandler) StartDay(c *gin.Context) {
	dayNumber, ok := parseDayNumber(c)
	if !ok {
		return
	}
	res, err := h.planService.StartDay(c.Request.Context(), c.Param("planId"), dayNumber)
	if err != nil {
		respondError(c, h.log, err, "Failed to start plan day.")
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, StartDayResponse{
		Plan:       MapPlanToResponse(&res.Plan),
		Day:        MapDayToResponse(&res.Day),
		Session:    MapSessionToResponse(&res.Session),
		TaskBlocks: MapTaskBlocksToResponse(res.TaskBlocks),
		Created:    res.Created,
	})
}

// CompleteDay godoc
// @Summary Complete a plan day
// @Description Completing day 4 writes target levels into the trainee's knowledge ledger.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Param dayNumber path int true "Day number (1-4)"
// @Success 200 {object} CompleteDayResponse
// @Failure 404 {object} gin.H "Plan or day not found"
// @Failure 409 {object} gin.H "Day has not been started"
// @Router /plans/{planId}/days/{dayNumber}/complete [post]
func (h *PlanHandler) CompleteDay(c *gin.Context) {
	dayNumber, ok := parseDayNumber(c)
	if !ok {
		return
	}
	res, err := h.planService.CompleteDay(c.Request.Context(), c.Param("planId"), dayNumber)
	if err != nil {
		respondError(c, h.log, err, "Failed to complete plan day.")
		return
	}

	updates := make([]KnowledgeResponse, 0, len(res.KnowledgeUpdates))
	for i := range res.KnowledgeUpdates {
		updates = append(updates, MapKnowledgeToResponse(&res.KnowledgeUpdates[i], nil))
	}
	c.JSON(http.StatusOK, CompleteDayResponse{
		Plan:             MapPlanToResponse(&res.Plan),
		Day:              MapDayToResponse(&res.Day),
		KnowledgeUpdates: updates,
		PlanCompleted:    res.PlanCompleted,
		AlreadyCompleted: res.AlreadyCompleted,
	})
}

// ExportPlan godoc
// @Summary Render the plan sheet and return a download link
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 201 {object} ExportPlanResponse
// @Failure 404 {object} gin.H "Plan not found"
// @Failure 503 {object} gin.H "Export storage not configured"
// @Router /plans/{planId}/export [post]
func (h *PlanHandler) ExportPlan(c *gin.Context) {
	export, err := h.planService.ExportPlan(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondError(c, h.log, err, "Failed to export training plan.")
		return
	}
	c.JSON(http.StatusCreated, ExportPlanResponse{
		ObjectKey:   export.ObjectKey,
		DownloadURL: export.DownloadURL,
		ExpiresAt:   export.ExpiresAt,
	})
}

func parseDayNumber(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("dayNumber"))
	if err != nil || !domain.IsValidDayNumber(n) {
		abortWithError(c, http.StatusBadRequest, service.ErrInvalidDayNumber.Error())
		return 0, false
	}
	return n, true
}
