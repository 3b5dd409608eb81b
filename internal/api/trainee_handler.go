package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/logger"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/service"
)

// TraineeHandler serves trainees and their knowledge ledger.
type TraineeHandler struct {
	traineeService service.TraineeService
	planService    service.TrainingPlanService
	log            *logger.Logger
}

func NewTraineeHandler(traineeService service.TraineeService, planService service.TrainingPlanService, log *logger.Logger) *TraineeHandler {
	return &TraineeHandler{
		traineeService: traineeService,
		planService:    planService,
		log:            log.With("handler", "TraineeHandler"),
	}
}

type CreateTraineeRequest struct {
	Name   string  `json:"name" binding:"required"`
	RoleID *string `json:"roleId"`
}

// ListTrainees godoc
// @Summary List trainees
// @Tags Trainees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TraineeResponse
// @Router /trainees [get]
func (h *TraineeHandler) ListTrainees(c *gin.Context) {
	trainees, err := h.traineeService.ListTrainees(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Failed to list trainees.")
		return
	}
	c.JSON(http.StatusOK, MapTraineesToResponse(trainees))
}

// CreateTrainee godoc
// @Summary Create a trainee
// @Tags Trainees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trainee body CreateTraineeRequest true "Trainee"
// @Success 201 {object} TraineeResponse
// @Failure 400 {object} gin.H "Validation error"
// @Router /trainees [post]
func (h *TraineeHandler) CreateTrainee(c *gin.Context) {
	var req CreateTraineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainee, err := h.traineeService.CreateTrainee(c.Request.Context(), req.Name, req.RoleID)
	if err != nil {
		respondError(c, h.log, err, "Failed to create trainee.")
		return
	}
	c.JSON(http.StatusCreated, MapTraineeToResponse(trainee))
}

// GetTrainee godoc
// @Summary Get a trainee
// @Tags Trainees
// @Produce json
// @Security BearerAuth
// @Param traineeId path string true "Trainee ID"
// @Success 200 {object} TraineeResponse
// @Failure 404 {object} gin.H "Trainee not found"
// @Router /trainees/{traineeId} [get]
func (h *TraineeHandler) GetTrainee(c *gin.Context) {
	trainee, err := h.traineeService.GetTrainee(c.Request.Context(), c.Param("traineeId"))
	if err != nil {
		respondError(c, h.log, err, "Failed to load trainee.")
		return
	}
	c.JSON(http.StatusOK, MapTraineeToResponse(trainee))
}

// GetTraineeKnowledge godoc
// @Summary Get a trainee's knowledge ledger
// @Tags Trainees
// @Produce json
// @Security BearerAuth
// @Param traineeId path string true "Trainee ID"
// @Success 200 {array} KnowledgeResponse
// @Failure 404 {object} gin.H "Trainee not found"
// @Router /trainees/{traineeId}/knowledge [get]
func (h *TraineeHandler) GetTraineeKnowledge(c *gin.Context) {
	entries, err := h.planService.GetTraineeKnowledge(c.Request.Context(), c.Param("traineeId"))
	if err != nil {
		respondError(c, h.log, err, "Failed to load knowledge ledger.")
		return
	}
	resp := make([]KnowledgeResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, MapKnowledgeToResponse(&entries[i].TraineeTopicKnowledge, entries[i].Topic))
	}
	c.JSON(http.StatusOK, resp)
}
