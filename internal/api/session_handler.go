package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/logger"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/service"
)

// SessionHandler serves live sessions and their task block checklists.
type SessionHandler struct {
	sessionService service.SessionService
	log            *logger.Logger
}

func NewSessionHandler(sessionService service.SessionService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, log: log.With("handler", "SessionHandler")}
}

// UpdateTaskBlockRequest only changes the fields present in the body.
type UpdateTaskBlockRequest struct {
	Step1       *bool   `json:"step1"`
	Step2       *bool   `json:"step2"`
	Step3       *bool   `json:"step3"`
	Step4       *bool   `json:"step4"`
	Strength    *string `json:"strength"`
	Opportunity *string `json:"opportunity"`
	Action      *string `json:"action"`
	Notes       *string `json:"notes"`
}

type SignSessionRequest struct {
	TraineeSignature   string  `json:"traineeSignature"`
	TrainerSignature   string  `json:"trainerSignature"`
	CompetencyAttested *bool   `json:"competencyAttested"` // defaults to true
	Notes              *string `json:"notes"`
}

// GetSession godoc
// @Summary Get a session with trainee, topic and task blocks
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 200 {object} SessionDetailResponse
// @Failure 404 {object} gin.H "Session not found"
// @Router /sessions/{sessionId} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	detail, err := h.sessionService.GetSession(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, h.log, err, "Failed to load session.")
		return
	}
	c.JSON(http.StatusOK, MapSessionDetailToResponse(detail))
}

// SignSession godoc
// @Summary Sign off a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param signOff body SignSessionRequest true "Signatures"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} gin.H "Missing signatures"
// @Failure 404 {object} gin.H "Session not found"
// @Router /sessions/{sessionId}/sign [patch]
func (h *SessionHandler) SignSession(c *gin.Context) {
	var req SignSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	session, err := h.sessionService.SignSession(c.Request.Context(), c.Param("sessionId"), service.SignSessionInput{
		TraineeSignature:   req.TraineeSignature,
		TrainerSignature:   req.TrainerSignature,
		CompetencyAttested: req.CompetencyAttested,
		Notes:              req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err, "Failed to sign session.")
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// UpdateTaskBlock godoc
// @Summary Update a task block's step checklist and coaching notes
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param blockId path string true "Task block ID"
// @Param update body UpdateTaskBlockRequest true "Fields to change"
// @Success 200 {object} TaskBlockResponse
// @Failure 404 {object} gin.H "Task block not found"
// @Router /task-blocks/{blockId} [patch]
func (h *SessionHandler) UpdateTaskBlock(c *gin.Context) {
	var req UpdateTaskBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	block, err := h.sessionService.UpdateTaskBlock(c.Request.Context(), c.Param("blockId"), service.TaskBlockUpdate{
		Step1:       req.Step1,
		Step2:       req.Step2,
		Step3:       req.Step3,
		Step4:       req.Step4,
		Strength:    req.Strength,
		Opportunity: req.Opportunity,
		Action:      req.Action,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err, "Failed to update task block.")
		return
	}
	c.JSON(http.StatusOK, MapTaskBlockToResponse(block, nil))
}
