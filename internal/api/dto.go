package api

import (
	"time"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/service"
)

// --- Plans ---

// PlanResponse is the summary representation of a training plan.
type PlanResponse struct {
	ID          string     `json:"id"`
	TraineeID   string     `json:"traineeId"`
	TrainerName string     `json:"trainerName"`
	Title       string     `json:"title"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// PlanDetailResponse is a plan with trainee and all four days.
type PlanDetailResponse struct {
	PlanResponse
	Trainee *TraineeResponse `json:"trainee,omitempty"`
	Days    []DayResponse    `json:"days"`
}

type DayResponse struct {
	ID          string             `json:"id"`
	DayNumber   int                `json:"dayNumber"`
	StepFocus   string             `json:"stepFocus"`
	Objectives  *string            `json:"objectives,omitempty"`
	Status      string             `json:"status"`
	CompletedAt *time.Time         `json:"completedAt,omitempty"`
	Tasks       []DayTaskResponse  `json:"tasks,omitempty"`
	Topics      []DayTopicResponse `json:"topics,omitempty"`
	Session     *SessionResponse   `json:"session,omitempty"`
}

type DayTaskResponse struct {
	ID        string `json:"id"`
	TaskID    string `json:"taskId"`
	TaskName  string `json:"taskName,omitempty"`
	SortOrder int    `json:"sortOrder"`
}

type DayTopicResponse struct {
	ID            string  `json:"id"`
	TopicID       string  `json:"topicId"`
	Code          string  `json:"code,omitempty"`
	Title         string  `json:"title,omitempty"`
	SortOrder     int     `json:"sortOrder"`
	BaselineLevel string  `json:"baselineLevel"`
	TargetLevel   string  `json:"targetLevel"`
	EmphasisNotes *string `json:"emphasisNotes,omitempty"`
}

func MapPlanToResponse(p *domain.TrainingPlan) PlanResponse {
	if p == nil {
		return PlanResponse{}
	}
	return PlanResponse{
		ID:          p.ID,
		TraineeID:   p.TraineeID,
		TrainerName: p.TrainerName,
		Title:       p.Title,
		StartDate:   p.StartDate,
		Notes:       p.Notes,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		CompletedAt: p.CompletedAt,
	}
}

func MapPlansToResponse(plans []domain.TrainingPlan) []PlanResponse {
	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = MapPlanToResponse(&plans[i])
	}
	return responses
}

func MapDayToResponse(d *domain.PlanDay) DayResponse {
	return DayResponse{
		ID:          d.ID,
		DayNumber:   d.DayNumber,
		StepFocus:   d.StepFocus,
		Objectives:  d.Objectives,
		Status:      string(d.Status),
		CompletedAt: d.CompletedAt,
	}
}

func MapPlanDetailToResponse(detail *service.PlanDetail) PlanDetailResponse {
	resp := PlanDetailResponse{
		PlanResponse: MapPlanToResponse(&detail.Plan),
		Days:         make([]DayResponse, 0, len(detail.Days)),
	}
	if detail.Trainee != nil {
		t := MapTraineeToResponse(detail.Trainee)
		resp.Trainee = &t
	}
	for _, d := range detail.Days {
		day := MapDayToResponse(&d.Day)
		day.Tasks = make([]DayTaskResponse, 0, len(d.Tasks))
		for _, t := range d.Tasks {
			task := DayTaskResponse{ID: t.ID, TaskID: t.TaskID, SortOrder: t.SortOrder}
			if t.Task != nil {
				task.TaskName = t.Task.Name
			}
			day.Tasks = append(day.Tasks, task)
		}
		day.Topics = make([]DayTopicResponse, 0, len(d.Topics))
		for _, t := range d.Topics {
			topic := DayTopicResponse{
				ID:            t.ID,
				TopicID:       t.TopicID,
				SortOrder:     t.SortOrder,
				BaselineLevel: string(t.BaselineLevel),
				TargetLevel:   string(t.TargetLevel),
				EmphasisNotes: t.EmphasisNotes,
			}
			if t.Topic != nil {
				topic.Code = t.Topic.Code
				topic.Title = t.Topic.Title
			}
			day.Topics = append(day.Topics, topic)
		}
		if d.Session != nil {
			s := MapSessionToResponse(d.Session)
			day.Session = &s
		}
		resp.Days = append(resp.Days, day)
	}
	return resp
}

// --- Day transitions ---

type StartDayResponse struct {
	Plan       PlanResponse        `json:"plan"`
	Day        DayResponse         `json:"day"`
	Session    SessionResponse     `json:"session"`
	TaskBlocks []TaskBlockResponse `json:"taskBlocks"`
	Created    bool                `json:"created"`
}

type CompleteDayResponse struct {
	Plan             PlanResponse        `json:"plan"`
	Day              DayResponse         `json:"day"`
	KnowledgeUpdates []KnowledgeResponse `json:"knowledgeUpdates"`
	PlanCompleted    bool                `json:"planCompleted"`
	AlreadyCompleted bool                `json:"alreadyCompleted"`
}

// --- Trainees & knowledge ---

type TraineeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RoleID    *string   `json:"roleId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type KnowledgeResponse struct {
	TopicID         string    `json:"topicId"`
	TopicCode       string    `json:"topicCode,omitempty"`
	TopicTitle      string    `json:"topicTitle,omitempty"`
	CurrentLevel    string    `json:"currentLevel"`
	AssessedAt      time.Time `json:"assessedAt"`
	SourcePlanDayID *string   `json:"sourcePlanDayId,omitempty"`
}

func MapTraineeToResponse(t *domain.Trainee) TraineeResponse {
	return TraineeResponse{ID: t.ID, Name: t.Name, RoleID: t.RoleID, CreatedAt: t.CreatedAt}
}

func MapTraineesToResponse(trainees []domain.Trainee) []TraineeResponse {
	responses := make([]TraineeResponse, len(trainees))
	for i := range trainees {
		responses[i] = MapTraineeToResponse(&trainees[i])
	}
	return responses
}

func MapKnowledgeToResponse(k *domain.TraineeTopicKnowledge, topic *domain.FacilityTopic) KnowledgeResponse {
	resp := KnowledgeResponse{
		TopicID:         k.TopicID,
		CurrentLevel:    string(k.CurrentLevel),
		AssessedAt:      k.AssessedAt,
		SourcePlanDayID: k.SourcePlanDayID,
	}
	if topic != nil {
		resp.TopicCode = topic.Code
		resp.TopicTitle = topic.Title
	}
	return resp
}

// --- Sessions ---

type SessionResponse struct {
	ID                 string     `json:"id"`
	TraineeID          string     `json:"traineeId"`
	TrainerName        string     `json:"trainerName"`
	SessionDate        time.Time  `json:"sessionDate"`
	FacilityTopicID    *string    `json:"facilityTopicId,omitempty"`
	PlanDayID          *string    `json:"planDayId,omitempty"`
	TraineeSignature   *string    `json:"traineeSignature,omitempty"`
	TrainerSignature   *string    `json:"trainerSignature,omitempty"`
	SignedAt           *time.Time `json:"signedAt,omitempty"`
	CompetencyAttested bool       `json:"competencyAttested"`
	Notes              *string    `json:"notes,omitempty"`
}

type SessionDetailResponse struct {
	SessionResponse
	Trainee *TraineeResponse    `json:"trainee,omitempty"`
	Topic   *TopicResponse      `json:"topic,omitempty"`
	Blocks  []TaskBlockResponse `json:"taskBlocks"`
}

type TopicResponse struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
}

type TaskBlockResponse struct {
	ID          string  `json:"id"`
	SessionID   string  `json:"sessionId"`
	TaskID      string  `json:"taskId"`
	TaskName    string  `json:"taskName,omitempty"`
	SortOrder   int     `json:"sortOrder"`
	Step1       bool    `json:"step1"`
	Step2       bool    `json:"step2"`
	Step3       bool    `json:"step3"`
	Step4       bool    `json:"step4"`
	Strength    *string `json:"strength,omitempty"`
	Opportunity *string `json:"opportunity,omitempty"`
	Action      *string `json:"action,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func MapSessionToResponse(s *domain.DailySession) SessionResponse {
	return SessionResponse{
		ID:                 s.ID,
		TraineeID:          s.TraineeID,
		TrainerName:        s.TrainerName,
		SessionDate:        s.SessionDate,
		FacilityTopicID:    s.FacilityTopicID,
		PlanDayID:          s.PlanDayID,
		TraineeSignature:   s.TraineeSignature,
		TrainerSignature:   s.TrainerSignature,
		SignedAt:           s.SignedAt,
		CompetencyAttested: s.CompetencyAttested,
		Notes:              s.Notes,
	}
}

func MapTaskBlockToResponse(b *domain.DailyTaskBlock, task *domain.Task) TaskBlockResponse {
	resp := TaskBlockResponse{
		ID:          b.ID,
		SessionID:   b.SessionID,
		TaskID:      b.TaskID,
		SortOrder:   b.SortOrder,
		Step1:       b.Step1,
		Step2:       b.Step2,
		Step3:       b.Step3,
		Step4:       b.Step4,
		Strength:    b.Strength,
		Opportunity: b.Opportunity,
		Action:      b.Action,
		Notes:       b.Notes,
	}
	if task != nil {
		resp.TaskName = task.Name
	}
	return resp
}

func MapTaskBlocksToResponse(blocks []domain.DailyTaskBlock) []TaskBlockResponse {
	responses := make([]TaskBlockResponse, len(blocks))
	for i := range blocks {
		responses[i] = MapTaskBlockToResponse(&blocks[i], nil)
	}
	return responses
}

func MapSessionDetailToResponse(d *service.SessionDetail) SessionDetailResponse {
	resp := SessionDetailResponse{
		SessionResponse: MapSessionToResponse(&d.Session),
		Blocks:          make([]TaskBlockResponse, 0, len(d.Blocks)),
	}
	if d.Trainee != nil {
		t := MapTraineeToResponse(d.Trainee)
		resp.Trainee = &t
	}
	if d.Topic != nil {
		resp.Topic = &TopicResponse{ID: d.Topic.ID, Code: d.Topic.Code, Title: d.Topic.Title}
	}
	for i := range d.Blocks {
		resp.Blocks = append(resp.Blocks, MapTaskBlockToResponse(&d.Blocks[i].DailyTaskBlock, d.Blocks[i].Task))
	}
	return resp
}
