package repository

import (
	"context"
	"time"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflict")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Transactor runs fn so that every repository call made with the ctx it receives
// commits or rolls back together. Nested calls join the outer transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TraineeRepository stores trainees.
type TraineeRepository interface {
	// Save inserts the trainee, or replaces it when the id already exists.
	Save(ctx context.Context, trainee *domain.Trainee) error
	GetByID(ctx context.Context, id string) (*domain.Trainee, error)
	List(ctx context.Context) ([]domain.Trainee, error)
}

// TaskRepository is the task catalog lookup.
type TaskRepository interface {
	Save(ctx context.Context, task *domain.Task) error
	// GetByIDs returns the tasks that exist; unknown ids are simply absent from the result.
	GetByIDs(ctx context.Context, ids []string) ([]domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
}

// FacilityTopicRepository is the facility topic catalog lookup.
type FacilityTopicRepository interface {
	Save(ctx context.Context, topic *domain.FacilityTopic) error
	GetByIDs(ctx context.Context, ids []string) ([]domain.FacilityTopic, error)
	List(ctx context.Context) ([]domain.FacilityTopic, error)
}

// TrainingPlanRepository defines the interface for interacting with training plan data.
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) error
	GetByID(ctx context.Context, id string) (*domain.TrainingPlan, error)
	// List returns plans oldest first. An empty status returns every plan.
	List(ctx context.Context, status domain.PlanStatus) ([]domain.TrainingPlan, error)
	// UpdateStatus sets the status; completedAt is only written when non-nil.
	UpdateStatus(ctx context.Context, id string, status domain.PlanStatus, completedAt *time.Time) error
	Delete(ctx context.Context, id string) error
}

// PlanDayRepository stores the four days of each plan.
type PlanDayRepository interface {
	CreateMany(ctx context.Context, days []domain.PlanDay) error
	GetByPlanAndNumber(ctx context.Context, planID string, dayNumber int) (*domain.PlanDay, error)
	// ListByPlan returns the plan's days ordered by day number.
	ListByPlan(ctx context.Context, planID string) ([]domain.PlanDay, error)
	UpdateStatus(ctx context.Context, id string, status domain.DayStatus, completedAt *time.Time) error
	DeleteByPlan(ctx context.Context, planID string) error
}

// PlanDayTaskRepository stores task attachments.
type PlanDayTaskRepository interface {
	CreateMany(ctx context.Context, rows []domain.PlanDayTask) error
	// ListByDay returns the day's tasks ordered by sortOrder.
	ListByDay(ctx context.Context, planDayID string) ([]domain.PlanDayTask, error)
	DeleteByDays(ctx context.Context, planDayIDs []string) error
}

// PlanDayTopicRepository stores topic attachments.
type PlanDayTopicRepository interface {
	CreateMany(ctx context.Context, rows []domain.PlanDayTopic) error
	// ListByDay returns the day's topics in attachment order.
	ListByDay(ctx context.Context, planDayID string) ([]domain.PlanDayTopic, error)
	DeleteByDays(ctx context.Context, planDayIDs []string) error
}

// KnowledgeRepository is the per (trainee, topic) knowledge ledger.
type KnowledgeRepository interface {
	// ListByTrainee returns the trainee's entries. When topicIDs is non-empty only those topics are returned.
	ListByTrainee(ctx context.Context, traineeID string, topicIDs []string) ([]domain.TraineeTopicKnowledge, error)
	// Upsert inserts the entry or overwrites currentLevel, assessedAt and sourcePlanDayId
	// of the existing row for the same (trainee, topic).
	Upsert(ctx context.Context, entry *domain.TraineeTopicKnowledge) error
}

// DailySessionRepository stores live training sessions.
type DailySessionRepository interface {
	// CreateForPlanDay inserts the session unless one already exists for its plan day.
	// It returns the stored session and whether this call created it.
	CreateForPlanDay(ctx context.Context, session *domain.DailySession) (*domain.DailySession, bool, error)
	GetByID(ctx context.Context, id string) (*domain.DailySession, error)
	GetByPlanDay(ctx context.Context, planDayID string) (*domain.DailySession, error)
	Sign(ctx context.Context, id string, signOff SessionSignOff) error
	// DetachPlanDays clears planDayId on sessions of the given days.
	DetachPlanDays(ctx context.Context, planDayIDs []string) error
}

// SessionSignOff holds the fields written when a session is signed.
type SessionSignOff struct {
	TraineeSignature   string
	TrainerSignature   string
	CompetencyAttested bool
	Notes              *string
	SignedAt           time.Time
}

// DailyTaskBlockRepository stores per-task checklists inside a session.
type DailyTaskBlockRepository interface {
	CreateMany(ctx context.Context, blocks []domain.DailyTaskBlock) error
	GetByID(ctx context.Context, id string) (*domain.DailyTaskBlock, error)
	// ListBySession returns blocks ordered by sortOrder.
	ListBySession(ctx context.Context, sessionID string) ([]domain.DailyTaskBlock, error)
	// Update writes the step flags and coaching notes of the block.
	Update(ctx context.Context, block *domain.DailyTaskBlock) error
}

// Store bundles one backend's repositories.
type Store struct {
	Tx         Transactor
	Trainees   TraineeRepository
	Tasks      TaskRepository
	Topics     FacilityTopicRepository
	Plans      TrainingPlanRepository
	Days       PlanDayRepository
	DayTasks   PlanDayTaskRepository
	DayTopics  PlanDayTopicRepository
	Knowledge  KnowledgeRepository
	Sessions   DailySessionRepository
	TaskBlocks DailyTaskBlockRepository
}
