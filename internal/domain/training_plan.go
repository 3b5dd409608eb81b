// internal/domain/training_plan.go
package domain

import (
	"time"
)

// PlanStatus is the lifecycle state of a TrainingPlan.
type PlanStatus string

const (
	PlanStatusDraft      PlanStatus = "draft"
	PlanStatusScheduled  PlanStatus = "scheduled"
	PlanStatusInProgress PlanStatus = "in_progress"
	PlanStatusCompleted  PlanStatus = "completed"
	PlanStatusCancelled  PlanStatus = "cancelled"
)

// PlanStatuses lists every status accepted by a direct status update.
var PlanStatuses = []PlanStatus{
	PlanStatusDraft,
	PlanStatusScheduled,
	PlanStatusInProgress,
	PlanStatusCompleted,
	PlanStatusCancelled,
}

// IsValid reports whether s is one of the known plan statuses.
func (s PlanStatus) IsValid() bool {
	for _, known := range PlanStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// DayStatus is the lifecycle state of a PlanDay: pending -> in_progress -> completed.
type DayStatus string

const (
	DayStatusPending    DayStatus = "pending"
	DayStatusInProgress DayStatus = "in_progress"
	DayStatusCompleted  DayStatus = "completed"
)

// TrainingPlan is one trainee's structured 4-day engagement.
type TrainingPlan struct {
	ID          string     `bson:"_id" json:"id" gorm:"primaryKey;type:varchar(36)"`
	TraineeID   string     `bson:"traineeId" json:"traineeId" gorm:"type:varchar(36);not null;index"`
	TrainerName string     `bson:"trainerName" json:"trainerName" gorm:"not null"`
	Title       string     `bson:"title" json:"title" gorm:"not null"`
	StartDate   *time.Time `bson:"startDate,omitempty" json:"startDate,omitempty"`
	Notes       *string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Status      PlanStatus `bson:"status" json:"status" gorm:"type:varchar(20);not null;index"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt" gorm:"not null;index"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

func (TrainingPlan) TableName() string { return "training_plans" }

// PlanDay is one of the four fixed stages of a plan.
// DayNumber never changes after creation and determines StepFocus.
type PlanDay struct {
	ID          string     `bson:"_id" json:"id" gorm:"primaryKey;type:varchar(36)"`
	PlanID      string     `bson:"planId" json:"planId" gorm:"type:varchar(36);not null;uniqueIndex:idx_plan_days_plan_number"`
	DayNumber   int        `bson:"dayNumber" json:"dayNumber" gorm:"not null;uniqueIndex:idx_plan_days_plan_number"`
	StepFocus   string     `bson:"stepFocus" json:"stepFocus" gorm:"not null"`
	Objectives  *string    `bson:"objectives,omitempty" json:"objectives,omitempty"`
	Status      DayStatus  `bson:"status" json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

func (PlanDay) TableName() string { return "training_plan_days" }

// PlanDayTask attaches a Task to a PlanDay. The same task recurs on every day.
type PlanDayTask struct {
	ID        string `bson:"_id" json:"id" gorm:"primaryKey;type:varchar(36)"`
	PlanDayID string `bson:"planDayId" json:"planDayId" gorm:"type:varchar(36);not null;index"`
	TaskID    string `bson:"taskId" json:"taskId" gorm:"type:varchar(36);not null"`
	SortOrder int    `bson:"sortOrder" json:"sortOrder" gorm:"not null"`
}

func (PlanDayTask) TableName() string { return "training_plan_day_tasks" }

// PlanDayTopic attaches a FacilityTopic to a PlanDay.
// BaselineLevel is captured from the knowledge ledger when the plan is created and is never
// rewritten; TargetLevel is what the ledger receives when day 4 completes.
type PlanDayTopic struct {
	ID            string         `bson:"_id" json:"id" gorm:"primaryKey;type:varchar(36)"`
	PlanDayID     string         `bson:"planDayId" json:"planDayId" gorm:"type:varchar(36);not null;index"`
	TopicID       string         `bson:"topicId" json:"topicId" gorm:"type:varchar(36);not null"`
	SortOrder     int            `bson:"sortOrder" json:"sortOrder" gorm:"not null"`
	BaselineLevel KnowledgeLevel `bson:"baselineLevel" json:"baselineLevel" gorm:"type:varchar(20);not null"`
	TargetLevel   KnowledgeLevel `bson:"targetLevel" json:"targetLevel" gorm:"type:varchar(20);not null"`
	EmphasisNotes *string        `bson:"emphasisNotes,omitempty" json:"emphasisNotes,omitempty"`
}

func (PlanDayTopic) TableName() string { return "training_plan_day_topics" }
