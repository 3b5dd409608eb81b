package domain

import "time"

// DailySession is a live training encounter. When materialized from a plan day,
// PlanDayID points back to it; at most one session exists per plan day.
type DailySession struct {
	ID                 string     `bson:"_id" json:"id" gorm:"primaryKey;type:varchar(36)"`
	TraineeID          string     `bson:"traineeId" json:"traineeId" gorm:"type:varchar(36);not null;index"`
	TrainerName        string     `bson:"trainerName" json:"trainerName" gorm:"not null"`
	SessionDate        time.Time  `bson:"sessionDate" json:"sessionDate"`
	FacilityTopicID    *string    `bson:"facilityTopicId,omitempty" json:"facilityTopicId,omitempty" gorm:"type:varchar(36)"`
	PlanDayID          *string    `bson:"planDayId,omitempty" json:"planDayId,omitempty" gorm:"type:varchar(36);uniqueIndex"`
	TraineeSignature   *string    `bson:"traineeSignature,omitempty" json:"traineeSignature,omitempty"`
	TrainerSignature   *string    `bson:"trainerSignature,omitempty" json:"trainerSignature,omitempty"`
	SignedAt           *time.Time `bson:"signedAt,omitempty" json:"signedAt,omitempty"`
	CompetencyAttested bool       `bson:"competencyAttested" json:"competencyAttested"`
	Notes              *string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt          time.Time  `bson:"createdAt" json:"createdAt"`
}

func (DailySession) TableName() string { return "daily_sessions" }

// DailyTaskBlock tracks one task inside a session: the four step flags and
// the strength / opportunity / action coaching notes.
type DailyTaskBlock struct {
	ID          string  `bson:"_id" json:"id" gorm:"primaryKey;type:varchar(36)"`
	SessionID   string  `bson:"sessionId" json:"sessionId" gorm:"type:varchar(36);not null;index"`
	TaskID      string  `bson:"taskId" json:"taskId" gorm:"type:varchar(36);not null"`
	SortOrder   int     `bson:"sortOrder" json:"sortOrder"`
	Step1       bool    `bson:"step1" json:"step1"`
	Step2       bool    `bson:"step2" json:"step2"`
	Step3       bool    `bson:"step3" json:"step3"`
	Step4       bool    `bson:"step4" json:"step4"`
	Strength    *string `bson:"strength,omitempty" json:"strength,omitempty"`
	Opportunity *string `bson:"opportunity,omitempty" json:"opportunity,omitempty"`
	Action      *string `bson:"action,omitempty" json:"action,omitempty"`
	Notes       *string `bson:"notes,omitempty" json:"notes,omitempty"`
}

func (DailyTaskBlock) TableName() string { return "daily_task_blocks" }
