package domain

import "time"

// Trainee is a person working through certification.
type Trainee struct {
	ID        string    `bson:"_id" json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `bson:"name" json:"name" gorm:"not null"`
	RoleID    *string   `bson:"roleId,omitempty" json:"roleId,omitempty" gorm:"type:varchar(36)"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

func (Trainee) TableName() string { return "trainees" }

// Task is a unit of work a trainee is certified on.
type Task struct {
	ID                string  `bson:"_id" json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name              string  `bson:"name" json:"name" gorm:"not null"`
	DepartmentID      *string `bson:"departmentId,omitempty" json:"departmentId,omitempty" gorm:"type:varchar(36)"`
	WorkInstructionID *string `bson:"workInstructionId,omitempty" json:"workInstructionId,omitempty" gorm:"type:varchar(36)"`
}

func (Task) TableName() string { return "tasks" }

// FacilityTopic is a facility-wide subject (safety, quality, ...) tracked in the ledger.
type FacilityTopic struct {
	ID       string  `bson:"_id" json:"id" gorm:"primaryKey;type:varchar(36)"`
	Code     string  `bson:"code" json:"code" gorm:"not null"`
	Title    string  `bson:"title" json:"title" gorm:"not null"`
	Overview *string `bson:"overview,omitempty" json:"overview,omitempty"`
}

func (FacilityTopic) TableName() string { return "facility_topics" }
