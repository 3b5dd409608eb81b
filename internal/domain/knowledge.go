package domain

import "time"

// KnowledgeLevel is a trainee's proficiency on a facility topic.
type KnowledgeLevel string

const (
	KnowledgeNone         KnowledgeLevel = "none"
	KnowledgeBasic        KnowledgeLevel = "basic"
	KnowledgeIntermediate KnowledgeLevel = "intermediate"
	KnowledgeAdvanced     KnowledgeLevel = "advanced"
)

// DefaultTargetLevel is used when a topic configuration names no target.
const DefaultTargetLevel = KnowledgeBasic

// knowledgeLevels is ordered lowest to highest. The order is for display only.
var knowledgeLevels = []KnowledgeLevel{
	KnowledgeNone,
	KnowledgeBasic,
	KnowledgeIntermediate,
	KnowledgeAdvanced,
}

// IsValid reports whether l is a known level.
func (l KnowledgeLevel) IsValid() bool {
	return l.Rank() >= 0
}

// Rank returns the position of l in the level ordering, or -1 when unknown.
func (l KnowledgeLevel) Rank() int {
	for i, known := range knowledgeLevels {
		if l == known {
			return i
		}
	}
	return -1
}

// TraineeTopicKnowledge is the ledger entry for one (trainee, topic) pair.
// It is only written when the final day of a plan completes.
type TraineeTopicKnowledge struct {
	ID              string         `bson:"_id" json:"id" gorm:"primaryKey;type:varchar(36)"`
	TraineeID       string         `bson:"traineeId" json:"traineeId" gorm:"type:varchar(36);not null;uniqueIndex:idx_trainee_topic"`
	TopicID         string         `bson:"topicId" json:"topicId" gorm:"type:varchar(36);not null;uniqueIndex:idx_trainee_topic"`
	CurrentLevel    KnowledgeLevel `bson:"currentLevel" json:"currentLevel" gorm:"type:varchar(20);not null"`
	AssessedAt      time.Time      `bson:"assessedAt" json:"assessedAt"`
	SourcePlanDayID *string        `bson:"sourcePlanDayId,omitempty" json:"sourcePlanDayId,omitempty" gorm:"type:varchar(36)"`
	UpdatedAt       time.Time      `bson:"updatedAt" json:"updatedAt"`
}

func (TraineeTopicKnowledge) TableName() string { return "trainee_topic_knowledge" }
