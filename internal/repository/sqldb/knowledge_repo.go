package sqldb

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

type knowledgeRepo struct {
	db *gorm.DB
}

func NewKnowledgeRepository(db *gorm.DB) repository.KnowledgeRepository {
	return &knowledgeRepo{db: db}
}

func (r *knowledgeRepo) ListByTrainee(ctx context.Context, traineeID string, topicIDs []string) ([]domain.TraineeTopicKnowledge, error) {
	q := conn(ctx, r.db).Where("trainee_id = ?", traineeID)
	if len(topicIDs) > 0 {
		q = q.Where("topic_id IN ?", topicIDs)
	}
	var out []domain.TraineeTopicKnowledge
	if err := q.Order("assessed_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert relies on the (trainee_id, topic_id) unique index: the insert either lands or
// becomes an update of the level columns.
func (r *knowledgeRepo) Upsert(ctx context.Context, entry *domain.TraineeTopicKnowledge) error {
	if entry.TraineeID == "" || entry.TopicID == "" {
		return errors.New("knowledge entry requires traineeId and topicId")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.UpdatedAt = time.Now().UTC()

	db := conn(ctx, r.db)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "trainee_id"}, {Name: "topic_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_level",
			"assessed_at",
			"source_plan_day_id",
			"updated_at",
		}),
	}).Create(entry).Error
	if err != nil {
		return err
	}

	// On conflict the stored row keeps its original id.
	var stored domain.TraineeTopicKnowledge
	if err := db.Where("trainee_id = ? AND topic_id = ?", entry.TraineeID, entry.TopicID).First(&stored).Error; err != nil {
		return notFound(err)
	}
	*entry = stored
	return nil
}
