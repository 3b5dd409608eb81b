package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

// mongoKnowledgeRepository implements repository.KnowledgeRepository
type mongoKnowledgeRepository struct {
	collection *mongo.Collection
}

// NewMongoKnowledgeRepository creates a new knowledge ledger repository.
func NewMongoKnowledgeRepository(db *mongo.Database) repository.KnowledgeRepository {
	return &mongoKnowledgeRepository{collection: db.Collection(knowledgeCollectionName)}
}

func (r *mongoKnowledgeRepository) ListByTrainee(ctx context.Context, traineeID string, topicIDs []string) ([]domain.TraineeTopicKnowledge, error) {
	filter := bson.M{"traineeId": traineeID}
	if len(topicIDs) > 0 {
		filter["topicId"] = bson.M{"$in": topicIDs}
	}
	var entries []domain.TraineeTopicKnowledge
	err := findAll(ctx, r.collection, filter, &entries, options.Find().SetSort(bson.D{{Key: "assessedAt", Value: -1}}))
	return entries, err
}

// Upsert writes the ledger row for (traineeId, topicId) in one round trip.
// Two concurrent first inserts race on the unique index; the loser retries as an update.
func (r *mongoKnowledgeRepository) Upsert(ctx context.Context, entry *domain.TraineeTopicKnowledge) error {
	if entry.TraineeID == "" || entry.TopicID == "" {
		return errors.New("knowledge entry requires traineeId and topicId")
	}
	now := time.Now().UTC()
	filter := bson.M{"traineeId": entry.TraineeID, "topicId": entry.TopicID}
	update := bson.M{
		"$set": bson.M{
			"currentLevel":    entry.CurrentLevel,
			"assessedAt":      entry.AssessedAt,
			"sourcePlanDayId": entry.SourcePlanDayID,
			"updatedAt":       now,
		},
		"$setOnInsert": bson.M{"_id": uuid.NewString()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.TraineeTopicKnowledge
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if mongo.IsDuplicateKeyError(err) {
		err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	}
	if err != nil {
		return err
	}
	*entry = stored
	return nil
}

// EnsureKnowledgeIndexes enforces one ledger row per (traineeId, topicId).
func EnsureKnowledgeIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "traineeId", Value: 1}, {Key: "topicId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
