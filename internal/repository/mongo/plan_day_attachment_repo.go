package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

var bySortOrder = options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "_id", Value: 1}})

// mongoPlanDayTaskRepository implements repository.PlanDayTaskRepository
type mongoPlanDayTaskRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanDayTaskRepository creates a new PlanDayTask repository.
func NewMongoPlanDayTaskRepository(db *mongo.Database) repository.PlanDayTaskRepository {
	return &mongoPlanDayTaskRepository{collection: db.Collection(planDayTaskCollectionName)}
}

func (r *mongoPlanDayTaskRepository) CreateMany(ctx context.Context, rows []domain.PlanDayTask) error {
	if len(rows) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *mongoPlanDayTaskRepository) ListByDay(ctx context.Context, planDayID string) ([]domain.PlanDayTask, error) {
	var rows []domain.PlanDayTask
	err := findAll(ctx, r.collection, bson.M{"planDayId": planDayID}, &rows, bySortOrder)
	return rows, err
}

func (r *mongoPlanDayTaskRepository) DeleteByDays(ctx context.Context, planDayIDs []string) error {
	if len(planDayIDs) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"planDayId": bson.M{"$in": planDayIDs}})
	return err
}

// mongoPlanDayTopicRepository implements repository.PlanDayTopicRepository
type mongoPlanDayTopicRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanDayTopicRepository creates a new PlanDayTopic repository.
func NewMongoPlanDayTopicRepository(db *mongo.Database) repository.PlanDayTopicRepository {
	return &mongoPlanDayTopicRepository{collection: db.Collection(planDayTopicCollectionName)}
}

func (r *mongoPlanDayTopicRepository) CreateMany(ctx context.Context, rows []domain.PlanDayTopic) error {
	if len(rows) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *mongoPlanDayTopicRepository) ListByDay(ctx context.Context, planDayID string) ([]domain.PlanDayTopic, error) {
	var rows []domain.PlanDayTopic
	err := findAll(ctx, r.collection, bson.M{"planDayId": planDayID}, &rows, bySortOrder)
	return rows, err
}

func (r *mongoPlanDayTopicRepository) DeleteByDays(ctx context.Context, planDayIDs []string) error {
	if len(planDayIDs) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"planDayId": bson.M{"$in": planDayIDs}})
	return err
}

// EnsurePlanDayAttachmentIndexes indexes task and topic attachments by day.
func EnsurePlanDayAttachmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "planDayId", Value: 1}, {Key: "sortOrder", Value: 1}},
		Options: options.Index(),
	})
	return err
}
