package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

// mongoPlanDayRepository implements repository.PlanDayRepository
type mongoPlanDayRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanDayRepository creates a new PlanDay repository.
func NewMongoPlanDayRepository(db *mongo.Database) repository.PlanDayRepository {
	return &mongoPlanDayRepository{collection: db.Collection(planDayCollectionName)}
}

func (r *mongoPlanDayRepository) CreateMany(ctx context.Context, days []domain.PlanDay) error {
	if len(days) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(days))
	for _, d := range days {
		docs = append(docs, d)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrConflict
	}
	return err
}

func (r *mongoPlanDayRepository) GetByPlanAndNumber(ctx context.Context, planID string, dayNumber int) (*domain.PlanDay, error) {
	var day domain.PlanDay
	err := r.collection.FindOne(ctx, bson.M{"planId": planID, "dayNumber": dayNumber}).Decode(&day)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &day, nil
}

func (r *mongoPlanDayRepository) ListByPlan(ctx context.Context, planID string) ([]domain.PlanDay, error) {
	var days []domain.PlanDay
	err := findAll(ctx, r.collection, bson.M{"planId": planID}, &days,
		options.Find().SetSort(bson.D{{Key: "dayNumber", Value: 1}}))
	return days, err
}

func (r *mongoPlanDayRepository) UpdateStatus(ctx context.Context, id string, status domain.DayStatus, completedAt *time.Time) error {
	set := bson.M{"status": status}
	if completedAt != nil {
		set["completedAt"] = *completedAt
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPlanDayRepository) DeleteByPlan(ctx context.Context, planID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"planId": planID})
	return err
}

// EnsurePlanDayIndexes makes (planId, dayNumber) unique.
func EnsurePlanDayIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "dayNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
