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

// mongoTraineeRepository implements repository.TraineeRepository
type mongoTraineeRepository struct {
	collection *mongo.Collection
}

// NewMongoTraineeRepository creates a new Trainee repository.
func NewMongoTraineeRepository(db *mongo.Database) repository.TraineeRepository {
	return &mongoTraineeRepository{
		collection: db.Collection(traineeCollectionName),
	}
}

// Save inserts a trainee or replaces the document with the same id.
func (r *mongoTraineeRepository) Save(ctx context.Context, trainee *domain.Trainee) error {
	if trainee.ID == "" {
		trainee.ID = uuid.NewString()
	}
	if trainee.CreatedAt.IsZero() {
		trainee.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": trainee.ID}, trainee, options.Replace().SetUpsert(true))
	return err
}

// GetByID retrieves a single trainee by its ID.
func (r *mongoTraineeRepository) GetByID(ctx context.Context, id string) (*domain.Trainee, error) {
	var trainee domain.Trainee
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&trainee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &trainee, nil
}

// List returns all trainees sorted by name.
func (r *mongoTraineeRepository) List(ctx context.Context) ([]domain.Trainee, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var trainees []domain.Trainee
	if err = cursor.All(ctx, &trainees); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return trainees, nil
}
