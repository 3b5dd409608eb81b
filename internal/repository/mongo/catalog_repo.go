package mongo

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

// findAll decodes every document matching filter into out.
func findAll(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}, opts ...*options.FindOptions) error {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, out); err != nil {
		return err
	}
	return cursor.Err()
}

// mongoTaskRepository implements repository.TaskRepository
type mongoTaskRepository struct {
	collection *mongo.Collection
}

// NewMongoTaskRepository creates a new Task repository.
func NewMongoTaskRepository(db *mongo.Database) repository.TaskRepository {
	return &mongoTaskRepository{collection: db.Collection(taskCollectionName)}
}

func (r *mongoTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task, options.Replace().SetUpsert(true))
	return err
}

func (r *mongoTaskRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Task, error) {
	var tasks []domain.Task
	if len(ids) == 0 {
		return tasks, nil
	}
	err := findAll(ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}}, &tasks)
	return tasks, err
}

func (r *mongoTaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	err := findAll(ctx, r.collection, bson.M{}, &tasks, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	return tasks, err
}

// mongoFacilityTopicRepository implements repository.FacilityTopicRepository
type mongoFacilityTopicRepository struct {
	collection *mongo.Collection
}

// NewMongoFacilityTopicRepository creates a new FacilityTopic repository.
func NewMongoFacilityTopicRepository(db *mongo.Database) repository.FacilityTopicRepository {
	return &mongoFacilityTopicRepository{collection: db.Collection(topicCollectionName)}
}

func (r *mongoFacilityTopicRepository) Save(ctx context.Context, topic *domain.FacilityTopic) error {
	if topic.ID == "" {
		topic.ID = uuid.NewString()
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": topic.ID}, topic, options.Replace().SetUpsert(true))
	return err
}

func (r *mongoFacilityTopicRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.FacilityTopic, error) {
	var topics []domain.FacilityTopic
	if len(ids) == 0 {
		return topics, nil
	}
	err := findAll(ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}}, &topics)
	return topics, err
}

func (r *mongoFacilityTopicRepository) List(ctx context.Context) ([]domain.FacilityTopic, error) {
	var topics []domain.FacilityTopic
	err := findAll(ctx, r.collection, bson.M{}, &topics, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	return topics, err
}
