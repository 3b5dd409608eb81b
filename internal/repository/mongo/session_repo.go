package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

// mongoDailySessionRepository implements repository.DailySessionRepository
type mongoDailySessionRepository struct {
	collection *mongo.Collection
}

// NewMongoDailySessionRepository creates a new DailySession repository.
func NewMongoDailySessionRepository(db *mongo.Database) repository.DailySessionRepository {
	return &mongoDailySessionRepository{collection: db.Collection(sessionCollectionName)}
}

// CreateForPlanDay inserts the session only if no session references its plan day yet.
func (r *mongoDailySessionRepository) CreateForPlanDay(ctx context.Context, session *domain.DailySession) (*domain.DailySession, bool, error) {
	if session.ID == "" || session.PlanDayID == nil {
		return nil, false, errors.New("session requires id and planDayId")
	}
	filter := bson.M{"planDayId": *session.PlanDayID}
	update := bson.M{"$setOnInsert": session}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.DailySession
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if mongo.IsDuplicateKeyError(err) {
		// A concurrent start won; read what it stored.
		err = r.collection.FindOne(ctx, filter).Decode(&stored)
	}
	if err != nil {
		return nil, false, err
	}
	return &stored, stored.ID == session.ID, nil
}

func (r *mongoDailySessionRepository) GetByID(ctx context.Context, id string) (*domain.DailySession, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoDailySessionRepository) GetByPlanDay(ctx context.Context, planDayID string) (*domain.DailySession, error) {
	return r.findOne(ctx, bson.M{"planDayId": planDayID})
}

func (r *mongoDailySessionRepository) findOne(ctx context.Context, filter bson.M) (*domain.DailySession, error) {
	var session domain.DailySession
	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *mongoDailySessionRepository) Sign(ctx context.Context, id string, signOff repository.SessionSignOff) error {
	set := bson.M{
		"traineeSignature":   signOff.TraineeSignature,
		"trainerSignature":   signOff.TrainerSignature,
		"competencyAttested": signOff.CompetencyAttested,
		"signedAt":           signOff.SignedAt,
	}
	if signOff.Notes != nil {
		set["notes"] = *signOff.Notes
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

func (r *mongoDailySessionRepository) DetachPlanDays(ctx context.Context, planDayIDs []string) error {
	if len(planDayIDs) == 0 {
		return nil
	}
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"planDayId": bson.M{"$in": planDayIDs}},
		bson.M{"$unset": bson.M{"planDayId": ""}},
	)
	return err
}

// EnsureDailySessionIndexes makes planDayId unique among sessions that carry one.
func EnsureDailySessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "planDayId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"planDayId": bson.M{"$type": "string"}}),
		},
		{
			Keys:    bson.D{{Key: "traineeId", Value: 1}, {Key: "sessionDate", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// mongoDailyTaskBlockRepository implements repository.DailyTaskBlockRepository
type mongoDailyTaskBlockRepository struct {
	collection *mongo.Collection
}

// NewMongoDailyTaskBlockRepository creates a new DailyTaskBlock repository.
func NewMongoDailyTaskBlockRepository(db *mongo.Database) repository.DailyTaskBlockRepository {
	return &mongoDailyTaskBlockRepository{collection: db.Collection(taskBlockCollectionName)}
}

func (r *mongoDailyTaskBlockRepository) CreateMany(ctx context.Context, blocks []domain.DailyTaskBlock) error {
	if len(blocks) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(blocks))
	for _, b := range blocks {
		docs = append(docs, b)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *mongoDailyTaskBlockRepository) GetByID(ctx context.Context, id string) (*domain.DailyTaskBlock, error) {
	var block domain.DailyTaskBlock
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&block)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &block, nil
}

func (r *mongoDailyTaskBlockRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.DailyTaskBlock, error) {
	var blocks []domain.DailyTaskBlock
	err := findAll(ctx, r.collection, bson.M{"sessionId": sessionID}, &blocks, bySortOrder)
	return blocks, err
}

func (r *mongoDailyTaskBlockRepository) Update(ctx context.Context, block *domain.DailyTaskBlock) error {
	update := bson.M{"$set": bson.M{
		"step1":       block.Step1,
		"step2":       block.Step2,
		"step3":       block.Step3,
		"step4":       block.Step4,
		"strength":    block.Strength,
		"opportunity": block.Opportunity,
		"action":      block.Action,
		"notes":       block.Notes,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": block.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureDailyTaskBlockIndexes indexes blocks by session.
func EnsureDailyTaskBlockIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "sortOrder", Value: 1}},
		Options: options.Index(),
	})
	return err
}
