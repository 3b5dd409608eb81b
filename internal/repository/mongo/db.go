package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// Collection names
const (
	traineeCollectionName      = "trainees"
	taskCollectionName         = "tasks"
	topicCollectionName        = "facility_topics"
	trainingPlanCollectionName = "training_plans"
	planDayCollectionName      = "training_plan_days"
	planDayTaskCollectionName  = "training_plan_day_tasks"
	planDayTopicCollectionName = "training_plan_day_topics"
	knowledgeCollectionName    = "trainee_topic_knowledge"
	sessionCollectionName      = "daily_sessions"
	taskBlockCollectionName    = "daily_task_blocks"
)

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary so a reachable-but-unresponsive server fails fast.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// sessionTransactor runs work inside a MongoDB multi-document transaction.
// Transactions need a replica set; with useTransactions off the work runs directly.
type sessionTransactor struct {
	client          *mongo.Client
	useTransactions bool
}

// NewTransactor creates a repository.Transactor backed by client sessions.
func NewTransactor(client *mongo.Client, useTransactions bool) repository.Transactor {
	return &sessionTransactor{client: client, useTransactions: useTransactions}
}

func (t *sessionTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.useTransactions || mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	// The SessionContext carries the session, so repositories using it join the transaction.
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// NewStore wires every MongoDB repository against db.
func NewStore(client *mongo.Client, db *mongo.Database, useTransactions bool) *repository.Store {
	return &repository.Store{
		Tx:         NewTransactor(client, useTransactions),
		Trainees:   NewMongoTraineeRepository(db),
		Tasks:      NewMongoTaskRepository(db),
		Topics:     NewMongoFacilityTopicRepository(db),
		Plans:      NewMongoTrainingPlanRepository(db),
		Days:       NewMongoPlanDayRepository(db),
		DayTasks:   NewMongoPlanDayTaskRepository(db),
		DayTopics:  NewMongoPlanDayTopicRepository(db),
		Knowledge:  NewMongoKnowledgeRepository(db),
		Sessions:   NewMongoDailySessionRepository(db),
		TaskBlocks: NewMongoDailyTaskBlockRepository(db),
	}
}

// EnsureIndexes creates the indexes every collection relies on. The unique indexes
// back the one-session-per-day and one-ledger-row-per-topic guarantees.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	var errs []error
	errs = append(errs, EnsureTrainingPlanIndexes(ctx, db.Collection(trainingPlanCollectionName)))
	errs = append(errs, EnsurePlanDayIndexes(ctx, db.Collection(planDayCollectionName)))
	errs = append(errs, EnsurePlanDayAttachmentIndexes(ctx, db.Collection(planDayTaskCollectionName)))
	errs = append(errs, EnsurePlanDayAttachmentIndexes(ctx, db.Collection(planDayTopicCollectionName)))
	errs = append(errs, EnsureKnowledgeIndexes(ctx, db.Collection(knowledgeCollectionName)))
	errs = append(errs, EnsureDailySessionIndexes(ctx, db.Collection(sessionCollectionName)))
	errs = append(errs, EnsureDailyTaskBlockIndexes(ctx, db.Collection(taskBlockCollectionName)))
	return errors.Join(errs...)
}
