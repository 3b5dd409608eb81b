package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/events"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/logger"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository/sqldb"
)

// recordingBus keeps every published event in order.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, evt events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
	return nil
}

func (b *recordingBus) types() []events.Type {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]events.Type, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Type)
	}
	return out
}

// memoryFiles is an in-memory storage.FileStorage.
type memoryFiles struct {
	mu         sync.Mutex
	objects    map[string][]byte
	presignErr error
}

func newMemoryFiles() *memoryFiles {
	return &memoryFiles{objects: make(map[string][]byte)}
}

func (f *memoryFiles) PutObject(_ context.Context, key, _ string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = body
	return nil
}

func (f *memoryFiles) GeneratePresignedDownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return fmt.Sprintf("https://files.test/%s?expires=%d", key, int(expires.Seconds())), nil
}

func (f *memoryFiles) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

type fixture struct {
	store    *repository.Store
	bus      *recordingBus
	files    *memoryFiles
	plans    *trainingPlanService
	sessions SessionService
	trainees TraineeService
	clock    time.Time
}

// newFixture opens a private in-memory SQLite database and seeds a small catalog:
// trainee "alex", tasks "solder-1"/"solder-2", topics "ppe"/"esd".
func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.NewNop()
	db, err := sqldb.Open(sqldb.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close(db) })
	require.NoError(t, sqldb.AutoMigrate(db))

	store := sqldb.NewStore(db)
	f := &fixture{
		store: store,
		bus:   &recordingBus{},
		files: newMemoryFiles(),
		clock: time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC),
	}
	f.plans = NewTrainingPlanService(store, f.bus, f.files, log).(*trainingPlanService)
	f.plans.now = f.now
	f.sessions = NewSessionService(store, log)
	f.trainees = NewTraineeService(store.Trainees, log)

	ctx := context.Background()
	require.NoError(t, store.Trainees.Save(ctx, &domain.Trainee{ID: "alex", Name: "Alex", CreatedAt: f.clock}))
	require.NoError(t, store.Tasks.Save(ctx, &domain.Task{ID: "solder-1", Name: "Hand soldering"}))
	require.NoError(t, store.Tasks.Save(ctx, &domain.Task{ID: "solder-2", Name: "Rework"}))
	require.NoError(t, store.Topics.Save(ctx, &domain.FacilityTopic{ID: "ppe", Code: "PPE", Title: "Personal protective equipment"}))
	require.NoError(t, store.Topics.Save(ctx, &domain.FacilityTopic{ID: "esd", Code: "ESD", Title: "Electrostatic discharge"}))
	return f
}

// now advances the fixture clock one minute per call.
func (f *fixture) now() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fixture) createPlan(t *testing.T, in CreatePlanInput) *domain.TrainingPlan {
	t.Helper()
	if in.TraineeID == "" {
		in.TraineeID = "alex"
	}
	if in.TrainerName == "" {
		in.TrainerName = "Jordan"
	}
	if in.Title == "" {
		in.Title = "Soldering"
	}
	plan, err := f.plans.CreatePlan(context.Background(), in)
	require.NoError(t, err)
	return plan
}

func (f *fixture) runDay(t *testing.T, planID string, day int) *DayCompleteResult {
	t.Helper()
	ctx := context.Background()
	_, err := f.plans.StartDay(ctx, planID, day)
	require.NoError(t, err)
	res, err := f.plans.CompleteDay(ctx, planID, day)
	require.NoError(t, err)
	return res
}

func (f *fixture) ledger(t *testing.T, traineeID string) map[string]domain.KnowledgeLevel {
	t.Helper()
	rows, err := f.store.Knowledge.ListByTrainee(context.Background(), traineeID, nil)
	require.NoError(t, err)
	out := make(map[string]domain.KnowledgeLevel, len(rows))
	for _, r := range rows {
		out[r.TopicID] = r.CurrentLevel
	}
	return out
}

var (
	errPresign = errors.New("presign failed")
	testNow    = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
)
