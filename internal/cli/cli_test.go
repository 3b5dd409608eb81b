package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/config"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/logger"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository/sqldb"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/service"
)

const libraryYAML = `
trainees:
  - {id: alex, name: Alex Rivera}
tasks:
  - {id: solder-1, name: Hand soldering, departmentId: assembly}
  - {name: Rework}
topics:
  - {id: ppe, code: PPE, title: Personal protective equipment}
`

func newTestEnv(t *testing.T) *env {
	t.Helper()
	color.NoColor = true

	log := logger.NewNop()
	db, err := sqldb.Open(sqldb.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close(db) })
	require.NoError(t, sqldb.AutoMigrate(db))

	return &env{cfg: &config.Config{}, log: log, repos: sqldb.NewStore(db)}
}

func run(t *testing.T, e *env, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(e)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seed(t *testing.T, e *env) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.yaml")
	require.NoError(t, os.WriteFile(path, []byte(libraryYAML), 0o600))
	out, err := run(t, e, "seed", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 1 trainees, 2 tasks, 1 topics")
}

func createPlan(t *testing.T, repos *repository.Store) string {
	t.Helper()
	svc := service.NewTrainingPlanService(repos, nil, nil, logger.NewNop())
	plan, err := svc.CreatePlan(context.Background(), service.CreatePlanInput{
		TraineeID:    "alex",
		TrainerName:  "Jordan",
		Title:        "Soldering certification",
		TaskIDs:      []string{"solder-1"},
		TopicConfigs: []service.TopicConfig{{TopicID: "ppe"}},
	})
	require.NoError(t, err)
	return plan.ID
}

func TestSeed_LoadsLibrary(t *testing.T) {
	e := newTestEnv(t)
	seed(t, e)

	ctx := context.Background()
	trainee, err := e.repos.Trainees.GetByID(ctx, "alex")
	require.NoError(t, err)
	assert.Equal(t, "Alex Rivera", trainee.Name)

	tasks, err := e.repos.Tasks.GetByIDs(ctx, []string{"solder-1"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].DepartmentID)
	assert.Equal(t, "assembly", *tasks[0].DepartmentID)

	// Re-seeding replaces by id instead of duplicating.
	seed(t, e)
	topics, err := e.repos.Topics.GetByIDs(ctx, []string{"ppe"})
	require.NoError(t, err)
	assert.Len(t, topics, 1)
}

func TestSeed_RejectsInvalidEntries(t *testing.T) {
	e := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trainees:\n  - {id: x, name: Ok}\ntopics:\n  - {id: y}\n"), 0o600))

	_, err := run(t, e, "seed", "-f", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "topics[0]")

	// Nothing from the failed file is kept.
	_, err = e.repos.Trainees.GetByID(context.Background(), "x")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlans_RunThroughFourDays(t *testing.T) {
	e := newTestEnv(t)
	seed(t, e)
	planID := createPlan(t, e.repos)

	out, err := run(t, e, "plans", "list")
	require.NoError(t, err)
	assert.Contains(t, out, planID)
	assert.Contains(t, out, "draft")

	out, err = run(t, e, "plans", "start-day", planID, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Started day 1 (Step 1: Trainer Does / Trainer Explains)")

	out, err = run(t, e, "plans", "start-day", planID, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Day 1 already has a session")

	for day := 1; day <= 4; day++ {
		if day > 1 {
			_, err = run(t, e, "plans", "start-day", planID, fmt.Sprint(day))
			require.NoError(t, err)
		}
		out, err = run(t, e, "plans", "complete-day", planID, fmt.Sprint(day))
		require.NoError(t, err)
		assert.Contains(t, out, fmt.Sprintf("Completed day %d", day))
	}
	assert.Contains(t, out, "Ledger: ppe -> basic")
	assert.Contains(t, out, "Plan completed")

	out, err = run(t, e, "plans", "show", planID)
	require.NoError(t, err)
	assert.Contains(t, out, "Soldering certification [completed]")
	assert.Contains(t, out, "Trainee: Alex Rivera")
	assert.Contains(t, out, "task  Hand soldering")
	assert.Contains(t, out, "topic PPE")

	out, err = run(t, e, "knowledge", "alex")
	require.NoError(t, err)
	assert.Contains(t, out, "PPE Personal protective equipment")
	assert.Contains(t, out, "basic")

	out, err = run(t, e, "plans", "list", "--status", "in_progress")
	require.NoError(t, err)
	assert.Contains(t, out, "No plans found.")
}

func TestPlans_InvalidDayNumber(t *testing.T) {
	e := newTestEnv(t)
	_, err := run(t, e, "plans", "start-day", "whatever", "5")
	assert.ErrorIs(t, err, service.ErrInvalidDayNumber)
}

func TestKnowledge_UnknownTrainee(t *testing.T) {
	e := newTestEnv(t)
	_, err := run(t, e, "knowledge", "nobody")
	assert.ErrorIs(t, err, service.ErrTraineeNotFound)
}

func TestMigrate_UsesOpenStore(t *testing.T) {
	e := newTestEnv(t)
	out, err := run(t, e, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema is up to date")
}

func TestEventsTail_WithoutRedis(t *testing.T) {
	e := newTestEnv(t)
	_, err := run(t, e, "events", "tail")
	assert.Error(t, err)
}
