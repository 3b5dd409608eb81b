package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_GetSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t, CreatePlanInput{
		TaskIDs:      []string{"solder-2", "solder-1"},
		TopicConfigs: []TopicConfig{{TopicID: "ppe"}},
	})
	started, err := f.plans.StartDay(ctx, plan.ID, 2)
	require.NoError(t, err)

	detail, err := f.sessions.GetSession(ctx, started.Session.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Trainee)
	assert.Equal(t, "Alex", detail.Trainee.Name)
	require.NotNil(t, detail.Topic)
	assert.Equal(t, "PPE", detail.Topic.Code)
	assert.Equal(t, "Jordan", detail.Session.TrainerName)
	require.Len(t, detail.Blocks, 2)
	assert.Equal(t, "Rework", detail.Blocks[0].Task.Name)
	assert.Equal(t, "Hand soldering", detail.Blocks[1].Task.Name)

	_, err = f.sessions.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_UpdateTaskBlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t, CreatePlanInput{TaskIDs: []string{"solder-1"}})
	started, err := f.plans.StartDay(ctx, plan.ID, 1)
	require.NoError(t, err)
	blockID := started.TaskBlocks[0].ID

	yes := true
	strength := "steady iron angle"
	block, err := f.sessions.UpdateTaskBlock(ctx, blockID, TaskBlockUpdate{Step1: &yes, Step2: &yes, Strength: &strength})
	require.NoError(t, err)
	assert.True(t, block.Step1)
	assert.True(t, block.Step2)
	assert.False(t, block.Step3)

	action := "practice drag soldering"
	block, err = f.sessions.UpdateTaskBlock(ctx, blockID, TaskBlockUpdate{Action: &action})
	require.NoError(t, err)
	assert.True(t, block.Step1, "unset fields are left alone")
	require.NotNil(t, block.Strength)
	assert.Equal(t, strength, *block.Strength)

	stored, err := f.store.TaskBlocks.GetByID(ctx, blockID)
	require.NoError(t, err)
	require.NotNil(t, stored.Action)
	assert.Equal(t, action, *stored.Action)
	assert.True(t, stored.Step2)

	_, err = f.sessions.UpdateTaskBlock(ctx, "missing", TaskBlockUpdate{Step1: &yes})
	assert.ErrorIs(t, err, ErrTaskBlockNotFound)
}

func TestSessionService_SignSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t, CreatePlanInput{TaskIDs: []string{"solder-1"}})
	started, err := f.plans.StartDay(ctx, plan.ID, 1)
	require.NoError(t, err)

	_, err = f.sessions.SignSession(ctx, started.Session.ID, SignSessionInput{TraineeSignature: "Alex"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"trainerSignature"}, verr.Fields)

	session, err := f.sessions.SignSession(ctx, started.Session.ID, SignSessionInput{
		TraineeSignature: "Alex",
		TrainerSignature: "Jordan",
	})
	require.NoError(t, err)
	assert.True(t, session.CompetencyAttested)
	require.NotNil(t, session.SignedAt)
	require.NotNil(t, session.TrainerSignature)
	assert.Equal(t, "Jordan", *session.TrainerSignature)

	no := false
	notes := "repeat day 1"
	session, err = f.sessions.SignSession(ctx, started.Session.ID, SignSessionInput{
		TraineeSignature:   "Alex",
		TrainerSignature:   "Jordan",
		CompetencyAttested: &no,
		Notes:              &notes,
	})
	require.NoError(t, err)
	assert.False(t, session.CompetencyAttested)
	require.NotNil(t, session.Notes)
	assert.Equal(t, notes, *session.Notes)

	_, err = f.sessions.SignSession(ctx, "missing", SignSessionInput{TraineeSignature: "a", TrainerSignature: "b"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestTraineeService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.trainees.CreateTrainee(ctx, " J ", nil)
	assert.ErrorIs(t, err, ErrValidation)

	role := "  "
	trainee, err := f.trainees.CreateTrainee(ctx, "  Jamie ", &role)
	require.NoError(t, err)
	assert.Equal(t, "Jamie", trainee.Name)
	assert.Nil(t, trainee.RoleID)

	got, err := f.trainees.GetTrainee(ctx, trainee.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jamie", got.Name)

	list, err := f.trainees.ListTrainees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alex", list[0].Name)

	_, err = f.trainees.GetTrainee(ctx, "missing")
	assert.ErrorIs(t, err, ErrTraineeNotFound)
}
