package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/events"
)

func TestCreatePlan_BuildsFourDaysWithStepFocus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	plan := f.createPlan(t, CreatePlanInput{TaskIDs: []string{"solder-1"}})
	assert.Equal(t, domain.PlanStatusDraft, plan.Status)

	days, err := f.store.Days.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, days, domain.PlanDayCount)
	for i, d := range days {
		assert.Equal(t, i+1, d.DayNumber)
		assert.Equal(t, domain.StepFocusSequence()[i], d.StepFocus)
		assert.Equal(t, domain.DayStatusPending, d.Status)
	}
	assert.Equal(t, []events.Type{events.PlanCreated}, f.bus.types())
}

func TestCreatePlan_FansTasksOutToEveryDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	plan := f.createPlan(t, CreatePlanInput{TaskIDs: []string{"solder-2", "solder-1"}})

	days, err := f.store.Days.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	total := 0
	for _, d := range days {
		tasks, err := f.store.DayTasks.ListByDay(ctx, d.ID)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "solder-2", tasks[0].TaskID)
		assert.Equal(t, 0, tasks[0].SortOrder)
		assert.Equal(t, "solder-1", tasks[1].TaskID)
		assert.Equal(t, 1, tasks[1].SortOrder)
		total += len(tasks)
	}
	assert.Equal(t, 8, total)
}

func TestCreatePlan_TopicDaySubset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	plan := f.createPlan(t, CreatePlanInput{
		TopicConfigs: []TopicConfig{{TopicID: "ppe", Days: []int{3, 1, 3}}},
	})

	days, err := f.store.Days.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	for _, d := range days {
		topics, err := f.store.DayTopics.ListByDay(ctx, d.ID)
		require.NoError(t, err)
		switch d.DayNumber {
		case 1, 3:
			require.Len(t, topics, 1, "day %d", d.DayNumber)
			assert.Equal(t, "ppe", topics[0].TopicID)
			assert.Equal(t, domain.KnowledgeNone, topics[0].BaselineLevel)
			assert.Equal(t, domain.DefaultTargetLevel, topics[0].TargetLevel)
		default:
			assert.Empty(t, topics, "day %d", d.DayNumber)
		}
	}
}

func TestCreatePlan_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		in     CreatePlanInput
		fields []string
	}{
		{
			name:   "missing required fields",
			in:     CreatePlanInput{TraineeID: " ", Title: ""},
			fields: []string{"traineeId", "trainerName", "title"},
		},
		{
			name: "day outside the plan",
			in: CreatePlanInput{TraineeID: "alex", TrainerName: "Jordan", Title: "T",
				TopicConfigs: []TopicConfig{{TopicID: "ppe", Days: []int{0, 5}}}},
			fields: []string{"topicConfigs[0].days"},
		},
		{
			name: "unknown target level",
			in: CreatePlanInput{TraineeID: "alex", TrainerName: "Jordan", Title: "T",
				TopicConfigs: []TopicConfig{{TopicID: "ppe", TargetLevel: "expert"}}},
			fields: []string{"topicConfigs[0].targetLevel"},
		},
		{
			name:   "blank task id",
			in:     CreatePlanInput{TraineeID: "alex", TrainerName: "Jordan", Title: "T", TaskIDs: []string{"solder-1", ""}},
			fields: []string{"taskIds[1]"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.plans.CreatePlan(context.Background(), tt.in)
			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.fields, verr.Fields)
		})
	}

	plans, err := f.store.Plans.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestCreatePlan_UnknownReferencesWriteNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.plans.CreatePlan(ctx, CreatePlanInput{
		TraineeID: "alex", TrainerName: "Jordan", Title: "T",
		TaskIDs: []string{"solder-1", "ghost-task"},
	})
	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "task", refErr.Kind)
	assert.Equal(t, []string{"ghost-task"}, refErr.IDs)
	assert.ErrorIs(t, err, ErrUnknownReference)

	_, err = f.plans.CreatePlan(ctx, CreatePlanInput{
		TraineeID: "alex", TrainerName: "Jordan", Title: "T",
		TopicConfigs: []TopicConfig{{TopicID: "ghost-topic"}},
	})
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "topic", refErr.Kind)

	_, err = f.plans.CreatePlan(ctx, CreatePlanInput{TraineeID: "nobody", TrainerName: "Jordan", Title: "T"})
	assert.ErrorIs(t, err, ErrTraineeNotFound)

	plans, err := f.store.Plans.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestCreatePlan_DuplicateTaskIDsKeepInputOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := []string{"solder-1", "solder-1"}
	plan := f.createPlan(t, CreatePlanInput{TaskIDs: in})
	day, err := f.store.Days.GetByPlanAndNumber(ctx, plan.ID, 2)
	require.NoError(t, err)
	tasks, err := f.store.DayTasks.ListByDay(ctx, day.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, 0, tasks[0].SortOrder)
	assert.Equal(t, 1, tasks[1].SortOrder)
}

func TestStartDay_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t, CreatePlanInput{
		TaskIDs:      []string{"solder-1", "solder-2"},
		TopicConfigs: []TopicConfig{{TopicID: "esd"}, {TopicID: "ppe"}},
	})

	first, err := f.plans.StartDay(ctx, plan.ID, 1)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, domain.PlanStatusInProgress, first.Plan.Status)
	assert.Equal(t, domain.DayStatusInProgress, first.Day.Status)
	require.Len(t, first.TaskBlocks, 2)
	for _, b := range first.TaskBlocks {
		assert.False(t, b.Step1 || b.Step2 || b.Step3 || b.Step4)
	}
	require.NotNil(t, first.Session.FacilityTopicID)
	assert.Equal(t, "esd", *first.Session.FacilityTopicID)

	second, err := f.plans.StartDay(ctx, plan.ID, 1)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Session.ID, second.Session.ID)
	require.Len(t, second.TaskBlocks, 2)
	assert.Equal(t, first.TaskBlocks[0].ID, second.TaskBlocks[0].ID)

	blocks, err := f.store.TaskBlocks.ListBySession(ctx, first.Session.ID)
	require.NoError(t, err)
	assert.Len(t, blocks, 2)

	assert.Equal(t, []events.Type{events.PlanCreated, events.DayStarted}, f.bus.types())
}

func TestStartDay_RejectsUnknownPlanAndDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t, CreatePlanInput{})

	_, err := f.plans.StartDay(ctx, "missing", 1)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	_, err = f.plans.StartDay(ctx, plan.ID, 5)
	assert.ErrorIs(t, err, ErrInvalidDayNumber)

	_, err = f.plans.CompleteDay(ctx, plan.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidDayNumber)
}

func TestCompleteDay_LedgerOnlyOnFinalDay(t *testing.T) {
	f := newFixture(t)
	plan := f.createPlan(t, CreatePlanInput{
		TaskIDs:      []string{"solder-1"},
		TopicConfigs: []TopicConfig{{TopicID: "ppe", TargetLevel: domain.KnowledgeAdvanced}},
	})

	for day := 1; day <= 3; day++ {
		res := f.runDay(t, plan.ID, day)
		assert.Empty(t, res.KnowledgeUpdates)
		assert.False(t, res.PlanCompleted)
		assert.Equal(t, domain.PlanStatusInProgress, res.Plan.Status)
		assert.Empty(t, f.ledger(t, "alex"), "after day %d", day)
	}

	res := f.runDay(t, plan.ID, 4)
	require.Len(t, res.KnowledgeUpdates, 1)
	assert.Equal(t, domain.KnowledgeAdvanced, res.KnowledgeUpdates[0].CurrentLevel)
	require.NotNil(t, res.KnowledgeUpdates[0].SourcePlanDayID)
	assert.Equal(t, res.Day.ID, *res.KnowledgeUpdates[0].SourcePlanDayID)
	assert.Equal(t, map[string]domain.KnowledgeLevel{"ppe": domain.KnowledgeAdvanced}, f.ledger(t, "alex"))
}

func TestCompleteDay_PlanCompletesOnlyWhenAllDaysDone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t, CreatePlanInput{TaskIDs: []string{"solder-1"}})

	// Finish day 4 first; the plan still has open days.
	res := f.runDay(t, plan.ID, 4)
	assert.False(t, res.PlanCompleted)
	for _, day := range []int{2, 1} {
		res = f.runDay(t, plan.ID, day)
		assert.False(t, res.PlanCompleted)
	}
	stored, err := f.store.Plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStatusInProgress, stored.Status)
	assert.Nil(t, stored.CompletedAt)

	res = f.runDay(t, plan.ID, 3)
	assert.True(t, res.PlanCompleted)
	stored, err = f.store.Plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStatusCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedAt)
}

func TestCompleteDay_RepeatIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t, CreatePlanInput{TopicConfigs: []TopicConfig{{TopicID: "ppe"}}})

	first := f.runDay(t, plan.ID, 4)
	require.NotNil(t, first.Day.CompletedAt)

	again, err := f.plans.CompleteDay(ctx, plan.ID, 4)
	require.NoError(t, err)
	assert.True(t, again.AlreadyCompleted)
	assert.Empty(t, again.KnowledgeUpdates)
	require.NotNil(t, again.Day.CompletedAt)
	assert.True(t, first.Day.CompletedAt.Equal(*again.Day.CompletedAt))

	rows, err := f.store.Knowledge.ListByTrainee(ctx, "alex", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].AssessedAt.Equal(*first.Day.CompletedAt))
}

func TestCompleteDay_RejectsPendingDay(t *testing.T) {
	f := newFixture(t)
	plan := f.createPlan(t, CreatePlanInput{})

	_, err := f.plans.CompleteDay(context.Background(), plan.ID, 2)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "day 2 has not been started")
}

func TestCancelledPlan_RejectsDayTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t, CreatePlanInput{TaskIDs: []string{"solder-1"}})

	started, err := f.plans.StartDay(ctx, plan.ID, 1)
	require.NoError(t, err)
	_, err = f.plans.UpdatePlanStatus(ctx, plan.ID, domain.PlanStatusCancelled)
	require.NoError(t, err)

	_, err = f.plans.StartDay(ctx, plan.ID, 2)
	assert.ErrorIs(t, err, ErrPlanCancelled)

	_, err = f.plans.CompleteDay(ctx, plan.ID, 1)
	assert.ErrorIs(t, err, ErrPlanCancelled)

	// The session already recorded for day 1 is still reachable.
	again, err := f.plans.StartDay(ctx, plan.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, started.Session.ID, again.Session.ID)
}

func TestBaselineIsSnapshotAtCreation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.createPlan(t, CreatePlanInput{Title: "First",
		TopicConfigs: []TopicConfig{{TopicID: "ppe", TargetLevel: domain.KnowledgeIntermediate}}})
	second := f.createPlan(t, CreatePlanInput{Title: "Second",
		TopicConfigs: []TopicConfig{{TopicID: "ppe", TargetLevel: domain.KnowledgeAdvanced}}})

	for day := 1; day <= 4; day++ {
		f.runDay(t, first.ID, day)
	}
	assert.Equal(t, domain.KnowledgeIntermediate, f.ledger(t, "alex")["ppe"])

	// A plan created after the ledger moved snapshots the new level.
	third := f.createPlan(t, CreatePlanInput{Title: "Third", TopicConfigs: []TopicConfig{{TopicID: "ppe"}}})

	detail, err := f.plans.GetPlan(ctx, second.ID)
	require.NoError(t, err)
	for _, d := range detail.Days {
		require.Len(t, d.Topics, 1)
		assert.Equal(t, domain.KnowledgeNone, d.Topics[0].BaselineLevel)
	}
	detail, err = f.plans.GetPlan(ctx, third.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KnowledgeIntermediate, detail.Days[0].Topics[0].BaselineLevel)

	for day := 1; day <= 4; day++ {
		f.runDay(t, second.ID, day)
	}
	assert.Equal(t, domain.KnowledgeAdvanced, f.ledger(t, "alex")["ppe"])

	detail, err = f.plans.GetPlan(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KnowledgeNone, detail.Days[3].Topics[0].BaselineLevel)
}

func TestScenario_SolderingPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	plan := f.createPlan(t, CreatePlanInput{
		TraineeID:    "alex",
		TrainerName:  "Jordan",
		Title:        "Soldering",
		TaskIDs:      []string{"solder-1"},
		TopicConfigs: []TopicConfig{{TopicID: "ppe", TargetLevel: domain.KnowledgeIntermediate}},
	})
	assert.Equal(t, domain.PlanStatusDraft, plan.Status)

	detail, err := f.plans.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Trainee)
	assert.Equal(t, "Alex", detail.Trainee.Name)
	require.Len(t, detail.Days, 4)
	for _, d := range detail.Days {
		require.Len(t, d.Tasks, 1)
		assert.Equal(t, "solder-1", d.Tasks[0].TaskID)
		require.NotNil(t, d.Tasks[0].Task)
		assert.Equal(t, "Hand soldering", d.Tasks[0].Task.Name)
		require.Len(t, d.Topics, 1)
		assert.Equal(t, domain.KnowledgeNone, d.Topics[0].BaselineLevel)
		assert.Equal(t, domain.KnowledgeIntermediate, d.Topics[0].TargetLevel)
		assert.Nil(t, d.Session)
	}

	started, err := f.plans.StartDay(ctx, plan.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStatusInProgress, started.Plan.Status)
	require.Len(t, started.TaskBlocks, 1)
	assert.Equal(t, "solder-1", started.TaskBlocks[0].TaskID)

	_, err = f.plans.CompleteDay(ctx, plan.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, f.ledger(t, "alex"))

	f.runDay(t, plan.ID, 2)
	f.runDay(t, plan.ID, 3)
	assert.Empty(t, f.ledger(t, "alex"))

	res := f.runDay(t, plan.ID, 4)
	assert.True(t, res.PlanCompleted)
	assert.Equal(t, domain.PlanStatusCompleted, res.Plan.Status)
	assert.Equal(t, map[string]domain.KnowledgeLevel{"ppe": domain.KnowledgeIntermediate}, f.ledger(t, "alex"))

	detail, err = f.plans.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	for _, d := range detail.Days {
		assert.Equal(t, domain.DayStatusCompleted, d.Day.Status)
		assert.NotNil(t, d.Session)
	}

	types := f.bus.types()
	assert.Contains(t, types, events.KnowledgeUpdated)
	assert.Equal(t, events.PlanCompleted, types[len(types)-1])
}

func TestUpdatePlanStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t, CreatePlanInput{})

	updated, err := f.plans.UpdatePlanStatus(ctx, plan.ID, domain.PlanStatusScheduled)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStatusScheduled, updated.Status)
	assert.Nil(t, updated.CompletedAt)

	_, err = f.plans.UpdatePlanStatus(ctx, plan.ID, "archived")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.plans.UpdatePlanStatus(ctx, "missing", domain.PlanStatusCancelled)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	updated, err = f.plans.UpdatePlanStatus(ctx, plan.ID, domain.PlanStatusCompleted)
	require.NoError(t, err)
	assert.NotNil(t, updated.CompletedAt)
}

func TestListPlans_FiltersByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createPlan(t, CreatePlanInput{Title: "A"})
	b := f.createPlan(t, CreatePlanInput{Title: "B"})
	_, err := f.plans.StartDay(ctx, b.ID, 1)
	require.NoError(t, err)

	all, err := f.plans.ListPlans(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)

	running, err := f.plans.ListPlans(ctx, domain.PlanStatusInProgress)
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, b.ID, running[0].ID)

	_, err = f.plans.ListPlans(ctx, "bogus")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeletePlan_DetachesSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t, CreatePlanInput{TaskIDs: []string{"solder-1"}, TopicConfigs: []TopicConfig{{TopicID: "ppe"}}})
	started, err := f.plans.StartDay(ctx, plan.ID, 1)
	require.NoError(t, err)

	require.NoError(t, f.plans.DeletePlan(ctx, plan.ID))

	_, err = f.plans.GetPlan(ctx, plan.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
	days, err := f.store.Days.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, days)
	tasks, err := f.store.DayTasks.ListByDay(ctx, started.Day.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	session, err := f.store.Sessions.GetByID(ctx, started.Session.ID)
	require.NoError(t, err)
	assert.Nil(t, session.PlanDayID)

	assert.ErrorIs(t, f.plans.DeletePlan(ctx, plan.ID), ErrPlanNotFound)
}

func TestGetTraineeKnowledge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entries, err := f.plans.GetTraineeKnowledge(ctx, "alex")
	require.NoError(t, err)
	assert.Empty(t, entries)

	plan := f.createPlan(t, CreatePlanInput{TopicConfigs: []TopicConfig{
		{TopicID: "ppe", TargetLevel: domain.KnowledgeBasic},
		{TopicID: "esd", TargetLevel: domain.KnowledgeAdvanced, Days: []int{4}},
	}})
	for day := 1; day <= 4; day++ {
		f.runDay(t, plan.ID, day)
	}

	entries, err = f.plans.GetTraineeKnowledge(ctx, "alex")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ESD", entries[0].Topic.Code)
	assert.Equal(t, domain.KnowledgeAdvanced, entries[0].CurrentLevel)
	assert.Equal(t, "PPE", entries[1].Topic.Code)

	_, err = f.plans.GetTraineeKnowledge(ctx, "nobody")
	assert.ErrorIs(t, err, ErrTraineeNotFound)
}

func TestExportPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t, CreatePlanInput{
		TaskIDs:      []string{"solder-1"},
		TopicConfigs: []TopicConfig{{TopicID: "ppe", TargetLevel: domain.KnowledgeIntermediate}},
	})

	export, err := f.plans.ExportPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(export.ObjectKey, "plans/"+plan.ID+"/"))
	assert.Contains(t, export.DownloadURL, export.ObjectKey)

	body := string(f.files.objects[export.ObjectKey])
	assert.Contains(t, body, "Soldering")
	assert.Contains(t, body, "Trainee: Alex")
	assert.Contains(t, body, "Day 1: "+domain.StepFocusSequence()[0])
	assert.Contains(t, body, "Hand soldering")
	assert.Contains(t, body, "none -> intermediate")

	f.files.presignErr = errPresign
	_, err = f.plans.ExportPlan(ctx, plan.ID)
	require.ErrorIs(t, err, errPresign)
	assert.Len(t, f.files.objects, 1)

	f.plans.files = nil
	_, err = f.plans.ExportPlan(ctx, plan.ID)
	assert.ErrorIs(t, err, ErrExportUnavailable)
}

func TestBuildDayAttachments(t *testing.T) {
	days := domain.NewPlanDays("plan-1", testNow)
	tasks, topics := buildDayAttachments(days,
		[]string{"a", "b"},
		[]TopicConfig{
			{TopicID: "t1", TargetLevel: domain.KnowledgeBasic, Days: []int{2}},
			{TopicID: "t2", TargetLevel: domain.KnowledgeAdvanced, Days: []int{1, 2, 3, 4}},
		},
		map[string]domain.KnowledgeLevel{"t2": domain.KnowledgeBasic},
	)

	assert.Len(t, tasks, 8)
	require.Len(t, topics, 5)
	assert.Equal(t, days[1].ID, topics[0].PlanDayID)
	assert.Equal(t, domain.KnowledgeNone, topics[0].BaselineLevel)
	assert.Equal(t, 0, topics[0].SortOrder)
	for _, tp := range topics[1:] {
		assert.Equal(t, "t2", tp.TopicID)
		assert.Equal(t, domain.KnowledgeBasic, tp.BaselineLevel)
		assert.Equal(t, 1, tp.SortOrder)
	}
}
