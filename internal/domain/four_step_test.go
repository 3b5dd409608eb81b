package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepFocusFor(t *testing.T) {
	tests := []struct {
		day     int
		want    string
		wantErr bool
	}{
		{day: 1, want: "Step 1: Trainer Does / Trainer Explains"},
		{day: 2, want: "Step 2: Trainer Does / Trainee Explains"},
		{day: 3, want: "Step 3: Trainee Does / Trainer Coaches"},
		{day: 4, want: "Step 4: Trainee Does / Trainer Observes"},
		{day: 0, wantErr: true},
		{day: 5, wantErr: true},
		{day: -1, wantErr: true},
	}

	for _, tt := range tests {
		got, err := StepFocusFor(tt.day)
		if tt.wantErr {
			assert.Error(t, err, "day %d", tt.day)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewPlanDays(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	days := NewPlanDays("plan-1", now)

	require.Len(t, days, PlanDayCount)
	seq := StepFocusSequence()
	seen := map[string]bool{}
	for i, d := range days {
		assert.Equal(t, i+1, d.DayNumber)
		assert.Equal(t, seq[i], d.StepFocus)
		assert.Equal(t, "plan-1", d.PlanID)
		assert.Equal(t, DayStatusPending, d.Status)
		assert.Equal(t, now, d.CreatedAt)
		assert.Nil(t, d.CompletedAt)
		assert.NotEmpty(t, d.ID)
		assert.False(t, seen[d.ID], "day ids must be unique")
		seen[d.ID] = true
	}
}

func TestIsFinalDay(t *testing.T) {
	assert.False(t, IsFinalDay(1))
	assert.False(t, IsFinalDay(3))
	assert.True(t, IsFinalDay(4))
}

func TestAllDayNumbers(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4}, AllDayNumbers())
}

func TestKnowledgeLevelRank(t *testing.T) {
	assert.Equal(t, 0, KnowledgeNone.Rank())
	assert.Equal(t, 3, KnowledgeAdvanced.Rank())
	assert.Less(t, KnowledgeBasic.Rank(), KnowledgeIntermediate.Rank())
	assert.True(t, KnowledgeIntermediate.IsValid())
	assert.False(t, KnowledgeLevel("expert").IsValid())
	assert.False(t, KnowledgeLevel("").IsValid())
}

func TestPlanStatusIsValid(t *testing.T) {
	for _, s := range PlanStatuses {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, PlanStatus("archived").IsValid())
	assert.False(t, PlanStatus("").IsValid())
}

func testNow() time.Time { return time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC) }
