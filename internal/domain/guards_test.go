package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanStartDay(t *testing.T) {
	tests := []struct {
		name        string
		ctx         DayTransitionContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "pending day of draft plan",
			ctx:         DayTransitionContext{PlanStatus: PlanStatusDraft, DayNumber: 1, DayStatus: DayStatusPending},
			wantAllowed: true,
		},
		{
			name:        "existing session is resumed even on cancelled plan",
			ctx:         DayTransitionContext{PlanStatus: PlanStatusCancelled, DayNumber: 2, DayStatus: DayStatusInProgress, HasSession: true},
			wantAllowed: true,
		},
		{
			name:        "cancelled plan",
			ctx:         DayTransitionContext{PlanStatus: PlanStatusCancelled, DayNumber: 1, DayStatus: DayStatusPending},
			wantAllowed: false,
			wantReason:  "plan is cancelled; day 1 cannot be started",
		},
		{
			name:        "completed day without session",
			ctx:         DayTransitionContext{PlanStatus: PlanStatusInProgress, DayNumber: 3, DayStatus: DayStatusCompleted},
			wantAllowed: false,
			wantReason:  "day 3 is completed and has no session to resume",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanStartDay(tt.ctx)
			assert.Equal(t, tt.wantAllowed, got.Allowed)
			if !tt.wantAllowed {
				assert.Equal(t, tt.wantReason, got.Reason)
				assert.EqualError(t, got.Error(), tt.wantReason)
			} else {
				assert.NoError(t, got.Error())
			}
		})
	}
}

func TestCanCompleteDay(t *testing.T) {
	tests := []struct {
		name        string
		ctx         DayTransitionContext
		wantAllowed bool
	}{
		{"in progress", DayTransitionContext{PlanStatus: PlanStatusInProgress, DayNumber: 1, DayStatus: DayStatusInProgress}, true},
		{"already completed", DayTransitionContext{PlanStatus: PlanStatusCompleted, DayNumber: 4, DayStatus: DayStatusCompleted}, true},
		{"pending", DayTransitionContext{PlanStatus: PlanStatusInProgress, DayNumber: 2, DayStatus: DayStatusPending}, false},
		{"cancelled plan", DayTransitionContext{PlanStatus: PlanStatusCancelled, DayNumber: 2, DayStatus: DayStatusInProgress}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAllowed, CanCompleteDay(tt.ctx).Allowed)
		})
	}
}

func TestShouldAdvancePlanOnStart(t *testing.T) {
	assert.True(t, ShouldAdvancePlanOnStart(PlanStatusDraft))
	assert.True(t, ShouldAdvancePlanOnStart(PlanStatusScheduled))
	assert.False(t, ShouldAdvancePlanOnStart(PlanStatusInProgress))
	assert.False(t, ShouldAdvancePlanOnStart(PlanStatusCompleted))
	assert.False(t, ShouldAdvancePlanOnStart(PlanStatusCancelled))
}

func TestAllDaysCompleted(t *testing.T) {
	days := NewPlanDays("p", testNow())
	assert.False(t, AllDaysCompleted(days))

	for i := range days[:3] {
		days[i].Status = DayStatusCompleted
	}
	assert.False(t, AllDaysCompleted(days))

	days[3].Status = DayStatusCompleted
	assert.True(t, AllDaysCompleted(days))
	assert.False(t, AllDaysCompleted(days[:3]), "fewer than four days never counts as complete")
}
