package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PlanDayCount is the number of days every plan owns.
const PlanDayCount = 4

// stepFocusByDay is the 4-Step Competency Method, indexed by dayNumber-1.
var stepFocusByDay = [PlanDayCount]string{
	"Step 1: Trainer Does / Trainer Explains",
	"Step 2: Trainer Does / Trainee Explains",
	"Step 3: Trainee Does / Trainer Coaches",
	"Step 4: Trainee Does / Trainer Observes",
}

// StepFocusSequence returns the step focus labels in day order.
func StepFocusSequence() [PlanDayCount]string {
	return stepFocusByDay
}

// IsValidDayNumber reports whether n names one of the plan days.
func IsValidDayNumber(n int) bool {
	return n >= 1 && n <= PlanDayCount
}

// StepFocusFor returns the step focus bound to a day number.
func StepFocusFor(dayNumber int) (string, error) {
	if !IsValidDayNumber(dayNumber) {
		return "", fmt.Errorf("day number %d out of range 1..%d", dayNumber, PlanDayCount)
	}
	return stepFocusByDay[dayNumber-1], nil
}

// IsFinalDay reports whether completing this day credits the knowledge ledger.
func IsFinalDay(dayNumber int) bool {
	return dayNumber == PlanDayCount
}

// NewPlanDays builds the four pending days of a plan, numbered 1..4 with their step focus.
func NewPlanDays(planID string, now time.Time) []PlanDay {
	days := make([]PlanDay, 0, PlanDayCount)
	for i, focus := range stepFocusByDay {
		days = append(days, PlanDay{
			ID:        uuid.NewString(),
			PlanID:    planID,
			DayNumber: i + 1,
			StepFocus: focus,
			Status:    DayStatusPending,
			CreatedAt: now,
		})
	}
	return days
}

// AllDayNumbers returns 1..PlanDayCount.
func AllDayNumbers() []int {
	out := make([]int, PlanDayCount)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
