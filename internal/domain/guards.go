package domain

import "fmt"

// GuardResult is the outcome of a pure state-transition check.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

func allow() GuardResult { return GuardResult{Allowed: true} }

func deny(format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// DayTransitionContext carries what the guards need to know about a day and its plan.
type DayTransitionContext struct {
	PlanStatus PlanStatus
	DayNumber  int
	DayStatus  DayStatus
	HasSession bool
}

// CanStartDay evaluates whether a day may move from pending to in_progress.
// Rules:
// - a day that already has a session is returned as-is by the caller, so it is allowed
// - a cancelled plan cannot start new days
// - only pending days start
func CanStartDay(ctx DayTransitionContext) GuardResult {
	if ctx.HasSession {
		return allow()
	}
	if ctx.PlanStatus == PlanStatusCancelled {
		return deny("plan is cancelled; day %d cannot be started", ctx.DayNumber)
	}
	if ctx.DayStatus != DayStatusPending {
		return deny("day %d is %s and has no session to resume", ctx.DayNumber, ctx.DayStatus)
	}
	return allow()
}

// CanCompleteDay evaluates whether a day may move from in_progress to completed.
// A day that is already completed is allowed; the caller treats it as a no-op.
func CanCompleteDay(ctx DayTransitionContext) GuardResult {
	if ctx.DayStatus == DayStatusCompleted {
		return allow()
	}
	if ctx.PlanStatus == PlanStatusCancelled {
		return deny("plan is cancelled; day %d cannot be completed", ctx.DayNumber)
	}
	if ctx.DayStatus != DayStatusInProgress {
		return deny("day %d has not been started", ctx.DayNumber)
	}
	return allow()
}

// ShouldAdvancePlanOnStart reports whether starting a day moves the plan to in_progress.
func ShouldAdvancePlanOnStart(status PlanStatus) bool {
	return status == PlanStatusDraft || status == PlanStatusScheduled
}

// AllDaysCompleted reports whether every one of the plan's days is completed.
func AllDaysCompleted(days []PlanDay) bool {
	if len(days) != PlanDayCount {
		return false
	}
	for _, d := range days {
		if d.Status != DayStatusCompleted {
			return false
		}
	}
	return true
}
