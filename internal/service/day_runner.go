package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/events"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

// DayStartResult is the session backing a started day.
type DayStartResult struct {
	Plan       domain.TrainingPlan
	Day        domain.PlanDay
	Session    domain.DailySession
	TaskBlocks []domain.DailyTaskBlock
	// Created is false when the day already had a session and it was returned unchanged.
	Created bool
}

// DayCompleteResult describes what completing a day changed.
type DayCompleteResult struct {
	Plan             domain.TrainingPlan
	Day              domain.PlanDay
	KnowledgeUpdates []domain.TraineeTopicKnowledge
	PlanCompleted    bool
	// AlreadyCompleted is true when the day was completed before this call; nothing was written.
	AlreadyCompleted bool
}

// StartDay moves a pending day to in_progress and materializes its session.
// Starting a day that already has a session returns that session.
func (s *trainingPlanService) StartDay(ctx context.Context, planID string, dayNumber int) (result *DayStartResult, err error) {
	ctx, span := startSpan(ctx, "TrainingPlanService.StartDay",
		attribute.String("plan.id", planID), attribute.Int("plan.day_number", dayNumber))
	defer func() { endSpan(span, err) }()

	if !domain.IsValidDayNumber(dayNumber) {
		return nil, ErrInvalidDayNumber
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// 1. Load plan and day
		plan, day, err := s.loadPlanDay(ctx, planID, dayNumber)
		if err != nil {
			return err
		}

		// 2. Idempotent start: an existing session is returned as-is
		existing, err := s.sessionRepo.GetByPlanDay(ctx, day.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("lookup session: %w", err)
		}
		if existing != nil {
			blocks, err := s.blockRepo.ListBySession(ctx, existing.ID)
			if err != nil {
				return fmt.Errorf("list task blocks: %w", err)
			}
			result = &DayStartResult{Plan: *plan, Day: *day, Session: *existing, TaskBlocks: blocks}
			return nil
		}

		// 3. Guard the transition
		guard := domain.CanStartDay(domain.DayTransitionContext{
			PlanStatus: plan.Status,
			DayNumber:  day.DayNumber,
			DayStatus:  day.Status,
		})
		if !guard.Allowed {
			return transitionError(plan.Status, guard)
		}

		// 4. Create the session, bound to the day's first topic
		topics, err := s.dayTopicRepo.ListByDay(ctx, day.ID)
		if err != nil {
			return fmt.Errorf("list day topics: %w", err)
		}
		now := s.now()
		dayID := day.ID
		session := &domain.DailySession{
			ID:          uuid.NewString(),
			TraineeID:   plan.TraineeID,
			TrainerName: plan.TrainerName,
			SessionDate: now,
			PlanDayID:   &dayID,
			CreatedAt:   now,
		}
		if len(topics) > 0 {
			topicID := topics[0].TopicID
			session.FacilityTopicID = &topicID
		}

		stored, created, err := s.sessionRepo.CreateForPlanDay(ctx, session)
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		if !created {
			// Lost a race with a concurrent start; that call owns the blocks and transitions.
			blocks, err := s.blockRepo.ListBySession(ctx, stored.ID)
			if err != nil {
				return fmt.Errorf("list task blocks: %w", err)
			}
			result = &DayStartResult{Plan: *plan, Day: *day, Session: *stored, TaskBlocks: blocks}
			return nil
		}

		// 5. One task block per attached task, all steps unchecked
		dayTasks, err := s.dayTaskRepo.ListByDay(ctx, day.ID)
		if err != nil {
			return fmt.Errorf("list day tasks: %w", err)
		}
		blocks := make([]domain.DailyTaskBlock, 0, len(dayTasks))
		for _, dt := range dayTasks {
			blocks = append(blocks, domain.DailyTaskBlock{
				ID:        uuid.NewString(),
				SessionID: stored.ID,
				TaskID:    dt.TaskID,
				SortOrder: dt.SortOrder,
			})
		}
		if err := s.blockRepo.CreateMany(ctx, blocks); err != nil {
			return fmt.Errorf("create task blocks: %w", err)
		}

		// 6. Advance plan and day
		if domain.ShouldAdvancePlanOnStart(plan.Status) {
			if err := s.planRepo.UpdateStatus(ctx, plan.ID, domain.PlanStatusInProgress, nil); err != nil {
				return fmt.Errorf("advance plan: %w", err)
			}
			plan.Status = domain.PlanStatusInProgress
		}
		if err := s.dayRepo.UpdateStatus(ctx, day.ID, domain.DayStatusInProgress, nil); err != nil {
			return fmt.Errorf("start day: %w", err)
		}
		day.Status = domain.DayStatusInProgress

		result = &DayStartResult{Plan: *plan, Day: *day, Session: *stored, TaskBlocks: blocks, Created: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Created {
		s.log.Info("day started",
			"plan_id", planID,
			"day_number", dayNumber,
			"session_id", result.Session.ID,
			"task_blocks", len(result.TaskBlocks),
		)
		s.publish(ctx, events.Event{
			Type:      events.DayStarted,
			PlanID:    planID,
			TraineeID: result.Plan.TraineeID,
			DayNumber: dayNumber,
			Data:      map[string]interface{}{"sessionId": result.Session.ID},
		})
	}
	return result, nil
}

// CompleteDay closes an in_progress day. Only the final day writes target levels into the
// knowledge ledger. The plan completes once all of its days are completed.
func (s *trainingPlanService) CompleteDay(ctx context.Context, planID string, dayNumber int) (result *DayCompleteResult, err error) {
	ctx, span := startSpan(ctx, "TrainingPlanService.CompleteDay",
		attribute.String("plan.id", planID), attribute.Int("plan.day_number", dayNumber))
	defer func() { endSpan(span, err) }()

	if !domain.IsValidDayNumber(dayNumber) {
		return nil, ErrInvalidDayNumber
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// 1. Load plan and day
		plan, day, err := s.loadPlanDay(ctx, planID, dayNumber)
		if err != nil {
			return err
		}

		// 2. Repeat completion is a no-op
		if day.Status == domain.DayStatusCompleted {
			result = &DayCompleteResult{Plan: *plan, Day: *day, AlreadyCompleted: true}
			return nil
		}
		guard := domain.CanCompleteDay(domain.DayTransitionContext{
			PlanStatus: plan.Status,
			DayNumber:  day.DayNumber,
			DayStatus:  day.Status,
		})
		if !guard.Allowed {
			return transitionError(plan.Status, guard)
		}

		// 3. Close the day
		now := s.now()
		if err := s.dayRepo.UpdateStatus(ctx, day.ID, domain.DayStatusCompleted, &now); err != nil {
			return fmt.Errorf("complete day: %w", err)
		}
		day.Status = domain.DayStatusCompleted
		day.CompletedAt = &now
		result = &DayCompleteResult{Day: *day}

		// 4. Credit the ledger on the final day only
		if domain.IsFinalDay(day.DayNumber) {
			updates, err := s.creditLedger(ctx, plan.TraineeID, day, now)
			if err != nil {
				return err
			}
			result.KnowledgeUpdates = updates
		}

		// 5. Close the plan once every day is completed
		days, err := s.dayRepo.ListByPlan(ctx, plan.ID)
		if err != nil {
			return fmt.Errorf("list plan days: %w", err)
		}
		if domain.AllDaysCompleted(days) && plan.Status != domain.PlanStatusCompleted {
			if err := s.planRepo.UpdateStatus(ctx, plan.ID, domain.PlanStatusCompleted, &now); err != nil {
				return fmt.Errorf("complete plan: %w", err)
			}
			plan.Status = domain.PlanStatusCompleted
			plan.CompletedAt = &now
			result.PlanCompleted = true
		}
		result.Plan = *plan
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.AlreadyCompleted {
		s.log.Debug("day already completed", "plan_id", planID, "day_number", dayNumber)
		return result, nil
	}

	s.log.Info("day completed", "plan_id", planID, "day_number", dayNumber, "plan_completed", result.PlanCompleted)
	traineeID := result.Plan.TraineeID
	s.publish(ctx, events.Event{Type: events.DayCompleted, PlanID: planID, TraineeID: traineeID, DayNumber: dayNumber})
	for _, k := range result.KnowledgeUpdates {
		s.publish(ctx, events.Event{
			Type:      events.KnowledgeUpdated,
			PlanID:    planID,
			TraineeID: traineeID,
			Data:      map[string]interface{}{"topicId": k.TopicID, "level": k.CurrentLevel},
		})
	}
	if result.PlanCompleted {
		s.publish(ctx, events.Event{Type: events.PlanCompleted, PlanID: planID, TraineeID: traineeID})
	}
	return result, nil
}

// creditLedger upserts the day's target levels for the trainee.
func (s *trainingPlanService) creditLedger(ctx context.Context, traineeID string, day *domain.PlanDay, at time.Time) ([]domain.TraineeTopicKnowledge, error) {
	topics, err := s.dayTopicRepo.ListByDay(ctx, day.ID)
	if err != nil {
		return nil, fmt.Errorf("list day topics: %w", err)
	}
	updates := make([]domain.TraineeTopicKnowledge, 0, len(topics))
	for _, t := range topics {
		dayID := day.ID
		entry := &domain.TraineeTopicKnowledge{
			TraineeID:       traineeID,
			TopicID:         t.TopicID,
			CurrentLevel:    t.TargetLevel,
			AssessedAt:      at,
			SourcePlanDayID: &dayID,
		}
		if err := s.knowledgeRepo.Upsert(ctx, entry); err != nil {
			return nil, fmt.Errorf("update knowledge ledger: %w", err)
		}
		s.log.Info("knowledge ledger updated", "trainee_id", traineeID, "topic_id", t.TopicID, "level", t.TargetLevel)
		updates = append(updates, *entry)
	}
	return updates, nil
}

// loadPlanDay resolves the plan and its numbered day.
func (s *trainingPlanService) loadPlanDay(ctx context.Context, planID string, dayNumber int) (*domain.TrainingPlan, *domain.PlanDay, error) {
	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, nil, err
	}
	day, err := s.dayRepo.GetByPlanAndNumber(ctx, planID, dayNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrPlanDayNotFound
		}
		return nil, nil, fmt.Errorf("get plan day: %w", err)
	}
	return plan, day, nil
}

func transitionError(planStatus domain.PlanStatus, guard domain.GuardResult) error {
	if planStatus == domain.PlanStatusCancelled {
		return fmt.Errorf("%w: %s", ErrPlanCancelled, guard.Reason)
	}
	return fmt.Errorf("%w: %s", ErrInvalidTransition, guard.Reason)
}
