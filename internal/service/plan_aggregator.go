package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

// maxDayLoaders bounds the per-day lookups GetPlan runs at once.
const maxDayLoaders = 4

// PlanDetail is a plan with its trainee and all four days expanded.
type PlanDetail struct {
	Plan    domain.TrainingPlan
	Trainee *domain.Trainee // nil if the trainee was removed
	Days    []DayDetail
}

// DayDetail is one plan day with its attachments and session, if started.
type DayDetail struct {
	Day     domain.PlanDay
	Tasks   []DayTaskDetail
	Topics  []DayTopicDetail
	Session *domain.DailySession
}

// DayTaskDetail pairs an attachment with its catalog task. Task is nil when the
// catalog entry no longer exists.
type DayTaskDetail struct {
	domain.PlanDayTask
	Task *domain.Task
}

// DayTopicDetail pairs an attachment with its facility topic.
type DayTopicDetail struct {
	domain.PlanDayTopic
	Topic *domain.FacilityTopic
}

// GetPlan assembles the full read model for one plan. Days come back ordered 1..4,
// tasks and topics by sortOrder.
func (s *trainingPlanService) GetPlan(ctx context.Context, planID string) (detail *PlanDetail, err error) {
	ctx, span := startSpan(ctx, "TrainingPlanService.GetPlan", attribute.String("plan.id", planID))
	defer func() { endSpan(span, err) }()

	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	days, err := s.dayRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("list plan days: %w", err)
	}

	detail = &PlanDetail{Plan: *plan, Days: make([]DayDetail, len(days))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxDayLoaders)

	g.Go(func() error {
		trainee, err := s.traineeRepo.GetByID(gctx, plan.TraineeID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("get trainee: %w", err)
		}
		detail.Trainee = trainee
		return nil
	})

	// Each goroutine writes only its own index.
	dayTasks := make([][]domain.PlanDayTask, len(days))
	dayTopics := make([][]domain.PlanDayTopic, len(days))
	for i := range days {
		i, day := i, days[i]
		detail.Days[i].Day = day
		g.Go(func() error {
			tasks, err := s.dayTaskRepo.ListByDay(gctx, day.ID)
			if err != nil {
				return fmt.Errorf("list tasks for day %d: %w", day.DayNumber, err)
			}
			topics, err := s.dayTopicRepo.ListByDay(gctx, day.ID)
			if err != nil {
				return fmt.Errorf("list topics for day %d: %w", day.DayNumber, err)
			}
			session, err := s.sessionRepo.GetByPlanDay(gctx, day.ID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("get session for day %d: %w", day.DayNumber, err)
			}
			dayTasks[i], dayTopics[i] = tasks, topics
			detail.Days[i].Session = session
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tasksByID, topicsByID, err := s.catalogLookup(ctx, dayTasks, dayTopics)
	if err != nil {
		return nil, err
	}
	for i := range detail.Days {
		tasks := make([]DayTaskDetail, 0, len(dayTasks[i]))
		for _, t := range dayTasks[i] {
			tasks = append(tasks, DayTaskDetail{PlanDayTask: t, Task: tasksByID[t.TaskID]})
		}
		topics := make([]DayTopicDetail, 0, len(dayTopics[i]))
		for _, t := range dayTopics[i] {
			topics = append(topics, DayTopicDetail{PlanDayTopic: t, Topic: topicsByID[t.TopicID]})
		}
		detail.Days[i].Tasks = tasks
		detail.Days[i].Topics = topics
	}
	return detail, nil
}

// catalogLookup resolves every referenced task and topic with one query each.
func (s *trainingPlanService) catalogLookup(
	ctx context.Context,
	dayTasks [][]domain.PlanDayTask,
	dayTopics [][]domain.PlanDayTopic,
) (map[string]*domain.Task, map[string]*domain.FacilityTopic, error) {
	var taskIDs, topicIDs []string
	for _, rows := range dayTasks {
		for _, r := range rows {
			taskIDs = append(taskIDs, r.TaskID)
		}
	}
	for _, rows := range dayTopics {
		for _, r := range rows {
			topicIDs = append(topicIDs, r.TopicID)
		}
	}

	tasksByID := make(map[string]*domain.Task)
	if ids := distinct(taskIDs); len(ids) > 0 {
		tasks, err := s.taskRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, nil, fmt.Errorf("lookup tasks: %w", err)
		}
		for i := range tasks {
			tasksByID[tasks[i].ID] = &tasks[i]
		}
	}
	topicsByID := make(map[string]*domain.FacilityTopic)
	if ids := distinct(topicIDs); len(ids) > 0 {
		topics, err := s.topicRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, nil, fmt.Errorf("lookup topics: %w", err)
		}
		for i := range topics {
			topicsByID[topics[i].ID] = &topics[i]
		}
	}
	return tasksByID, topicsByID, nil
}
