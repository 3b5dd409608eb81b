package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/events"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

// CreatePlanInput is what a caller supplies to build a plan.
type CreatePlanInput struct {
	TraineeID    string
	TrainerName  string
	Title        string
	StartDate    *time.Time
	Notes        *string
	TaskIDs      []string
	TopicConfigs []TopicConfig
}

// TopicConfig attaches one facility topic to some (default all) days of the plan.
type TopicConfig struct {
	TopicID       string
	TargetLevel   domain.KnowledgeLevel // empty means domain.DefaultTargetLevel
	Days          []int                 // empty means every day
	EmphasisNotes *string
}

// CreatePlan inserts the plan, its four days and their task/topic attachments in one transaction.
// Trainee, task and topic ids are all checked before anything is written.
func (s *trainingPlanService) CreatePlan(ctx context.Context, in CreatePlanInput) (plan *domain.TrainingPlan, err error) {
	ctx, span := startSpan(ctx, "TrainingPlanService.CreatePlan", attribute.String("trainee.id", in.TraineeID))
	defer func() { endSpan(span, err) }()

	// 1. Validate Input
	in, err = normalizeCreatePlanInput(in)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// 2. Resolve references
		if err := s.ensureTraineeExists(ctx, in.TraineeID); err != nil {
			return err
		}
		if err := s.ensureTasksExist(ctx, in.TaskIDs); err != nil {
			return err
		}
		topicIDs := distinctTopicIDs(in.TopicConfigs)
		if err := s.ensureTopicsExist(ctx, topicIDs); err != nil {
			return err
		}

		// 3. Snapshot baselines from the ledger
		baselines, err := s.baselineLevels(ctx, in.TraineeID, topicIDs)
		if err != nil {
			return err
		}

		// 4. Write plan, days, attachments
		now := s.now()
		p := &domain.TrainingPlan{
			ID:          uuid.NewString(),
			TraineeID:   in.TraineeID,
			TrainerName: in.TrainerName,
			Title:       in.Title,
			StartDate:   in.StartDate,
			Notes:       in.Notes,
			Status:      domain.PlanStatusDraft,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.planRepo.Create(ctx, p); err != nil {
			return fmt.Errorf("create plan: %w", err)
		}

		days := domain.NewPlanDays(p.ID, now)
		if err := s.dayRepo.CreateMany(ctx, days); err != nil {
			return fmt.Errorf("create plan days: %w", err)
		}

		dayTasks, dayTopics := buildDayAttachments(days, in.TaskIDs, in.TopicConfigs, baselines)
		if err := s.dayTaskRepo.CreateMany(ctx, dayTasks); err != nil {
			return fmt.Errorf("attach tasks: %w", err)
		}
		if err := s.dayTopicRepo.CreateMany(ctx, dayTopics); err != nil {
			return fmt.Errorf("attach topics: %w", err)
		}

		plan = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("plan created",
		"plan_id", plan.ID,
		"trainee_id", plan.TraineeID,
		"tasks", len(in.TaskIDs),
		"topics", len(in.TopicConfigs),
	)
	s.publish(ctx, events.Event{
		Type:      events.PlanCreated,
		PlanID:    plan.ID,
		TraineeID: plan.TraineeID,
		Data:      map[string]interface{}{"title": plan.Title},
	})
	return plan, nil
}

// normalizeCreatePlanInput trims strings, fills defaults and reports every invalid field.
func normalizeCreatePlanInput(in CreatePlanInput) (CreatePlanInput, error) {
	var fields []string

	in.TraineeID = strings.TrimSpace(in.TraineeID)
	in.TrainerName = strings.TrimSpace(in.TrainerName)
	in.Title = strings.TrimSpace(in.Title)
	if in.TraineeID == "" {
		fields = append(fields, "traineeId")
	}
	if in.TrainerName == "" {
		fields = append(fields, "trainerName")
	}
	if in.Title == "" {
		fields = append(fields, "title")
	}

	taskIDs := make([]string, len(in.TaskIDs))
	for i, id := range in.TaskIDs {
		taskIDs[i] = strings.TrimSpace(id)
		if taskIDs[i] == "" {
			fields = append(fields, fmt.Sprintf("taskIds[%d]", i))
		}
	}
	in.TaskIDs = taskIDs

	configs := make([]TopicConfig, len(in.TopicConfigs))
	for i, tc := range in.TopicConfigs {
		tc.TopicID = strings.TrimSpace(tc.TopicID)
		if tc.TopicID == "" {
			fields = append(fields, fmt.Sprintf("topicConfigs[%d].topicId", i))
		}
		if tc.TargetLevel == "" {
			tc.TargetLevel = domain.DefaultTargetLevel
		} else if !tc.TargetLevel.IsValid() {
			fields = append(fields, fmt.Sprintf("topicConfigs[%d].targetLevel", i))
		}
		days, ok := normalizeDayNumbers(tc.Days)
		if !ok {
			fields = append(fields, fmt.Sprintf("topicConfigs[%d].days", i))
		}
		tc.Days = days
		configs[i] = tc
	}
	in.TopicConfigs = configs

	if len(fields) > 0 {
		return in, &ValidationError{Fields: fields}
	}
	return in, nil
}

// normalizeDayNumbers sorts and de-duplicates days; empty means all days.
func normalizeDayNumbers(days []int) ([]int, bool) {
	if len(days) == 0 {
		return domain.AllDayNumbers(), true
	}
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !domain.IsValidDayNumber(d) {
			return nil, false
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out, true
}

// buildDayAttachments fans every task out to all four days, keeping input order as sortOrder,
// and places each topic on the days its configuration names.
func buildDayAttachments(
	days []domain.PlanDay,
	taskIDs []string,
	configs []TopicConfig,
	baselines map[string]domain.KnowledgeLevel,
) ([]domain.PlanDayTask, []domain.PlanDayTopic) {
	dayByNumber := make(map[int]domain.PlanDay, len(days))
	for _, d := range days {
		dayByNumber[d.DayNumber] = d
	}

	tasks := make([]domain.PlanDayTask, 0, len(days)*len(taskIDs))
	for _, d := range days {
		for i, taskID := range taskIDs {
			tasks = append(tasks, domain.PlanDayTask{
				ID:        uuid.NewString(),
				PlanDayID: d.ID,
				TaskID:    taskID,
				SortOrder: i,
			})
		}
	}

	var topics []domain.PlanDayTopic
	for i, tc := range configs {
		baseline, ok := baselines[tc.TopicID]
		if !ok {
			baseline = domain.KnowledgeNone
		}
		for _, n := range tc.Days {
			d, ok := dayByNumber[n]
			if !ok {
				continue
			}
			topics = append(topics, domain.PlanDayTopic{
				ID:            uuid.NewString(),
				PlanDayID:     d.ID,
				TopicID:       tc.TopicID,
				SortOrder:     i,
				BaselineLevel: baseline,
				TargetLevel:   tc.TargetLevel,
				EmphasisNotes: tc.EmphasisNotes,
			})
		}
	}
	return tasks, topics
}

// baselineLevels reads the trainee's current ledger levels for the given topics.
func (s *trainingPlanService) baselineLevels(ctx context.Context, traineeID string, topicIDs []string) (map[string]domain.KnowledgeLevel, error) {
	levels := make(map[string]domain.KnowledgeLevel, len(topicIDs))
	if len(topicIDs) == 0 {
		return levels, nil
	}
	entries, err := s.knowledgeRepo.ListByTrainee(ctx, traineeID, topicIDs)
	if err != nil {
		return nil, fmt.Errorf("read knowledge ledger: %w", err)
	}
	for _, e := range entries {
		levels[e.TopicID] = e.CurrentLevel
	}
	return levels, nil
}

func (s *trainingPlanService) ensureTraineeExists(ctx context.Context, traineeID string) error {
	if _, err := s.traineeRepo.GetByID(ctx, traineeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTraineeNotFound
		}
		return fmt.Errorf("lookup trainee: %w", err)
	}
	return nil
}

func (s *trainingPlanService) ensureTasksExist(ctx context.Context, taskIDs []string) error {
	ids := distinct(taskIDs)
	if len(ids) == 0 {
		return nil
	}
	found, err := s.taskRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("lookup tasks: %w", err)
	}
	known := make(map[string]bool, len(found))
	for _, t := range found {
		known[t.ID] = true
	}
	if missing := missingIDs(ids, known); len(missing) > 0 {
		return &ReferenceError{Kind: "task", IDs: missing}
	}
	return nil
}

func (s *trainingPlanService) ensureTopicsExist(ctx context.Context, topicIDs []string) error {
	if len(topicIDs) == 0 {
		return nil
	}
	found, err := s.topicRepo.GetByIDs(ctx, topicIDs)
	if err != nil {
		return fmt.Errorf("lookup topics: %w", err)
	}
	known := make(map[string]bool, len(found))
	for _, t := range found {
		known[t.ID] = true
	}
	if missing := missingIDs(topicIDs, known); len(missing) > 0 {
		return &ReferenceError{Kind: "topic", IDs: missing}
	}
	return nil
}

func distinctTopicIDs(configs []TopicConfig) []string {
	ids := make([]string, 0, len(configs))
	for _, tc := range configs {
		ids = append(ids, tc.TopicID)
	}
	return distinct(ids)
}

// distinct keeps the first occurrence of each id, in order.
func distinct(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func missingIDs(ids []string, known map[string]bool) []string {
	var missing []string
	for _, id := range ids {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
