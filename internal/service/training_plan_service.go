package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/events"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/logger"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/storage"
)

var tracer = otel.Tracer("github.com/agcomphr25/Comprehensive-Training-App/internal/service")

// TrainingPlanService builds 4-day plans, runs their days and reads them back.
type TrainingPlanService interface {
	// Plan Builder
	CreatePlan(ctx context.Context, in CreatePlanInput) (*domain.TrainingPlan, error)

	// Day Runner
	StartDay(ctx context.Context, planID string, dayNumber int) (*DayStartResult, error)
	CompleteDay(ctx context.Context, planID string, dayNumber int) (*DayCompleteResult, error)

	// Plan Aggregator
	GetPlan(ctx context.Context, planID string) (*PlanDetail, error)
	ListPlans(ctx context.Context, status domain.PlanStatus) ([]domain.TrainingPlan, error)

	// Administration
	UpdatePlanStatus(ctx context.Context, planID string, status domain.PlanStatus) (*domain.TrainingPlan, error)
	DeletePlan(ctx context.Context, planID string) error

	// Knowledge Ledger
	GetTraineeKnowledge(ctx context.Context, traineeID string) ([]KnowledgeEntry, error)

	// ExportPlan renders the plan sheet to object storage and returns a download link.
	ExportPlan(ctx context.Context, planID string) (*PlanExport, error)
}

// trainingPlanService implements the TrainingPlanService interface.
type trainingPlanService struct {
	tx            repository.Transactor
	planRepo      repository.TrainingPlanRepository
	dayRepo       repository.PlanDayRepository
	dayTaskRepo   repository.PlanDayTaskRepository
	dayTopicRepo  repository.PlanDayTopicRepository
	knowledgeRepo repository.KnowledgeRepository
	sessionRepo   repository.DailySessionRepository
	blockRepo     repository.DailyTaskBlockRepository
	traineeRepo   repository.TraineeRepository
	taskRepo      repository.TaskRepository
	topicRepo     repository.FacilityTopicRepository

	bus   events.Publisher
	files storage.FileStorage // nil when export is disabled
	log   *logger.Logger
	now   func() time.Time
}

// NewTrainingPlanService creates a new instance of trainingPlanService.
// files may be nil, in which case ExportPlan returns ErrExportUnavailable.
func NewTrainingPlanService(
	store *repository.Store,
	bus events.Publisher,
	files storage.FileStorage,
	log *logger.Logger,
) TrainingPlanService {
	if bus == nil {
		bus = events.NewNoopBus()
	}
	return &trainingPlanService{
		tx:            store.Tx,
		planRepo:      store.Plans,
		dayRepo:       store.Days,
		dayTaskRepo:   store.DayTasks,
		dayTopicRepo:  store.DayTopics,
		knowledgeRepo: store.Knowledge,
		sessionRepo:   store.Sessions,
		blockRepo:     store.TaskBlocks,
		traineeRepo:   store.Trainees,
		taskRepo:      store.Tasks,
		topicRepo:     store.Topics,
		bus:           bus,
		files:         files,
		log:           log.With("service", "TrainingPlanService"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ListPlans returns summary rows ordered by creation time.
func (s *trainingPlanService) ListPlans(ctx context.Context, status domain.PlanStatus) ([]domain.TrainingPlan, error) {
	if status != "" && !status.IsValid() {
		return nil, &ValidationError{Fields: []string{"status"}, Message: fmt.Sprintf("unknown plan status %q", status)}
	}
	plans, err := s.planRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// UpdatePlanStatus sets the plan status directly. Moving to completed stamps completedAt.
func (s *trainingPlanService) UpdatePlanStatus(ctx context.Context, planID string, status domain.PlanStatus) (plan *domain.TrainingPlan, err error) {
	ctx, span := startSpan(ctx, "TrainingPlanService.UpdatePlanStatus", attribute.String("plan.id", planID))
	defer func() { endSpan(span, err) }()

	// 1. Validate Input
	if !status.IsValid() {
		return nil, &ValidationError{Fields: []string{"status"}, Message: fmt.Sprintf("unknown plan status %q", status)}
	}

	var previous domain.PlanStatus
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// 2. Load the plan
		p, err := s.getPlan(ctx, planID)
		if err != nil {
			return err
		}
		previous = p.Status

		// 3. Persist
		var completedAt *time.Time
		if status == domain.PlanStatusCompleted {
			now := s.now()
			completedAt = &now
			p.CompletedAt = completedAt
		}
		if err := s.planRepo.UpdateStatus(ctx, planID, status, completedAt); err != nil {
			return fmt.Errorf("update plan status: %w", err)
		}
		p.Status = status
		plan = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("plan status updated", "plan_id", planID, "from", previous, "to", status)
	s.publish(ctx, events.Event{
		Type:      events.PlanStatusChanged,
		PlanID:    planID,
		TraineeID: plan.TraineeID,
		Data:      map[string]interface{}{"from": previous, "to": status},
	})
	return plan, nil
}

// DeletePlan removes the plan and everything it owns: attachments, then days, then the plan.
// Sessions materialized from its days belong to the training record and are detached, not deleted.
func (s *trainingPlanService) DeletePlan(ctx context.Context, planID string) (err error) {
	ctx, span := startSpan(ctx, "TrainingPlanService.DeletePlan", attribute.String("plan.id", planID))
	defer func() { endSpan(span, err) }()

	var traineeID string
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		plan, err := s.getPlan(ctx, planID)
		if err != nil {
			return err
		}
		traineeID = plan.TraineeID

		days, err := s.dayRepo.ListByPlan(ctx, planID)
		if err != nil {
			return fmt.Errorf("list plan days: %w", err)
		}
		dayIDs := make([]string, 0, len(days))
		for _, d := range days {
			dayIDs = append(dayIDs, d.ID)
		}

		if err := s.dayTaskRepo.DeleteByDays(ctx, dayIDs); err != nil {
			return fmt.Errorf("delete day tasks: %w", err)
		}
		if err := s.dayTopicRepo.DeleteByDays(ctx, dayIDs); err != nil {
			return fmt.Errorf("delete day topics: %w", err)
		}
		if err := s.sessionRepo.DetachPlanDays(ctx, dayIDs); err != nil {
			return fmt.Errorf("detach sessions: %w", err)
		}
		if err := s.dayRepo.DeleteByPlan(ctx, planID); err != nil {
			return fmt.Errorf("delete plan days: %w", err)
		}
		if err := s.planRepo.Delete(ctx, planID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrPlanNotFound
			}
			return fmt.Errorf("delete plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("plan deleted", "plan_id", planID)
	s.publish(ctx, events.Event{Type: events.PlanDeleted, PlanID: planID, TraineeID: traineeID})
	return nil
}

// getPlan maps a missing plan to ErrPlanNotFound.
func (s *trainingPlanService) getPlan(ctx context.Context, planID string) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return plan, nil
}

// publish is best effort: the state change has already committed.
func (s *trainingPlanService) publish(ctx context.Context, evt events.Event) {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = s.now()
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		s.log.Warn("failed to publish event", "type", evt.Type, "plan_id", evt.PlanID, "error", err)
	}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
