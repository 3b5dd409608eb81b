package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/logger"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

// SessionService reads and records the live side of a training day.
type SessionService interface {
	GetSession(ctx context.Context, sessionID string) (*SessionDetail, error)
	UpdateTaskBlock(ctx context.Context, blockID string, update TaskBlockUpdate) (*domain.DailyTaskBlock, error)
	SignSession(ctx context.Context, sessionID string, in SignSessionInput) (*domain.DailySession, error)
}

// SessionDetail is a session with trainee, topic and task names resolved.
type SessionDetail struct {
	Session domain.DailySession
	Trainee *domain.Trainee
	Topic   *domain.FacilityTopic
	Blocks  []TaskBlockDetail
}

// TaskBlockDetail pairs a block with its catalog task.
type TaskBlockDetail struct {
	domain.DailyTaskBlock
	Task *domain.Task
}

// TaskBlockUpdate changes only the fields that are set.
type TaskBlockUpdate struct {
	Step1       *bool
	Step2       *bool
	Step3       *bool
	Step4       *bool
	Strength    *string
	Opportunity *string
	Action      *string
	Notes       *string
}

// SignSessionInput is the sign-off captured at the end of a session.
type SignSessionInput struct {
	TraineeSignature   string
	TrainerSignature   string
	CompetencyAttested *bool // nil means attested
	Notes              *string
}

type sessionService struct {
	tx          repository.Transactor
	sessionRepo repository.DailySessionRepository
	blockRepo   repository.DailyTaskBlockRepository
	traineeRepo repository.TraineeRepository
	taskRepo    repository.TaskRepository
	topicRepo   repository.FacilityTopicRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(store *repository.Store, log *logger.Logger) SessionService {
	return &sessionService{
		tx:          store.Tx,
		sessionRepo: store.Sessions,
		blockRepo:   store.TaskBlocks,
		traineeRepo: store.Trainees,
		taskRepo:    store.Tasks,
		topicRepo:   store.Topics,
		log:         log.With("service", "SessionService"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *sessionService) GetSession(ctx context.Context, sessionID string) (detail *SessionDetail, err error) {
	ctx, span := startSpan(ctx, "SessionService.GetSession", attribute.String("session.id", sessionID))
	defer func() { endSpan(span, err) }()

	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	detail = &SessionDetail{Session: *session}

	trainee, err := s.traineeRepo.GetByID(ctx, session.TraineeID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get trainee: %w", err)
	}
	detail.Trainee = trainee

	if session.FacilityTopicID != nil {
		topics, err := s.topicRepo.GetByIDs(ctx, []string{*session.FacilityTopicID})
		if err != nil {
			return nil, fmt.Errorf("lookup topic: %w", err)
		}
		if len(topics) > 0 {
			detail.Topic = &topics[0]
		}
	}

	blocks, err := s.blockRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("list task blocks: %w", err)
	}
	taskIDs := make([]string, 0, len(blocks))
	for _, b := range blocks {
		taskIDs = append(taskIDs, b.TaskID)
	}
	tasksByID := make(map[string]*domain.Task)
	if ids := distinct(taskIDs); len(ids) > 0 {
		tasks, err := s.taskRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("lookup tasks: %w", err)
		}
		for i := range tasks {
			tasksByID[tasks[i].ID] = &tasks[i]
		}
	}
	detail.Blocks = make([]TaskBlockDetail, 0, len(blocks))
	for _, b := range blocks {
		detail.Blocks = append(detail.Blocks, TaskBlockDetail{DailyTaskBlock: b, Task: tasksByID[b.TaskID]})
	}
	return detail, nil
}

func (s *sessionService) UpdateTaskBlock(ctx context.Context, blockID string, update TaskBlockUpdate) (block *domain.DailyTaskBlock, err error) {
	ctx, span := startSpan(ctx, "SessionService.UpdateTaskBlock", attribute.String("task_block.id", blockID))
	defer func() { endSpan(span, err) }()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		b, err := s.blockRepo.GetByID(ctx, blockID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTaskBlockNotFound
			}
			return fmt.Errorf("get task block: %w", err)
		}
		update.applyTo(b)
		if err := s.blockRepo.Update(ctx, b); err != nil {
			return fmt.Errorf("update task block: %w", err)
		}
		block = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("task block updated", "task_block_id", blockID, "session_id", block.SessionID)
	return block, nil
}

func (u TaskBlockUpdate) applyTo(b *domain.DailyTaskBlock) {
	if u.Step1 != nil {
		b.Step1 = *u.Step1
	}
	if u.Step2 != nil {
		b.Step2 = *u.Step2
	}
	if u.Step3 != nil {
		b.Step3 = *u.Step3
	}
	if u.Step4 != nil {
		b.Step4 = *u.Step4
	}
	if u.Strength != nil {
		b.Strength = u.Strength
	}
	if u.Opportunity != nil {
		b.Opportunity = u.Opportunity
	}
	if u.Action != nil {
		b.Action = u.Action
	}
	if u.Notes != nil {
		b.Notes = u.Notes
	}
}

func (s *sessionService) SignSession(ctx context.Context, sessionID string, in SignSessionInput) (session *domain.DailySession, err error) {
	ctx, span := startSpan(ctx, "SessionService.SignSession", attribute.String("session.id", sessionID))
	defer func() { endSpan(span, err) }()

	in.TraineeSignature = strings.TrimSpace(in.TraineeSignature)
	in.TrainerSignature = strings.TrimSpace(in.TrainerSignature)
	var fields []string
	if in.TraineeSignature == "" {
		fields = append(fields, "traineeSignature")
	}
	if in.TrainerSignature == "" {
		fields = append(fields, "trainerSignature")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	signOff := repository.SessionSignOff{
		TraineeSignature:   in.TraineeSignature,
		TrainerSignature:   in.TrainerSignature,
		CompetencyAttested: in.CompetencyAttested == nil || *in.CompetencyAttested,
		Notes:              in.Notes,
		SignedAt:           s.now(),
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.sessionRepo.Sign(ctx, sessionID, signOff); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("sign session: %w", err)
		}
		signed, err := s.getSession(ctx, sessionID)
		if err != nil {
			return err
		}
		session = signed
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("session signed", "session_id", sessionID, "competency_attested", signOff.CompetencyAttested)
	return session, nil
}

func (s *sessionService) getSession(ctx context.Context, sessionID string) (*domain.DailySession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}
