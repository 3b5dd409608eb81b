package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/logger"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

const minTraineeNameLength = 2

// TraineeService manages the people plans are built for.
type TraineeService interface {
	ListTrainees(ctx context.Context) ([]domain.Trainee, error)
	CreateTrainee(ctx context.Context, name string, roleID *string) (*domain.Trainee, error)
	GetTrainee(ctx context.Context, traineeID string) (*domain.Trainee, error)
}

type traineeService struct {
	traineeRepo repository.TraineeRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewTraineeService creates a new instance of traineeService.
func NewTraineeService(traineeRepo repository.TraineeRepository, log *logger.Logger) TraineeService {
	return &traineeService{
		traineeRepo: traineeRepo,
		log:         log.With("service", "TraineeService"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *traineeService) ListTrainees(ctx context.Context) ([]domain.Trainee, error) {
	trainees, err := s.traineeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trainees: %w", err)
	}
	return trainees, nil
}

func (s *traineeService) CreateTrainee(ctx context.Context, name string, roleID *string) (*domain.Trainee, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minTraineeNameLength {
		return nil, &ValidationError{
			Fields:  []string{"name"},
			Message: fmt.Sprintf("name must be at least %d characters", minTraineeNameLength),
		}
	}
	if roleID != nil {
		trimmed := strings.TrimSpace(*roleID)
		if trimmed == "" {
			roleID = nil
		} else {
			roleID = &trimmed
		}
	}

	trainee := &domain.Trainee{
		ID:        uuid.NewString(),
		Name:      name,
		RoleID:    roleID,
		CreatedAt: s.now(),
	}
	if err := s.traineeRepo.Save(ctx, trainee); err != nil {
		return nil, fmt.Errorf("create trainee: %w", err)
	}
	s.log.Info("trainee created", "trainee_id", trainee.ID)
	return trainee, nil
}

func (s *traineeService) GetTrainee(ctx context.Context, traineeID string) (*domain.Trainee, error) {
	trainee, err := s.traineeRepo.GetByID(ctx, traineeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTraineeNotFound
		}
		return nil, fmt.Errorf("get trainee: %w", err)
	}
	return trainee, nil
}
