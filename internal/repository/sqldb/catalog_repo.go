package sqldb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

type traineeRepo struct {
	db *gorm.DB
}

func NewTraineeRepository(db *gorm.DB) repository.TraineeRepository {
	return &traineeRepo{db: db}
}

func (r *traineeRepo) Save(ctx context.Context, trainee *domain.Trainee) error {
	if trainee.ID == "" {
		trainee.ID = uuid.NewString()
	}
	if trainee.CreatedAt.IsZero() {
		trainee.CreatedAt = time.Now().UTC()
	}
	return conn(ctx, r.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(trainee).Error
}

func (r *traineeRepo) GetByID(ctx context.Context, id string) (*domain.Trainee, error) {
	var trainee domain.Trainee
	if err := conn(ctx, r.db).Where("id = ?", id).First(&trainee).Error; err != nil {
		return nil, notFound(err)
	}
	return &trainee, nil
}

func (r *traineeRepo) List(ctx context.Context) ([]domain.Trainee, error) {
	var out []domain.Trainee
	if err := conn(ctx, r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type taskRepo struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repository.TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) Save(ctx context.Context, task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	return conn(ctx, r.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(task).Error
}

func (r *taskRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Task, error) {
	var out []domain.Task
	if len(ids) == 0 {
		return out, nil
	}
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *taskRepo) List(ctx context.Context) ([]domain.Task, error) {
	var out []domain.Task
	if err := conn(ctx, r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type facilityTopicRepo struct {
	db *gorm.DB
}

func NewFacilityTopicRepository(db *gorm.DB) repository.FacilityTopicRepository {
	return &facilityTopicRepo{db: db}
}

func (r *facilityTopicRepo) Save(ctx context.Context, topic *domain.FacilityTopic) error {
	if topic.ID == "" {
		topic.ID = uuid.NewString()
	}
	return conn(ctx, r.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(topic).Error
}

func (r *facilityTopicRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.FacilityTopic, error) {
	var out []domain.FacilityTopic
	if len(ids) == 0 {
		return out, nil
	}
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *facilityTopicRepo) List(ctx context.Context) ([]domain.FacilityTopic, error) {
	var out []domain.FacilityTopic
	if err := conn(ctx, r.db).Order("code ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
