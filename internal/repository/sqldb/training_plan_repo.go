package sqldb

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

type trainingPlanRepo struct {
	db *gorm.DB
}

func NewTrainingPlanRepository(db *gorm.DB) repository.TrainingPlanRepository {
	return &trainingPlanRepo{db: db}
}

func (r *trainingPlanRepo) Create(ctx context.Context, plan *domain.TrainingPlan) error {
	if plan.UpdatedAt.IsZero() {
		plan.UpdatedAt = plan.CreatedAt
	}
	err := conn(ctx, r.db).Create(plan).Error
	if isDuplicate(err) {
		return repository.ErrConflict
	}
	return err
}

func (r *trainingPlanRepo) GetByID(ctx context.Context, id string) (*domain.TrainingPlan, error) {
	var plan domain.TrainingPlan
	if err := conn(ctx, r.db).Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, notFound(err)
	}
	return &plan, nil
}

func (r *trainingPlanRepo) List(ctx context.Context, status domain.PlanStatus) ([]domain.TrainingPlan, error) {
	q := conn(ctx, r.db).Order("created_at ASC").Order("id ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.TrainingPlan
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *trainingPlanRepo) UpdateStatus(ctx context.Context, id string, status domain.PlanStatus, completedAt *time.Time) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	res := conn(ctx, r.db).Model(&domain.TrainingPlan{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *trainingPlanRepo) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Where("id = ?", id).Delete(&domain.TrainingPlan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
