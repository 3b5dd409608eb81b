package sqldb

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

type planDayRepo struct {
	db *gorm.DB
}

func NewPlanDayRepository(db *gorm.DB) repository.PlanDayRepository {
	return &planDayRepo{db: db}
}

func (r *planDayRepo) CreateMany(ctx context.Context, days []domain.PlanDay) error {
	if len(days) == 0 {
		return nil
	}
	err := conn(ctx, r.db).Create(&days).Error
	if isDuplicate(err) {
		return repository.ErrConflict
	}
	return err
}

func (r *planDayRepo) GetByPlanAndNumber(ctx context.Context, planID string, dayNumber int) (*domain.PlanDay, error) {
	var day domain.PlanDay
	err := conn(ctx, r.db).
		Where("plan_id = ? AND day_number = ?", planID, dayNumber).
		First(&day).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &day, nil
}

func (r *planDayRepo) ListByPlan(ctx context.Context, planID string) ([]domain.PlanDay, error) {
	var out []domain.PlanDay
	if err := conn(ctx, r.db).Where("plan_id = ?", planID).Order("day_number ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *planDayRepo) UpdateStatus(ctx context.Context, id string, status domain.DayStatus, completedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	res := conn(ctx, r.db).Model(&domain.PlanDay{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *planDayRepo) DeleteByPlan(ctx context.Context, planID string) error {
	return conn(ctx, r.db).Where("plan_id = ?", planID).Delete(&domain.PlanDay{}).Error
}

type planDayTaskRepo struct {
	db *gorm.DB
}

func NewPlanDayTaskRepository(db *gorm.DB) repository.PlanDayTaskRepository {
	return &planDayTaskRepo{db: db}
}

func (r *planDayTaskRepo) CreateMany(ctx context.Context, rows []domain.PlanDayTask) error {
	if len(rows) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&rows).Error
}

func (r *planDayTaskRepo) ListByDay(ctx context.Context, planDayID string) ([]domain.PlanDayTask, error) {
	var out []domain.PlanDayTask
	err := conn(ctx, r.db).
		Where("plan_day_id = ?", planDayID).
		Order("sort_order ASC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *planDayTaskRepo) DeleteByDays(ctx context.Context, planDayIDs []string) error {
	if len(planDayIDs) == 0 {
		return nil
	}
	return conn(ctx, r.db).Where("plan_day_id IN ?", planDayIDs).Delete(&domain.PlanDayTask{}).Error
}

type planDayTopicRepo struct {
	db *gorm.DB
}

func NewPlanDayTopicRepository(db *gorm.DB) repository.PlanDayTopicRepository {
	return &planDayTopicRepo{db: db}
}

func (r *planDayTopicRepo) CreateMany(ctx context.Context, rows []domain.PlanDayTopic) error {
	if len(rows) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&rows).Error
}

func (r *planDayTopicRepo) ListByDay(ctx context.Context, planDayID string) ([]domain.PlanDayTopic, error) {
	var out []domain.PlanDayTopic
	err := conn(ctx, r.db).
		Where("plan_day_id = ?", planDayID).
		Order("sort_order ASC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *planDayTopicRepo) DeleteByDays(ctx context.Context, planDayIDs []string) error {
	if len(planDayIDs) == 0 {
		return nil
	}
	return conn(ctx, r.db).Where("plan_day_id IN ?", planDayIDs).Delete(&domain.PlanDayTopic{}).Error
}
