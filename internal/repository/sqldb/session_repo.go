package sqldb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

type dailySessionRepo struct {
	db *gorm.DB
}

func NewDailySessionRepository(db *gorm.DB) repository.DailySessionRepository {
	return &dailySessionRepo{db: db}
}

// CreateForPlanDay inserts with ON CONFLICT (plan_day_id) DO NOTHING, so a
// concurrent start for the same day cannot produce a second session.
func (r *dailySessionRepo) CreateForPlanDay(ctx context.Context, session *domain.DailySession) (*domain.DailySession, bool, error) {
	if session.ID == "" || session.PlanDayID == nil {
		return nil, false, errors.New("session requires id and planDayId")
	}
	res := conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "plan_day_id"}},
			DoNothing: true,
		}).
		Create(session)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return session, true, nil
	}

	existing, err := r.GetByPlanDay(ctx, *session.PlanDayID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *dailySessionRepo) GetByID(ctx context.Context, id string) (*domain.DailySession, error) {
	var session domain.DailySession
	if err := conn(ctx, r.db).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

func (r *dailySessionRepo) GetByPlanDay(ctx context.Context, planDayID string) (*domain.DailySession, error) {
	var session domain.DailySession
	if err := conn(ctx, r.db).Where("plan_day_id = ?", planDayID).First(&session).Error; err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

func (r *dailySessionRepo) Sign(ctx context.Context, id string, signOff repository.SessionSignOff) error {
	updates := map[string]interface{}{
		"trainee_signature":   signOff.TraineeSignature,
		"trainer_signature":   signOff.TrainerSignature,
		"competency_attested": signOff.CompetencyAttested,
		"signed_at":           signOff.SignedAt,
	}
	if signOff.Notes != nil {
		updates["notes"] = *signOff.Notes
	}
	res := conn(ctx, r.db).Model(&domain.DailySession{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *dailySessionRepo) DetachPlanDays(ctx context.Context, planDayIDs []string) error {
	if len(planDayIDs) == 0 {
		return nil
	}
	return conn(ctx, r.db).
		Model(&domain.DailySession{}).
		Where("plan_day_id IN ?", planDayIDs).
		Update("plan_day_id", nil).Error
}

type dailyTaskBlockRepo struct {
	db *gorm.DB
}

func NewDailyTaskBlockRepository(db *gorm.DB) repository.DailyTaskBlockRepository {
	return &dailyTaskBlockRepo{db: db}
}

func (r *dailyTaskBlockRepo) CreateMany(ctx context.Context, blocks []domain.DailyTaskBlock) error {
	if len(blocks) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&blocks).Error
}

func (r *dailyTaskBlockRepo) GetByID(ctx context.Context, id string) (*domain.DailyTaskBlock, error) {
	var block domain.DailyTaskBlock
	if err := conn(ctx, r.db).Where("id = ?", id).First(&block).Error; err != nil {
		return nil, notFound(err)
	}
	return &block, nil
}

func (r *dailyTaskBlockRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.DailyTaskBlock, error) {
	var out []domain.DailyTaskBlock
	err := conn(ctx, r.db).
		Where("session_id = ?", sessionID).
		Order("sort_order ASC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dailyTaskBlockRepo) Update(ctx context.Context, block *domain.DailyTaskBlock) error {
	res := conn(ctx, r.db).
		Model(&domain.DailyTaskBlock{}).
		Where("id = ?", block.ID).
		Updates(map[string]interface{}{
			"step1":       block.Step1,
			"step2":       block.Step2,
			"step3":       block.Step3,
			"step4":       block.Step4,
			"strength":    block.Strength,
			"opportunity": block.Opportunity,
			"action":      block.Action,
			"notes":       block.Notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
