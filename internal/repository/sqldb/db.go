// Package sqldb implements the repositories on GORM for PostgreSQL and SQLite.
package sqldb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/logger"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database named by driver and dsn.
func Open(driver, dsn string, log *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	gormLog := gormLogger.New(
		gormWriter{log: log.With("component", "gorm")},
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	if strings.EqualFold(driver, DriverSQLite) {
		// SQLite allows a single writer, and an in-memory database lives on one connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate creates or updates every table and index.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Trainee{},
		&domain.Task{},
		&domain.FacilityTopic{},
		&domain.TrainingPlan{},
		&domain.PlanDay{},
		&domain.PlanDayTask{},
		&domain.PlanDayTopic{},
		&domain.TraineeTopicKnowledge{},
		&domain.DailySession{},
		&domain.DailyTaskBlock{},
	)
}

// gormWriter routes GORM's logger through the application logger.
type gormWriter struct {
	log *logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

type txKey struct{}

// conn returns the transaction carried by ctx, or db bound to ctx.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// gormTransactor implements repository.Transactor
type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a repository.Transactor backed by GORM transactions.
func NewTransactor(db *gorm.DB) repository.Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// NewStore wires every GORM repository against db.
func NewStore(db *gorm.DB) *repository.Store {
	return &repository.Store{
		Tx:         NewTransactor(db),
		Trainees:   NewTraineeRepository(db),
		Tasks:      NewTaskRepository(db),
		Topics:     NewFacilityTopicRepository(db),
		Plans:      NewTrainingPlanRepository(db),
		Days:       NewPlanDayRepository(db),
		DayTasks:   NewPlanDayTaskRepository(db),
		DayTopics:  NewPlanDayTopicRepository(db),
		Knowledge:  NewKnowledgeRepository(db),
		Sessions:   NewDailySessionRepository(db),
		TaskBlocks: NewDailyTaskBlockRepository(db),
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	return err
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
