// Package cli implements certctl, the operator command line for training plans.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/config"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/events"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/logger"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/service"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/store"
)

// env holds what commands share. Everything is opened on first use so that
// `certctl --help` needs neither a config file nor a database.
type env struct {
	configDir string

	cfg    *config.Config
	log    *logger.Logger
	repos  *repository.Store
	closer store.CloseFunc
	bus    events.Bus
}

// NewRootCmd returns the certctl command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&env{})
}

func newRootCmd(e *env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "certctl",
		Short:         "Operate 4-day certification training plans",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return e.close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&e.configDir, "config", ".", "directory containing config.yaml")

	rootCmd.AddCommand(migrateCmd(e))
	rootCmd.AddCommand(seedCmd(e))
	rootCmd.AddCommand(plansCmd(e))
	rootCmd.AddCommand(knowledgeCmd(e))
	rootCmd.AddCommand(eventsCmd(e))
	return rootCmd
}

func (e *env) loadConfig() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}
	cfg, err := config.LoadConfig(e.configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	e.cfg = &cfg
	return e.cfg, nil
}

func (e *env) logr() *logger.Logger {
	if e.log != nil {
		return e.log
	}
	mode := "production"
	if e.cfg != nil {
		mode = e.cfg.Log.Mode
	}
	log, err := logger.New(mode)
	if err != nil {
		log = logger.NewNop()
	}
	e.log = log
	return e.log
}

func (e *env) openStore(ctx context.Context) (*repository.Store, error) {
	if e.repos != nil {
		return e.repos, nil
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	repos, closer, err := store.Open(ctx, cfg.Database, e.logr())
	if err != nil {
		return nil, err
	}
	e.repos, e.closer = repos, closer
	return e.repos, nil
}

// eventBus returns the redis bus when configured, otherwise a no-op bus.
func (e *env) eventBus() (events.Bus, error) {
	if e.bus != nil {
		return e.bus, nil
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Redis.Addr == "" {
		e.bus = events.NewNoopBus()
		return e.bus, nil
	}
	bus, err := events.NewRedisBus(e.logr(), cfg.Redis.Addr, cfg.Redis.Channel)
	if err != nil {
		return nil, err
	}
	e.bus = bus
	return e.bus, nil
}

func (e *env) planService(ctx context.Context) (service.TrainingPlanService, error) {
	repos, err := e.openStore(ctx)
	if err != nil {
		return nil, err
	}
	bus, err := e.eventBus()
	if err != nil {
		return nil, err
	}
	return service.NewTrainingPlanService(repos, bus, nil, e.logr()), nil
}

func (e *env) close() error {
	if e.bus != nil {
		_ = e.bus.Close()
	}
	if e.closer != nil {
		err := e.closer()
		e.closer = nil
		return err
	}
	return nil
}
