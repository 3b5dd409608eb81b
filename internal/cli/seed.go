package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/repository"
)

// library is the YAML document accepted by `certctl seed`.
type library struct {
	Trainees []struct {
		ID     string `yaml:"id"`
		Name   string `yaml:"name"`
		RoleID string `yaml:"roleId"`
	} `yaml:"trainees"`
	Tasks []struct {
		ID                string `yaml:"id"`
		Name              string `yaml:"name"`
		DepartmentID      string `yaml:"departmentId"`
		WorkInstructionID string `yaml:"workInstructionId"`
	} `yaml:"tasks"`
	Topics []struct {
		ID       string `yaml:"id"`
		Code     string `yaml:"code"`
		Title    string `yaml:"title"`
		Overview string `yaml:"overview"`
	} `yaml:"topics"`
}

func seedCmd(e *env) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load trainees, tasks and facility topics from a YAML file",
		Example: `  certctl seed -f library.yaml

library.yaml:
  trainees:
    - {id: alex, name: Alex Rivera}
  tasks:
    - {id: solder-1, name: Hand soldering, departmentId: assembly}
  topics:
    - {id: ppe, code: PPE, title: Personal protective equipment}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			var lib library
			if err := yaml.Unmarshal(raw, &lib); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			repos, err := e.openStore(cmd.Context())
			if err != nil {
				return err
			}
			trainees, tasks, topics, err := seedLibrary(cmd.Context(), repos, &lib)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s seeded %d trainees, %d tasks, %d topics\n",
				color.New(color.FgGreen).Sprint("✓"), trainees, tasks, topics)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "library.yaml", "YAML file to load")
	return cmd
}

// seedLibrary saves every record in one transaction. Entries without an id get a
// fresh UUID; entries with an existing id are replaced.
func seedLibrary(ctx context.Context, repos *repository.Store, lib *library) (trainees, tasks, topics int, err error) {
	err = repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		for i, t := range lib.Trainees {
			if strings.TrimSpace(t.Name) == "" {
				return fmt.Errorf("trainees[%d]: name is required", i)
			}
			trainee := &domain.Trainee{
				ID:        idOrNew(t.ID),
				Name:      strings.TrimSpace(t.Name),
				RoleID:    optional(t.RoleID),
				CreatedAt: now,
			}
			if err := repos.Trainees.Save(ctx, trainee); err != nil {
				return fmt.Errorf("save trainee %s: %w", trainee.ID, err)
			}
			trainees++
		}
		for i, t := range lib.Tasks {
			if strings.TrimSpace(t.Name) == "" {
				return fmt.Errorf("tasks[%d]: name is required", i)
			}
			task := &domain.Task{
				ID:                idOrNew(t.ID),
				Name:              strings.TrimSpace(t.Name),
				DepartmentID:      optional(t.DepartmentID),
				WorkInstructionID: optional(t.WorkInstructionID),
			}
			if err := repos.Tasks.Save(ctx, task); err != nil {
				return fmt.Errorf("save task %s: %w", task.ID, err)
			}
			tasks++
		}
		for i, t := range lib.Topics {
			if strings.TrimSpace(t.Code) == "" || strings.TrimSpace(t.Title) == "" {
				return fmt.Errorf("topics[%d]: code and title are required", i)
			}
			topic := &domain.FacilityTopic{
				ID:       idOrNew(t.ID),
				Code:     strings.TrimSpace(t.Code),
				Title:    strings.TrimSpace(t.Title),
				Overview: optional(t.Overview),
			}
			if err := repos.Topics.Save(ctx, topic); err != nil {
				return fmt.Errorf("save topic %s: %w", topic.ID, err)
			}
			topics++
		}
		return nil
	})
	if err != nil {
		return 0, 0, 0, err
	}
	return trainees, tasks, topics, nil
}

func idOrNew(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
