package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/events"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/service"
)

func migrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables (SQL) or indexes (MongoDB) for the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := e.openStore(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", color.New(color.FgGreen).Sprint("✓"))
			return nil
		},
	}
}

func plansCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List, inspect and run training plans",
	}
	cmd.AddCommand(plansListCmd(e))
	cmd.AddCommand(plansShowCmd(e))
	cmd.AddCommand(plansStartDayCmd(e))
	cmd.AddCommand(plansCompleteDayCmd(e))
	return cmd
}

func plansListCmd(e *env) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.planService(cmd.Context())
			if err != nil {
				return err
			}
			plans, err := svc.ListPlans(cmd.Context(), domain.PlanStatus(status))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(plans) == 0 {
				fmt.Fprintln(out, "No plans found.")
				return nil
			}
			for _, p := range plans {
				fmt.Fprintf(out, "%s  %-11s  %s (trainee %s, trainer %s)\n",
					p.ID, colorStatus(string(p.Status)), p.Title, p.TraineeID, p.TrainerName)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "only plans with this status")
	return cmd
}

func plansShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <plan-id>",
		Short: "Show a plan with its four days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.planService(cmd.Context())
			if err != nil {
				return err
			}
			detail, err := svc.GetPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPlanDetail(cmd.OutOrStdout(), detail)
			return nil
		},
	}
}

func plansStartDayCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "start-day <plan-id> <day-number>",
		Short: "Start a plan day and create its session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(args[1])
			if err != nil {
				return err
			}
			svc, err := e.planService(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.StartDay(cmd.Context(), args[0], day)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.Created {
				fmt.Fprintf(out, "Started day %d (%s)\n", day, res.Day.StepFocus)
			} else {
				fmt.Fprintf(out, "Day %d already has a session\n", day)
			}
			fmt.Fprintf(out, "  Session: %s\n  Task blocks: %d\n  Plan: %s\n",
				res.Session.ID, len(res.TaskBlocks), colorStatus(string(res.Plan.Status)))
			return nil
		},
	}
}

func plansCompleteDayCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "complete-day <plan-id> <day-number>",
		Short: "Complete a started plan day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(args[1])
			if err != nil {
				return err
			}
			svc, err := e.planService(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.CompleteDay(cmd.Context(), args[0], day)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.AlreadyCompleted {
				fmt.Fprintf(out, "Day %d was already completed\n", day)
				return nil
			}
			fmt.Fprintf(out, "Completed day %d\n", day)
			for _, k := range res.KnowledgeUpdates {
				fmt.Fprintf(out, "  Ledger: %s -> %s\n", k.TopicID, color.New(color.FgCyan).Sprint(k.CurrentLevel))
			}
			if res.PlanCompleted {
				fmt.Fprintf(out, "  Plan %s\n", colorStatus(string(domain.PlanStatusCompleted)))
			}
			return nil
		},
	}
}

func knowledgeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "knowledge <trainee-id>",
		Short: "Show a trainee's knowledge ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.planService(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := svc.GetTraineeKnowledge(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No ledger entries.")
				return nil
			}
			for _, k := range entries {
				label := k.TopicID
				if k.Topic != nil {
					label = fmt.Sprintf("%s %s", k.Topic.Code, k.Topic.Title)
				}
				fmt.Fprintf(out, "%-40s %-12s assessed %s\n",
					label, color.New(color.FgCyan).Sprint(k.CurrentLevel), k.AssessedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func eventsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow plan lifecycle events",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "tail",
		Short: "Print events as they are published (Ctrl-C to stop)",
		RunE: func(cmd *cobra.Command, args []string) error {
			bus, err := e.eventBus()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			err = bus.Subscribe(ctx, func(evt events.Event) {
				raw, _ := json.Marshal(evt.Data)
				fmt.Fprintf(out, "%s %s plan=%s day=%d %s\n",
					evt.OccurredAt.Format("15:04:05"), color.New(color.FgYellow).Sprint(evt.Type), evt.PlanID, evt.DayNumber, raw)
			})
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	})
	return cmd
}

func printPlanDetail(out io.Writer, d *service.PlanDetail) {
	bold := color.New(color.Bold)
	fmt.Fprintf(out, "%s [%s]\n", bold.Sprint(d.Plan.Title), colorStatus(string(d.Plan.Status)))
	trainee := d.Plan.TraineeID
	if d.Trainee != nil {
		trainee = d.Trainee.Name
	}
	fmt.Fprintf(out, "  Trainee: %s\n  Trainer: %s\n", trainee, d.Plan.TrainerName)

	for _, day := range d.Days {
		fmt.Fprintf(out, "\nDay %d  %s  [%s]\n", day.Day.DayNumber, day.Day.StepFocus, colorStatus(string(day.Day.Status)))
		for _, t := range day.Tasks {
			name := t.TaskID
			if t.Task != nil {
				name = t.Task.Name
			}
			fmt.Fprintf(out, "  - task  %s\n", name)
		}
		for _, t := range day.Topics {
			code := t.TopicID
			if t.Topic != nil {
				code = t.Topic.Code
			}
			fmt.Fprintf(out, "  - topic %s  %s -> %s\n", code, t.BaselineLevel, t.TargetLevel)
		}
		if day.Session != nil {
			fmt.Fprintf(out, "  session %s\n", day.Session.ID)
		}
	}
}

func colorStatus(status string) string {
	switch status {
	case string(domain.PlanStatusCompleted):
		return color.New(color.FgGreen).Sprint(status)
	case string(domain.PlanStatusInProgress):
		return color.New(color.FgYellow).Sprint(status)
	case string(domain.PlanStatusCancelled):
		return color.New(color.FgRed).Sprint(status)
	default:
		return status
	}
}

func parseDay(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || !domain.IsValidDayNumber(n) {
		return 0, service.ErrInvalidDayNumber
	}
	return n, nil
}
