package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/storage"
)

const planSheetContentType = "text/plain; charset=utf-8"

// PlanExport locates a rendered plan sheet.
type PlanExport struct {
	ObjectKey   string
	DownloadURL string
	ExpiresAt   time.Time
}

// ExportPlan renders the aggregated plan as a printable sheet, stores it and returns
// a presigned download link.
func (s *trainingPlanService) ExportPlan(ctx context.Context, planID string) (export *PlanExport, err error) {
	ctx, span := startSpan(ctx, "TrainingPlanService.ExportPlan", attribute.String("plan.id", planID))
	defer func() { endSpan(span, err) }()

	if s.files == nil {
		return nil, ErrExportUnavailable
	}

	detail, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	body := renderPlanSheet(detail)

	objectKey := fmt.Sprintf("plans/%s/%s.txt", planID, uuid.NewString())
	if err := s.files.PutObject(ctx, objectKey, planSheetContentType, body); err != nil {
		return nil, fmt.Errorf("upload plan sheet: %w", err)
	}

	url, err := s.files.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		// Don't leave an unreachable object behind.
		if delErr := s.files.DeleteObject(ctx, objectKey); delErr != nil {
			s.log.Warn("failed to clean up plan sheet", "object_key", objectKey, "error", delErr)
		}
		return nil, fmt.Errorf("presign plan sheet: %w", err)
	}

	s.log.Info("plan exported", "plan_id", planID, "object_key", objectKey)
	return &PlanExport{
		ObjectKey:   objectKey,
		DownloadURL: url,
		ExpiresAt:   s.now().Add(storage.DefaultPresignedURLExpiry),
	}, nil
}

// renderPlanSheet lays the plan out one day per section.
func renderPlanSheet(d *PlanDetail) []byte {
	var buf bytes.Buffer
	p := d.Plan

	fmt.Fprintf(&buf, "%s\n%s\n", p.Title, strings.Repeat("=", len(p.Title)))
	trainee := p.TraineeID
	if d.Trainee != nil {
		trainee = d.Trainee.Name
	}
	fmt.Fprintf(&buf, "Trainee: %s\nTrainer: %s\nStatus:  %s\n", trainee, p.TrainerName, p.Status)
	if p.StartDate != nil {
		fmt.Fprintf(&buf, "Start:   %s\n", p.StartDate.Format("2006-01-02"))
	}
	if p.Notes != nil && *p.Notes != "" {
		fmt.Fprintf(&buf, "Notes:   %s\n", *p.Notes)
	}

	for _, day := range d.Days {
		fmt.Fprintf(&buf, "\nDay %d: %s [%s]\n", day.Day.DayNumber, day.Day.StepFocus, day.Day.Status)

		if len(day.Tasks) > 0 {
			buf.WriteString("  Tasks:\n")
			for _, t := range day.Tasks {
				name := t.TaskID
				if t.Task != nil {
					name = t.Task.Name
				}
				fmt.Fprintf(&buf, "    %d. %s\n", t.SortOrder+1, name)
			}
		}

		if len(day.Topics) > 0 {
			buf.WriteString("  Topics:\n")
			tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
			for _, t := range day.Topics {
				label := t.TopicID
				if t.Topic != nil {
					label = fmt.Sprintf("%s %s", t.Topic.Code, t.Topic.Title)
				}
				fmt.Fprintf(tw, "    %s\t%s -> %s", label, t.BaselineLevel, t.TargetLevel)
				if t.EmphasisNotes != nil && *t.EmphasisNotes != "" {
					fmt.Fprintf(tw, "\t(%s)", *t.EmphasisNotes)
				}
				fmt.Fprintln(tw)
			}
			_ = tw.Flush()
		}
	}
	return buf.Bytes()
}
