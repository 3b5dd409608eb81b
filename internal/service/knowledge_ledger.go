package service

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
)

// KnowledgeEntry is a ledger row with its topic resolved.
type KnowledgeEntry struct {
	domain.TraineeTopicKnowledge
	Topic *domain.FacilityTopic
}

// GetTraineeKnowledge returns the trainee's ledger ordered by topic code.
func (s *trainingPlanService) GetTraineeKnowledge(ctx context.Context, traineeID string) (entries []KnowledgeEntry, err error) {
	ctx, span := startSpan(ctx, "TrainingPlanService.GetTraineeKnowledge", attribute.String("trainee.id", traineeID))
	defer func() { endSpan(span, err) }()

	if err := s.ensureTraineeExists(ctx, traineeID); err != nil {
		return nil, err
	}
	rows, err := s.knowledgeRepo.ListByTrainee(ctx, traineeID, nil)
	if err != nil {
		return nil, fmt.Errorf("read knowledge ledger: %w", err)
	}
	if len(rows) == 0 {
		return []KnowledgeEntry{}, nil
	}

	topicIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		topicIDs = append(topicIDs, r.TopicID)
	}
	topics, err := s.topicRepo.GetByIDs(ctx, distinct(topicIDs))
	if err != nil {
		return nil, fmt.Errorf("lookup topics: %w", err)
	}
	byID := make(map[string]*domain.FacilityTopic, len(topics))
	for i := range topics {
		byID[topics[i].ID] = &topics[i]
	}

	entries = make([]KnowledgeEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, KnowledgeEntry{TraineeTopicKnowledge: r, Topic: byID[r.TopicID]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return sortKey(entries[i]) < sortKey(entries[j])
	})
	return entries, nil
}

func sortKey(e KnowledgeEntry) string {
	if e.Topic != nil {
		return e.Topic.Code
	}
	return e.TopicID
}
