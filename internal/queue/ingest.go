package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"github.com/mynah-ai/mynah/pkg/common"
	"github.com/mynah-ai/mynah/pkg/logger"
	"github.com/mynah-ai/mynah/pkg/store"
)

// IngestQueue carries extraction results bound for the knowledge graph.
const IngestQueue = "ingest_queue"

// IngestJob is one extraction result queued for asynchronous assertion.
type IngestJob struct {
	ID     string                  `json:"id"`
	Source string                  `json:"source"`
	Result common.ExtractionResult `json:"result"`
}

// PublishIngestJob enqueues one extraction result for the worker.
func PublishIngestJob(ch *amqp091.Channel, job IngestJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal ingest job: %w", err)
	}
	return PublishFIFO(ch, IngestQueue, body)
}

// ProcessIngestMessage asserts every fact of an ingest job into the store.
// A failing fact is logged and skipped so one bad record cannot block the
// rest of the job; the job itself fails only when the payload is unreadable.
func ProcessIngestMessage(ctx context.Context, kb store.KnowledgeStore, body string) error {
	var job IngestJob
	if err := json.Unmarshal([]byte(body), &job); err != nil {
		return fmt.Errorf("failed to decode ingest job: %w", err)
	}

	asserted := 0
	failed := 0

	for _, entity := range job.Result.Entities {
		if err := kb.AssertEntity(ctx, entity); err != nil {
			logger.Error("[Queue] Failed to assert entity", "job_id", job.ID, "entity", entity.Name, "error", err)
			failed++
			continue
		}
		asserted++
	}

	for _, relationship := range job.Result.Relationships {
		if err := kb.AssertRelationship(ctx, relationship); err != nil {
			logger.Error("[Queue] Failed to assert relationship",
				"job_id", job.ID,
				"from", relationship.From,
				"to", relationship.To,
				"error", err)
			failed++
			continue
		}
		asserted++
	}

	for _, faq := range job.Result.FAQEntries {
		if err := kb.AssertFAQ(ctx, faq); err != nil {
			logger.Error("[Queue] Failed to assert FAQ", "job_id", job.ID, "question", faq.Question, "error", err)
			failed++
			continue
		}
		asserted++
	}

	logger.Info("[Queue] Ingest job processed",
		"job_id", job.ID,
		"source", job.Source,
		"asserted", asserted,
		"failed", failed)

	return nil
}
