// Package processor turns consumed ingestion messages into stored dataset
// records.
package processor

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"

	"github.com/Ramsey-B/fern/internal/repositories/dataset"
	"github.com/Ramsey-B/fern/internal/repositories/record"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Processor validates and stores streamed records.
type Processor struct {
	datasetRepo *dataset.Repository
	recordRepo  *record.Repository
	validate    *validator.Validate
	logger      ectologger.Logger
}

func New(datasetRepo *dataset.Repository, recordRepo *record.Repository, logger ectologger.Logger) *Processor {
	return &Processor{
		datasetRepo: datasetRepo,
		recordRepo:  recordRepo,
		validate:    validator.New(),
		logger:      logger,
	}
}

// HandleMessage stores one streamed record into its dataset. Validation
// failures are terminal (the message is malformed and will never succeed);
// storage failures are returned so the consumer retries.
func (p *Processor) HandleMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.HandleMessage")
	defer span.End()

	rm := msg.RecordMessage
	if rm == nil {
		return fmt.Errorf("message has no parsed record payload")
	}

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":  msg.GetTenantID(),
		"dataset_id": msg.GetDatasetID(),
		"offset":     msg.Offset,
	})

	if err := p.validate.Struct(rm); err != nil {
		// Malformed payload, retrying will not help. Log and drop.
		log.WithError(err).Warn("Dropping invalid record message")
		metrics.RecordIngestion(msg.GetTenantID(), "kafka", "invalid", 1)
		return nil
	}

	ds, err := p.datasetRepo.Get(ctx, rm.TenantID, rm.DatasetID)
	if err != nil {
		metrics.RecordIngestion(rm.TenantID, "kafka", "failed", 1)
		return fmt.Errorf("dataset lookup failed: %w", err)
	}
	if ds.Kind != rm.Kind {
		log.WithFields(map[string]any{"dataset_kind": ds.Kind, "record_kind": rm.Kind}).Warn("Dropping record with mismatched kind")
		metrics.RecordIngestion(rm.TenantID, "kafka", "invalid", 1)
		return nil
	}

	rec := models.DatasetRecord{
		SourceRecordID: msg.GetSourceRecordID(),
		Payload:        database.JSONB[models.RawRecord]{Data: rm.Record},
		RecordDate:     rm.RecordDate,
	}

	if _, err := p.recordRepo.AppendBatch(ctx, rm.TenantID, rm.DatasetID, []models.DatasetRecord{rec}); err != nil {
		metrics.RecordIngestion(rm.TenantID, "kafka", "failed", 1)
		return fmt.Errorf("record store failed: %w", err)
	}

	metrics.RecordIngestion(rm.TenantID, "kafka", "success", 1)
	return nil
}
