package record

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Repository handles raw record persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new record repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AppendBatch inserts a batch of raw records and bumps the dataset's record
// count in the same transaction. Records that collide on
// (dataset_id, source_record_id) are updated in place, mirroring how the
// upstream CRM re-sends changed rows.
func (r *Repository) AppendBatch(ctx context.Context, tenantID, datasetID string, records []models.DatasetRecord) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "record.Repository.AppendBatch")
	defer span.End()

	if len(records) == 0 {
		return 0, nil
	}

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":     "AppendBatch",
		"tenant_id":  tenantID,
		"dataset_id": datasetID,
		"records":    len(records),
	})

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	inserted := 0
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		if rec.SourceRecordID == "" {
			rec.SourceRecordID = rec.ID
		}

		ib := database.NewInsertBuilder()
		ib.InsertInto("dataset_records")
		ib.Cols("id", "dataset_id", "tenant_id", "source_record_id", "payload", "record_date", "created_at", "updated_at")
		ib.Values(rec.ID, datasetID, tenantID, rec.SourceRecordID, rec.Payload, rec.RecordDate, now, now)
		ub := ib.OnConflict("dataset_id", "source_record_id")
		ub.Set(
			ub.Assign("payload", database.Excluded("payload")),
			ub.Assign("record_date", database.Excluded("record_date")),
			ub.Assign("updated_at", database.Excluded("updated_at")),
		)

		query, args := ib.Build()
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			log.WithError(err).Error("Failed to insert dataset record")
			return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert dataset record")
		}
		if rows, _ := result.RowsAffected(); rows > 0 {
			inserted++
		}
	}

	// Recompute the cached count instead of adding the batch size; upserted
	// rows report as affected whether they were inserted or updated.
	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("datasets")
	ub.Set(
		ub.Assign("updated_at", now),
		fmt.Sprintf("record_count = (SELECT COUNT(*) FROM dataset_records WHERE dataset_id = %s)", ub.Var(datasetID)),
	)
	ub.Where(
		ub.Equal("id", datasetID),
		ub.Equal("tenant_id", tenantID),
	)
	query, args := ub.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to update dataset record count")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update dataset record count")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit record batch")
	}

	log.WithFields(map[string]any{"inserted": inserted}).Info("Appended record batch")
	return inserted, nil
}

// ListByDataset returns every record in a dataset in stable insertion order.
// The matching engine depends on this ordering for its first-wins tie-break.
func (r *Repository) ListByDataset(ctx context.Context, tenantID, datasetID string) ([]models.DatasetRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "record.Repository.ListByDataset")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "dataset_id", "tenant_id", "source_record_id", "payload", "record_date", "created_at", "updated_at")
	sb.From("dataset_records")
	sb.Where(
		sb.Equal("dataset_id", datasetID),
		sb.Equal("tenant_id", tenantID),
	)
	sb.OrderBy("created_at ASC", "id ASC")

	query, args := sb.Build()
	var records []models.DatasetRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list dataset records")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list dataset records")
	}

	return records, nil
}

// LatestDataDate returns the newest record_date in a dataset, used by the
// dashboard to show data freshness.
func (r *Repository) LatestDataDate(ctx context.Context, tenantID, datasetID string) (*time.Time, error) {
	ctx, span := tracing.StartSpan(ctx, "record.Repository.LatestDataDate")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("MAX(record_date)")
	sb.From("dataset_records")
	sb.Where(
		sb.Equal("dataset_id", datasetID),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var latest *time.Time
	if err := r.db.GetContext(ctx, &latest, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get latest data date")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get latest data date")
	}

	return latest, nil
}

// DeleteByDataset removes every record belonging to a dataset
func (r *Repository) DeleteByDataset(ctx context.Context, tenantID, datasetID string) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "record.Repository.DeleteByDataset")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom("dataset_records")
	sb.Where(
		sb.Equal("dataset_id", datasetID),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete dataset records")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete dataset records")
	}

	rows, _ := result.RowsAffected()
	return rows, nil
}
