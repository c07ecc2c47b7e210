package dataset

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

// Repository handles dataset persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new dataset repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create registers a new dataset
func (r *Repository) Create(ctx context.Context, tenantID string, req models.CreateDatasetRequest) (*models.Dataset, error) {
	ctx, span := tracing.StartSpan(ctx, "dataset.Repository.Create")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":    "Create",
		"tenant_id": tenantID,
		"name":      req.Name,
		"kind":      req.Kind,
	})

	now := time.Now().UTC()
	ds := &models.Dataset{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      req.Name,
		Kind:      req.Kind,
		Source:    req.Source,
		CreatedAt: now,
		UpdatedAt: now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("datasets")
	sb.Cols("id", "tenant_id", "name", "kind", "source", "record_count", "created_at", "updated_at")
	sb.Values(ds.ID, ds.TenantID, ds.Name, string(ds.Kind), ds.Source, 0, ds.CreatedAt, ds.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to create dataset")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create dataset")
	}

	log.WithFields(map[string]any{"id": ds.ID}).Info("Created dataset")
	return ds, nil
}

// Get retrieves a dataset by ID
func (r *Repository) Get(ctx context.Context, tenantID, id string) (*models.Dataset, error) {
	ctx, span := tracing.StartSpan(ctx, "dataset.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "tenant_id", "name", "kind", "source", "record_count", "created_at", "updated_at", "deleted_at")
	sb.From("datasets")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var ds models.Dataset
	if err := r.db.GetContext(ctx, &ds, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("dataset %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get dataset")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get dataset")
	}

	return &ds, nil
}

// List retrieves all datasets for a tenant, optionally filtered by kind
func (r *Repository) List(ctx context.Context, tenantID string, kind *models.DatasetKind) ([]models.Dataset, error) {
	ctx, span := tracing.StartSpan(ctx, "dataset.Repository.List")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "tenant_id", "name", "kind", "source", "record_count", "created_at", "updated_at", "deleted_at")
	sb.From("datasets")
	where := []string{
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	}
	if kind != nil {
		where = append(where, sb.Equal("kind", string(*kind)))
	}
	sb.Where(where...)
	sb.OrderBy("created_at DESC")

	query, args := sb.Build()
	var datasets []models.Dataset
	if err := r.db.SelectContext(ctx, &datasets, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list datasets")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list datasets")
	}

	return datasets, nil
}

// Delete soft deletes a dataset
func (r *Repository) Delete(ctx context.Context, tenantID, id string) error {
	ctx, span := tracing.StartSpan(ctx, "dataset.Repository.Delete")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("datasets")
	sb.Set(sb.Assign("deleted_at", now))
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete dataset")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete dataset")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("dataset %s not found", id))
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"id": id}).Info("Deleted dataset")
	return nil
}
