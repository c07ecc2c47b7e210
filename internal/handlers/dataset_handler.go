package handlers

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/dataset"
	"github.com/Ramsey-B/fern/internal/repositories/record"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
)

// DatasetHandler manages dataset registration and record upload
type DatasetHandler struct {
	datasetRepo *dataset.Repository
	recordRepo  *record.Repository
	validate    *validator.Validate
	logger      ectologger.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(
	datasetRepo *dataset.Repository,
	recordRepo *record.Repository,
	logger ectologger.Logger,
) *DatasetHandler {
	return &DatasetHandler{
		datasetRepo: datasetRepo,
		recordRepo:  recordRepo,
		validate:    validator.New(),
		logger:      logger,
	}
}

// RegisterRoutes registers dataset routes
func (h *DatasetHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/datasets", h.Create)
	g.GET("/datasets", h.List)
	g.GET("/datasets/:dataset_id", h.Get)
	g.DELETE("/datasets/:dataset_id", h.Delete)
	g.POST("/datasets/:dataset_id/records", h.AppendRecords)
	g.GET("/datasets/:dataset_id/records", h.ListRecords)
	g.GET("/datasets/:dataset_id/latest-data-date", h.LatestDataDate)
}

// Create registers a new dataset
func (h *DatasetHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := GetTenantID(c)
	if err != nil {
		return err
	}

	var req models.CreateDatasetRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ds, err := h.datasetRepo.Create(ctx, tenantID, req)
	if err != nil {
		return err
	}

	return CreatedResponse(c, ds)
}

// List returns the tenant's datasets, optionally filtered by kind
func (h *DatasetHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := GetTenantID(c)
	if err != nil {
		return err
	}

	var kind *models.DatasetKind
	if k := c.QueryParam("kind"); k != "" {
		dk := models.DatasetKind(k)
		if dk != models.DatasetKindLead && dk != models.DatasetKindCustomer {
			return BadRequest("kind must be 'lead' or 'customer'")
		}
		kind = &dk
	}

	datasets, err := h.datasetRepo.List(ctx, tenantID, kind)
	if err != nil {
		return err
	}

	return SuccessResponse(c, map[string]any{"datasets": datasets})
}

// Get returns one dataset
func (h *DatasetHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := ParseUUID(c, "dataset_id")
	if err != nil {
		return err
	}

	ds, err := h.datasetRepo.Get(ctx, tenantID, id.String())
	if err != nil {
		return err
	}

	return SuccessResponse(c, ds)
}

// Delete removes a dataset and its records
func (h *DatasetHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := ParseUUID(c, "dataset_id")
	if err != nil {
		return err
	}

	deleted, err := h.recordRepo.DeleteByDataset(ctx, tenantID, id.String())
	if err != nil {
		return err
	}
	if err := h.datasetRepo.Delete(ctx, tenantID, id.String()); err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithFields(map[string]any{
		"dataset_id": id.String(),
		"records":    deleted,
	}).Info("Dataset deleted")

	return NoContentResponse(c)
}

// AppendRecords uploads a batch of raw records (the CSV import path)
func (h *DatasetHandler) AppendRecords(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := ParseUUID(c, "dataset_id")
	if err != nil {
		return err
	}

	var req models.AppendRecordsRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if len(req.Records) == 0 {
		return BadRequest("records must not be empty")
	}

	ds, err := h.datasetRepo.Get(ctx, tenantID, id.String())
	if err != nil {
		return err
	}

	records := make([]models.DatasetRecord, len(req.Records))
	for i, raw := range req.Records {
		records[i] = models.DatasetRecord{
			Payload: database.JSONB[models.RawRecord]{Data: raw},
		}
	}

	inserted, err := h.recordRepo.AppendBatch(ctx, tenantID, ds.ID, records)
	if err != nil {
		metrics.RecordIngestion(tenantID, ds.Source, "failed", len(records))
		return err
	}
	metrics.RecordIngestion(tenantID, ds.Source, "success", inserted)

	return CreatedResponse(c, map[string]any{
		"dataset_id": ds.ID,
		"received":   len(records),
		"stored":     inserted,
	})
}

// ListRecords returns every raw record in a dataset
func (h *DatasetHandler) ListRecords(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := ParseUUID(c, "dataset_id")
	if err != nil {
		return err
	}

	records, err := h.recordRepo.ListByDataset(ctx, tenantID, id.String())
	if err != nil {
		return err
	}

	return SuccessResponse(c, map[string]any{
		"dataset_id": id.String(),
		"records":    records,
	})
}

// LatestDataDate reports data freshness for the dashboard
func (h *DatasetHandler) LatestDataDate(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := ParseUUID(c, "dataset_id")
	if err != nil {
		return err
	}

	latest, err := h.recordRepo.LatestDataDate(ctx, tenantID, id.String())
	if err != nil {
		return err
	}

	return SuccessResponse(c, map[string]any{
		"dataset_id":       id.String(),
		"latest_data_date": latest,
	})
}
