package handlers

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/dataset"
	"github.com/Ramsey-B/fern/internal/repositories/record"
	"github.com/Ramsey-B/fern/pkg/crm"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
)

// SyncHandler pulls records from the upstream CRM into a dataset.
type SyncHandler struct {
	crmClient      *crm.Client
	datasetRepo    *dataset.Repository
	recordRepo     *record.Repository
	leadsTable     crm.TableSpec
	customersTable crm.TableSpec
	logger         ectologger.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(
	crmClient *crm.Client,
	datasetRepo *dataset.Repository,
	recordRepo *record.Repository,
	leadsTable, customersTable crm.TableSpec,
	logger ectologger.Logger,
) *SyncHandler {
	return &SyncHandler{
		crmClient:      crmClient,
		datasetRepo:    datasetRepo,
		recordRepo:     recordRepo,
		leadsTable:     leadsTable,
		customersTable: customersTable,
		logger:         logger,
	}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/datasets/:dataset_id/sync", h.Sync)
}

type syncRequest struct {
	FilterFormula string `json:"filter_formula"`
	MaxRecords    int    `json:"max_records"`
}

// Sync fetches the dataset's upstream table and upserts the records.
func (h *SyncHandler) Sync(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := ParseUUID(c, "dataset_id")
	if err != nil {
		return err
	}

	var req syncRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}

	ds, err := h.datasetRepo.Get(ctx, tenantID, id.String())
	if err != nil {
		return err
	}

	table := h.leadsTable
	if ds.Kind == models.DatasetKindCustomer {
		table = h.customersTable
	}

	raws, err := h.crmClient.FetchRecords(ctx, table, req.FilterFormula, req.MaxRecords)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("CRM sync failed")
		metrics.RecordIngestion(tenantID, "crm", "failed", 0)
		return httperror.NewHTTPError(http.StatusBadGateway, "upstream CRM fetch failed")
	}

	records := make([]models.DatasetRecord, len(raws))
	for i, raw := range raws {
		sourceID, _ := raw["_record_id"].(string)
		records[i] = models.DatasetRecord{
			SourceRecordID: sourceID,
			Payload:        database.JSONB[models.RawRecord]{Data: raw},
		}
	}

	stored, err := h.recordRepo.AppendBatch(ctx, tenantID, ds.ID, records)
	if err != nil {
		metrics.RecordIngestion(tenantID, "crm", "failed", len(records))
		return err
	}
	metrics.RecordIngestion(tenantID, "crm", "success", stored)

	h.logger.WithContext(ctx).WithFields(map[string]any{
		"dataset_id": ds.ID,
		"table":      table.Name,
		"fetched":    len(raws),
		"stored":     stored,
	}).Info("CRM sync complete")

	return SuccessResponse(c, map[string]any{
		"dataset_id": ds.ID,
		"table":      table.Name,
		"fetched":    len(raws),
		"stored":     stored,
	})
}
