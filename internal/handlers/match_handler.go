package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/dataset"
	"github.com/Ramsey-B/fern/internal/repositories/record"
	appctx "github.com/Ramsey-B/fern/pkg/context"
	"github.com/Ramsey-B/fern/pkg/matching"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
)

// MatchHandler exposes the matching engine over HTTP: directly on records
// in the request body, or over two stored datasets.
type MatchHandler struct {
	engine      *matching.Engine
	datasetRepo *dataset.Repository
	recordRepo  *record.Repository
	validate    *validator.Validate
	logger      ectologger.Logger
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(
	engine *matching.Engine,
	datasetRepo *dataset.Repository,
	recordRepo *record.Repository,
	logger ectologger.Logger,
) *MatchHandler {
	return &MatchHandler{
		engine:      engine,
		datasetRepo: datasetRepo,
		recordRepo:  recordRepo,
		validate:    validator.New(),
		logger:      logger,
	}
}

// RegisterRoutes registers matching routes
func (h *MatchHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/match", h.Match)
	g.POST("/datasets/match", h.MatchDatasets)
}

// Match runs the engine over raw records supplied in the request body
func (h *MatchHandler) Match(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := GetTenantID(c)
	if err != nil {
		return err
	}

	var req models.MatchRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}

	runID := uuid.New().String()
	ctx = appctx.SetRunID(ctx, runID)

	start := time.Now()
	result, err := h.engine.Match(ctx, req.Leads, req.Customers)
	if err != nil {
		metrics.RecordMatchRun(tenantID, "failed", time.Since(start))
		if errors.Is(err, matching.ErrInvalidInput) {
			return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "matching run failed")
	}

	stats := matching.Summarize(result)
	h.recordRunMetrics(tenantID, stats, time.Since(start))

	return SuccessResponse(c, models.MatchResponse{
		RunID:      runID,
		Result:     result,
		Statistics: stats,
	})
}

// MatchDatasets runs the engine over two stored datasets
func (h *MatchHandler) MatchDatasets(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := GetTenantID(c)
	if err != nil {
		return err
	}

	var req models.MatchDatasetsRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	leadDS, err := h.datasetRepo.Get(ctx, tenantID, req.LeadDatasetID)
	if err != nil {
		return err
	}
	if leadDS.Kind != models.DatasetKindLead {
		return BadRequest("lead_dataset_id does not reference a lead dataset")
	}

	customerDS, err := h.datasetRepo.Get(ctx, tenantID, req.CustomerDatasetID)
	if err != nil {
		return err
	}
	if customerDS.Kind != models.DatasetKindCustomer {
		return BadRequest("customer_dataset_id does not reference a customer dataset")
	}

	leadRecords, err := h.recordRepo.ListByDataset(ctx, tenantID, leadDS.ID)
	if err != nil {
		return err
	}
	customerRecords, err := h.recordRepo.ListByDataset(ctx, tenantID, customerDS.ID)
	if err != nil {
		return err
	}

	leads := make([]models.RawRecord, len(leadRecords))
	for i, rec := range leadRecords {
		leads[i] = rec.Payload.GetValue()
	}
	customers := make([]models.RawRecord, len(customerRecords))
	for i, rec := range customerRecords {
		customers[i] = rec.Payload.GetValue()
	}

	runID := uuid.New().String()
	ctx = appctx.SetRunID(ctx, runID)

	start := time.Now()
	result, err := h.engine.Match(ctx, leads, customers)
	if err != nil {
		metrics.RecordMatchRun(tenantID, "failed", time.Since(start))
		return httperror.NewHTTPError(http.StatusInternalServerError, "matching run failed")
	}

	stats := matching.Summarize(result)
	h.recordRunMetrics(tenantID, stats, time.Since(start))

	h.logger.WithContext(ctx).WithFields(map[string]any{
		"run_id":           runID,
		"lead_dataset":     leadDS.ID,
		"customer_dataset": customerDS.ID,
		"matched":          stats.TotalMatched,
	}).Info("Dataset matching run complete")

	return SuccessResponse(c, models.MatchResponse{
		RunID:      runID,
		Result:     result,
		Statistics: stats,
	})
}

func (h *MatchHandler) recordRunMetrics(tenantID string, stats models.MatchingStatistics, duration time.Duration) {
	metrics.RecordMatchRun(tenantID, "success", duration)
	byType := make(map[string]int, len(stats.ByType))
	for matchType, count := range stats.ByType {
		byType[string(matchType)] = count
	}
	metrics.RecordMatches(tenantID, byType)
	metrics.RecordUnmatched(tenantID, stats.UnmatchedLeads, stats.UnmatchedCustomers)
}
