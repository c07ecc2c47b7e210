// Package crm pulls raw lead and customer records from the upstream
// Airtable-style CRM API: paginated fetch with an offset cursor, a hard page
// cap, per-record dedup, and a TTL cache in front of the whole thing.
package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/cache"
	"github.com/Ramsey-B/fern/pkg/httpclient"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const (
	defaultPageSize = 100

	// maxPages bounds the offset loop so a misbehaving upstream cursor can
	// never fetch forever.
	maxPages = 50

	// recordIDField is where the upstream record id lands in the flattened
	// payload.
	recordIDField = "_record_id"
)

// Config holds upstream CRM connection settings.
type Config struct {
	BaseURL    string
	APIKey     string
	BaseID     string
	MaxRecords int
}

// TableSpec describes one upstream table worth of records.
type TableSpec struct {
	Name      string
	DateField string
	SortDesc  bool
}

// Client fetches and flattens CRM records.
type Client struct {
	http   *httpclient.Client
	cache  *cache.Cache
	config Config
	logger ectologger.Logger
}

func NewClient(http *httpclient.Client, responseCache *cache.Cache, config Config, logger ectologger.Logger) *Client {
	return &Client{
		http:   http,
		cache:  responseCache,
		config: config,
		logger: logger,
	}
}

type listResponse struct {
	Records []struct {
		ID          string           `json:"id"`
		Fields      models.RawRecord `json:"fields"`
		CreatedTime time.Time        `json:"createdTime"`
	} `json:"records"`
	Offset string `json:"offset"`
}

// FetchRecords pulls every record from a table, walking the offset cursor
// page by page. Records are flattened to their fields plus the upstream id,
// deduplicated by id, and the whole result is cached.
func (c *Client) FetchRecords(ctx context.Context, table TableSpec, filterFormula string, maxRecords int) ([]models.RawRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "crm.Client.FetchRecords")
	defer span.End()

	if maxRecords <= 0 || maxRecords > c.config.MaxRecords {
		maxRecords = c.config.MaxRecords
	}

	cacheKey := cache.Key(c.config.BaseID, table.Name, filterFormula, strconv.Itoa(maxRecords))
	if c.cache != nil {
		if payload, ok := c.cache.Get(ctx, cacheKey); ok {
			metrics.RecordCacheLookup(true)
			var records []models.RawRecord
			if err := json.Unmarshal(payload, &records); err == nil {
				return records, nil
			}
			// fall through to a fresh fetch on a corrupt entry
		}
		metrics.RecordCacheLookup(false)
	}

	log := c.logger.WithContext(ctx).WithFields(map[string]any{
		"table":       table.Name,
		"max_records": maxRecords,
	})

	start := time.Now()
	seen := make(map[string]bool)
	var records []models.RawRecord
	offset := ""

	for page := 0; page < maxPages; page++ {
		resp, err := c.fetchPage(ctx, table, filterFormula, offset)
		if err != nil {
			return nil, err
		}

		for _, rec := range resp.Records {
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true

			flat := make(models.RawRecord, len(rec.Fields)+1)
			for k, v := range rec.Fields {
				flat[k] = v
			}
			flat[recordIDField] = rec.ID
			records = append(records, flat)

			if len(records) >= maxRecords {
				break
			}
		}

		if len(records) >= maxRecords || resp.Offset == "" {
			break
		}
		offset = resp.Offset
	}

	metrics.RecordCRMFetch(table.Name, time.Since(start))
	log.WithFields(map[string]any{"records": len(records)}).Info("Fetched CRM records")

	if c.cache != nil {
		if payload, err := json.Marshal(records); err == nil {
			if err := c.cache.Set(ctx, cacheKey, payload, filterFormula != ""); err != nil {
				log.WithError(err).Debug("Failed to cache CRM records")
			}
		}
	}

	return records, nil
}

func (c *Client) fetchPage(ctx context.Context, table TableSpec, filterFormula, offset string) (*listResponse, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.config.BaseURL, c.config.BaseID, url.PathEscape(table.Name))

	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(defaultPageSize))
	if filterFormula != "" {
		params.Set("filterByFormula", filterFormula)
	}
	if table.DateField != "" {
		params.Set("sort[0][field]", table.DateField)
		direction := "asc"
		if table.SortDesc {
			direction = "desc"
		}
		params.Set("sort[0][direction]", direction)
	}
	if offset != "" {
		params.Set("offset", offset)
	}

	resp, err := c.http.Get(ctx, endpoint+"?"+params.Encode(), map[string]string{
		"Authorization": "Bearer " + c.config.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("crm fetch failed for table %s: %w", table.Name, err)
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("crm fetch for table %s returned status %d", table.Name, resp.StatusCode)
	}

	var parsed listResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, fmt.Errorf("crm response for table %s is not valid JSON: %w", table.Name, err)
	}
	return &parsed, nil
}
