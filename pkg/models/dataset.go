package models

import (
	"time"

	"github.com/Ramsey-B/fern/pkg/database"
)

// DatasetKind says which side of the match a dataset feeds.
type DatasetKind string

const (
	DatasetKindLead     DatasetKind = "lead"
	DatasetKindCustomer DatasetKind = "customer"
)

// Dataset is a named collection of ingested raw records for one tenant.
// Datasets are the inputs to a matching run; match results themselves are
// never stored.
type Dataset struct {
	ID          string      `db:"id" json:"id"`
	TenantID    string      `db:"tenant_id" json:"tenant_id"`
	Name        string      `db:"name" json:"name"`
	Kind        DatasetKind `db:"kind" json:"kind"`
	Source      string      `db:"source" json:"source"` // crm, pos, csv, kafka
	RecordCount int         `db:"record_count" json:"record_count"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time  `db:"deleted_at" json:"deleted_at,omitempty"`
}

// DatasetRecord is one raw lead or customer row. The payload column is
// schema-free jsonb; field aliasing happens at normalization time, not here.
type DatasetRecord struct {
	ID             string                    `db:"id" json:"id"`
	DatasetID      string                    `db:"dataset_id" json:"dataset_id"`
	TenantID       string                    `db:"tenant_id" json:"tenant_id"`
	SourceRecordID string                    `db:"source_record_id" json:"source_record_id"`
	Payload        database.JSONB[RawRecord] `db:"payload" json:"payload"`
	RecordDate     *time.Time                `db:"record_date" json:"record_date,omitempty"`
	CreatedAt      time.Time                 `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time                 `db:"updated_at" json:"updated_at"`
}

// CreateDatasetRequest is the API payload for registering a dataset.
type CreateDatasetRequest struct {
	Name   string      `json:"name" validate:"required,min=1,max=255"`
	Kind   DatasetKind `json:"kind" validate:"required,oneof=lead customer"`
	Source string      `json:"source" validate:"required,oneof=crm pos csv kafka"`
}

// AppendRecordsRequest adds raw records to an existing dataset.
type AppendRecordsRequest struct {
	Records []RawRecord `json:"records" validate:"required,min=1,dive,required"`
}

// MatchRequest is the direct call boundary: two raw record sequences in,
// one MatchingResult out.
type MatchRequest struct {
	Leads     []RawRecord `json:"leads" validate:"required"`
	Customers []RawRecord `json:"customers" validate:"required"`
}

// MatchDatasetsRequest runs the engine over two stored datasets.
type MatchDatasetsRequest struct {
	LeadDatasetID     string `json:"lead_dataset_id" validate:"required,uuid"`
	CustomerDatasetID string `json:"customer_dataset_id" validate:"required,uuid"`
}

// MatchResponse bundles the run outcome with its recomputed statistics.
type MatchResponse struct {
	RunID      string             `json:"run_id"`
	Result     MatchingResult     `json:"result"`
	Statistics MatchingStatistics `json:"statistics"`
}
