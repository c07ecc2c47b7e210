package models

import "time"

// RecordMessage is the Kafka envelope for streamed record ingestion. One
// message carries one raw lead or customer destined for a dataset.
type RecordMessage struct {
	Type           string      `json:"type"` // "record.created"
	TenantID       string      `json:"tenant_id" validate:"required"`
	DatasetID      string      `json:"dataset_id" validate:"required,uuid"`
	SourceRecordID string      `json:"source_record_id"`
	Record         RawRecord   `json:"record" validate:"required"`
	RecordDate     *time.Time  `json:"record_date,omitempty"`
	Kind           DatasetKind `json:"kind" validate:"required,oneof=lead customer"`
	Timestamp      time.Time   `json:"timestamp"`
}

const RecordCreatedMessageType = "record.created"
