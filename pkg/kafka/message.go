package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	RecordMessage *models.RecordMessage
}

// ParseRecordMessage parses the message value as a record ingestion event
func (m *IncomingMessage) ParseRecordMessage() error {
	var msg models.RecordMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return err
	}
	if msg.Type != models.RecordCreatedMessageType {
		return fmt.Errorf("unexpected message type %q", msg.Type)
	}
	m.RecordMessage = &msg
	return nil
}

// GetTenantID returns the tenant the record belongs to, falling back to the
// header for producers that only stamp it there.
func (m *IncomingMessage) GetTenantID() string {
	if m.RecordMessage != nil && m.RecordMessage.TenantID != "" {
		return m.RecordMessage.TenantID
	}
	return m.Headers["tenant_id"]
}

// GetDatasetID returns the target dataset for the record
func (m *IncomingMessage) GetDatasetID() string {
	if m.RecordMessage != nil {
		return m.RecordMessage.DatasetID
	}
	return ""
}

// GetSourceRecordID returns the upstream id used for dedup, defaulting to
// the Kafka key.
func (m *IncomingMessage) GetSourceRecordID() string {
	if m.RecordMessage != nil && m.RecordMessage.SourceRecordID != "" {
		return m.RecordMessage.SourceRecordID
	}
	return m.Key
}
