package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecordMessage(t *testing.T) {
	msg := &IncomingMessage{
		Value: []byte(`{
			"type": "record.created",
			"tenant_id": "tenant-1",
			"dataset_id": "9b9ad5a3-40b1-4f54-90f0-3a2b8e0c3a11",
			"source_record_id": "rec123",
			"kind": "lead",
			"record": {"email": "a@b.com"}
		}`),
	}

	require.NoError(t, msg.ParseRecordMessage())
	assert.Equal(t, "tenant-1", msg.GetTenantID())
	assert.Equal(t, "9b9ad5a3-40b1-4f54-90f0-3a2b8e0c3a11", msg.GetDatasetID())
	assert.Equal(t, "rec123", msg.GetSourceRecordID())
	assert.Equal(t, "a@b.com", msg.RecordMessage.Record["email"])
}

func TestParseRecordMessageInvalidJSON(t *testing.T) {
	msg := &IncomingMessage{Value: []byte(`not json`)}
	assert.Error(t, msg.ParseRecordMessage())
}

func TestParseRecordMessageWrongType(t *testing.T) {
	msg := &IncomingMessage{Value: []byte(`{"type": "record.deleted"}`)}
	assert.Error(t, msg.ParseRecordMessage())
}

func TestMessageFallbacks(t *testing.T) {
	// Tenant falls back to the header, source record id to the Kafka key
	msg := &IncomingMessage{
		Key:     "key-1",
		Headers: map[string]string{"tenant_id": "tenant-2"},
		Value: []byte(`{
			"type": "record.created",
			"dataset_id": "9b9ad5a3-40b1-4f54-90f0-3a2b8e0c3a11",
			"kind": "customer",
			"record": {}
		}`),
	}

	require.NoError(t, msg.ParseRecordMessage())
	assert.Equal(t, "tenant-2", msg.GetTenantID())
	assert.Equal(t, "key-1", msg.GetSourceRecordID())
}
