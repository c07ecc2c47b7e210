package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/httpclient"
)

func getTestLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newTestClient(baseURL string, maxRecords int) *Client {
	logger := getTestLogger()
	return NewClient(
		httpclient.NewClient(httpclient.DefaultConfig(), logger),
		nil, // no cache in unit tests
		Config{BaseURL: baseURL, APIKey: "test-key", BaseID: "base1", MaxRecords: maxRecords},
		logger,
	)
}

func TestFetchRecordsPagination(t *testing.T) {
	var authHeaders []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))

		page := map[string]any{
			"records": []map[string]any{
				{"id": "rec1", "fields": map[string]any{"Name": "John Smith"}},
				{"id": "rec2", "fields": map[string]any{"Name": "Jane Doe"}},
			},
			"offset": "cursor1",
		}
		if r.URL.Query().Get("offset") == "cursor1" {
			page = map[string]any{
				"records": []map[string]any{
					{"id": "rec2", "fields": map[string]any{"Name": "Jane Doe"}}, // duplicate
					{"id": "rec3", "fields": map[string]any{"Name": "Bob White"}},
				},
			}
		}
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 100)
	records, err := client.FetchRecords(context.Background(), TableSpec{Name: "Leads"}, "", 0)
	require.NoError(t, err)

	// rec2 appears on both pages but is deduplicated
	require.Len(t, records, 3)
	assert.Equal(t, "rec1", records[0]["_record_id"])
	assert.Equal(t, "John Smith", records[0]["Name"])
	assert.Equal(t, "rec3", records[2]["_record_id"])

	for _, header := range authHeaders {
		assert.Equal(t, "Bearer test-key", header)
	}
}

func TestFetchRecordsMaxRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"records": []map[string]any{
				{"id": "rec1", "fields": map[string]any{}},
				{"id": "rec2", "fields": map[string]any{}},
				{"id": "rec3", "fields": map[string]any{}},
			},
			"offset": "more",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 100)
	records, err := client.FetchRecords(context.Background(), TableSpec{Name: "Leads"}, "", 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestFetchRecordsQueryParams(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(map[string]any{"records": []map[string]any{}})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 100)
	_, err := client.FetchRecords(context.Background(),
		TableSpec{Name: "Leads", DateField: "Date Created", SortDesc: true},
		`{Status}="new"`, 0)
	require.NoError(t, err)

	assert.Contains(t, query, "filterByFormula=")
	assert.Contains(t, query, "sort%5B0%5D%5Bfield%5D=Date+Created")
	assert.Contains(t, query, "sort%5B0%5D%5Bdirection%5D=desc")
}

func TestFetchRecordsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 100)
	_, err := client.FetchRecords(context.Background(), TableSpec{Name: "Leads"}, "", 0)
	assert.Error(t, err)
}
