package dataset

import (
	"context"
	"os"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
)

func getTestLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func getTestDB(t *testing.T) database.DB {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres password=postgres dbname=fern_test sslmode=disable"
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return database.NewDatabaseInstance(db, getTestLogger())
}

func TestDatasetLifecycle(t *testing.T) {
	repo := NewRepository(getTestDB(t), getTestLogger())
	ctx := context.Background()
	tenantID := "test-tenant-lifecycle"

	created, err := repo.Create(ctx, tenantID, models.CreateDatasetRequest{
		Name:   "July Leads",
		Kind:   models.DatasetKindLead,
		Source: "csv",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	defer repo.Delete(ctx, tenantID, created.ID)

	fetched, err := repo.Get(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "July Leads", fetched.Name)
	assert.Equal(t, models.DatasetKindLead, fetched.Kind)
	assert.Equal(t, 0, fetched.RecordCount)

	// Kind filter only returns lead datasets
	kind := models.DatasetKindLead
	datasets, err := repo.List(ctx, tenantID, &kind)
	require.NoError(t, err)
	require.Len(t, datasets, 1)
	assert.Equal(t, created.ID, datasets[0].ID)

	other := models.DatasetKindCustomer
	datasets, err = repo.List(ctx, tenantID, &other)
	require.NoError(t, err)
	assert.Empty(t, datasets)

	require.NoError(t, repo.Delete(ctx, tenantID, created.ID))

	_, err = repo.Get(ctx, tenantID, created.ID)
	assert.Error(t, err)
}

func TestDatasetTenantIsolation(t *testing.T) {
	repo := NewRepository(getTestDB(t), getTestLogger())
	ctx := context.Background()

	created, err := repo.Create(ctx, "tenant-a", models.CreateDatasetRequest{
		Name:   "Tenant A Leads",
		Kind:   models.DatasetKindLead,
		Source: "crm",
	})
	require.NoError(t, err)
	defer repo.Delete(ctx, "tenant-a", created.ID)

	// Another tenant cannot see or delete it
	_, err = repo.Get(ctx, "tenant-b", created.ID)
	assert.Error(t, err)
	assert.Error(t, repo.Delete(ctx, "tenant-b", created.ID))
}

func TestDatasetDeleteNotFound(t *testing.T) {
	repo := NewRepository(getTestDB(t), getTestLogger())

	err := repo.Delete(context.Background(), "test-tenant", "00000000-0000-0000-0000-000000000000")
	assert.Error(t, err)
}
