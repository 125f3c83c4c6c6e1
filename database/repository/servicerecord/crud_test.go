package servicerecordRepo

import (
	"context"
	"testing"
	"time"

	"carvault/config"
	"carvault/database"
	"carvault/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupRepo connects to a local MongoDB and returns a repository over a test
// database. Tests skip when no MongoDB is reachable.
func setupRepo(t *testing.T) ServiceRecordRepository {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("MongoDB not reachable: %v, skipping integration test", err)
	}

	database.MongoClient = client
	config.AppConfig.DatabaseName = "carvault_test"

	t.Cleanup(func() {
		ctx := context.Background()
		_ = client.Database("carvault_test").Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return NewMongoServiceRecordRepo()
}

func testRecord(vehicleID string) models.ServiceRecord {
	return models.ServiceRecord{
		ID:          uuid.New().String(),
		VehicleID:   vehicleID,
		ServiceDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Now().Truncate(time.Millisecond),
		UpdatedAt:   time.Now().Truncate(time.Millisecond),
	}
}

func TestInsertAndGetRecord(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	record := testRecord("veh-int-1")
	record.ServiceProvider = "Integration Garage"
	require.NoError(t, repo.InsertRecord(ctx, record))

	got, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Integration Garage", got.ServiceProvider)
	assert.Equal(t, "veh-int-1", got.VehicleID)
}

func TestUpdateRecordUnknownID(t *testing.T) {
	repo := setupRepo(t)

	err := repo.UpdateRecord(context.Background(), testRecord("veh-int-1"))
	assert.Error(t, err)
}

func TestDeleteRecordCascadesToItems(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	record := testRecord("veh-int-2")
	require.NoError(t, repo.InsertRecord(ctx, record))
	require.NoError(t, repo.InsertItems(ctx, []models.ServiceItem{
		{ID: uuid.New().String(), ServiceRecordID: record.ID, ServiceType: "Oil Change", CreatedAt: time.Now()},
		{ID: uuid.New().String(), ServiceRecordID: record.ID, ServiceType: "Inspection", CreatedAt: time.Now()},
	}))

	require.NoError(t, repo.DeleteRecord(ctx, record.ID))

	_, err := repo.GetByID(ctx, record.ID)
	assert.Error(t, err)
	items, err := repo.ListItemsByRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListByVehicleDateWindowAndOrder(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		record := testRecord("veh-int-3")
		record.ServiceDate = d
		require.NoError(t, repo.InsertRecord(ctx, record))
	}

	all, err := repo.ListByVehicle(ctx, "veh-int-3", nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// newest first
	assert.True(t, all[0].ServiceDate.After(all[1].ServiceDate))
	assert.True(t, all[1].ServiceDate.After(all[2].ServiceDate))

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	window, err := repo.ListByVehicle(ctx, "veh-int-3", &from, &to)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "2024-03-10", window[0].ServiceDate.UTC().Format("2006-01-02"))
}
