package servicerecordRepo

import (
	"carvault/database"
	"carvault/models"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// ServiceRecordRepository exposes the raw storage operations for service
// records and their items. The multi-step create/update orchestration (with
// compensating cleanup) lives in the records service, not here, so a
// transactional backend can replace this layer without touching callers.
type ServiceRecordRepository interface {
	InsertRecord(ctx context.Context, record models.ServiceRecord) error
	UpdateRecord(ctx context.Context, record models.ServiceRecord) error
	DeleteRecord(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.ServiceRecord, error)
	ListByVehicle(ctx context.Context, vehicleID string, from, to *time.Time) ([]models.ServiceRecord, error)

	InsertItems(ctx context.Context, items []models.ServiceItem) error
	DeleteItemsByRecord(ctx context.Context, recordID string) error
	ListItemsByRecord(ctx context.Context, recordID string) ([]models.ServiceItem, error)
}

type mongoServiceRecordRepo struct {
	records *mongo.Collection
	items   *mongo.Collection
}

// NewMongoServiceRecordRepo returns a new ServiceRecordRepository instance using MongoDB.
func NewMongoServiceRecordRepo() ServiceRecordRepository {
	db := database.Database()
	return &mongoServiceRecordRepo{
		records: db.Collection("service_records"),
		items:   db.Collection("service_items"),
	}
}
