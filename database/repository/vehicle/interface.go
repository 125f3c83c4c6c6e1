package vehicleRepo

import (
	"carvault/database"
	"carvault/models"
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle models.Vehicle) (string, error)
	GetByID(ctx context.Context, id string) (*models.Vehicle, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Vehicle, error)
	Update(ctx context.Context, id string, vehicle models.Vehicle) error
	DeleteByID(ctx context.Context, id string) error
}

type mongoVehicleRepo struct {
	coll *mongo.Collection
}

// NewMongoVehicleRepo returns a new VehicleRepository instance using MongoDB.
func NewMongoVehicleRepo() VehicleRepository {
	return &mongoVehicleRepo{
		coll: database.Database().Collection("vehicles"),
	}
}
