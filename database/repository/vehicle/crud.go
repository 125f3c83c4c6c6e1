package vehicleRepo

import (
	"carvault/models"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new vehicle and returns its ID.
func (r *mongoVehicleRepo) Create(ctx context.Context, vehicle models.Vehicle) (string, error) {
	if vehicle.ID == "" {
		vehicle.ID = uuid.New().String()
	}
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, vehicle)
	if err != nil {
		return "", err
	}
	return vehicle.ID, nil
}

// GetByID returns a vehicle by its ID.
func (r *mongoVehicleRepo) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&vehicle)
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// GetByUserID fetches all vehicles registered by a specific user.
func (r *mongoVehicleRepo) GetByUserID(ctx context.Context, userID string) ([]models.Vehicle, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var vehicles []models.Vehicle
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Update replaces the mutable fields of a vehicle.
func (r *mongoVehicleRepo) Update(ctx context.Context, id string, vehicle models.Vehicle) error {
	vehicle.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"make":           vehicle.Make,
		"model":          vehicle.Model,
		"year":           vehicle.Year,
		"vin":            vehicle.VIN,
		"licensePlate":   vehicle.LicensePlate,
		"nickname":       vehicle.Nickname,
		"currentMileage": vehicle.CurrentMileage,
		"updatedAt":      vehicle.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("vehicle not found")
	}
	return nil
}

// DeleteByID removes a vehicle by ID.
func (r *mongoVehicleRepo) DeleteByID(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("vehicle not found")
	}
	return nil
}
