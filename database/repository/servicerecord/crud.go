package servicerecordRepo

import (
	"carvault/models"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertRecord inserts a new service record document.
func (r *mongoServiceRecordRepo) InsertRecord(ctx context.Context, record models.ServiceRecord) error {
	_, err := r.records.InsertOne(ctx, record)
	return err
}

// UpdateRecord replaces the mutable fields of a service record in place.
func (r *mongoServiceRecordRepo) UpdateRecord(ctx context.Context, record models.ServiceRecord) error {
	update := bson.M{"$set": bson.M{
		"serviceDate":     record.ServiceDate,
		"serviceProvider": record.ServiceProvider,
		"mileage":         record.Mileage,
		"totalCost":       record.TotalCost,
		"notes":           record.Notes,
		"updatedAt":       record.UpdatedAt,
	}}
	res, err := r.records.UpdateOne(ctx, bson.M{"id": record.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("service record not found")
	}
	return nil
}

// DeleteRecord removes a service record and its items. Item removal stands in
// for the cascading delete a relational backend would maintain itself.
func (r *mongoServiceRecordRepo) DeleteRecord(ctx context.Context, id string) error {
	res, err := r.records.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("service record not found")
	}
	_, err = r.items.DeleteMany(ctx, bson.M{"serviceRecordId": id})
	return err
}

// GetByID returns a service record by its ID.
func (r *mongoServiceRecordRepo) GetByID(ctx context.Context, id string) (*models.ServiceRecord, error) {
	var record models.ServiceRecord
	err := r.records.FindOne(ctx, bson.M{"id": id}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByVehicle fetches all service records for a vehicle, newest first,
// optionally bounded by a service-date window.
func (r *mongoServiceRecordRepo) ListByVehicle(ctx context.Context, vehicleID string, from, to *time.Time) ([]models.ServiceRecord, error) {
	filter := bson.M{"vehicleId": vehicleID}
	dateFilter := bson.M{}
	if from != nil {
		dateFilter["$gte"] = *from
	}
	if to != nil {
		dateFilter["$lte"] = *to
	}
	if len(dateFilter) > 0 {
		filter["serviceDate"] = dateFilter
	}

	opts := options.Find().SetSort(bson.D{{Key: "serviceDate", Value: -1}})
	cursor, err := r.records.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.ServiceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// InsertItems inserts a batch of service items.
func (r *mongoServiceRecordRepo) InsertItems(ctx context.Context, items []models.ServiceItem) error {
	if len(items) == 0 {
		return nil
	}
	docs := make([]interface{}, len(items))
	for i, item := range items {
		docs[i] = item
	}
	_, err := r.items.InsertMany(ctx, docs)
	return err
}

// DeleteItemsByRecord removes every item belonging to a service record.
func (r *mongoServiceRecordRepo) DeleteItemsByRecord(ctx context.Context, recordID string) error {
	_, err := r.items.DeleteMany(ctx, bson.M{"serviceRecordId": recordID})
	return err
}

// ListItemsByRecord fetches the items of a service record in insertion order.
func (r *mongoServiceRecordRepo) ListItemsByRecord(ctx context.Context, recordID string) ([]models.ServiceItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.items.Find(ctx, bson.M{"serviceRecordId": recordID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.ServiceItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
