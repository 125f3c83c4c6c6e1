package documentRepo

import (
	"carvault/models"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new uploaded document and returns its ID.
func (r *mongoDocumentRepo) Create(ctx context.Context, doc models.UploadedDocument) (string, error) {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

// GetByID returns an uploaded document by its ID.
func (r *mongoDocumentRepo) GetByID(ctx context.Context, id string) (*models.UploadedDocument, error) {
	var doc models.UploadedDocument
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetByVehicleID fetches all documents uploaded for a specific vehicle.
func (r *mongoDocumentRepo) GetByVehicleID(ctx context.Context, vehicleID string) ([]models.UploadedDocument, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"vehicleId": vehicleID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.UploadedDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// SetAnalysisResult stores the raw analysis payload on the document.
func (r *mongoDocumentRepo) SetAnalysisResult(ctx context.Context, id string, result map[string]any) error {
	update := bson.M{"$set": bson.M{
		"analysisResult": result,
		"updatedAt":      time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("document not found")
	}
	return nil
}

// AttachServiceRecord links the document to the service record created from it.
// This is the single post-save mutation a document ever receives.
func (r *mongoDocumentRepo) AttachServiceRecord(ctx context.Context, id string, recordID string) error {
	update := bson.M{"$set": bson.M{
		"serviceRecordId": recordID,
		"updatedAt":       time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("document not found")
	}
	return nil
}
