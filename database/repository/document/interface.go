package documentRepo

import (
	"carvault/database"
	"carvault/models"
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc models.UploadedDocument) (string, error)
	GetByID(ctx context.Context, id string) (*models.UploadedDocument, error)
	GetByVehicleID(ctx context.Context, vehicleID string) ([]models.UploadedDocument, error)
	SetAnalysisResult(ctx context.Context, id string, result map[string]any) error
	AttachServiceRecord(ctx context.Context, id string, recordID string) error
}

type mongoDocumentRepo struct {
	coll *mongo.Collection
}

// NewMongoDocumentRepo returns a new DocumentRepository instance using MongoDB.
func NewMongoDocumentRepo() DocumentRepository {
	return &mongoDocumentRepo{
		coll: database.Database().Collection("uploaded_documents"),
	}
}
