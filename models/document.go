package models

import "time"

// UploadedDocument represents one uploaded receipt or invoice file.
// ServiceRecordID is set exactly once, after the record derived from this
// document's analysis has been saved. Documents are never deleted here.
type UploadedDocument struct {
	ID              string         `bson:"id" json:"id"`
	VehicleID       string         `bson:"vehicleId" json:"vehicleId"`
	FileName        string         `bson:"fileName" json:"fileName"`
	FileType        string         `bson:"fileType,omitempty" json:"fileType,omitempty"`
	FileSize        int64          `bson:"fileSize,omitempty" json:"fileSize,omitempty"`
	StorageID       string         `bson:"storageId" json:"storageId"`
	URL             string         `bson:"url,omitempty" json:"url,omitempty"`
	AnalysisResult  map[string]any `bson:"analysisResult,omitempty" json:"analysisResult,omitempty"`
	ServiceRecordID string         `bson:"serviceRecordId,omitempty" json:"serviceRecordId,omitempty"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt" json:"updatedAt"`
}
