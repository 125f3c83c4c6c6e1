package models

import "time"

// ServiceRecordDraft is an unpersisted candidate service record produced by
// document analysis. VehicleID is left empty by the normalizer; the caller
// binds it to the active vehicle before saving.
type ServiceRecordDraft struct {
	VehicleID       string    `json:"vehicleId"`
	ServiceDate     time.Time `json:"serviceDate"`
	ServiceProvider string    `json:"serviceProvider"`
	Mileage         *int      `json:"mileage,omitempty"`
	TotalCost       *float64  `json:"totalCost,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// ServiceItemDraft is an unpersisted candidate service item.
type ServiceItemDraft struct {
	ServiceType        string     `json:"serviceType"`
	Description        string     `json:"description,omitempty"`
	Cost               *float64   `json:"cost,omitempty"`
	Quantity           int        `json:"quantity"`
	PartsReplaced      []string   `json:"partsReplaced,omitempty"`
	NextServiceDate    *time.Time `json:"nextServiceDate,omitempty"`
	NextServiceMileage *int       `json:"nextServiceMileage,omitempty"`
}

// ExtractionResult is the normalized output of one document analysis, held in
// memory only until the user confirms or discards it.
type ExtractionResult struct {
	Record ServiceRecordDraft `json:"record"`
	Items  []ServiceItemDraft `json:"items"`
}
