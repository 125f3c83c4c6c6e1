package models

import "time"

// ServiceRecord represents one maintenance/service visit for a vehicle.
// A record always owns at least one ServiceItem.
type ServiceRecord struct {
	ID              string    `bson:"id" json:"id"`
	VehicleID       string    `bson:"vehicleId" json:"vehicleId"`
	ServiceDate     time.Time `bson:"serviceDate" json:"serviceDate"`
	ServiceProvider string    `bson:"serviceProvider,omitempty" json:"serviceProvider,omitempty"`
	Mileage         *int      `bson:"mileage,omitempty" json:"mileage,omitempty"`
	TotalCost       *float64  `bson:"totalCost,omitempty" json:"totalCost,omitempty"`
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ServiceItem is one discrete service action within a visit (e.g. "Oil Change").
type ServiceItem struct {
	ID                 string     `bson:"id" json:"id"`
	ServiceRecordID    string     `bson:"serviceRecordId" json:"serviceRecordId"`
	ServiceType        string     `bson:"serviceType" json:"serviceType"`
	Description        string     `bson:"description,omitempty" json:"description,omitempty"`
	Cost               *float64   `bson:"cost,omitempty" json:"cost,omitempty"`
	Quantity           int        `bson:"quantity" json:"quantity"`
	PartsReplaced      []string   `bson:"partsReplaced,omitempty" json:"partsReplaced,omitempty"`
	NextServiceDate    *time.Time `bson:"nextServiceDate,omitempty" json:"nextServiceDate,omitempty"`
	NextServiceMileage *int       `bson:"nextServiceMileage,omitempty" json:"nextServiceMileage,omitempty"`
	CreatedAt          time.Time  `bson:"createdAt" json:"createdAt"`
}
