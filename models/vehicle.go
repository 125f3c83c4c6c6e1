package models

import "time"

// Vehicle represents one registered vehicle owned by a user.
type Vehicle struct {
	ID             string    `bson:"id" json:"id"`
	UserID         string    `bson:"userId" json:"userId"`
	Make           string    `bson:"make" json:"make"`
	Model          string    `bson:"model" json:"model"`
	Year           int       `bson:"year" json:"year"`
	VIN            string    `bson:"vin,omitempty" json:"vin,omitempty"`
	LicensePlate   string    `bson:"licensePlate,omitempty" json:"licensePlate,omitempty"`
	Nickname       string    `bson:"nickname,omitempty" json:"nickname,omitempty"`
	CurrentMileage int       `bson:"currentMileage,omitempty" json:"currentMileage,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
