package models

// ReminderPayload is the task payload for a scheduled service-due reminder.
type ReminderPayload struct {
	VehicleID       string `json:"vehicleId"`
	ServiceRecordID string `json:"serviceRecordId"`
	ServiceType     string `json:"serviceType"`
	DueDate         string `json:"dueDate"` // YYYY-MM-DD
	Title           string `json:"title"`
	Body            string `json:"body"`
}
