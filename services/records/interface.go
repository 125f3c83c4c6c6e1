package records

import (
	"carvault/models"
	"context"
	"time"
)

// RecordService owns the multi-step persistence of a service record together
// with its items. No storage transaction is assumed available; Create performs
// manual compensating cleanup instead.
type RecordService interface {
	Create(ctx context.Context, record models.ServiceRecord, items []models.ServiceItem) (*models.ServiceRecord, []models.ServiceItem, error)
	Update(ctx context.Context, recordID string, record models.ServiceRecord, items []models.ServiceItem) (*models.ServiceRecord, []models.ServiceItem, error)
	Delete(ctx context.Context, recordID string) error
	Get(ctx context.Context, recordID string) (*models.ServiceRecord, []models.ServiceItem, error)
	ListByVehicle(ctx context.Context, vehicleID string, from, to *time.Time) ([]models.ServiceRecord, error)
}

// ReminderScheduler schedules a service-due reminder to fire at a given time.
// The records service treats scheduling as best effort.
type ReminderScheduler interface {
	ScheduleServiceReminder(ctx context.Context, payload models.ReminderPayload, at time.Time) error
}
