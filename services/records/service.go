package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carvault/models"

	servicerecordRepo "carvault/database/repository/servicerecord"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultRecordService is the production RecordService implementation.
type DefaultRecordService struct {
	Repo      servicerecordRepo.ServiceRecordRepository
	Reminders ReminderScheduler // optional
	Logger    *zap.Logger
}

func (s *DefaultRecordService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.L()
	}
	return s.Logger
}

// validate enforces the required-field checks shared by Create and Update.
// A violation issues no storage calls.
func validate(record models.ServiceRecord, items []models.ServiceItem) error {
	if strings.TrimSpace(record.VehicleID) == "" {
		return fmt.Errorf("%w: vehicle id is required", ErrValidation)
	}
	if record.ServiceDate.IsZero() {
		return fmt.Errorf("%w: service date is required", ErrValidation)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: at least one service item is required", ErrValidation)
	}
	hasType := false
	for _, item := range items {
		if strings.TrimSpace(item.ServiceType) != "" {
			hasType = true
			break
		}
	}
	if !hasType {
		return fmt.Errorf("%w: at least one item must have a service type", ErrValidation)
	}
	return nil
}

// Create inserts the record, then its items. If item insertion fails, the
// just-created record is deleted again (best effort) so no parent is left
// without items; the compensating delete's own failure is logged, never
// returned in place of the original error.
func (s *DefaultRecordService) Create(ctx context.Context, record models.ServiceRecord, items []models.ServiceItem) (*models.ServiceRecord, []models.ServiceItem, error) {
	if err := validate(record, items); err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = now
	record.UpdatedAt = now
	items = prepareItems(record.ID, items, now)

	if err := s.Repo.InsertRecord(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("insert service record: %w", err)
	}

	if err := s.Repo.InsertItems(ctx, items); err != nil {
		if delErr := s.Repo.DeleteRecord(ctx, record.ID); delErr != nil {
			s.logger().Error("compensating delete of service record failed",
				zap.String("recordId", record.ID), zap.Error(delErr))
		}
		return nil, nil, fmt.Errorf("insert service items: %w", err)
	}

	s.scheduleReminders(ctx, record, items)
	return &record, items, nil
}

// Update replaces the record's fields in place, then deletes all existing
// items and inserts the full new set. There is no diffing and no rollback of
// the record update if the item replacement fails afterwards.
func (s *DefaultRecordService) Update(ctx context.Context, recordID string, record models.ServiceRecord, items []models.ServiceItem) (*models.ServiceRecord, []models.ServiceItem, error) {
	record.ID = recordID
	if err := validate(record, items); err != nil {
		return nil, nil, err
	}

	existing, err := s.Repo.GetByID(ctx, recordID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, recordID)
	}

	now := time.Now()
	record.VehicleID = existing.VehicleID
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = now

	if err := s.Repo.UpdateRecord(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("update service record: %w", err)
	}

	if err := s.Repo.DeleteItemsByRecord(ctx, recordID); err != nil {
		return nil, nil, fmt.Errorf("replace service items: %w", err)
	}
	items = prepareItems(recordID, items, now)
	if err := s.Repo.InsertItems(ctx, items); err != nil {
		return nil, nil, fmt.Errorf("replace service items: %w", err)
	}

	s.scheduleReminders(ctx, record, items)
	return &record, items, nil
}

// Delete removes the record; its items go with it.
func (s *DefaultRecordService) Delete(ctx context.Context, recordID string) error {
	if err := s.Repo.DeleteRecord(ctx, recordID); err != nil {
		return fmt.Errorf("delete service record: %w", err)
	}
	return nil
}

// Get loads a record together with its items.
func (s *DefaultRecordService) Get(ctx context.Context, recordID string) (*models.ServiceRecord, []models.ServiceItem, error) {
	record, err := s.Repo.GetByID(ctx, recordID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, recordID)
	}
	items, err := s.Repo.ListItemsByRecord(ctx, recordID)
	if err != nil {
		return nil, nil, fmt.Errorf("list service items: %w", err)
	}
	return record, items, nil
}

// ListByVehicle lists a vehicle's service records within an optional date window.
func (s *DefaultRecordService) ListByVehicle(ctx context.Context, vehicleID string, from, to *time.Time) ([]models.ServiceRecord, error) {
	return s.Repo.ListByVehicle(ctx, vehicleID, from, to)
}

// prepareItems assigns IDs, the owning record ID, and defaults to a fresh item set.
func prepareItems(recordID string, items []models.ServiceItem, now time.Time) []models.ServiceItem {
	prepared := make([]models.ServiceItem, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.ServiceRecordID = recordID
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		item.CreatedAt = now
		prepared[i] = item
	}
	return prepared
}

// scheduleReminders enqueues a service-due reminder for every item carrying a
// next-service date. Scheduling failures never fail the save.
func (s *DefaultRecordService) scheduleReminders(ctx context.Context, record models.ServiceRecord, items []models.ServiceItem) {
	if s.Reminders == nil {
		return
	}
	for _, item := range items {
		if item.NextServiceDate == nil {
			continue
		}
		payload := models.ReminderPayload{
			VehicleID:       record.VehicleID,
			ServiceRecordID: record.ID,
			ServiceType:     item.ServiceType,
			DueDate:         item.NextServiceDate.Format("2006-01-02"),
			Title:           "Service due",
			Body:            fmt.Sprintf("%s is due on %s", item.ServiceType, item.NextServiceDate.Format("Jan 2, 2006")),
		}
		if err := s.Reminders.ScheduleServiceReminder(ctx, payload, *item.NextServiceDate); err != nil {
			s.logger().Warn("failed to schedule service reminder",
				zap.String("recordId", record.ID), zap.Error(err))
		}
	}
}
