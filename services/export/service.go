package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	servicerecordRepo "carvault/database/repository/servicerecord"
	"carvault/utils"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Service produces XLSX bytes for a vehicle's service history.
type Service struct {
	records servicerecordRepo.ServiceRecordRepository
	logger  *zap.Logger
}

func NewService(records servicerecordRepo.ServiceRecordRepository) *Service {
	return &Service{records: records, logger: utils.GetLogger()}
}

// ExportHistoryXLSX returns an XLSX workbook (as bytes) for the given vehicle
// and date window. One row per service item, with record-level columns
// repeated. If only from is provided the window runs from..today; if only to,
// beginning..to; if neither, the full history.
func (s *Service) ExportHistoryXLSX(ctx context.Context, vehicleID string, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	var fromDate, toDate *time.Time
	if from != nil {
		f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		fromDate = &f
	}
	if to != nil {
		t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
		toDate = &t
	}
	if fromDate != nil && toDate == nil {
		today := time.Now().UTC()
		t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		toDate = &t
	}

	recs, err := s.records.ListByVehicle(ctx, vehicleID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("query service records: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Service History"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	// the workbook ships only the history sheet, not the default empty tab
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsx sheet setup: %w", err)
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Service Date",
		"Provider",
		"Mileage",
		"Service Type",
		"Description",
		"Item Cost",
		"Parts Replaced",
		"Next Service Due",
		"Record Total",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	itemCount := 0
	for _, r := range recs {
		items, err := s.records.ListItemsByRecord(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("query service items: %w", err)
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		recordTotal := ""
		if r.TotalCost != nil {
			recordTotal = fmt.Sprintf("%.2f", *r.TotalCost)
		}
		mileage := ""
		if r.Mileage != nil {
			mileage = fmt.Sprintf("%d", *r.Mileage)
		}

		for _, item := range items {
			write(1, r.ServiceDate.Format("2006-01-02"))
			write(2, r.ServiceProvider)
			write(3, mileage)
			write(4, item.ServiceType)
			write(5, item.Description)
			if item.Cost != nil {
				write(6, fmt.Sprintf("%.2f", *item.Cost))
			} else {
				write(6, "")
			}
			write(7, strings.Join(item.PartsReplaced, ", "))
			if item.NextServiceDate != nil {
				write(8, item.NextServiceDate.Format("2006-01-02"))
			} else {
				write(8, "")
			}
			write(9, recordTotal)
			row++
			itemCount++
		}

		// A record without items still gets a summary row.
		if len(items) == 0 {
			write(1, r.ServiceDate.Format("2006-01-02"))
			write(2, r.ServiceProvider)
			write(3, mileage)
			write(5, r.Notes)
			write(9, recordTotal)
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "B", 24)
	_ = f.SetColWidth(sheet, "C", "C", 10)
	_ = f.SetColWidth(sheet, "D", "D", 20)
	_ = f.SetColWidth(sheet, "E", "E", 40)
	_ = f.SetColWidth(sheet, "F", "F", 12)
	_ = f.SetColWidth(sheet, "G", "G", 30)
	_ = f.SetColWidth(sheet, "H", "H", 16)
	_ = f.SetColWidth(sheet, "I", "I", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("Exported service history",
		zap.String("vehicleId", vehicleID),
		zap.Int("records", len(recs)),
		zap.Int("items", itemCount),
		zap.Int64("elapsedMs", time.Since(start).Milliseconds()),
	)
	return buf.Bytes(), nil
}
