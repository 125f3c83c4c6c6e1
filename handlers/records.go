package handlers

import (
	"errors"
	"net/http"
	"time"

	"carvault/models"
	"carvault/services/records"
	"carvault/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecordHandler exposes the service-record endpoints, including manual entry
// of records that were never extracted from a document.
type RecordHandler struct {
	Service records.RecordService
}

func NewRecordHandler(svc records.RecordService) *RecordHandler {
	return &RecordHandler{Service: svc}
}

// recordRequest is the JSON body for manual create and update.
type recordRequest struct {
	Record models.ServiceRecord `json:"record"`
	Items  []models.ServiceItem `json:"items"`
}

// CreateRecordHandler handles POST /vehicles/:id/records.
func (h *RecordHandler) CreateRecordHandler(c *gin.Context) {
	logger := utils.GetLogger()
	vehicleID := c.Param("id")

	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid create record request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Record.VehicleID = vehicleID

	record, items, err := h.Service.Create(c.Request.Context(), req.Record, req.Items)
	if err != nil {
		if errors.Is(err, records.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create service record", zap.String("vehicleId", vehicleID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save service record"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record": record, "items": items})
}

// UpdateRecordHandler handles PUT /records/:recordId.
func (h *RecordHandler) UpdateRecordHandler(c *gin.Context) {
	logger := utils.GetLogger()
	recordID := c.Param("recordId")

	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid update record request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, items, err := h.Service.Update(c.Request.Context(), recordID, req.Record, req.Items)
	if err != nil {
		switch {
		case errors.Is(err, records.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, records.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Service record not found"})
		default:
			logger.Error("Failed to update service record", zap.String("recordId", recordID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update service record"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": record, "items": items})
}

// DeleteRecordHandler handles DELETE /records/:recordId.
func (h *RecordHandler) DeleteRecordHandler(c *gin.Context) {
	logger := utils.GetLogger()
	recordID := c.Param("recordId")

	if err := h.Service.Delete(c.Request.Context(), recordID); err != nil {
		if errors.Is(err, records.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service record not found"})
			return
		}
		logger.Error("Failed to delete service record", zap.String("recordId", recordID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete service record"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service record deleted"})
}

// GetRecordHandler handles GET /records/:recordId.
func (h *RecordHandler) GetRecordHandler(c *gin.Context) {
	recordID := c.Param("recordId")

	record, items, err := h.Service.Get(c.Request.Context(), recordID)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load service record"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": record, "items": items})
}

// ListRecordsHandler handles GET /vehicles/:id/records with optional
// from/to query parameters (YYYY-MM-DD).
func (h *RecordHandler) ListRecordsHandler(c *gin.Context) {
	logger := utils.GetLogger()
	vehicleID := c.Param("id")

	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
		return
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
		return
	}

	list, err := h.Service.ListByVehicle(c.Request.Context(), vehicleID, from, to)
	if err != nil {
		logger.Error("Failed to list service records", zap.String("vehicleId", vehicleID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list service records"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func parseDateQuery(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
