package handlers

import (
	"net/http"

	vehicleRepo "carvault/database/repository/vehicle"
	"carvault/services/recall"
	"carvault/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecallHandler exposes recall lookups for a stored vehicle.
type RecallHandler struct {
	Vehicles vehicleRepo.VehicleRepository
	Recalls  recall.RecallService
}

func NewRecallHandler(vehicles vehicleRepo.VehicleRepository, recalls recall.RecallService) *RecallHandler {
	return &RecallHandler{Vehicles: vehicles, Recalls: recalls}
}

// GetRecallsHandler handles GET /vehicles/:id/recalls.
func (h *RecallHandler) GetRecallsHandler(c *gin.Context) {
	logger := utils.GetLogger()
	vehicleID := c.Param("id")

	vehicle, err := h.Vehicles.GetByID(c.Request.Context(), vehicleID)
	if err != nil || vehicle == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}
	if vehicle.Make == "" || vehicle.Model == "" || vehicle.Year == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recall lookup needs the vehicle's make, model and year"})
		return
	}

	recalls, err := h.Recalls.GetRecalls(c.Request.Context(), vehicle.Make, vehicle.Model, vehicle.Year)
	if err != nil {
		logger.Error("Recall lookup failed", zap.String("vehicleId", vehicleID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Recall lookup is unavailable right now"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(recalls), "recalls": recalls})
}
