package handlers

import (
	"net/http"

	vehicleRepo "carvault/database/repository/vehicle"
	"carvault/models"
	"carvault/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VehicleHandler exposes the vehicle CRUD endpoints.
type VehicleHandler struct {
	Repo vehicleRepo.VehicleRepository
}

func NewVehicleHandler(repo vehicleRepo.VehicleRepository) *VehicleHandler {
	return &VehicleHandler{Repo: repo}
}

func currentUserID(c *gin.Context) (string, bool) {
	id, ok := c.Get("userID")
	if !ok {
		return "", false
	}
	idStr, ok := id.(string)
	return idStr, ok && idStr != ""
}

// CreateVehicleHandler handles POST /vehicles.
func (h *VehicleHandler) CreateVehicleHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	var vehicle models.Vehicle
	if err := c.ShouldBindJSON(&vehicle); err != nil {
		logger.Error("Invalid create vehicle request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if vehicle.Make == "" || vehicle.Model == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vehicle make and model are required"})
		return
	}
	vehicle.UserID = userID

	id, err := h.Repo.Create(c.Request.Context(), vehicle)
	if err != nil {
		logger.Error("Failed to create vehicle", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle"})
		return
	}
	created, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil || created == nil {
		c.JSON(http.StatusCreated, gin.H{"id": id})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetVehicleHandler handles GET /vehicles/:id.
func (h *VehicleHandler) GetVehicleHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := c.Param("id")

	vehicle, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil || vehicle == nil {
		logger.Warn("Vehicle not found", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// ListVehiclesHandler handles GET /vehicles for the authenticated user.
func (h *VehicleHandler) ListVehiclesHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	vehicles, err := h.Repo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list vehicles", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list vehicles"})
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// UpdateVehicleHandler handles PUT /vehicles/:id.
func (h *VehicleHandler) UpdateVehicleHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := c.Param("id")

	existing, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil || existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	var vehicle models.Vehicle
	if err := c.ShouldBindJSON(&vehicle); err != nil {
		logger.Error("Invalid update vehicle request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicle.ID = id
	vehicle.UserID = existing.UserID

	if err := h.Repo.Update(c.Request.Context(), id, vehicle); err != nil {
		logger.Error("Failed to update vehicle", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle"})
		return
	}
	updated, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil || updated == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Vehicle updated"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteVehicleHandler handles DELETE /vehicles/:id.
func (h *VehicleHandler) DeleteVehicleHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := c.Param("id")

	if err := h.Repo.DeleteByID(c.Request.Context(), id); err != nil {
		logger.Error("Failed to delete vehicle", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted"})
}
