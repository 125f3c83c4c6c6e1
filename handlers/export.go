package handlers

import (
	"fmt"
	"net/http"
	"time"

	"carvault/services/export"
	"carvault/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler exposes the service-history export endpoint.
type ExportHandler struct {
	Service *export.Service
}

func NewExportHandler(svc *export.Service) *ExportHandler {
	return &ExportHandler{Service: svc}
}

// ExportHistoryHandler handles GET /vehicles/:id/records/export with optional
// from/to query parameters (YYYY-MM-DD) and streams back an XLSX workbook.
func (h *ExportHandler) ExportHistoryHandler(c *gin.Context) {
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

	data, err := h.Service.ExportHistoryXLSX(c.Request.Context(), vehicleID, from, to)
	if err != nil {
		logger.Error("Export failed", zap.String("vehicleId", vehicleID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export service history"})
		return
	}

	filename := fmt.Sprintf("service-history-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
