package handlers

import (
	"net/http"

	documentRepo "carvault/database/repository/document"
	"carvault/services/storage"
	"carvault/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DocumentHandler exposes read access to uploaded documents.
type DocumentHandler struct {
	Repo    documentRepo.DocumentRepository
	Storage storage.StorageService
}

func NewDocumentHandler(repo documentRepo.DocumentRepository, store storage.StorageService) *DocumentHandler {
	return &DocumentHandler{Repo: repo, Storage: store}
}

// ListDocumentsHandler handles GET /vehicles/:id/documents.
func (h *DocumentHandler) ListDocumentsHandler(c *gin.Context) {
	logger := utils.GetLogger()
	vehicleID := c.Param("id")

	docs, err := h.Repo.GetByVehicleID(c.Request.Context(), vehicleID)
	if err != nil {
		logger.Error("Failed to list documents", zap.String("vehicleId", vehicleID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}
	c.JSON(http.StatusOK, docs)
}

// GetDocumentURLHandler handles GET /documents/:documentId/url. It resolves a
// fresh download URL for the stored file.
func (h *DocumentHandler) GetDocumentURLHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := c.Param("documentId")

	doc, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil || doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	url, err := h.Storage.GetDownloadURL(c.Request.Context(), doc.StorageID)
	if err != nil {
		logger.Error("Failed to resolve document URL", zap.String("documentId", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve document URL"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
