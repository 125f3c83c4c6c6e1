package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	documentRepo "carvault/database/repository/document"
	"carvault/models"
	"carvault/services/analysis"
	"carvault/services/extraction"
	"carvault/services/records"
	"carvault/services/storage"
	"carvault/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sessionManager tracks live extraction sessions by ID. Sessions are created
// on analyze and removed once the draft is saved or discarded.
type sessionManager struct {
	mu       sync.Mutex
	sessions map[string]*extraction.Session
}

func (m *sessionManager) add(s *extraction.Session) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New().String()
	m.sessions[id] = s
	return id
}

func (m *sessionManager) get(id string) *extraction.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

func (m *sessionManager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// ExtractionHandler exposes the document analyze / confirm / discard flow.
type ExtractionHandler struct {
	Storage   storage.StorageService
	Analyzer  analysis.DocumentAnalyzer
	Records   records.RecordService
	Documents documentRepo.DocumentRepository

	manager *sessionManager
}

func NewExtractionHandler(store storage.StorageService, analyzer analysis.DocumentAnalyzer, recordSvc records.RecordService, documents documentRepo.DocumentRepository) *ExtractionHandler {
	return &ExtractionHandler{
		Storage:   store,
		Analyzer:  analyzer,
		Records:   recordSvc,
		Documents: documents,
		manager:   &sessionManager{sessions: make(map[string]*extraction.Session)},
	}
}

// AnalyzeDocumentHandler handles POST /vehicles/:id/documents/analyze. It
// accepts a multipart "file", runs the upload and analysis pipeline, and
// returns a session ID together with the draft awaiting confirmation.
func (h *ExtractionHandler) AnalyzeDocumentHandler(c *gin.Context) {
	logger := utils.GetLogger()
	vehicleID := c.Param("id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload"})
		return
	}

	tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		logger.Error("Failed to stage uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer os.Remove(tmpPath)

	session := extraction.NewSession(h.Storage, h.Analyzer, h.Records, h.Documents, logger)
	sessionID := h.manager.add(session)

	result, err := session.Analyze(c.Request.Context(), extraction.AnalyzeInput{
		FilePath: tmpPath,
		FileName: fileHeader.Filename,
		MIMEType: fileHeader.Header.Get("Content-Type"),
		FileSize: fileHeader.Size,
	}, vehicleID)
	if err != nil {
		h.manager.remove(sessionID)
		if errors.Is(err, extraction.ErrExtractionFormat) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not read service details from this document"})
			return
		}
		logger.Error("Document analysis failed", zap.String("vehicleId", vehicleID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Document analysis failed. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": sessionID,
		"state":     session.State(),
		"draft":     result,
	})
}

// GetExtractionHandler handles GET /extractions/:sessionId.
func (h *ExtractionHandler) GetExtractionHandler(c *gin.Context) {
	session := h.manager.get(c.Param("sessionId"))
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Extraction session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state": session.State(),
		"draft": session.Draft(),
		"error": session.ErrorMessage(),
	})
}

// ConfirmExtractionHandler handles POST /extractions/:sessionId/confirm. The
// body may carry user edits to the draft; the confirmed draft is saved as a
// service record for the vehicle.
func (h *ExtractionHandler) ConfirmExtractionHandler(c *gin.Context) {
	logger := utils.GetLogger()
	sessionID := c.Param("sessionId")

	session := h.manager.get(sessionID)
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Extraction session not found"})
		return
	}

	var req struct {
		VehicleID string                   `json:"vehicleId" binding:"required"`
		Draft     *models.ExtractionResult `json:"draft"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Draft != nil {
		if err := session.ReplaceDraft(req.Draft); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
	}

	record, items, err := session.Save(c.Request.Context(), req.VehicleID)
	if err != nil {
		switch {
		case errors.Is(err, extraction.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, records.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to save extracted record", zap.String("sessionId", sessionID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save service record"})
		}
		return
	}

	h.manager.remove(sessionID)
	c.JSON(http.StatusCreated, gin.H{"record": record, "items": items})
}

// DiscardExtractionHandler handles POST /extractions/:sessionId/discard.
func (h *ExtractionHandler) DiscardExtractionHandler(c *gin.Context) {
	sessionID := c.Param("sessionId")

	session := h.manager.get(sessionID)
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Extraction session not found"})
		return
	}
	if err := session.Discard(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	h.manager.remove(sessionID)
	c.JSON(http.StatusOK, gin.H{"message": "Extraction discarded"})
}
