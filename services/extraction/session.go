package extraction

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	documentRepo "carvault/database/repository/document"
	"carvault/models"
	"carvault/services/analysis"
	"carvault/services/records"
	"carvault/services/storage"

	"go.uber.org/zap"
)

// State is the lifecycle state of one extraction session.
type State string

const (
	StateIdle                 State = "idle"
	StateUploading            State = "uploading"
	StateAnalyzing            State = "analyzing"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateSaving               State = "saving"
	StateError                State = "error"
)

// DefaultStepTimeout bounds each external call (upload, analysis, save) so a
// stuck network call cannot park the session forever.
const DefaultStepTimeout = 60 * time.Second

// AnalyzeInput describes the user-selected file for one extraction attempt.
// FilePath points at a local copy of the upload; Text, when set, carries
// pre-extracted document text and is sent instead of image bytes.
type AnalyzeInput struct {
	FilePath string
	FileName string
	MIMEType string
	FileSize int64
	Text     string
}

// Session owns the lifecycle of one document-extraction attempt: upload,
// analyze, hold the draft for confirmation, then save or discard. At most one
// attempt is in flight per session.
type Session struct {
	mu         sync.Mutex
	state      State
	draft      *models.ExtractionResult
	documentID string
	errMsg     string

	Storage     storage.StorageService
	Analyzer    analysis.DocumentAnalyzer
	Records     records.RecordService
	Documents   documentRepo.DocumentRepository
	Logger      *zap.Logger
	StepTimeout time.Duration
}

// NewSession returns an idle session wired to its collaborators.
func NewSession(store storage.StorageService, analyzer analysis.DocumentAnalyzer, recordSvc records.RecordService, documents documentRepo.DocumentRepository, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.L()
	}
	return &Session{
		state:       StateIdle,
		Storage:     store,
		Analyzer:    analyzer,
		Records:     recordSvc,
		Documents:   documents,
		Logger:      logger,
		StepTimeout: DefaultStepTimeout,
	}
}

// State returns the session's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns the normalized result awaiting confirmation, if any.
func (s *Session) Draft() *models.ExtractionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// ErrorMessage returns the human-readable message for the Error state.
func (s *Session) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Analyze runs upload then analysis then normalization, leaving the session
// in AwaitingConfirmation on success. A session that is already mid-attempt
// rejects the call; a session holding an unconfirmed draft must be discarded
// first.
func (s *Session) Analyze(ctx context.Context, in AnalyzeInput, vehicleID string) (*models.ExtractionResult, error) {
	s.mu.Lock()
	switch s.state {
	case StateUploading, StateAnalyzing, StateSaving:
		s.mu.Unlock()
		return nil, ErrSessionBusy
	case StateAwaitingConfirmation:
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: draft awaiting confirmation, discard it first", ErrInvalidState)
	}
	// retry from Error starts clean
	s.draft = nil
	s.documentID = ""
	s.errMsg = ""
	s.state = StateUploading
	s.mu.Unlock()

	if err := s.upload(ctx, in, vehicleID); err != nil {
		s.failAnalyze(fmt.Sprintf("failed to upload document: %v", err))
		return nil, fmt.Errorf("upload document: %w", err)
	}

	s.mu.Lock()
	s.state = StateAnalyzing
	s.mu.Unlock()

	payload, err := s.analyze(ctx, in)
	if err != nil {
		s.failAnalyze(fmt.Sprintf("failed to analyze document: %v", err))
		return nil, fmt.Errorf("analyze document: %w", err)
	}

	result, err := Normalize(payload)
	if err != nil {
		s.failAnalyze(fmt.Sprintf("could not read service details from document: %v", err))
		return nil, err
	}

	s.mu.Lock()
	documentID := s.documentID
	s.mu.Unlock()

	if documentID != "" {
		stepCtx, cancel := s.stepContext(ctx)
		if setErr := s.Documents.SetAnalysisResult(stepCtx, documentID, payload); setErr != nil {
			s.Logger.Warn("failed to store raw analysis result",
				zap.String("documentId", documentID), zap.Error(setErr))
		}
		cancel()
	}

	s.mu.Lock()
	s.draft = result
	s.state = StateAwaitingConfirmation
	s.mu.Unlock()

	return result, nil
}

// Save binds the vehicle onto the held draft and persists it. A failure of
// the post-save document link is logged but never propagated; the record is
// already durably saved at that point. On success the session resets to Idle.
func (s *Session) Save(ctx context.Context, vehicleID string) (*models.ServiceRecord, []models.ServiceItem, error) {
	s.mu.Lock()
	validRetry := s.state == StateError && s.draft != nil
	if s.state != StateAwaitingConfirmation && !validRetry {
		s.mu.Unlock()
		return nil, nil, fmt.Errorf("%w: save requires a draft awaiting confirmation", ErrInvalidState)
	}
	draft := s.draft
	documentID := s.documentID
	s.state = StateSaving
	s.mu.Unlock()

	record, items := draftToRecord(draft, vehicleID)

	stepCtx, cancel := s.stepContext(ctx)
	saved, savedItems, err := s.Records.Create(stepCtx, record, items)
	cancel()
	if err != nil {
		s.failSave(fmt.Sprintf("failed to save service record: %v", err))
		return nil, nil, err
	}

	if documentID != "" {
		stepCtx, cancel := s.stepContext(ctx)
		if linkErr := s.Documents.AttachServiceRecord(stepCtx, documentID, saved.ID); linkErr != nil {
			s.Logger.Warn("failed to link document to service record",
				zap.String("documentId", documentID),
				zap.String("recordId", saved.ID),
				zap.Error(linkErr))
		}
		cancel()
	}

	s.reset()
	return saved, savedItems, nil
}

// ReplaceDraft swaps in a user-edited draft ahead of saving. The edited draft
// still passes record validation at save time.
func (s *Session) ReplaceDraft(draft *models.ExtractionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingConfirmation && s.state != StateError {
		return fmt.Errorf("%w: no draft to edit", ErrInvalidState)
	}
	if draft == nil {
		return fmt.Errorf("%w: edited draft must not be empty", ErrInvalidState)
	}
	s.draft = draft
	return nil
}

// Discard clears the held draft and returns the session to Idle. It is valid
// only while a draft awaits confirmation or after an error.
func (s *Session) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingConfirmation && s.state != StateError {
		return fmt.Errorf("%w: nothing to discard", ErrInvalidState)
	}
	s.draft = nil
	s.documentID = ""
	s.errMsg = ""
	s.state = StateIdle
	return nil
}

func (s *Session) upload(ctx context.Context, in AnalyzeInput, vehicleID string) error {
	stepCtx, cancel := s.stepContext(ctx)
	defer cancel()

	storageID, err := s.Storage.UploadFile(stepCtx, in.FilePath, "vehicles/"+vehicleID+"/documents")
	if err != nil {
		return err
	}

	url, urlErr := s.Storage.GetDownloadURL(stepCtx, storageID)
	if urlErr != nil {
		s.Logger.Warn("failed to resolve document URL", zap.String("storageId", storageID), zap.Error(urlErr))
	}

	docID, err := s.Documents.Create(stepCtx, models.UploadedDocument{
		VehicleID: vehicleID,
		FileName:  in.FileName,
		FileType:  in.MIMEType,
		FileSize:  in.FileSize,
		StorageID: storageID,
		URL:       url,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.documentID = docID
	s.mu.Unlock()
	return nil
}

func (s *Session) analyze(ctx context.Context, in AnalyzeInput) (map[string]any, error) {
	stepCtx, cancel := s.stepContext(ctx)
	defer cancel()

	req := analysis.Request{Text: in.Text}
	if in.Text == "" {
		data, err := os.ReadFile(in.FilePath)
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		req.ImageData = data
		req.MIMEType = in.MIMEType
	}
	return s.Analyzer.AnalyzeDocument(stepCtx, req)
}

func (s *Session) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.StepTimeout > 0 {
		return context.WithTimeout(ctx, s.StepTimeout)
	}
	return context.WithCancel(ctx)
}

// failAnalyze moves to Error and drops any partial draft.
func (s *Session) failAnalyze(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateError
	s.errMsg = msg
	s.draft = nil
	s.documentID = ""
}

// failSave moves to Error but keeps the draft so the user can retry the save
// without re-running analysis.
func (s *Session) failSave(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateError
	s.errMsg = msg
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.draft = nil
	s.documentID = ""
	s.errMsg = ""
}

// draftToRecord materializes a confirmed draft into the record and items
// handed to persistence, binding the active vehicle onto the record.
func draftToRecord(draft *models.ExtractionResult, vehicleID string) (models.ServiceRecord, []models.ServiceItem) {
	record := models.ServiceRecord{
		VehicleID:       vehicleID,
		ServiceDate:     draft.Record.ServiceDate,
		ServiceProvider: draft.Record.ServiceProvider,
		Mileage:         draft.Record.Mileage,
		TotalCost:       draft.Record.TotalCost,
		Notes:           draft.Record.Notes,
	}
	if record.TotalCost == nil {
		record.TotalCost = sumItemCosts(draft.Items)
	}

	items := make([]models.ServiceItem, len(draft.Items))
	for i, d := range draft.Items {
		items[i] = models.ServiceItem{
			ServiceType:        strings.TrimSpace(d.ServiceType),
			Description:        d.Description,
			Cost:               d.Cost,
			Quantity:           d.Quantity,
			PartsReplaced:      d.PartsReplaced,
			NextServiceDate:    d.NextServiceDate,
			NextServiceMileage: d.NextServiceMileage,
		}
	}
	return record, items
}

// sumItemCosts derives a record total from item cost x quantity when the
// document stated no explicit total. Returns nil when no item has a cost.
func sumItemCosts(items []models.ServiceItemDraft) *float64 {
	var sum float64
	found := false
	for _, item := range items {
		if item.Cost == nil {
			continue
		}
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		sum += *item.Cost * float64(qty)
		found = true
	}
	if !found {
		return nil
	}
	return &sum
}
