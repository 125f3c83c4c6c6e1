package extraction

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"carvault/models"
	"carvault/services/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStorage struct {
	uploadErr error
	uploads   int
}

func (f *fakeStorage) UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error) {
	f.uploads++
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "stored/abc123", nil
}

func (f *fakeStorage) DeleteFile(ctx context.Context, publicID string) error { return nil }

func (f *fakeStorage) GetDownloadURL(ctx context.Context, publicID string) (string, error) {
	return "https://cdn.example.com/" + publicID, nil
}

type fakeAnalyzer struct {
	payload map[string]any
	err     error
	block   chan struct{} // when set, AnalyzeDocument waits until closed
}

func (f *fakeAnalyzer) AnalyzeDocument(ctx context.Context, req analysis.Request) (map[string]any, error) {
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

type fakeRecordService struct {
	createErr error
	created   *models.ServiceRecord
	items     []models.ServiceItem
}

func (f *fakeRecordService) Create(ctx context.Context, record models.ServiceRecord, items []models.ServiceItem) (*models.ServiceRecord, []models.ServiceItem, error) {
	if f.createErr != nil {
		return nil, nil, f.createErr
	}
	record.ID = "rec-1"
	f.created = &record
	f.items = items
	return &record, items, nil
}

func (f *fakeRecordService) Update(ctx context.Context, recordID string, record models.ServiceRecord, items []models.ServiceItem) (*models.ServiceRecord, []models.ServiceItem, error) {
	return nil, nil, errors.New("not implemented")
}

func (f *fakeRecordService) Delete(ctx context.Context, recordID string) error { return nil }

func (f *fakeRecordService) Get(ctx context.Context, recordID string) (*models.ServiceRecord, []models.ServiceItem, error) {
	return nil, nil, errors.New("not implemented")
}

func (f *fakeRecordService) ListByVehicle(ctx context.Context, vehicleID string, from, to *time.Time) ([]models.ServiceRecord, error) {
	return nil, nil
}

type fakeDocumentRepo struct {
	mu        sync.Mutex
	createErr error
	linkErr   error
	analysis  map[string]any
	linkedTo  string
	docID     string
}

func (f *fakeDocumentRepo) Create(ctx context.Context, doc models.UploadedDocument) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docID = "doc-1"
	return f.docID, nil
}

func (f *fakeDocumentRepo) GetByID(ctx context.Context, id string) (*models.UploadedDocument, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDocumentRepo) GetByVehicleID(ctx context.Context, vehicleID string) ([]models.UploadedDocument, error) {
	return nil, nil
}

func (f *fakeDocumentRepo) SetAnalysisResult(ctx context.Context, id string, result map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analysis = result
	return nil
}

func (f *fakeDocumentRepo) AttachServiceRecord(ctx context.Context, id string, recordID string) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.linkedTo = recordID
	return nil
}

func legacyPayload() map[string]any {
	return map[string]any{
		"vehicle": map[string]any{"odometer_km": float64(50000)},
		"payment": map[string]any{"total": 89.99},
		"services": []any{
			map[string]any{"category": "Oil Change", "description": "5W-30", "price": 89.99},
		},
	}
}

func newTestSession(store *fakeStorage, az *fakeAnalyzer, recs *fakeRecordService, docs *fakeDocumentRepo) *Session {
	return NewSession(store, az, recs, docs, zap.NewNop())
}

func textInput() AnalyzeInput {
	return AnalyzeInput{FileName: "receipt.txt", MIMEType: "text/plain", Text: "receipt text"}
}

func TestSessionAnalyzeHappyPath(t *testing.T) {
	docs := &fakeDocumentRepo{}
	s := newTestSession(&fakeStorage{}, &fakeAnalyzer{payload: legacyPayload()}, &fakeRecordService{}, docs)

	result, err := s.Analyze(context.Background(), textInput(), "veh-1")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, StateAwaitingConfirmation, s.State())
	assert.Equal(t, result, s.Draft())
	assert.NotNil(t, docs.analysis)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Oil Change", result.Items[0].ServiceType)
}

func TestSessionSaveBindsVehicleAndResets(t *testing.T) {
	docs := &fakeDocumentRepo{}
	recs := &fakeRecordService{}
	s := newTestSession(&fakeStorage{}, &fakeAnalyzer{payload: legacyPayload()}, recs, docs)

	_, err := s.Analyze(context.Background(), textInput(), "veh-1")
	require.NoError(t, err)

	record, items, err := s.Save(context.Background(), "veh-1")
	require.NoError(t, err)
	assert.Equal(t, "veh-1", record.VehicleID)
	require.Len(t, items, 1)

	assert.Equal(t, "rec-1", docs.linkedTo)
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Draft())
}

func TestSessionSaveLinkFailureDoesNotFailSave(t *testing.T) {
	docs := &fakeDocumentRepo{linkErr: errors.New("mongo down")}
	s := newTestSession(&fakeStorage{}, &fakeAnalyzer{payload: legacyPayload()}, &fakeRecordService{}, docs)

	_, err := s.Analyze(context.Background(), textInput(), "veh-1")
	require.NoError(t, err)

	record, _, err := s.Save(context.Background(), "veh-1")
	require.NoError(t, err)
	assert.Equal(t, "rec-1", record.ID)
	assert.Equal(t, StateIdle, s.State())
}

func TestSessionSaveFailureKeepsDraftForRetry(t *testing.T) {
	recs := &fakeRecordService{createErr: errors.New("insert failed")}
	s := newTestSession(&fakeStorage{}, &fakeAnalyzer{payload: legacyPayload()}, recs, &fakeDocumentRepo{})

	_, err := s.Analyze(context.Background(), textInput(), "veh-1")
	require.NoError(t, err)

	_, _, err = s.Save(context.Background(), "veh-1")
	require.Error(t, err)
	assert.Equal(t, StateError, s.State())
	assert.NotNil(t, s.Draft())

	// retry succeeds once the backend recovers
	recs.createErr = nil
	record, _, err := s.Save(context.Background(), "veh-1")
	require.NoError(t, err)
	assert.Equal(t, "veh-1", record.VehicleID)
	assert.Equal(t, StateIdle, s.State())
}

func TestSessionAnalyzeFailureClearsDraft(t *testing.T) {
	s := newTestSession(&fakeStorage{}, &fakeAnalyzer{err: errors.New("model unavailable")}, &fakeRecordService{}, &fakeDocumentRepo{})

	_, err := s.Analyze(context.Background(), textInput(), "veh-1")
	require.Error(t, err)
	assert.Equal(t, StateError, s.State())
	assert.Nil(t, s.Draft())
	assert.NotEmpty(t, s.ErrorMessage())
}

func TestSessionAnalyzeFormatErrorSurfaced(t *testing.T) {
	s := newTestSession(&fakeStorage{}, &fakeAnalyzer{payload: map[string]any{"foo": "bar"}}, &fakeRecordService{}, &fakeDocumentRepo{})

	_, err := s.Analyze(context.Background(), textInput(), "veh-1")
	assert.ErrorIs(t, err, ErrExtractionFormat)
	assert.Equal(t, StateError, s.State())
}

func TestSessionRejectsConcurrentAnalyze(t *testing.T) {
	block := make(chan struct{})
	s := newTestSession(&fakeStorage{}, &fakeAnalyzer{payload: legacyPayload(), block: block}, &fakeRecordService{}, &fakeDocumentRepo{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Analyze(context.Background(), textInput(), "veh-1")
	}()

	// wait for the first attempt to get past Idle
	require.Eventually(t, func() bool {
		st := s.State()
		return st == StateUploading || st == StateAnalyzing
	}, time.Second, 5*time.Millisecond)

	_, err := s.Analyze(context.Background(), textInput(), "veh-1")
	assert.ErrorIs(t, err, ErrSessionBusy)

	close(block)
	<-done
}

func TestSessionAnalyzeRejectedWhileDraftHeld(t *testing.T) {
	s := newTestSession(&fakeStorage{}, &fakeAnalyzer{payload: legacyPayload()}, &fakeRecordService{}, &fakeDocumentRepo{})

	_, err := s.Analyze(context.Background(), textInput(), "veh-1")
	require.NoError(t, err)

	_, err = s.Analyze(context.Background(), textInput(), "veh-1")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSessionRetryFromErrorAllowed(t *testing.T) {
	az := &fakeAnalyzer{err: errors.New("model unavailable")}
	s := newTestSession(&fakeStorage{}, az, &fakeRecordService{}, &fakeDocumentRepo{})

	_, err := s.Analyze(context.Background(), textInput(), "veh-1")
	require.Error(t, err)
	require.Equal(t, StateError, s.State())

	az.err = nil
	az.payload = legacyPayload()
	_, err = s.Analyze(context.Background(), textInput(), "veh-1")
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingConfirmation, s.State())
}

func TestSessionDiscard(t *testing.T) {
	s := newTestSession(&fakeStorage{}, &fakeAnalyzer{payload: legacyPayload()}, &fakeRecordService{}, &fakeDocumentRepo{})

	// nothing to discard while idle
	assert.ErrorIs(t, s.Discard(), ErrInvalidState)

	_, err := s.Analyze(context.Background(), textInput(), "veh-1")
	require.NoError(t, err)

	require.NoError(t, s.Discard())
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Draft())
}

func TestSessionSaveRequiresDraft(t *testing.T) {
	s := newTestSession(&fakeStorage{}, &fakeAnalyzer{}, &fakeRecordService{}, &fakeDocumentRepo{})

	_, _, err := s.Save(context.Background(), "veh-1")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSessionReplaceDraft(t *testing.T) {
	recs := &fakeRecordService{}
	s := newTestSession(&fakeStorage{}, &fakeAnalyzer{payload: legacyPayload()}, recs, &fakeDocumentRepo{})

	_, err := s.Analyze(context.Background(), textInput(), "veh-1")
	require.NoError(t, err)

	cost := 120.0
	edited := &models.ExtractionResult{
		Record: models.ServiceRecordDraft{ServiceDate: time.Now()},
		Items: []models.ServiceItemDraft{
			{ServiceType: "Brakes", Cost: &cost, Quantity: 1},
		},
	}
	require.NoError(t, s.ReplaceDraft(edited))

	record, items, err := s.Save(context.Background(), "veh-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Brakes", items[0].ServiceType)
	require.NotNil(t, record.TotalCost)
	assert.Equal(t, 120.0, *record.TotalCost)
}

func TestDraftToRecordDerivesTotalFromItems(t *testing.T) {
	c1, c2 := 10.0, 20.0
	draft := &models.ExtractionResult{
		Record: models.ServiceRecordDraft{ServiceDate: time.Now()},
		Items: []models.ServiceItemDraft{
			{ServiceType: "A", Cost: &c1, Quantity: 2},
			{ServiceType: "B", Cost: &c2, Quantity: 1},
			{ServiceType: "C"}, // no cost
		},
	}
	record, items := draftToRecord(draft, "veh-9")
	assert.Equal(t, "veh-9", record.VehicleID)
	require.NotNil(t, record.TotalCost)
	assert.Equal(t, 40.0, *record.TotalCost)
	assert.Len(t, items, 3)
}
