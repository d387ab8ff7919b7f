package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/affcms/festival-api/pkg/errors"
)

type fileStoreStub struct {
	saved   map[string][]byte
	deleted []string
}

func newFileStoreStub() *fileStoreStub {
	return &fileStoreStub{saved: make(map[string][]byte)}
}

func (s *fileStoreStub) Save(filename string, data []byte) (string, error) {
	s.saved[filename] = data
	return filename, nil
}

func (s *fileStoreStub) Delete(filename string) error {
	s.deleted = append(s.deleted, filename)
	delete(s.saved, filename)
	return nil
}

func newTestAttachmentService(repo *planRepoStub, store *fileStoreStub) *AttachmentService {
	return NewAttachmentService(repo, store, "/api/v1/uploads", nil)
}

func TestAttachmentServiceUploadPlanPDF(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	store := newFileStoreStub()
	service := newTestAttachmentService(repo, store)

	url, err := service.UploadPlanPDF(context.Background(), "plan-1", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/uploads/session-plan-pdfs/plan-plan-1.pdf", url)
	assert.Contains(t, store.saved, "session-plan-pdfs/plan-plan-1.pdf")

	got, err := service.PlanPDF(context.Background(), "plan-1")
	require.NoError(t, err)
	assert.Equal(t, url, got)
}

func TestAttachmentServiceUploadPlanPDFReplacesPrevious(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	store := newFileStoreStub()
	service := newTestAttachmentService(repo, store)

	_, err := service.UploadPlanPDF(context.Background(), "plan-1", []byte("first"))
	require.NoError(t, err)
	_, err = service.UploadPlanPDF(context.Background(), "plan-1", []byte("second"))
	require.NoError(t, err)

	assert.Equal(t, []string{"session-plan-pdfs/plan-plan-1.pdf"}, store.deleted)
	assert.Equal(t, []byte("second"), store.saved["session-plan-pdfs/plan-plan-1.pdf"])
}

func TestAttachmentServiceUploadRequiresData(t *testing.T) {
	service := newTestAttachmentService(newPlanRepoStub(seededPlan()), newFileStoreStub())
	_, err := service.UploadPlanPDF(context.Background(), "plan-1", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttachmentServicePlanPDFNotFound(t *testing.T) {
	service := newTestAttachmentService(newPlanRepoStub(seededPlan()), newFileStoreStub())
	_, err := service.PlanPDF(context.Background(), "plan-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAttachmentServiceUploadDayPDF(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	store := newFileStoreStub()
	service := newTestAttachmentService(repo, store)

	url, err := service.UploadDayPDF(context.Background(), "plan-1", "day-1", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/uploads/session-plan-pdfs/day-day-1.pdf", url)

	got, err := service.DayPDF(context.Background(), "plan-1", "day-1")
	require.NoError(t, err)
	assert.Equal(t, url, got)
}

func TestAttachmentServiceUploadDayPDFUnknownDay(t *testing.T) {
	service := newTestAttachmentService(newPlanRepoStub(seededPlan()), newFileStoreStub())
	_, err := service.UploadDayPDF(context.Background(), "plan-1", "missing", []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAttachmentServiceExportDayCSV(t *testing.T) {
	service := newTestAttachmentService(newPlanRepoStub(seededPlan()), newFileStoreStub())

	payload, contentType, err := service.ExportDay(context.Background(), "plan-1", "day-1", ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(payload)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Screen,Time,Title,Category,Director", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Main Hall")
	assert.Contains(t, lines[1], "18:00 - 19:30")
	assert.Contains(t, lines[1], "Opening Film")
}

func TestAttachmentServiceExportDayPDF(t *testing.T) {
	service := newTestAttachmentService(newPlanRepoStub(seededPlan()), newFileStoreStub())

	payload, contentType, err := service.ExportDay(context.Background(), "plan-1", "day-1", ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestAttachmentServiceExportDayUnsupportedFormat(t *testing.T) {
	service := newTestAttachmentService(newPlanRepoStub(seededPlan()), newFileStoreStub())
	_, _, err := service.ExportDay(context.Background(), "plan-1", "day-1", ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
