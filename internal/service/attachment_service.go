package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/affcms/festival-api/internal/models"
	"github.com/affcms/festival-api/internal/repository"
	appErrors "github.com/affcms/festival-api/pkg/errors"
	"github.com/affcms/festival-api/pkg/export"
)

const pdfFolder = "session-plan-pdfs"

type fileStore interface {
	Save(filename string, data []byte) (string, error)
	Delete(filename string) error
}

// ExportFormat selects the rendering of a day timetable export.
type ExportFormat string

const (
	ExportFormatPDF ExportFormat = "pdf"
	ExportFormatCSV ExportFormat = "csv"
)

// AttachmentService manages PDF documents attached to plans and days, and
// renders downloadable day timetables. Attachments live on disk; the plan
// document only records the public URL.
type AttachmentService struct {
	plans          planRepository
	store          fileStore
	pdf            *export.PDFExporter
	csv            *export.CSVExporter
	publicBasePath string
	logger         *zap.Logger
}

// NewAttachmentService constructs AttachmentService.
func NewAttachmentService(plans planRepository, store fileStore, publicBasePath string, logger *zap.Logger) *AttachmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentService{
		plans:          plans,
		store:          store,
		pdf:            export.NewPDFExporter(),
		csv:            export.NewCSVExporter(),
		publicBasePath: strings.TrimRight(publicBasePath, "/"),
		logger:         logger,
	}
}

// UploadPlanPDF stores the uploaded document and records its URL on the plan,
// replacing any previously attached file.
func (s *AttachmentService) UploadPlanPDF(ctx context.Context, planID string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "PDF file is required")
	}
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return "", err
	}

	s.removeExisting(plan.PDFURL)

	filename := fmt.Sprintf("%s/plan-%s.pdf", pdfFolder, plan.ID)
	if _, err := s.store.Save(filename, data); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store PDF")
	}
	plan.PDFURL = s.publicURL(filename)

	if err := s.savePlan(ctx, plan); err != nil {
		return "", err
	}
	return plan.PDFURL, nil
}

// PlanPDF returns the URL of the plan-level PDF attachment.
func (s *AttachmentService) PlanPDF(ctx context.Context, planID string) (string, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return "", err
	}
	if plan.PDFURL == "" {
		return "", appErrors.Clone(appErrors.ErrNotFound, "no PDF for this plan")
	}
	return plan.PDFURL, nil
}

// UploadDayPDF stores the uploaded document and records its URL on the day.
func (s *AttachmentService) UploadDayPDF(ctx context.Context, planID, dayID string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "PDF file is required")
	}
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return "", err
	}
	day := plan.FindDay(dayID)
	if day == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, "day not found")
	}

	s.removeExisting(day.PDFURL)

	filename := fmt.Sprintf("%s/day-%s.pdf", pdfFolder, day.ID)
	if _, err := s.store.Save(filename, data); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store PDF")
	}
	day.PDFURL = s.publicURL(filename)
	day.UpdatedAt = time.Now().UTC()

	if err := s.savePlan(ctx, plan); err != nil {
		return "", err
	}
	return day.PDFURL, nil
}

// DayPDF returns the URL of the day-level PDF attachment.
func (s *AttachmentService) DayPDF(ctx context.Context, planID, dayID string) (string, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return "", err
	}
	day := plan.FindDay(dayID)
	if day == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, "day not found")
	}
	if day.PDFURL == "" {
		return "", appErrors.Clone(appErrors.ErrNotFound, "no PDF for this day")
	}
	return day.PDFURL, nil
}

// ExportDay renders the day's timetable as a downloadable document, one
// section per screen, slots in display order.
func (s *AttachmentService) ExportDay(ctx context.Context, planID, dayID string, format ExportFormat) ([]byte, string, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, "", err
	}
	day := plan.FindDay(dayID)
	if day == nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "day not found")
	}

	title := fmt.Sprintf("%s %d - Day %d (%s)", plan.FestivalName, plan.Year, day.DayNumber, day.Date)
	headers := []string{"Time", "Title", "Category", "Director"}

	switch format {
	case ExportFormatPDF:
		sections := make([]export.Section, 0, len(day.Screens))
		for i := range day.Screens {
			screen := &day.Screens[i]
			sections = append(sections, export.Section{
				Title: screen.ScreenName,
				Data:  export.Dataset{Headers: headers, Rows: slotRows(screen.SortedSlots(), nil)},
			})
		}
		if len(sections) == 0 {
			sections = append(sections, export.Section{Data: export.Dataset{Headers: headers}})
		}
		payload, err := s.pdf.RenderSections(title, sections)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable PDF")
		}
		return payload, "application/pdf", nil
	case ExportFormatCSV:
		csvHeaders := append([]string{"Screen"}, headers...)
		rows := make([]map[string]string, 0)
		for i := range day.Screens {
			screen := &day.Screens[i]
			rows = append(rows, slotRows(screen.SortedSlots(), func(row map[string]string) {
				row["Screen"] = screen.ScreenName
			})...)
		}
		payload, err := s.csv.Render(export.Dataset{Headers: csvHeaders, Rows: rows})
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable CSV")
		}
		return payload, "text/csv", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func slotRows(slots []models.Slot, decorate func(map[string]string)) []map[string]string {
	rows := make([]map[string]string, 0, len(slots))
	for _, slot := range slots {
		window := slot.StartTime
		if slot.EndTime != "" {
			window = slot.StartTime + " - " + slot.EndTime
		}
		row := map[string]string{
			"Time":     window,
			"Title":    slot.Title,
			"Category": slot.Category,
			"Director": slot.Director,
		}
		if decorate != nil {
			decorate(row)
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *AttachmentService) loadPlan(ctx context.Context, planID string) (*models.Plan, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	return plan, nil
}

func (s *AttachmentService) savePlan(ctx context.Context, plan *models.Plan) error {
	if err := s.plans.Save(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "plan was modified concurrently, reload and retry")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save plan")
	}
	return nil
}

func (s *AttachmentService) publicURL(filename string) string {
	return s.publicBasePath + "/" + filename
}

// removeExisting deletes a previously attached file, tolerating failures:
// the stale file only wastes disk, it never blocks the new upload.
func (s *AttachmentService) removeExisting(url string) {
	if url == "" || s.store == nil {
		return
	}
	rel := strings.TrimPrefix(url, s.publicBasePath+"/")
	if rel == url {
		return
	}
	if err := s.store.Delete(rel); err != nil {
		s.logger.Warn("failed to delete previous attachment", zap.String("path", rel), zap.Error(err))
	}
}
