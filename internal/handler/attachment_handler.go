package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/affcms/festival-api/internal/service"
	appErrors "github.com/affcms/festival-api/pkg/errors"
	"github.com/affcms/festival-api/pkg/response"
)

// AttachmentHandler manages PDF attachments and timetable exports.
type AttachmentHandler struct {
	service     *service.AttachmentService
	maxFileSize int64
}

// NewAttachmentHandler constructs handler.
func NewAttachmentHandler(svc *service.AttachmentService, maxFileSize int64) *AttachmentHandler {
	if maxFileSize <= 0 {
		maxFileSize = 10 << 20
	}
	return &AttachmentHandler{service: svc, maxFileSize: maxFileSize}
}

// UploadPlanPDF godoc
// @Summary Attach a PDF document to a plan
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Param planId path string true "Plan ID"
// @Param file formData file true "PDF document"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId}/pdf [post]
func (h *AttachmentHandler) UploadPlanPDF(c *gin.Context) {
	data, err := h.readUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	url, err := h.service.UploadPlanPDF(c.Request.Context(), c.Param("planId"), data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"pdfUrl": url})
}

// PlanPDF godoc
// @Summary Get the plan's PDF attachment URL
// @Tags Attachments
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId}/pdf [get]
func (h *AttachmentHandler) PlanPDF(c *gin.Context) {
	url, err := h.service.PlanPDF(c.Request.Context(), c.Param("planId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"pdfUrl": url})
}

// UploadDayPDF godoc
// @Summary Attach a PDF document to a day
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Param file formData file true "PDF document"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId}/days/{dayId}/pdf [post]
func (h *AttachmentHandler) UploadDayPDF(c *gin.Context) {
	data, err := h.readUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	url, err := h.service.UploadDayPDF(c.Request.Context(), c.Param("planId"), c.Param("dayId"), data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"pdfUrl": url})
}

// DayPDF godoc
// @Summary Get the day's PDF attachment URL
// @Tags Attachments
// @Produce json
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId}/days/{dayId}/pdf [get]
func (h *AttachmentHandler) DayPDF(c *gin.Context) {
	url, err := h.service.DayPDF(c.Request.Context(), c.Param("planId"), c.Param("dayId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"pdfUrl": url})
}

// ExportDay godoc
// @Summary Export a day timetable as PDF or CSV
// @Tags Attachments
// @Produce application/pdf
// @Produce text/csv
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Param format query string false "Export format (pdf or csv)" default(pdf)
// @Success 200 {file} file
// @Router /plans/{planId}/days/{dayId}/export [get]
func (h *AttachmentHandler) ExportDay(c *gin.Context) {
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", "pdf")))
	payload, contentType, err := h.service.ExportDay(c.Request.Context(), c.Param("planId"), c.Param("dayId"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("day-%s.%s", c.Param("dayId"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

func (h *AttachmentHandler) readUpload(c *gin.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "PDF file is required")
	}
	if fileHeader.Size > h.maxFileSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file exceeds the upload size limit")
	}
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" && ct != "application/pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only PDF uploads are accepted")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	if int64(len(data)) > h.maxFileSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file exceeds the upload size limit")
	}
	return data, nil
}
