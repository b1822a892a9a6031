package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-summarizer/internal/adapter/repository"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/pipeline"
)

// Request headers carrying per-run credentials.
const (
	headerOpenAIKey    = "X-OpenAI-Key"
	headerDatasetToken = "X-Dataset-Token"
)

// Meeting handles artifact uploads and record queries
type Meeting struct {
	service *pipeline.Service
	records *repository.MeetingRecordRepository
	dataset *storage.DatasetStore
	logger  *zap.Logger
}

// NewMeeting creates a new meeting handler
func NewMeeting(service *pipeline.Service, records *repository.MeetingRecordRepository, dataset *storage.DatasetStore, logger *zap.Logger) *Meeting {
	return &Meeting{
		service: service,
		records: records,
		dataset: dataset,
		logger:  logger,
	}
}

// Process accepts a meeting artifact and runs it through the pipeline.
// The model API key is required per request; the dataset token is optional
// and its absence skips dataset publication.
func (h *Meeting) Process(c echo.Context) error {
	ctx := c.Request().Context()

	apiKey := strings.TrimSpace(c.Request().Header.Get(headerOpenAIKey))
	if apiKey == "" {
		return HandleError(h.logger, c,
			fmt.Errorf("%w: %s header is required", entities.ErrInvalidRequest, headerOpenAIKey))
	}
	storeToken := strings.TrimSpace(c.Request().Header.Get(headerDatasetToken))

	var req meeting.UploadRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c,
			fmt.Errorf("%w: %v", entities.ErrInvalidRequest, err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c,
			fmt.Errorf("%w: meeting_date must be YYYY-MM-DD", entities.ErrInvalidRequest))
	}
	meetingDate, err := req.ParsedDate()
	if err != nil {
		return HandleError(h.logger, c,
			fmt.Errorf("%w: meeting_date must be YYYY-MM-DD", entities.ErrInvalidRequest))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c,
			fmt.Errorf("%w: multipart field %q is required", entities.ErrInvalidRequest, "file"))
	}

	path, err := h.saveUpload(fileHeader)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	defer os.Remove(path)

	result, err := h.service.Process(ctx, pipeline.ProcessInput{
		FileName:    fileHeader.Filename,
		Path:        path,
		MeetingDate: meetingDate,
		OpenAIKey:   apiKey,
		StoreToken:  storeToken,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, meeting.NewProcessResponse(result))
}

// saveUpload spools the uploaded part to a temp file, keeping the original
// extension so the dispatcher can classify it.
func (h *Meeting) saveUpload(fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrInvalidRequest, err)
	}
	defer src.Close()

	ext := filepath.Ext(fileHeader.Filename)
	dst, err := os.CreateTemp("", "artifact-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to spool upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to spool upload: %w", err)
	}
	return dst.Name(), nil
}

// List returns stored records, newest first
func (h *Meeting) List(c echo.Context) error {
	ctx := c.Request().Context()

	var req meeting.ListRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c,
			fmt.Errorf("%w: %v", entities.ErrInvalidRequest, err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c,
			fmt.Errorf("%w: %v", entities.ErrInvalidRequest, err))
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	records, err := h.records.List(ctx, req.Limit, req.Offset)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	total, err := h.records.Count(ctx)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := meeting.ListResponse{
		Records: make([]meeting.RecordResponse, 0, len(records)),
		Total:   total,
		Limit:   req.Limit,
		Offset:  req.Offset,
	}
	for i := range records {
		resp.Records = append(resp.Records, meeting.NewRecordResponse(&records[i]))
	}

	return HandleSuccess(h.logger, c, resp)
}

// Get returns a single record by id
func (h *Meeting) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c,
			fmt.Errorf("%w: id must be a UUID", entities.ErrInvalidRequest))
	}

	record, err := h.records.GetByID(ctx, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, meeting.NewRecordResponse(record))
}

// DatasetInfo reports the state of the dataset bucket
func (h *Meeting) DatasetInfo(c echo.Context) error {
	ctx := c.Request().Context()

	if h.dataset == nil {
		return HandleError(h.logger, c,
			fmt.Errorf("%w: dataset store is not configured", entities.ErrPersistenceUnavailable))
	}

	info, err := h.dataset.Info(ctx)
	if err != nil {
		return HandleError(h.logger, c,
			fmt.Errorf("%w: %v", entities.ErrPersistenceUnavailable, err))
	}

	return HandleSuccess(h.logger, c, info)
}
