package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// Response shapes
type success struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Info    string `json:"info,omitempty"`
}

// statusForError maps a domain error to an HTTP status and caller message.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, entities.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, entities.ErrUnsupportedFormat):
		return http.StatusBadRequest, "unsupported file format"
	case errors.Is(err, entities.ErrCorruptDocument):
		return http.StatusUnprocessableEntity, "document could not be read"
	case errors.Is(err, entities.ErrEmptyContent):
		return http.StatusUnprocessableEntity, "document contains no text"
	case errors.Is(err, entities.ErrEmptyTranscript):
		return http.StatusUnprocessableEntity, "nothing to analyze"
	case errors.Is(err, entities.ErrDecodeFailure):
		return http.StatusUnprocessableEntity, "audio could not be decoded"
	case errors.Is(err, entities.ErrTranscriptionTimeout):
		return http.StatusGatewayTimeout, "transcription timed out"
	case errors.Is(err, entities.ErrMalformedAnalysis):
		return http.StatusBadGateway, "analysis service returned an unusable response"
	case errors.Is(err, entities.ErrAnalysisServiceUnavailable):
		return http.StatusServiceUnavailable, "analysis service unavailable"
	case errors.Is(err, entities.ErrPersistenceUnavailable):
		return http.StatusServiceUnavailable, "storage unavailable"
	case errors.Is(err, entities.ErrRecordNotFound):
		return http.StatusNotFound, "record not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	status, message := statusForError(err)

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    status,
		Message: message,
		Info:    err.Error(),
	}

	return c.JSON(status, body)
}
