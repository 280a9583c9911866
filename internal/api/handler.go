package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/document"
	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/document/word"
)

// FormField is the multipart field carrying the uploaded PDF
const FormField = "pdfFile"

// multipartOverhead is the slack allowed on top of the file size for the
// multipart envelope before the body is cut off
const multipartOverhead = 1 << 20

// Response messages
const (
	msgInvalidFile      = "Invalid PDF file"
	msgConversionFailed = "Conversion failed"
	msgFileTooLarge     = "File too large"
	msgErrorPrefix      = "An error occurred: "
)

// Converter is the conversion pipeline the handler drives
type Converter interface {
	Convert(ctx context.Context, data []byte) (*document.Result, error)
}

// Handler handles API requests
type Handler struct {
	converter     Converter
	logger        logrus.FieldLogger
	maxUploadSize int64
}

// NewHandler creates a new handler. maxUploadSize <= 0 disables the upload limit.
func NewHandler(converter Converter, logger logrus.FieldLogger, maxUploadSize int64) *Handler {
	return &Handler{
		converter:     converter,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// HealthCheck provides a simple health check endpoint
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Convert accepts a PDF upload and responds with the converted DOCX
func (h *Handler) Convert(c *gin.Context) {
	logger := h.logger.WithField("request_id", RequestIDFrom(c))

	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+multipartOverhead)
	}

	file, header, err := c.Request.FormFile(FormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.WithField("limit", h.maxUploadSize).Warn("Upload body exceeds limit")
			c.String(http.StatusRequestEntityTooLarge, msgFileTooLarge)
			return
		}
		logger.WithError(err).Debug("No PDF in request")
		c.String(http.StatusBadRequest, msgInvalidFile)
		return
	}
	defer file.Close()

	if header.Size == 0 {
		c.String(http.StatusBadRequest, msgInvalidFile)
		return
	}
	if h.maxUploadSize > 0 && header.Size > h.maxUploadSize {
		logger.WithFields(logrus.Fields{
			"size":  header.Size,
			"limit": h.maxUploadSize,
		}).Warn("Upload exceeds limit")
		c.String(http.StatusRequestEntityTooLarge, msgFileTooLarge)
		return
	}

	logger = logger.WithFields(logrus.Fields{
		"filename": header.Filename,
		"size":     header.Size,
	})

	data, err := document.ReadUpload(file, h.maxUploadSize)
	if err != nil {
		h.writeError(c, logger, err)
		return
	}

	result, err := h.converter.Convert(c.Request.Context(), data)
	if err != nil {
		h.writeError(c, logger, err)
		return
	}

	if result == nil || len(result.Data) == 0 {
		logger.Error("Converter returned no output")
		c.String(http.StatusInternalServerError, msgConversionFailed)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="converted.docx"`)
	c.Header("X-Conversion-Mode", string(result.Mode()))
	c.Header("X-Page-Count", strconv.Itoa(result.Pages))
	c.Data(http.StatusOK, word.ContentType, result.Data)
}

// writeError maps conversion errors to responses. Decode failures carry the
// generic corrupt-file message; the cause only goes to the log.
func (h *Handler) writeError(c *gin.Context, logger logrus.FieldLogger, err error) {
	switch {
	case errors.Is(err, document.ErrEmptyInput):
		c.String(http.StatusBadRequest, msgInvalidFile)
	case errors.Is(err, document.ErrFileTooLarge):
		logger.WithError(err).Warn("Upload exceeds limit")
		c.String(http.StatusRequestEntityTooLarge, msgFileTooLarge)
	case errors.Is(err, document.ErrInvalidDocument):
		logger.WithError(err).Warn("Rejected corrupt PDF")
		c.String(http.StatusInternalServerError, "%s%s", msgErrorPrefix, document.ErrInvalidDocument)
	default:
		logger.WithError(err).Error("Conversion error")
		c.String(http.StatusInternalServerError, "%s%s", msgErrorPrefix, err)
	}
}
