package imports

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-studio/internal/extract"
	"resume-studio/internal/shared/server/respond"
	"resume-studio/internal/shared/telemetry"
)

// DefaultMaxBytes caps an imported document at 5 MiB.
const DefaultMaxBytes int64 = 5 << 20

type Handler struct {
	MaxBytes int64
}

func NewHandler(maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Handler{MaxBytes: maxBytes}
}

type importResponse struct {
	Text     string `json:"text"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/imports", h.importDocument)
}

// importDocument turns an uploaded resume into plain text. Nothing is stored.
func (h *Handler) importDocument(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes+4096)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.tooLarge(c)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > h.MaxBytes {
		h.tooLarge(c)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.MaxBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	if int64(len(data)) > h.MaxBytes {
		h.tooLarge(c)
		return
	}

	fileName := strings.TrimSpace(fileHeader.Filename)
	doc, err := extract.FromBytes(c.Request.Context(), data, fileName)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "unsupported_file", err.Error(), gin.H{
				"accepted": []string{extract.MimePDF, extract.MimeDOCX, extract.MimeText, extract.MimeMarkdown},
			})
		case errors.Is(err, extract.ErrEmptyDocument):
			respond.Error(c, http.StatusUnprocessableEntity, "empty_document", err.Error(), nil)
		default:
			telemetry.Warn("import.extract_failed", map[string]any{
				"request_id": telemetry.RequestID(c.Request.Context()),
				"file_name":  fileName,
				"size_bytes": len(data),
				"error":      err,
			})
			respond.Error(c, http.StatusUnprocessableEntity, "unreadable_document", "unable to extract text from document", nil)
		}
		return
	}

	telemetry.Info("import.extracted", map[string]any{
		"request_id": telemetry.RequestID(c.Request.Context()),
		"mime_type":  doc.MIMEType,
		"size_bytes": len(data),
		"text_chars": len([]rune(doc.Text)),
	})
	respond.OK(c, importResponse{Text: doc.Text, FileName: fileName, MimeType: doc.MIMEType})
}

func (h *Handler) tooLarge(c *gin.Context) {
	respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds size limit", gin.H{"maxBytes": h.MaxBytes})
}
