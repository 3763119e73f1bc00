package sessions

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-studio/internal/extraction"
	"resume-studio/internal/llm"
	"resume-studio/internal/refimage"
	"resume-studio/internal/shared/server/respond"
	"resume-studio/internal/shared/util"
	"resume-studio/resume/contract"
	"resume-studio/resume/render"
	"resume-studio/resume/theme"
)

const maxGenerateBody = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc           *Service
	MaxImageBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxImageBytes int64) *Handler {
	if maxImageBytes <= 0 {
		maxImageBytes = refimage.DefaultMaxBytes
	}
	return &Handler{Svc: svc, MaxImageBytes: maxImageBytes}
}

// RegisterRoutes attaches session, theme and render routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/themes", h.themes)
	rg.POST("/render", h.renderPreview)

	rg.POST("/sessions", h.create)
	rg.GET("/sessions/:id", h.get)
	rg.DELETE("/sessions/:id", h.delete)
	rg.PUT("/sessions/:id/theme", h.selectTheme)
	rg.PUT("/sessions/:id/reference-image", h.stageImage)
	rg.DELETE("/sessions/:id/reference-image", h.clearImage)
	rg.POST("/sessions/:id/generate", h.generate)
	rg.POST("/sessions/:id/reset", h.reset)
	rg.GET("/sessions/:id/document", h.document)
}

func (h *Handler) themes(c *gin.Context) {
	respond.OK(c, gin.H{"themes": theme.All(), "default": theme.Default().ID})
}

func (h *Handler) create(c *gin.Context) {
	sess, err := h.Svc.Create(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create session", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(sess))
}

func (h *Handler) get(c *gin.Context) {
	sess, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, toResponse(sess))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) selectTheme(c *gin.Context) {
	var req selectThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	sess, err := h.Svc.SelectTheme(c.Request.Context(), c.Param("id"), req.ThemeID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, toResponse(sess))
}

func (h *Handler) stageImage(c *gin.Context) {
	img, fileName, err := h.readImage(c)
	if err != nil {
		switch {
		case errors.Is(err, refimage.ErrImageTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "image_too_large", "reference image exceeds size limit", gin.H{"maxBytes": h.MaxImageBytes})
		case errors.Is(err, refimage.ErrUnsupportedImage), errors.Is(err, refimage.ErrInvalidDataURL):
			respond.Error(c, http.StatusBadRequest, "unsupported_image", err.Error(), nil)
		default:
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		}
		return
	}

	sess, err := h.Svc.StageImage(c.Request.Context(), c.Param("id"), fileName, img)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, toResponse(sess))
}

func (h *Handler) readImage(c *gin.Context) (llm.Image, string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*h.MaxImageBytes+4096)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			if isBodyTooLarge(err) {
				return llm.Image{}, "", refimage.ErrImageTooLarge
			}
			return llm.Image{}, "", errors.New("image is required")
		}
		if fileHeader.Size > h.MaxImageBytes {
			return llm.Image{}, "", refimage.ErrImageTooLarge
		}
		file, err := fileHeader.Open()
		if err != nil {
			return llm.Image{}, "", errors.New("unable to read image")
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, h.MaxImageBytes+1))
		if err != nil {
			return llm.Image{}, "", errors.New("unable to read image")
		}
		img, err := refimage.FromBytes(data, h.MaxImageBytes)
		return img, fileHeader.Filename, err
	}

	var req referenceImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isBodyTooLarge(err) {
			return llm.Image{}, "", refimage.ErrImageTooLarge
		}
		return llm.Image{}, "", errors.New("invalid request body")
	}
	img, err := refimage.DecodeDataURL(req.DataURL, h.MaxImageBytes)
	return img, strings.TrimSpace(req.FileName), err
}

func (h *Handler) clearImage(c *gin.Context) {
	sess, err := h.Svc.ClearImage(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, toResponse(sess))
}

func (h *Handler) generate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxGenerateBody)

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	sess, err := h.Svc.Generate(c.Request.Context(), c.Param("id"), req.Text)
	if err == nil {
		c.Set("outcome", extraction.OutcomeSuccess)
		respond.OK(c, toResponse(sess))
		return
	}

	details := gin.H{"session": toResponse(sess)}
	switch {
	case errors.Is(err, ErrNotFound):
		h.fail(c, err)
	case errors.Is(err, ErrEmptyInput):
		c.Set("outcome", "empty_input")
		respond.Error(c, http.StatusBadRequest, "empty_input", sess.Message, details)
	case errors.Is(err, ErrGenerationInFlight):
		respond.Error(c, http.StatusConflict, "generation_in_flight", "a generation is already running for this session", details)
	case errors.Is(err, ErrSuperseded):
		c.Set("outcome", "superseded")
		respond.Error(c, http.StatusConflict, "superseded", "the generation was superseded by a newer request", details)
	case errors.Is(err, extraction.ErrNoData):
		c.Set("outcome", extraction.OutcomeNoData)
		respond.Error(c, http.StatusUnprocessableEntity, "no_data", sess.Message, details)
	case errors.Is(err, extraction.ErrMalformedResponse):
		c.Set("outcome", extraction.OutcomeMalformed)
		var schemaErr contract.SchemaError
		if errors.As(err, &schemaErr) {
			details["problems"] = schemaErr.Problems
		}
		respond.Error(c, http.StatusUnprocessableEntity, "malformed_response", sess.Message, details)
	case errors.Is(err, extraction.ErrServiceFailure):
		c.Set("outcome", extraction.OutcomeFailure)
		respond.Error(c, http.StatusBadGateway, "service_failure", sess.Message, details)
	default:
		h.fail(c, err)
	}
}

func (h *Handler) reset(c *gin.Context) {
	sess, err := h.Svc.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, toResponse(sess))
}

func (h *Handler) document(c *gin.Context) {
	page, err := h.Svc.Document(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if c.Query("download") == "1" {
		c.Header("Content-Disposition", `attachment; filename="resume.html"`)
	}
	respond.HTML(c, http.StatusOK, page)
}

// renderPreview renders arbitrary resume data without a session.
func (h *Handler) renderPreview(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxGenerateBody)

	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	th := theme.Default()
	if strings.TrimSpace(req.ThemeID) != "" {
		id, err := theme.ParseID(req.ThemeID)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "unknown_theme", err.Error(), gin.H{"themes": theme.All()})
			return
		}
		th, _ = theme.Lookup(id)
	}

	data, err := contract.Decode(req.Data)
	if err != nil {
		var schemaErr contract.SchemaError
		if errors.As(err, &schemaErr) {
			respond.Error(c, http.StatusUnprocessableEntity, "invalid_resume", "resume data does not match the schema", gin.H{"problems": schemaErr.Problems})
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "data must be a resume object", nil)
		return
	}

	var out string
	if c.Query("fragment") == "1" {
		out, err = render.HTML(data, th)
	} else {
		out, err = render.Page(data, th)
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render resume", nil)
		return
	}
	respond.HTML(c, http.StatusOK, out)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "session not found", nil)
	case errors.Is(err, ErrUnknownTheme):
		respond.Error(c, http.StatusBadRequest, "unknown_theme", err.Error(), gin.H{"themes": theme.All()})
	case errors.Is(err, util.ErrInvalidFileName):
		respond.Error(c, http.StatusBadRequest, "invalid_file_name", "file name is not allowed", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusServiceUnavailable, "request_canceled", "request was canceled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "request failed", nil)
	}
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
