package extraction

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/researchhub/core/internal/middleware"
	"github.com/researchhub/core/internal/pkg/pdfco"
	"github.com/researchhub/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := rg.Group("/documents", authMW)
	group.POST("/:id/extract", h.Extract)
	group.POST("/:id/extract/ocr", h.ExtractOCR)
	group.GET("/:id/text", h.GetText)
}

// POST /documents/:id/extract — run the full pipeline.
func (h *Handler) Extract(c *gin.Context) {
	record, err := h.svc.Extract(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		writeExtractionError(c, err)
		return
	}
	response.OK(c, record)
}

// POST /documents/:id/extract/ocr — manual OCR-only re-run.
func (h *Handler) ExtractOCR(c *gin.Context) {
	record, err := h.svc.ExtractOCR(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		writeExtractionError(c, err)
		return
	}
	response.OK(c, record)
}

// GET /documents/:id/text — fetch the persisted extraction.
func (h *Handler) GetText(c *gin.Context) {
	record, err := h.svc.Get(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		writeExtractionError(c, err)
		return
	}
	response.OK(c, record)
}

func writeExtractionError(c *gin.Context, err error) {
	var noText *NoUsableTextError
	if errors.As(err, &noText) {
		// 422 with the last stage's raw output so the user can inspect
		// what the rejected extraction actually produced.
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"ok":          0,
			"code":        http.StatusUnprocessableEntity,
			"message":     "no usable text found in document",
			"last_raw":    noText.LastRaw,
			"last_method": noText.LastMethod,
		})
		return
	}
	switch {
	case errors.Is(err, ErrDocumentNotFound):
		response.NotFoundMsg(c, "document not found")
	case errors.Is(err, ErrNoSource):
		response.BadRequest(c, "document has no fetchable source")
	case errors.Is(err, ErrNotExtracted):
		response.NotFoundMsg(c, "document has no extracted text yet")
	case errors.Is(err, pdfco.ErrMissingAPIKey):
		response.InternalError(c, err)
	default:
		response.BadGateway(c, "extraction failed")
	}
}
