package citation

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/researchhub/core/internal/middleware"
	"github.com/researchhub/core/internal/modules/ai"
	"github.com/researchhub/core/internal/pkg/pagination"
	"github.com/researchhub/core/internal/pkg/response"
)

type generateDTO struct {
	DocumentID string `json:"document_id" binding:"required"`
	Backend    string `json:"backend"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := rg.Group("/citations")
	group.GET("/styles", h.ListStyles)

	authed := group.Group("", authMW)
	authed.POST("", h.Generate)
	authed.GET("", h.List)
	authed.GET("/:id", h.Get)
	authed.GET("/:id/renders", h.Renders)
	authed.DELETE("/:id", h.Delete)
}

// GET /citations/styles — the supported style identifiers.
func (h *Handler) ListStyles(c *gin.Context) {
	response.OK(c, StyleNames())
}

func (h *Handler) Generate(c *gin.Context) {
	var dto generateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "document_id is required")
		return
	}

	record, err := h.svc.Generate(c.Request.Context(), middleware.CurrentUserID(c), dto.DocumentID, dto.Backend)
	if err != nil {
		writeCitationError(c, err)
		return
	}
	response.Created(c, record)
}

func (h *Handler) List(c *gin.Context) {
	citations, page, err := h.svc.List(
		middleware.CurrentUserID(c),
		c.Query("document_id"),
		pagination.FromContext(c),
	)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, citations, page)
}

// GET /citations/:id?style=mla — re-renders on demand; the stored
// record keeps the default-style string.
func (h *Handler) Get(c *gin.Context) {
	record, rendered, err := h.svc.Get(middleware.CurrentUserID(c), c.Param("id"), c.Query("style"))
	if err != nil {
		writeCitationError(c, err)
		return
	}
	response.OK(c, gin.H{
		"citation": record,
		"rendered": rendered,
	})
}

// GET /citations/:id/renders — the same metadata in every supported style.
func (h *Handler) Renders(c *gin.Context) {
	record, _, err := h.svc.Get(middleware.CurrentUserID(c), c.Param("id"), "")
	if err != nil {
		writeCitationError(c, err)
		return
	}
	renders := make(map[string]string, len(Styles))
	for _, name := range StyleNames() {
		renders[name] = Render(name, record.Meta)
	}
	response.OK(c, renders)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(middleware.CurrentUserID(c), c.Param("id")); err != nil {
		writeCitationError(c, err)
		return
	}
	response.NoContent(c)
}

func writeCitationError(c *gin.Context, err error) {
	if rle, ok := ai.AsRateLimit(err); ok {
		response.TooManyRequests(c, "backend is cooling down", rle.Wait)
		return
	}
	switch {
	case errors.Is(err, ErrCitationNotFound):
		response.NotFoundMsg(c, "citation not found")
	case errors.Is(err, ErrNoMetadata):
		response.UnprocessableEntity(c, "no citation metadata could be extracted")
	case errors.Is(err, ai.ErrDocumentNotFound):
		response.NotFoundMsg(c, "document not found")
	case errors.Is(err, ai.ErrNoExtractedText):
		response.BadRequest(c, "document has no extracted text yet")
	case errors.Is(err, ai.ErrBackendUnavailable):
		response.BadRequest(c, "requested ai backend is not available")
	default:
		response.BadGateway(c, "citation generation failed")
	}
}
