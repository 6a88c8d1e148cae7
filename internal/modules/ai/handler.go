package ai

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/researchhub/core/internal/middleware"
	"github.com/researchhub/core/internal/pkg/response"
)

// Handler exposes the direct AI endpoints (backend listing, summarize,
// paraphrase, explain). Chat and citations have their own modules on top
// of the same Service.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := rg.Group("/ai")
	group.GET("/backends", h.ListBackends)

	authed := group.Group("", authMW)
	authed.POST("/summarize", h.Summarize)
	authed.POST("/paraphrase", h.Paraphrase)
	authed.POST("/explain", h.Explain)
}

func (h *Handler) ListBackends(c *gin.Context) {
	response.OK(c, h.svc.Backends())
}

func (h *Handler) Summarize(c *gin.Context) {
	var dto SummarizeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.svc.Summarize(c.Request.Context(), middleware.CurrentUserID(c), dto)
	if err != nil {
		writeAIError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *Handler) Paraphrase(c *gin.Context) {
	var dto ParaphraseDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.svc.Paraphrase(c.Request.Context(), middleware.CurrentUserID(c), dto)
	if err != nil {
		writeAIError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *Handler) Explain(c *gin.Context) {
	var dto ExplainDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.svc.Explain(c.Request.Context(), middleware.CurrentUserID(c), dto)
	if err != nil {
		writeAIError(c, err)
		return
	}
	response.OK(c, result)
}

// writeAIError maps service errors onto the response envelope. Provider
// failures come back as a generic 502 so upstream error strings never
// reach the client.
func writeAIError(c *gin.Context, err error) {
	if rle, ok := AsRateLimit(err); ok {
		response.TooManyRequests(c, "backend is cooling down", rle.Wait)
		return
	}
	switch {
	case errors.Is(err, ErrDocumentNotFound):
		response.NotFoundMsg(c, "document not found")
	case errors.Is(err, ErrNoExtractedText):
		response.BadRequest(c, "document has no extracted text yet")
	case errors.Is(err, ErrEmptyInput):
		response.BadRequest(c, "nothing to work on: pass text or a document id")
	case errors.Is(err, ErrBackendUnavailable):
		response.BadRequest(c, "requested ai backend is not available")
	default:
		response.BadGateway(c, "ai backend request failed")
	}
}
