package chat

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/researchhub/core/internal/middleware"
	"github.com/researchhub/core/internal/modules/ai"
	"github.com/researchhub/core/internal/pkg/pagination"
	"github.com/researchhub/core/internal/pkg/response"
)

// CreateSessionDTO opens a conversation on one document.
type CreateSessionDTO struct {
	DocumentID string `json:"document_id" binding:"required"`
	Title      string `json:"title"`
	Backend    string `json:"backend"`
}

// SendMessageDTO is one user turn.
type SendMessageDTO struct {
	Content string `json:"content" binding:"required"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := rg.Group("/chat/sessions", authMW)
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.DELETE("/:id", h.Delete)
	group.POST("/:id/messages", h.Send)
}

func (h *Handler) Create(c *gin.Context) {
	var dto CreateSessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "document_id is required")
		return
	}

	session, err := h.svc.Create(middleware.CurrentUserID(c), dto)
	if err != nil {
		writeChatError(c, err)
		return
	}
	response.Created(c, session)
}

func (h *Handler) List(c *gin.Context) {
	sessions, page, err := h.svc.List(
		middleware.CurrentUserID(c),
		c.Query("document_id"),
		pagination.FromContext(c),
	)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, sessions, page)
}

func (h *Handler) Get(c *gin.Context) {
	session, err := h.svc.Get(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		writeChatError(c, err)
		return
	}
	response.OK(c, session)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(middleware.CurrentUserID(c), c.Param("id")); err != nil {
		writeChatError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) Send(c *gin.Context) {
	var dto SendMessageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "content is required")
		return
	}

	session, err := h.svc.Send(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), dto)
	if err != nil {
		writeChatError(c, err)
		return
	}
	response.OK(c, session)
}

func writeChatError(c *gin.Context, err error) {
	if rle, ok := ai.AsRateLimit(err); ok {
		response.TooManyRequests(c, "backend is cooling down", rle.Wait)
		return
	}
	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.NotFoundMsg(c, "chat session not found")
	case errors.Is(err, ErrEmptyMessage):
		response.BadRequest(c, "message content is empty")
	case errors.Is(err, ai.ErrDocumentNotFound):
		response.NotFoundMsg(c, "document not found")
	case errors.Is(err, ai.ErrNoExtractedText):
		response.BadRequest(c, "document has no extracted text yet")
	case errors.Is(err, ai.ErrBackendUnavailable):
		response.BadRequest(c, "requested ai backend is not available")
	default:
		response.BadGateway(c, "ai backend request failed")
	}
}
