package note

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/researchhub/core/internal/middleware"
	"github.com/researchhub/core/internal/pkg/pagination"
	"github.com/researchhub/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := rg.Group("/notes", authMW)
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.GET("/:id/html", h.GetHTML)
	group.PATCH("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var dto CreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "document_id and content are required")
		return
	}

	note, err := h.svc.Create(middleware.CurrentUserID(c), dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, note)
}

func (h *Handler) List(c *gin.Context) {
	notes, page, err := h.svc.List(
		middleware.CurrentUserID(c),
		c.Query("document_id"),
		c.Query("tag"),
		pagination.FromContext(c),
	)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, notes, page)
}

func (h *Handler) Get(c *gin.Context) {
	note, err := h.svc.Get(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		writeNoteError(c, err)
		return
	}
	response.OK(c, note)
}

// GET /notes/:id/html — the note's markdown rendered to HTML.
func (h *Handler) GetHTML(c *gin.Context) {
	rendered, err := h.svc.RenderHTML(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		writeNoteError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(rendered))
}

func (h *Handler) Update(c *gin.Context) {
	var dto UpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	note, err := h.svc.Update(middleware.CurrentUserID(c), c.Param("id"), dto)
	if err != nil {
		writeNoteError(c, err)
		return
	}
	response.OK(c, note)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(middleware.CurrentUserID(c), c.Param("id")); err != nil {
		writeNoteError(c, err)
		return
	}
	response.NoContent(c)
}

func writeNoteError(c *gin.Context, err error) {
	if errors.Is(err, ErrNoteNotFound) {
		response.NotFoundMsg(c, "note not found")
		return
	}
	response.InternalError(c, err)
}
