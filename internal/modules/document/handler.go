package document

import (
	"encoding/json"
	"errors"
	"strings"

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
	group := rg.Group("/documents", authMW)
	group.POST("", h.Upload)
	group.POST("/register", h.Register)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PATCH("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// POST /documents — multipart upload with optional title and authors
// fields. Authors is a JSON array or a comma-separated string.
func (h *Handler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	doc, err := h.svc.Upload(
		c.Request.Context(),
		middleware.CurrentUserID(c),
		c.PostForm("title"),
		parseAuthors(c.PostForm("authors")),
		header,
	)
	if err != nil {
		writeDocumentError(c, err)
		return
	}
	response.Created(c, doc)
}

// POST /documents/register — create a record for a remote URL.
func (h *Handler) Register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "title, source_url and file_type are required")
		return
	}

	doc, err := h.svc.Register(middleware.CurrentUserID(c), dto)
	if err != nil {
		writeDocumentError(c, err)
		return
	}
	response.Created(c, doc)
}

func (h *Handler) List(c *gin.Context) {
	docs, page, err := h.svc.List(middleware.CurrentUserID(c), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, docs, page)
}

func (h *Handler) Get(c *gin.Context) {
	doc, err := h.svc.Get(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		writeDocumentError(c, err)
		return
	}
	response.OK(c, doc)
}

func (h *Handler) Update(c *gin.Context) {
	var dto UpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	doc, err := h.svc.Update(middleware.CurrentUserID(c), c.Param("id"), dto)
	if err != nil {
		writeDocumentError(c, err)
		return
	}
	response.OK(c, doc)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		writeDocumentError(c, err)
		return
	}
	response.NoContent(c)
}

func writeDocumentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "document not found")
	case errors.Is(err, ErrUnsupportedType):
		response.BadRequest(c, "only pdf, epub and txt files are supported")
	case errors.Is(err, ErrStorageDisabled):
		response.InternalError(c, err)
	default:
		response.BadRequest(c, err.Error())
	}
}

func parseAuthors(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var authors []string
		if err := json.Unmarshal([]byte(raw), &authors); err == nil {
			return authors
		}
	}

	parts := strings.Split(raw, ",")
	authors := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			authors = append(authors, p)
		}
	}
	return authors
}
