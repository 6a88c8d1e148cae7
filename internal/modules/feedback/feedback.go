// Package feedback collects in-app ratings and free-text comments.
package feedback

import (
	"github.com/gin-gonic/gin"
	"github.com/researchhub/core/internal/middleware"
	"github.com/researchhub/core/internal/models"
	"github.com/researchhub/core/internal/pkg/pagination"
	"github.com/researchhub/core/internal/pkg/response"
	"gorm.io/gorm"
)

type submitDTO struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Message string `json:"message"`
	Page    string `json:"page"`
}

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := rg.Group("/feedback", authMW)
	group.POST("", h.Submit)
	group.GET("", h.List)
	group.DELETE("/:id", h.Delete)
}

func (h *Handler) Submit(c *gin.Context) {
	var dto submitDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "rating must be between 1 and 5")
		return
	}

	record := models.FeedbackModel{
		Owned:   models.Owned{UserID: middleware.CurrentUserID(c)},
		Rating:  dto.Rating,
		Message: dto.Message,
		Page:    dto.Page,
	}
	if err := h.db.Create(&record).Error; err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, record)
}

func (h *Handler) List(c *gin.Context) {
	query := h.db.Model(&models.FeedbackModel{}).
		Where("user_id = ?", middleware.CurrentUserID(c)).
		Order("created_at DESC")

	var records []models.FeedbackModel
	page, err := pagination.Paginate(query, pagination.FromContext(c), &records)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, records, page)
}

func (h *Handler) Delete(c *gin.Context) {
	result := h.db.
		Where("id = ? AND user_id = ?", c.Param("id"), middleware.CurrentUserID(c)).
		Delete(&models.FeedbackModel{})
	if result.Error != nil {
		response.InternalError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		response.NotFoundMsg(c, "feedback entry not found")
		return
	}
	response.OK(c, gin.H{"deleted": true})
}
