// Package contact takes messages from the public contact form. No auth:
// visitors can write before signing up.
package contact

import (
	"github.com/gin-gonic/gin"
	"github.com/researchhub/core/internal/models"
	"github.com/researchhub/core/internal/pkg/response"
	"gorm.io/gorm"
)

type submitDTO struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contact", h.Submit)
}

func (h *Handler) Submit(c *gin.Context) {
	var dto submitDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "name, email and message are required")
		return
	}

	record := models.ContactMessageModel{
		Name:    dto.Name,
		Email:   dto.Email,
		Subject: dto.Subject,
		Message: dto.Message,
	}
	if err := h.db.Create(&record).Error; err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"id": record.ID})
}
