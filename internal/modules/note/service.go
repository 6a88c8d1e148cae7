package note

import (
	"bytes"
	"errors"
	"strings"

	"github.com/researchhub/core/internal/models"
	"github.com/researchhub/core/internal/pkg/pagination"
	"github.com/researchhub/core/internal/pkg/response"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gorm.io/gorm"
)

var ErrNoteNotFound = errors.New("note not found")

// markdown renders note content for the HTML endpoint. Raw HTML inside
// notes stays escaped.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Service is plain CRUD over notes. AI-generated notes are created by
// the AI module and only read and deleted here; their flags are not
// editable.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateDTO struct {
	DocumentID string   `json:"document_id" binding:"required"`
	Content    string   `json:"content" binding:"required"`
	Tags       []string `json:"tags"`
}

type UpdateDTO struct {
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}

func (s *Service) Create(userID string, dto CreateDTO) (*models.NoteModel, error) {
	note := models.NoteModel{
		Owned:      models.Owned{UserID: userID},
		DocumentID: dto.DocumentID,
		Content:    dto.Content,
		Tags:       normalizeTags(dto.Tags),
	}
	if err := s.db.Create(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// List returns the user's notes, optionally scoped to a document and
// filtered by tag.
func (s *Service) List(userID, documentID, tag string, q pagination.Query) ([]models.NoteModel, response.Pagination, error) {
	query := s.db.Model(&models.NoteModel{}).
		Where("user_id = ?", userID).
		Order("updated_at DESC")
	if documentID != "" {
		query = query.Where("document_id = ?", documentID)
	}
	if tag != "" {
		// tags are stored as a JSON array string; a quoted LIKE match is
		// exact enough for single-word tags
		query = query.Where("tags LIKE ?", "%\""+strings.TrimSpace(tag)+"\"%")
	}

	var notes []models.NoteModel
	page, err := pagination.Paginate(query, q, &notes)
	return notes, page, err
}

func (s *Service) Get(userID, noteID string) (*models.NoteModel, error) {
	var note models.NoteModel
	err := s.db.Where("id = ? AND user_id = ?", noteID, userID).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *Service) Update(userID, noteID string, dto UpdateDTO) (*models.NoteModel, error) {
	note, err := s.Get(userID, noteID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if dto.Tags != nil {
		note.Tags = normalizeTags(*dto.Tags)
		updates["tags"] = note.Tags
	}
	if len(updates) == 0 {
		return note, nil
	}

	if err := s.db.Model(note).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(userID, noteID)
}

func (s *Service) Delete(userID, noteID string) error {
	note, err := s.Get(userID, noteID)
	if err != nil {
		return err
	}
	return s.db.Delete(note).Error
}

// RenderHTML converts a note's markdown content to HTML.
func (s *Service) RenderHTML(userID, noteID string) (string, error) {
	note, err := s.Get(userID, noteID)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(note.Content), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
