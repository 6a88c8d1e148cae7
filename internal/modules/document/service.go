package document

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/researchhub/core/internal/models"
	"github.com/researchhub/core/internal/pkg/pagination"
	"github.com/researchhub/core/internal/pkg/response"
	"github.com/researchhub/core/internal/pkg/safeurl"
	"github.com/researchhub/core/internal/pkg/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrStorageDisabled = errors.New("object storage is not configured")
)

// Service owns the document lifecycle: upload or URL registration,
// listing, progress updates, and cascading deletion.
type Service struct {
	db     *gorm.DB
	store  *storage.S3
	logger *zap.Logger
}

func NewService(db *gorm.DB, store *storage.S3, logger *zap.Logger) *Service {
	return &Service{db: db, store: store, logger: logger}
}

// Upload stores the file in the object store and creates the record.
// The declared type comes from content sniffing, not the filename.
func (s *Service) Upload(ctx context.Context, userID, title string, authors []string, header *multipart.FileHeader) (*models.DocumentModel, error) {
	if s.store == nil || !s.store.Enabled() {
		return nil, ErrStorageDisabled
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, err
	}
	fileType, ok := fileTypeFromMime(mtype.String())
	if !ok {
		return nil, ErrUnsupportedType
	}
	if _, err := file.Seek(0, 0); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("documents/%s/%s%s", userID, uuid.NewString(), extensionFor(fileType))
	if err := s.store.Upload(ctx, key, mtype.String(), file, header.Size); err != nil {
		return nil, fmt.Errorf("object upload failed: %w", err)
	}

	if strings.TrimSpace(title) == "" {
		title = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	doc := models.DocumentModel{
		Owned:      models.Owned{UserID: userID},
		Title:      title,
		Authors:    authors,
		StorageKey: key,
		FileType:   fileType,
		SizeBytes:  header.Size,
	}
	if err := s.db.Create(&doc).Error; err != nil {
		// best effort: do not leak the object when the row fails
		_ = s.store.Delete(ctx, key)
		return nil, err
	}
	return &doc, nil
}

// Register creates a document backed by an external URL.
func (s *Service) Register(userID string, dto RegisterDTO) (*models.DocumentModel, error) {
	if !models.ValidFileType(dto.FileType) {
		return nil, ErrUnsupportedType
	}
	if _, err := safeurl.Validate(dto.SourceURL); err != nil {
		return nil, err
	}

	doc := models.DocumentModel{
		Owned:     models.Owned{UserID: userID},
		Title:     dto.Title,
		Authors:   dto.Authors,
		SourceURL: dto.SourceURL,
		FileType:  dto.FileType,
	}
	if err := s.db.Create(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns the user's documents newest first.
func (s *Service) List(userID string, q pagination.Query) ([]models.DocumentModel, response.Pagination, error) {
	query := s.db.Model(&models.DocumentModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	var docs []models.DocumentModel
	page, err := pagination.Paginate(query, q, &docs)
	return docs, page, err
}

func (s *Service) Get(userID, documentID string) (*models.DocumentModel, error) {
	var doc models.DocumentModel
	err := s.db.Where("id = ? AND user_id = ?", documentID, userID).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Update applies partial edits. Progress is clamped to 0..100.
func (s *Service) Update(userID, documentID string, dto UpdateDTO) (*models.DocumentModel, error) {
	doc, err := s.Get(userID, documentID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil && strings.TrimSpace(*dto.Title) != "" {
		updates["title"] = strings.TrimSpace(*dto.Title)
	}
	if dto.Authors != nil {
		doc.Authors = *dto.Authors
		updates["authors"] = doc.Authors
	}
	if dto.Progress != nil {
		updates["progress"] = clampProgress(*dto.Progress)
	}
	if len(updates) == 0 {
		return doc, nil
	}

	if err := s.db.Model(doc).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(userID, documentID)
}

// Delete removes the document and everything hanging off it: extracted
// text, chat sessions, citations, notes, and the stored object.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	doc, err := s.Get(userID, documentID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.ExtractedTextModel{},
			&models.ChatSessionModel{},
			&models.CitationModel{},
			&models.NoteModel{},
		} {
			if err := tx.Where("document_id = ?", documentID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(doc).Error
	})
	if err != nil {
		return err
	}

	if doc.StorageKey != "" && s.store != nil && s.store.Enabled() {
		if err := s.store.Delete(ctx, doc.StorageKey); err != nil {
			s.logger.Warn("storage object delete failed",
				zap.String("key", doc.StorageKey), zap.Error(err))
		}
	}
	return nil
}

func fileTypeFromMime(mime string) (models.DocumentFileType, bool) {
	switch {
	case strings.HasPrefix(mime, "application/pdf"):
		return models.FileTypePDF, true
	case strings.HasPrefix(mime, "application/epub+zip"):
		return models.FileTypeEPUB, true
	case strings.HasPrefix(mime, "text/plain"):
		return models.FileTypeTXT, true
	default:
		return "", false
	}
}

func extensionFor(t models.DocumentFileType) string {
	switch t {
	case models.FileTypeEPUB:
		return ".epub"
	case models.FileTypeTXT:
		return ".txt"
	default:
		return ".pdf"
	}
}

func clampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
