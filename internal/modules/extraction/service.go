package extraction

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/researchhub/core/internal/config"
	"github.com/researchhub/core/internal/models"
	"github.com/researchhub/core/internal/pkg/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrNoSource         = errors.New("document has no fetchable source")
	ErrNotExtracted     = errors.New("document has no extracted text yet")
)

// Service resolves documents to fetchable sources, runs the pipeline,
// and persists accepted text.
type Service struct {
	db     *gorm.DB
	cfg    *config.AppConfig
	orch   *Orchestrator
	store  *storage.S3
	logger *zap.Logger
}

func NewService(db *gorm.DB, cfg *config.AppConfig, orch *Orchestrator, store *storage.S3, logger *zap.Logger) *Service {
	return &Service{db: db, cfg: cfg, orch: orch, store: store, logger: logger}
}

// Extract runs the full pipeline for a document and upserts the result.
func (s *Service) Extract(ctx context.Context, userID, documentID string) (*models.ExtractedTextModel, error) {
	doc, src, err := s.resolveSource(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}

	result, err := s.orch.Run(ctx, userID, src)
	if err != nil {
		return nil, err
	}
	return s.persist(doc, result)
}

// ExtractOCR is the manual OCR-only entry point.
func (s *Service) ExtractOCR(ctx context.Context, userID, documentID string) (*models.ExtractedTextModel, error) {
	doc, src, err := s.resolveSource(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}

	result, err := s.orch.RunOCR(ctx, userID, src)
	if err != nil {
		return nil, err
	}
	return s.persist(doc, result)
}

// Get returns the persisted extracted text for a document.
func (s *Service) Get(userID, documentID string) (*models.ExtractedTextModel, error) {
	if _, err := s.loadDocument(userID, documentID); err != nil {
		return nil, err
	}

	var extracted models.ExtractedTextModel
	err := s.db.Where("document_id = ?", documentID).First(&extracted).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotExtracted
	}
	if err != nil {
		return nil, err
	}
	return &extracted, nil
}

func (s *Service) loadDocument(userID, documentID string) (*models.DocumentModel, error) {
	var doc models.DocumentModel
	err := s.db.Where("id = ? AND user_id = ?", documentID, userID).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Service) resolveSource(ctx context.Context, userID, documentID string) (*models.DocumentModel, Source, error) {
	doc, err := s.loadDocument(userID, documentID)
	if err != nil {
		return nil, Source{}, err
	}

	url := strings.TrimSpace(doc.SourceURL)
	if url == "" && doc.StorageKey != "" && s.store != nil {
		url, err = s.store.ObjectURL(ctx, doc.StorageKey)
		if err != nil {
			return nil, Source{}, err
		}
	}
	if url == "" {
		return nil, Source{}, ErrNoSource
	}
	return doc, Source{URL: url, FileType: doc.FileType}, nil
}

// persist upserts the extraction result keyed on document id: the first
// run creates the row, later runs overwrite it in place.
func (s *Service) persist(doc *models.DocumentModel, result *Result) (*models.ExtractedTextModel, error) {
	words, chars := textCounts(result.Text)
	record := models.ExtractedTextModel{
		DocumentID:  doc.ID,
		Text:        result.Text,
		Method:      result.Method,
		WordCount:   words,
		CharCount:   chars,
		Language:    detectLanguage(result.Text),
		ExtractedAt: time.Now(),
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "document_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"text", "method", "word_count", "char_count", "language", "extracted_at", "updated_at",
		}),
	}).Create(&record).Error
	if err != nil {
		return nil, err
	}

	var saved models.ExtractedTextModel
	if err := s.db.Where("document_id = ?", doc.ID).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func textCounts(text string) (words, chars int) {
	trimmed := strings.TrimSpace(text)
	return len(strings.Fields(trimmed)), utf8.RuneCountInString(trimmed)
}

// detectLanguage is a coarse script-based guess, enough to pick the
// summary language default. Latin-script text reports as English.
func detectLanguage(text string) string {
	var han, cyrillic, latin int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			han++
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.IsLetter(r):
			latin++
		}
	}
	total := han + cyrillic + latin
	if total == 0 {
		return "en"
	}
	switch {
	case han*2 > total:
		return "zh"
	case cyrillic*2 > total:
		return "ru"
	default:
		return "en"
	}
}
