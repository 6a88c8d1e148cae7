package citation

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/researchhub/core/internal/models"
	"github.com/researchhub/core/internal/modules/ai"
	"github.com/researchhub/core/internal/pkg/pagination"
	"github.com/researchhub/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrCitationNotFound = errors.New("citation not found")
	ErrNoMetadata       = errors.New("no citation metadata could be extracted")
)

const (
	mysqlDuplicateEntry  = 1062
	numberAssignRetries  = 3
	citationSourceBudget = 4000
)

// Service generates and stores citations. Metadata is immutable once
// generated; the only edit path is delete plus regenerate.
type Service struct {
	db     *gorm.DB
	ai     *ai.Service
	logger *zap.Logger
}

func NewService(db *gorm.DB, aiSvc *ai.Service, logger *zap.Logger) *Service {
	return &Service{db: db, ai: aiSvc, logger: logger}
}

// Generate extracts bibliographic metadata from the head of the
// document's text and stores it with the next free per-document number.
func (s *Service) Generate(ctx context.Context, userID, documentID, backendID string) (*models.CitationModel, error) {
	_, text, err := s.loadDocumentText(userID, documentID)
	if err != nil {
		return nil, err
	}

	meta, err := s.ai.ExtractCitationMeta(ctx, userID, backendID, head(text, citationSourceBudget))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(meta.Title) == "" && len(meta.Authors) == 0 {
		return nil, ErrNoMetadata
	}

	record := models.CitationModel{
		Owned:      models.Owned{UserID: userID},
		DocumentID: documentID,
		Rendered:   Render(DefaultStyle, meta),
		Meta:       meta,
	}

	// Number assignment races with concurrent generations for the same
	// document; the unique (document_id, number) index catches the loser,
	// which re-reads the max and tries again.
	for attempt := 0; attempt < numberAssignRetries; attempt++ {
		err = s.db.Transaction(func(tx *gorm.DB) error {
			var maxNumber int
			if err := tx.Model(&models.CitationModel{}).
				Where("document_id = ?", documentID).
				Select("COALESCE(MAX(number), 0)").
				Scan(&maxNumber).Error; err != nil {
				return err
			}
			record.Number = maxNumber + 1
			return tx.Create(&record).Error
		})
		if !isDuplicateEntry(err) {
			break
		}
		record.ID = ""
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns the user's citations, optionally scoped to one document,
// ordered by per-document number.
func (s *Service) List(userID, documentID string, q pagination.Query) ([]models.CitationModel, response.Pagination, error) {
	query := s.db.Model(&models.CitationModel{}).
		Where("user_id = ?", userID).
		Order("document_id, number")
	if documentID != "" {
		query = query.Where("document_id = ?", documentID)
	}

	var citations []models.CitationModel
	page, err := pagination.Paginate(query, q, &citations)
	return citations, page, err
}

// Get returns one citation, re-rendered in the requested style when one
// is named.
func (s *Service) Get(userID, citationID, style string) (*models.CitationModel, string, error) {
	var record models.CitationModel
	err := s.db.Where("id = ? AND user_id = ?", citationID, userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrCitationNotFound
	}
	if err != nil {
		return nil, "", err
	}

	rendered := record.Rendered
	if style != "" {
		rendered = Render(style, record.Meta)
	}
	return &record, rendered, nil
}

func (s *Service) Delete(userID, citationID string) error {
	record, _, err := s.Get(userID, citationID, "")
	if err != nil {
		return err
	}
	return s.db.Delete(record).Error
}

func (s *Service) loadDocumentText(userID, documentID string) (*models.DocumentModel, string, error) {
	var doc models.DocumentModel
	err := s.db.Where("id = ? AND user_id = ?", documentID, userID).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ai.ErrDocumentNotFound
	}
	if err != nil {
		return nil, "", err
	}

	var extracted models.ExtractedTextModel
	err = s.db.Where("document_id = ?", documentID).First(&extracted).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && strings.TrimSpace(extracted.Text) == "") {
		return nil, "", ai.ErrNoExtractedText
	}
	if err != nil {
		return nil, "", err
	}
	return &doc, extracted.Text, nil
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}

func head(text string, limit int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit])
}
