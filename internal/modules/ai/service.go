package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appcfg "github.com/researchhub/core/internal/config"
	"github.com/researchhub/core/internal/models"
	redisc "github.com/researchhub/core/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrDocumentNotFound   = errors.New("document not found")
	ErrNoExtractedText    = errors.New("document has no extracted text yet")
	ErrBackendUnavailable = errors.New("requested ai backend is not available")
	ErrEmptyInput         = errors.New("nothing to work on: pass text or a document id")
)

// Service runs LLM calls for every AI feature and enforces per-user
// backend cooldowns.
type Service struct {
	db       *gorm.DB
	cfg      *appcfg.AppConfig
	cooldown *Cooldown
	logger   *zap.Logger
}

func NewService(db *gorm.DB, cfg *appcfg.AppConfig, rc *redisc.Client, logger *zap.Logger) *Service {
	return &Service{
		db:       db,
		cfg:      cfg,
		cooldown: NewCooldown(rc),
		logger:   logger,
	}
}

// Backends lists the enabled backends without credentials.
func (s *Service) Backends() []BackendInfo {
	infos := make([]BackendInfo, 0, len(s.cfg.AI.Backends))
	for _, b := range s.cfg.AI.Backends {
		if !b.Enabled {
			continue
		}
		infos = append(infos, BackendInfo{
			ID:              b.ID,
			Name:            b.Name,
			Model:           b.Model,
			AcceptsHistory:  b.AcceptsHistory,
			SupportsVision:  b.SupportsVision,
			CooldownSeconds: b.CooldownSeconds,
		})
	}
	return infos
}

// Generate runs one completion against the chosen backend with cooldown
// enforcement. History is flattened into a single user turn for backends
// that reject multi-turn payloads.
func (s *Service) Generate(ctx context.Context, userID, backendID, systemPrompt string, history []Message) (string, error) {
	backend := s.cfg.AI.Backend(backendID)
	if backend == nil {
		return "", ErrBackendUnavailable
	}

	if wait := s.cooldown.Remaining(ctx, backend.ID, userID); wait > 0 {
		return "", &RateLimitError{BackendID: backend.ID, Wait: wait}
	}

	msgs := history
	if !backend.AcceptsHistory && len(history) > 1 {
		msgs = []Message{{Role: models.RoleUser, Content: flattenHistory(history)}}
	}

	text, err := callBackend(ctx, backend, systemPrompt, msgs)
	if err != nil {
		err = classifyBackendError(backend.ID, err)
		if rle, ok := AsRateLimit(err); ok {
			s.cooldown.Start(ctx, backend.ID, userID, rle.Wait)
		}
		return "", err
	}

	if backend.CooldownSeconds > 0 {
		s.cooldown.Start(ctx, backend.ID, userID, backend.CooldownSeconds)
	}
	return text, nil
}

// VisionOCR transcribes one page image through the vision-capable
// backend. Used by the extraction pipeline before the local OCR engine.
func (s *Service) VisionOCR(ctx context.Context, userID string, imagePNG []byte) (string, error) {
	backend := s.cfg.AI.VisionBackend()
	if backend == nil {
		return "", ErrBackendUnavailable
	}

	if wait := s.cooldown.Remaining(ctx, backend.ID, userID); wait > 0 {
		return "", &RateLimitError{BackendID: backend.ID, Wait: wait}
	}

	text, err := callVision(ctx, backend, visionOCRPrompt, imagePNG)
	if err != nil {
		err = classifyBackendError(backend.ID, err)
		if rle, ok := AsRateLimit(err); ok {
			s.cooldown.Start(ctx, backend.ID, userID, rle.Wait)
		}
		return "", err
	}
	return text, nil
}

// Summarize produces a summary of either raw text or a document's
// extracted text, optionally kept as an AI note.
func (s *Service) Summarize(ctx context.Context, userID string, dto SummarizeDTO) (*GenerationResult, error) {
	text, err := s.resolveText(userID, dto.DocumentID, dto.Text)
	if err != nil {
		return nil, err
	}

	prompt := buildSummaryPrompt(dto.Language, text)
	out, err := s.Generate(ctx, userID, dto.Backend, "", []Message{{Role: models.RoleUser, Content: prompt}})
	if err != nil {
		return nil, err
	}

	result := &GenerationResult{Text: strings.TrimSpace(out)}
	if dto.SaveAsNote && dto.DocumentID != "" {
		result.NoteID, err = s.saveNote(userID, dto.DocumentID, result.Text, models.AINoteSummary)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Paraphrase rewrites a passage while preserving its meaning.
func (s *Service) Paraphrase(ctx context.Context, userID string, dto ParaphraseDTO) (*GenerationResult, error) {
	if strings.TrimSpace(dto.Text) == "" {
		return nil, ErrEmptyInput
	}

	prompt := buildParaphrasePrompt(dto.Style, dto.Text)
	out, err := s.Generate(ctx, userID, dto.Backend, "", []Message{{Role: models.RoleUser, Content: prompt}})
	if err != nil {
		return nil, err
	}

	result := &GenerationResult{Text: strings.TrimSpace(out)}
	if dto.SaveAsNote && dto.DocumentID != "" {
		result.NoteID, err = s.saveNote(userID, dto.DocumentID, result.Text, models.AINoteParaphrase)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Explain renders a selection in plain language.
func (s *Service) Explain(ctx context.Context, userID string, dto ExplainDTO) (*GenerationResult, error) {
	if strings.TrimSpace(dto.Selection) == "" {
		return nil, ErrEmptyInput
	}

	prompt := buildExplainPrompt(dto.Selection, dto.Context)
	out, err := s.Generate(ctx, userID, dto.Backend, "", []Message{{Role: models.RoleUser, Content: prompt}})
	if err != nil {
		return nil, err
	}
	return &GenerationResult{Text: strings.TrimSpace(out)}, nil
}

// ExtractCitationMeta asks a backend for bibliographic metadata from the
// head of a document's text and validates the JSON shape.
func (s *Service) ExtractCitationMeta(ctx context.Context, userID, backendID, text string) (models.CitationMeta, error) {
	var meta models.CitationMeta
	if strings.TrimSpace(text) == "" {
		return meta, ErrEmptyInput
	}

	prompt := buildCitationPrompt(text)
	out, err := s.Generate(ctx, userID, backendID, "", []Message{{Role: models.RoleUser, Content: prompt}})
	if err != nil {
		return meta, err
	}

	if err := unmarshalAIJSON(out, &meta); err != nil {
		return meta, fmt.Errorf("citation metadata: %w", err)
	}
	return meta, nil
}

// BuildChatSystemPrompt exposes the chat grounding template to the chat
// module so prompt wording lives in one place.
func (s *Service) BuildChatSystemPrompt(title, contextText string) string {
	return buildChatSystemPrompt(title, contextText)
}

// DocumentContext loads a document's title and extracted text, bounded
// to the chat context budget, with ownership enforced.
func (s *Service) DocumentContext(userID, documentID string) (title, text string, err error) {
	title, full, err := s.loadDocumentText(userID, documentID)
	if err != nil {
		return "", "", err
	}
	return title, truncateText(full, ChatContextBudget), nil
}

func (s *Service) resolveText(userID, documentID, raw string) (string, error) {
	if strings.TrimSpace(raw) != "" {
		return raw, nil
	}
	if strings.TrimSpace(documentID) == "" {
		return "", ErrEmptyInput
	}
	_, text, err := s.loadDocumentText(userID, documentID)
	return text, err
}

func (s *Service) loadDocumentText(userID, documentID string) (string, string, error) {
	var doc models.DocumentModel
	err := s.db.Where("id = ? AND user_id = ?", documentID, userID).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", ErrDocumentNotFound
	}
	if err != nil {
		return "", "", err
	}

	var extracted models.ExtractedTextModel
	err = s.db.Where("document_id = ?", documentID).First(&extracted).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", ErrNoExtractedText
	}
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(extracted.Text) == "" {
		return "", "", ErrNoExtractedText
	}
	return doc.Title, extracted.Text, nil
}

func (s *Service) saveNote(userID, documentID, content string, aiType models.AINoteType) (string, error) {
	note := models.NoteModel{
		Owned:       models.Owned{UserID: userID},
		DocumentID:  documentID,
		Content:     content,
		AIGenerated: true,
		AIType:      aiType,
	}
	if err := s.db.Create(&note).Error; err != nil {
		return "", err
	}
	return note.ID, nil
}

func flattenHistory(history []Message) string {
	var sb strings.Builder
	for _, m := range history {
		label := "User"
		if m.Role == models.RoleAssistant {
			label = "Assistant"
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String())
}
