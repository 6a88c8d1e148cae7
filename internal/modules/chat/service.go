package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/researchhub/core/internal/models"
	"github.com/researchhub/core/internal/modules/ai"
	"github.com/researchhub/core/internal/pkg/pagination"
	"github.com/researchhub/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound = errors.New("chat session not found")
	ErrEmptyMessage    = errors.New("message content is empty")
)

const defaultSessionTitle = "New conversation"

// Service manages Q&A sessions grounded on a document's extracted text.
// The grounding excerpt is snapshotted at session creation so later
// re-extractions do not silently shift an ongoing conversation.
type Service struct {
	db     *gorm.DB
	ai     *ai.Service
	logger *zap.Logger
}

func NewService(db *gorm.DB, aiSvc *ai.Service, logger *zap.Logger) *Service {
	return &Service{db: db, ai: aiSvc, logger: logger}
}

// Create opens a session for a document, snapshotting its extracted
// text as the grounding context.
func (s *Service) Create(userID string, dto CreateSessionDTO) (*models.ChatSessionModel, error) {
	title, contextText, err := s.ai.DocumentContext(userID, dto.DocumentID)
	if err != nil {
		return nil, err
	}

	sessionTitle := strings.TrimSpace(dto.Title)
	if sessionTitle == "" {
		sessionTitle = defaultSessionTitle
		if title != "" {
			sessionTitle = title
		}
	}

	session := models.ChatSessionModel{
		Owned:           models.Owned{UserID: userID},
		DocumentID:      dto.DocumentID,
		Title:           sessionTitle,
		ModelID:         dto.Backend,
		Messages:        []models.ChatMessage{},
		ContextSnapshot: contextText,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// List returns the user's sessions, optionally scoped to one document.
func (s *Service) List(userID, documentID string, q pagination.Query) ([]models.ChatSessionModel, response.Pagination, error) {
	query := s.db.Model(&models.ChatSessionModel{}).
		Where("user_id = ?", userID).
		Order("updated_at DESC")
	if documentID != "" {
		query = query.Where("document_id = ?", documentID)
	}

	var sessions []models.ChatSessionModel
	page, err := pagination.Paginate(query, q, &sessions)
	return sessions, page, err
}

func (s *Service) Get(userID, sessionID string) (*models.ChatSessionModel, error) {
	var session models.ChatSessionModel
	err := s.db.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Service) Delete(userID, sessionID string) error {
	session, err := s.Get(userID, sessionID)
	if err != nil {
		return err
	}
	return s.db.Delete(session).Error
}

// Send appends the user's question, runs the backend with the session's
// grounding context and history, and appends the reply. Neither side of
// the exchange is persisted when the backend call fails.
func (s *Service) Send(ctx context.Context, userID, sessionID string, dto SendMessageDTO) (*models.ChatSessionModel, error) {
	content := strings.TrimSpace(dto.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	session, err := s.Get(userID, sessionID)
	if err != nil {
		return nil, err
	}

	var doc models.DocumentModel
	_ = s.db.Where("id = ?", session.DocumentID).First(&doc).Error
	systemPrompt := s.ai.BuildChatSystemPrompt(doc.Title, session.ContextSnapshot)

	history := make([]ai.Message, 0, len(session.Messages)+1)
	for _, m := range session.Messages {
		history = append(history, ai.Message{Role: m.Role, Content: m.Content})
	}
	history = append(history, ai.Message{Role: models.RoleUser, Content: content})

	reply, err := s.ai.Generate(ctx, userID, session.ModelID, systemPrompt, history)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session.Messages = append(session.Messages,
		models.ChatMessage{Role: models.RoleUser, Content: content, Created: now},
		models.ChatMessage{Role: models.RoleAssistant, Content: strings.TrimSpace(reply), Created: time.Now()},
	)
	if err := s.db.Model(session).Update("messages", session.Messages).Error; err != nil {
		return nil, err
	}
	return session, nil
}
