package chat

import (
	"strings"
	"testing"

	"github.com/researchhub/core/internal/config"
	"github.com/researchhub/core/internal/models"
	"github.com/researchhub/core/internal/modules/ai"
	"github.com/researchhub/core/internal/pkg/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.DocumentModel{},
		&models.ExtractedTextModel{},
		&models.ChatSessionModel{},
		&models.NoteModel{},
	))

	cfg := &config.AppConfig{}
	aiSvc := ai.NewService(db, cfg, nil, zap.NewNop())
	return NewService(db, aiSvc, zap.NewNop()), db
}

func seedDocument(t *testing.T, db *gorm.DB, userID, text string) *models.DocumentModel {
	t.Helper()
	doc := models.DocumentModel{
		Owned:    models.Owned{UserID: userID},
		Title:    "Attention Is All You Need",
		FileType: models.FileTypePDF,
	}
	require.NoError(t, db.Create(&doc).Error)
	require.NoError(t, db.Create(&models.ExtractedTextModel{
		DocumentID: doc.ID,
		Text:       text,
		Method:     models.MethodTextLayer,
	}).Error)
	return &doc
}

func TestCreateSessionSnapshotsContext(t *testing.T) {
	svc, db := testService(t)
	doc := seedDocument(t, db, "user-1", "The transformer architecture relies entirely on attention mechanisms.")

	session, err := svc.Create("user-1", CreateSessionDTO{DocumentID: doc.ID})
	require.NoError(t, err)
	require.Equal(t, "Attention Is All You Need", session.Title, "session title defaults to the document title")
	require.Contains(t, session.ContextSnapshot, "attention mechanisms")
	require.Empty(t, session.Messages)
}

func TestCreateSessionTruncatesLongContext(t *testing.T) {
	svc, db := testService(t)
	doc := seedDocument(t, db, "user-1", strings.Repeat("word ", 5000))

	session, err := svc.Create("user-1", CreateSessionDTO{DocumentID: doc.ID})
	require.NoError(t, err)
	require.LessOrEqual(t, len([]rune(session.ContextSnapshot)), ai.ChatContextBudget+3)
}

func TestCreateSessionRequiresExtractedText(t *testing.T) {
	svc, db := testService(t)
	doc := models.DocumentModel{Owned: models.Owned{UserID: "user-1"}, Title: "Empty", FileType: models.FileTypePDF}
	require.NoError(t, db.Create(&doc).Error)

	_, err := svc.Create("user-1", CreateSessionDTO{DocumentID: doc.ID})
	require.ErrorIs(t, err, ai.ErrNoExtractedText)
}

func TestSessionsAreScopedPerUser(t *testing.T) {
	svc, db := testService(t)
	doc := seedDocument(t, db, "user-1", strings.Repeat("some extracted text. ", 20))

	session, err := svc.Create("user-1", CreateSessionDTO{DocumentID: doc.ID})
	require.NoError(t, err)

	_, err = svc.Get("intruder", session.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Create("intruder", CreateSessionDTO{DocumentID: doc.ID})
	require.ErrorIs(t, err, ai.ErrDocumentNotFound, "sessions cannot be opened on another user's document")

	sessions, _, err := svc.List("user-1", doc.ID, pagination.Query{Page: 1, Size: 20})
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	require.NoError(t, svc.Delete("user-1", session.ID))
	_, err = svc.Get("user-1", session.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
}
