package extraction

import (
	"testing"

	"github.com/researchhub/core/internal/config"
	"github.com/researchhub/core/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.DocumentModel{}, &models.ExtractedTextModel{}))
	return db
}

func TestPersistUpsertsOnDocumentID(t *testing.T) {
	db := testDB(t)
	svc := &Service{
		db:     db,
		cfg:    &config.AppConfig{Extraction: defaultExtractionConfig()},
		logger: zap.NewNop(),
	}

	doc := models.DocumentModel{
		Owned:    models.Owned{UserID: "user-1"},
		Title:    "Spaced Repetition",
		FileType: models.FileTypePDF,
	}
	require.NoError(t, db.Create(&doc).Error)

	first, err := svc.persist(&doc, &Result{Text: prose(600), Method: models.MethodPDFCo})
	require.NoError(t, err)
	require.Equal(t, models.MethodPDFCo, first.Method)
	require.Greater(t, first.WordCount, 0)

	var count int64
	require.NoError(t, db.Model(&models.ExtractedTextModel{}).Where("document_id = ?", doc.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)

	// a second run for the same document must overwrite, not duplicate
	second, err := svc.persist(&doc, &Result{Text: prose(1200), Method: models.MethodOCR})
	require.NoError(t, err)
	require.Equal(t, models.MethodOCR, second.Method)
	require.InDelta(t, 1200, second.CharCount, 2) // trailing whitespace may be trimmed

	require.NoError(t, db.Model(&models.ExtractedTextModel{}).Where("document_id = ?", doc.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestTextCounts(t *testing.T) {
	words, chars := textCounts("  one two three  ")
	require.Equal(t, 3, words)
	require.Equal(t, 13, chars)
}

func TestDetectLanguage(t *testing.T) {
	require.Equal(t, "en", detectLanguage("The quick brown fox jumps over the lazy dog."))
	require.Equal(t, "zh", detectLanguage("语言模型在文本提取中的应用研究"))
	require.Equal(t, "ru", detectLanguage("Исследование методов извлечения текста"))
	require.Equal(t, "en", detectLanguage("12345 67890"))
}
