package note

import (
	"strings"
	"testing"

	"github.com/researchhub/core/internal/models"
	"github.com/researchhub/core/internal/pkg/pagination"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.NoteModel{}))
	return NewService(db)
}

func TestNoteLifecycle(t *testing.T) {
	svc := testService(t)

	created, err := svc.Create("user-1", CreateDTO{
		DocumentID: "doc-1",
		Content:    "# Key claim\n\nSpacing beats massing.",
		Tags:       []string{"Memory", "memory", " methods "},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"memory", "methods"}, created.Tags, "tags must be lowercased and deduplicated")

	newContent := "updated content"
	updated, err := svc.Update("user-1", created.ID, UpdateDTO{Content: &newContent})
	require.NoError(t, err)
	require.Equal(t, newContent, updated.Content)

	_, err = svc.Get("someone-else", created.ID)
	require.ErrorIs(t, err, ErrNoteNotFound, "notes must be invisible to other users")

	require.NoError(t, svc.Delete("user-1", created.ID))
	_, err = svc.Get("user-1", created.ID)
	require.ErrorIs(t, err, ErrNoteNotFound)
}

func TestNoteListFiltersByTag(t *testing.T) {
	svc := testService(t)

	for _, tags := range [][]string{{"memory"}, {"methods"}, {"memory", "methods"}} {
		_, err := svc.Create("user-1", CreateDTO{DocumentID: "doc-1", Content: "n", Tags: tags})
		require.NoError(t, err)
	}

	notes, _, err := svc.List("user-1", "", "memory", pagination.Query{Page: 1, Size: 20})
	require.NoError(t, err)
	require.Len(t, notes, 2)
}

func TestRenderHTML(t *testing.T) {
	svc := testService(t)

	created, err := svc.Create("user-1", CreateDTO{
		DocumentID: "doc-1",
		Content:    "# Heading\n\nSome **bold** text.",
	})
	require.NoError(t, err)

	html, err := svc.RenderHTML("user-1", created.ID)
	require.NoError(t, err)
	require.True(t, strings.Contains(html, "<h1"), "heading not rendered: %q", html)
	require.Contains(t, html, "<strong>bold</strong>")
}
