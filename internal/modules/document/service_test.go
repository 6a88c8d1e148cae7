package document

import (
	"reflect"
	"testing"

	"github.com/researchhub/core/internal/models"
)

func TestFileTypeFromMime(t *testing.T) {
	cases := []struct {
		mime string
		want models.DocumentFileType
		ok   bool
	}{
		{"application/pdf", models.FileTypePDF, true},
		{"application/epub+zip", models.FileTypeEPUB, true},
		{"text/plain; charset=utf-8", models.FileTypeTXT, true},
		{"image/png", "", false},
		{"application/zip", "", false},
	}
	for _, tc := range cases {
		got, ok := fileTypeFromMime(tc.mime)
		if got != tc.want || ok != tc.ok {
			t.Errorf("fileTypeFromMime(%q) = (%q, %v), want (%q, %v)", tc.mime, got, ok, tc.want, tc.ok)
		}
	}
}

func TestClampProgress(t *testing.T) {
	if got := clampProgress(-5); got != 0 {
		t.Errorf("clampProgress(-5) = %v, want 0", got)
	}
	if got := clampProgress(42.5); got != 42.5 {
		t.Errorf("clampProgress(42.5) = %v", got)
	}
	if got := clampProgress(150); got != 100 {
		t.Errorf("clampProgress(150) = %v, want 100", got)
	}
}

func TestParseAuthors(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{`["Kahneman, Daniel","Tversky, Amos"]`, []string{"Kahneman, Daniel", "Tversky, Amos"}},
		{"Jane Doe, John Roe", []string{"Jane Doe", "John Roe"}},
		{"  Solo Author  ", []string{"Solo Author"}},
	}
	for _, tc := range cases {
		got := parseAuthors(tc.raw)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("parseAuthors(%q) = %#v, want %#v", tc.raw, got, tc.want)
		}
	}
}
