package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/researchhub/core/internal/config"
	"github.com/researchhub/core/internal/models"
	"github.com/researchhub/core/internal/pkg/pdfco"
	"go.uber.org/zap"
)

func testOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	cfg := &config.AppConfig{Extraction: defaultExtractionConfig()}
	return &Orchestrator{cfg: cfg, logger: zap.NewNop()}
}

func prose(chars int) string {
	sentence := "The experiment demonstrates a measurable improvement in recall accuracy. "
	return strings.Repeat(sentence, chars/len(sentence)+1)[:chars]
}

func TestRunAcceptsFirstStage(t *testing.T) {
	o := testOrchestrator(t)
	o.remoteStage = func(context.Context, Source) (string, error) { return prose(1000), nil }
	o.textLayerStage = func(context.Context, Source) (string, error) {
		t.Fatal("text-layer stage must not run when the remote stage succeeds")
		return "", nil
	}
	o.ocrStage = func(context.Context, string, Source) (string, error) {
		t.Fatal("ocr stage must not run when the remote stage succeeds")
		return "", nil
	}

	result, err := o.Run(context.Background(), "user-1", Source{URL: "https://example.com/doc.pdf", FileType: models.FileTypePDF})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Method != models.MethodPDFCo {
		t.Errorf("method = %q, want %q", result.Method, models.MethodPDFCo)
	}
}

// The end-to-end fall-through: the conversion API returns a 2-line
// 90-character footer with a URL, the text layer comes back under the
// length floor, and OCR finally produces real prose.
func TestRunFallsThroughToOCR(t *testing.T) {
	o := testOrchestrator(t)

	footer := "Certificate of Completion awarded to J. Doe\nhttps://certs.example.com/check/9f8e7d2a"
	if len(footer) > 160 {
		t.Fatalf("fixture footer too long: %d chars", len(footer))
	}

	o.remoteStage = func(context.Context, Source) (string, error) { return footer, nil }
	o.textLayerStage = func(context.Context, Source) (string, error) { return prose(150), nil }
	o.ocrStage = func(context.Context, string, Source) (string, error) { return prose(1200), nil }

	result, err := o.Run(context.Background(), "user-1", Source{URL: "https://example.com/cert.pdf", FileType: models.FileTypePDF})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Method != models.MethodOCR {
		t.Errorf("method = %q, want %q", result.Method, models.MethodOCR)
	}
	if len(result.Text) != 1200 {
		t.Errorf("text length = %d, want 1200", len(result.Text))
	}
}

func TestRunStageErrorsAdvanceThePipeline(t *testing.T) {
	o := testOrchestrator(t)
	o.remoteStage = func(context.Context, Source) (string, error) { return "", errors.New("network down") }
	o.textLayerStage = func(context.Context, Source) (string, error) { return prose(900), nil }
	o.ocrStage = func(context.Context, string, Source) (string, error) {
		t.Fatal("ocr stage must not run when the text layer succeeds")
		return "", nil
	}

	result, err := o.Run(context.Background(), "user-1", Source{URL: "https://example.com/doc.pdf", FileType: models.FileTypePDF})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Method != models.MethodTextLayer {
		t.Errorf("method = %q, want %q", result.Method, models.MethodTextLayer)
	}
}

func TestRunSurfacesLastRawOnTotalFailure(t *testing.T) {
	o := testOrchestrator(t)
	o.remoteStage = func(context.Context, Source) (string, error) { return "", errors.New("upstream 500") }
	o.textLayerStage = func(context.Context, Source) (string, error) { return "tiny fragment", nil }
	o.ocrStage = func(context.Context, string, Source) (string, error) { return "", errors.New("no ocr engine") }

	_, err := o.Run(context.Background(), "user-1", Source{URL: "https://example.com/doc.pdf", FileType: models.FileTypePDF})

	var noText *NoUsableTextError
	if !errors.As(err, &noText) {
		t.Fatalf("err = %v, want NoUsableTextError", err)
	}
	if noText.LastRaw != "tiny fragment" {
		t.Errorf("LastRaw = %q, want the text layer's rejected output", noText.LastRaw)
	}
	if noText.LastMethod != models.MethodTextLayer {
		t.Errorf("LastMethod = %q, want %q", noText.LastMethod, models.MethodTextLayer)
	}
}

func TestRunOCRIsIndependent(t *testing.T) {
	o := testOrchestrator(t)
	o.remoteStage = func(context.Context, Source) (string, error) {
		t.Fatal("remote stage must not run on the manual ocr path")
		return "", nil
	}
	o.textLayerStage = func(context.Context, Source) (string, error) {
		t.Fatal("text-layer stage must not run on the manual ocr path")
		return "", nil
	}
	o.ocrStage = func(context.Context, string, Source) (string, error) { return prose(800), nil }

	result, err := o.RunOCR(context.Background(), "user-1", Source{URL: "https://example.com/doc.pdf", FileType: models.FileTypePDF})
	if err != nil {
		t.Fatalf("RunOCR returned error: %v", err)
	}
	if result.Method != models.MethodOCR {
		t.Errorf("method = %q, want %q", result.Method, models.MethodOCR)
	}
}

func TestRunMissingCredentialIsFatal(t *testing.T) {
	o := testOrchestrator(t)
	o.remoteStage = func(context.Context, Source) (string, error) { return "", pdfco.ErrMissingAPIKey }
	o.textLayerStage = func(context.Context, Source) (string, error) {
		t.Fatal("pipeline must stop on a missing conversion credential")
		return "", nil
	}
	o.ocrStage = func(context.Context, string, Source) (string, error) { return "", nil }

	_, err := o.Run(context.Background(), "user-1", Source{URL: "https://example.com/doc.pdf", FileType: models.FileTypePDF})
	if !errors.Is(err, pdfco.ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestRunOCRRejectsJunkOutput(t *testing.T) {
	o := testOrchestrator(t)
	o.ocrStage = func(context.Context, string, Source) (string, error) { return "short", nil }

	_, err := o.RunOCR(context.Background(), "user-1", Source{URL: "https://example.com/doc.pdf", FileType: models.FileTypePDF})

	var noText *NoUsableTextError
	if !errors.As(err, &noText) {
		t.Fatalf("err = %v, want NoUsableTextError", err)
	}
}
