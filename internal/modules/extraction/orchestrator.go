package extraction

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/researchhub/core/internal/config"
	"github.com/researchhub/core/internal/models"
	"github.com/researchhub/core/internal/pkg/pdfco"
	"go.uber.org/zap"
)

// Source is one document to extract from: a fetchable location plus its
// declared file type.
type Source struct {
	URL      string
	FileType models.DocumentFileType
}

// Result is accepted text plus the stage that produced it.
type Result struct {
	Text   string
	Method models.ExtractionMethod
}

// NoUsableTextError reports that every stage failed or was rejected. The
// last stage's raw output rides along so the caller can surface it for
// inspection.
type NoUsableTextError struct {
	LastRaw    string
	LastMethod models.ExtractionMethod
}

func (e *NoUsableTextError) Error() string {
	return "no usable text found in document"
}

// Orchestrator runs the staged extraction pipeline: hosted conversion
// API, then the embedded text layer, then per-page OCR. Each stage is
// gated by the previous stage's failure or by the quality check
// rejecting its output.
type Orchestrator struct {
	cfg    *config.AppConfig
	logger *zap.Logger

	remoteStage    func(ctx context.Context, src Source) (string, error)
	textLayerStage func(ctx context.Context, src Source) (string, error)
	ocrStage       func(ctx context.Context, userID string, src Source) (string, error)
}

func NewOrchestrator(cfg *config.AppConfig, converter *pdfco.Client, vision VisionClient, logger *zap.Logger) *Orchestrator {
	client := &http.Client{Timeout: config.UpstreamTimeout}
	maxFetch := int64(cfg.Proxy.MaxFetchMB) * 1024 * 1024

	o := &Orchestrator{cfg: cfg, logger: logger}
	o.remoteStage = func(ctx context.Context, src Source) (string, error) {
		return converter.ConvertToText(ctx, src.URL, "", "")
	}
	o.textLayerStage = func(ctx context.Context, src Source) (string, error) {
		data, err := fetchSource(ctx, client, src.URL, maxFetch)
		if err != nil {
			return "", err
		}
		switch src.FileType {
		case models.FileTypePDF:
			return extractPDFTextLayer(data)
		case models.FileTypeEPUB:
			return extractEPUB(data)
		case models.FileTypeTXT:
			return extractTXT(data)
		default:
			return "", fmt.Errorf("unsupported file type %q", src.FileType)
		}
	}
	o.ocrStage = func(ctx context.Context, userID string, src Source) (string, error) {
		if src.FileType != models.FileTypePDF {
			return "", fmt.Errorf("ocr stage only handles pdf sources, got %q", src.FileType)
		}
		data, err := fetchSource(ctx, client, src.URL, maxFetch)
		if err != nil {
			return "", err
		}
		return ocrDocument(ctx, data, userID, vision, cfg.Extraction, logger)
	}
	return o
}

// Run walks the stages in order and returns the first output that
// passes the quality check. A missing conversion credential is fatal
// rather than a fall-through: the operator must fix it.
func (o *Orchestrator) Run(ctx context.Context, userID string, src Source) (*Result, error) {
	lastRaw := ""
	lastMethod := models.MethodPDFCo

	text, err := o.remoteStage(ctx, src)
	if err != nil {
		if errors.Is(err, pdfco.ErrMissingAPIKey) {
			return nil, err
		}
		o.logger.Info("remote conversion stage failed", zap.String("url", src.URL), zap.Error(err))
	} else {
		if Usable(text, o.cfg.Extraction) {
			return &Result{Text: text, Method: models.MethodPDFCo}, nil
		}
		lastRaw = text
		o.logger.Info("remote conversion output rejected", zap.String("url", src.URL))
	}

	text, err = o.textLayerStage(ctx, src)
	if err != nil {
		o.logger.Info("text-layer stage failed", zap.String("url", src.URL), zap.Error(err))
	} else {
		if Usable(text, o.cfg.Extraction) {
			return &Result{Text: text, Method: models.MethodTextLayer}, nil
		}
		lastRaw = text
		lastMethod = models.MethodTextLayer
		o.logger.Info("text-layer output rejected", zap.String("url", src.URL))
	}

	text, err = o.ocrStage(ctx, userID, src)
	if err != nil {
		o.logger.Info("ocr stage failed", zap.String("url", src.URL), zap.Error(err))
	} else {
		if Usable(text, o.cfg.Extraction) {
			return &Result{Text: text, Method: models.MethodOCR}, nil
		}
		lastRaw = text
		lastMethod = models.MethodOCR
	}

	return nil, &NoUsableTextError{LastRaw: lastRaw, LastMethod: lastMethod}
}

// RunOCR is the manual re-entry point into the OCR stage only, used to
// recover from a pipeline run that ended in rejection.
func (o *Orchestrator) RunOCR(ctx context.Context, userID string, src Source) (*Result, error) {
	text, err := o.ocrStage(ctx, userID, src)
	if err != nil {
		return nil, err
	}
	if !Usable(text, o.cfg.Extraction) {
		return nil, &NoUsableTextError{LastRaw: text, LastMethod: models.MethodOCR}
	}
	return &Result{Text: text, Method: models.MethodOCR}, nil
}
