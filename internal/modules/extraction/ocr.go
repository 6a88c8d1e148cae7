package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"github.com/researchhub/core/internal/config"
	"go.uber.org/zap"
)

// VisionClient transcribes a single page image. The AI module's service
// satisfies it.
type VisionClient interface {
	VisionOCR(ctx context.Context, userID string, imagePNG []byte) (string, error)
}

// ocrDocument rasterizes up to MaxOCRPages pages and runs OCR on each,
// preferring the vision backend and falling back to the local Tesseract
// engine when the vision call fails for any reason. Per-page results are
// joined with blank lines; pages where both engines fail are skipped.
func ocrDocument(ctx context.Context, data []byte, userID string, vision VisionClient, cfg config.ExtractionConfig, logger *zap.Logger) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("rasterize open failed: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages > cfg.MaxOCRPages {
		pages = cfg.MaxOCRPages
	}
	if pages == 0 {
		return "", errors.New("document has no pages to rasterize")
	}

	var parts []string
	for pageNo := 0; pageNo < pages; pageNo++ {
		img, err := doc.ImageDPI(pageNo, float64(cfg.OCRDPI))
		if err != nil {
			logger.Warn("page rasterization failed", zap.Int("page", pageNo), zap.Error(err))
			continue
		}

		pngBytes, err := encodePNG(preprocessForOCR(img))
		if err != nil {
			logger.Warn("page encode failed", zap.Int("page", pageNo), zap.Error(err))
			continue
		}

		text, err := ocrPage(ctx, pngBytes, userID, vision, logger)
		if err != nil {
			logger.Warn("page ocr failed on both engines", zap.Int("page", pageNo), zap.Error(err))
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return "", errors.New("ocr produced no text on any page")
	}
	return strings.Join(parts, "\n\n"), nil
}

func ocrPage(ctx context.Context, pngBytes []byte, userID string, vision VisionClient, logger *zap.Logger) (string, error) {
	if vision != nil {
		text, err := vision.VisionOCR(ctx, userID, pngBytes)
		if err == nil {
			return text, nil
		}
		logger.Debug("vision ocr failed, falling back to tesseract", zap.Error(err))
	}
	return tesseractOCR(pngBytes)
}

func tesseractOCR(pngBytes []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(pngBytes); err != nil {
		return "", fmt.Errorf("tesseract input failed: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return text, nil
}

// preprocessForOCR flattens the page to high-contrast grayscale, which
// measurably improves recognition on low-quality scans.
func preprocessForOCR(img image.Image) image.Image {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 20)
	return imaging.Sharpen(out, 1.0)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
