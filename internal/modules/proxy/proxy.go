package proxy

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/researchhub/core/internal/config"
	"github.com/researchhub/core/internal/pkg/pdfco"
	"github.com/researchhub/core/internal/pkg/response"
	"github.com/researchhub/core/internal/pkg/safeurl"
	"go.uber.org/zap"
)

// Handler serves the two same-origin proxy endpoints the browser uses to
// dodge cross-origin restrictions: a raw-file fetch proxy and an
// OCR-conversion proxy that attaches the server-held credential.
type Handler struct {
	cfg    *config.AppConfig
	pdfco  *pdfco.Client
	client *http.Client
	logger *zap.Logger
}

func NewHandler(cfg *config.AppConfig, pc *pdfco.Client, logger *zap.Logger) *Handler {
	return &Handler{
		cfg:    cfg,
		pdfco:  pc,
		client: &http.Client{Timeout: config.UpstreamTimeout},
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/proxy")
	g.GET("/pdf", h.fetchPDF)
	g.POST("/ocr", h.convertOCR)
}

// GET /proxy/pdf?url=... — streams the upstream file back, passing
// through range and content headers, with caching disabled.
func (h *Handler) fetchPDF(c *gin.Context) {
	target, err := safeurl.Validate(c.Query("url"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		response.BadRequest(c, "invalid url")
		return
	}
	if rng := c.GetHeader("Range"); rng != "" {
		req.Header.Set("Range", rng)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Warn("pdf proxy upstream fetch failed", zap.String("url", target.String()), zap.Error(err))
		response.BadGateway(c, "upstream fetch failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		h.logger.Warn("pdf proxy upstream status", zap.String("url", target.String()), zap.Int("status", resp.StatusCode))
		response.BadGateway(c, "upstream returned an error status")
		return
	}

	c.Status(resp.StatusCode)
	c.Header("Cache-Control", "no-store")
	for _, header := range []string{"Content-Type", "Accept-Ranges", "Content-Length", "Content-Range"} {
		if v := resp.Header.Get(header); v != "" {
			c.Header(header, v)
		}
	}
	_, _ = io.Copy(c.Writer, resp.Body)
}

type ocrProxyDTO struct {
	URL   string `json:"url" binding:"required"`
	Lang  string `json:"lang"`
	Pages string `json:"pages"`
}

// POST /proxy/ocr {url, lang?, pages?} — forwards to the hosted
// conversion API and returns {text} or {error}.
func (h *Handler) convertOCR(c *gin.Context) {
	var dto ocrProxyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	target, err := safeurl.Validate(dto.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := h.pdfco.ConvertToText(c.Request.Context(), target.String(), dto.Lang, dto.Pages)
	if err != nil {
		if errors.Is(err, pdfco.ErrMissingAPIKey) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "conversion api key is not configured"})
			return
		}
		h.logger.Warn("ocr proxy conversion failed", zap.String("url", target.String()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "conversion failed"})
		return
	}

	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "conversion produced no text"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}
