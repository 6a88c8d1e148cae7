package proxy

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/researchhub/core/internal/config"
	"github.com/researchhub/core/internal/pkg/pdfco"
	"go.uber.org/zap"
)

// failTripper fails the test if any upstream request is attempted.
type failTripper struct {
	t *testing.T
}

func (f failTripper) RoundTrip(*http.Request) (*http.Response, error) {
	f.t.Error("upstream fetch attempted for a blocked target")
	return nil, http.ErrUseLastResponse
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{}
	h := NewHandler(cfg, pdfco.New(config.PDFCoConfig{}), zap.NewNop())
	h.client = &http.Client{Transport: failTripper{t}}

	r := gin.New()
	h.RegisterRoutes(r.Group(""))
	return r
}

func TestFetchPDFBlocksInternalTargets(t *testing.T) {
	r := testRouter(t)

	for _, target := range []string{
		"http://127.0.0.1/secret.pdf",
		"http://10.1.2.3/doc.pdf",
		"http://172.20.0.1/doc.pdf",
		"http://192.168.0.10/doc.pdf",
		"http://localhost:3306/doc.pdf",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/proxy/pdf?url="+target, nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("GET /proxy/pdf?url=%s status = %d, want 400", target, w.Code)
		}
	}
}

func TestConvertOCRBlocksInternalTargets(t *testing.T) {
	r := testRouter(t)

	for _, target := range []string{
		"http://127.0.0.1/doc.pdf",
		"http://192.168.1.50/doc.pdf",
	} {
		w := httptest.NewRecorder()
		body := strings.NewReader(`{"url":"` + target + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/proxy/ocr", body)
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("POST /proxy/ocr url=%s status = %d, want 400", target, w.Code)
		}
	}
}

func TestConvertOCRRequiresURL(t *testing.T) {
	r := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/proxy/ocr", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
