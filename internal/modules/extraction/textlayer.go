package extraction

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"path"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/researchhub/core/internal/pkg/safeurl"
	"golang.org/x/net/html"
)

// lineBreakThreshold is the vertical distance (in PDF points) between
// successive text fragments that forces a new output line.
const lineBreakThreshold = 2.0

var closingPunctuation = ".,;:!?)]}»”’"

// fetchSource downloads the raw document bytes through the SSRF guard,
// bounded to maxBytes.
func fetchSource(ctx context.Context, client *http.Client, rawURL string, maxBytes int64) ([]byte, error) {
	target, err := safeurl.Validate(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("source file exceeds %d byte fetch limit", maxBytes)
	}
	return data, nil
}

// extractPDFTextLayer concatenates every page's embedded text layer,
// rebuilding line breaks from the vertical coordinates of successive
// fragments. A space joins fragments on the same line unless the next
// fragment opens with closing punctuation.
func extractPDFTextLayer(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf parse failed: %w", err)
	}

	var sb strings.Builder
	for pageNo := 1; pageNo <= reader.NumPage(); pageNo++ {
		page := reader.Page(pageNo)
		if page.V.IsNull() {
			continue
		}

		pageText := reconstructPageText(page.Content().Text)
		if pageText == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}

func reconstructPageText(fragments []pdf.Text) string {
	var sb strings.Builder
	var lastY float64
	started := false

	for _, frag := range fragments {
		if frag.S == "" {
			continue
		}
		if !started {
			started = true
			lastY = frag.Y
			sb.WriteString(frag.S)
			continue
		}

		if math.Abs(frag.Y-lastY) > lineBreakThreshold {
			sb.WriteString("\n")
		} else if !startsWithClosingPunctuation(frag.S) {
			sb.WriteString(" ")
		}
		sb.WriteString(frag.S)
		lastY = frag.Y
	}
	return strings.TrimSpace(sb.String())
}

func startsWithClosingPunctuation(s string) bool {
	r := []rune(s)
	if len(r) == 0 {
		return false
	}
	return strings.ContainsRune(closingPunctuation, r[0])
}

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Manifest []struct {
		ID   string `xml:"id,attr"`
		Href string `xml:"href,attr"`
	} `xml:"manifest>item"`
	Spine []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

// extractEPUB walks the EPUB spine in reading order and strips each
// chapter's markup down to text. Falls back to archive order when the
// package metadata is unreadable.
func extractEPUB(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("epub open failed: %w", err)
	}

	files := make(map[string]*zip.File, len(archive.File))
	for _, f := range archive.File {
		files[f.Name] = f
	}

	chapters := spineChapters(files)
	if len(chapters) == 0 {
		for _, f := range archive.File {
			name := strings.ToLower(f.Name)
			if strings.HasSuffix(name, ".xhtml") || strings.HasSuffix(name, ".html") || strings.HasSuffix(name, ".htm") {
				chapters = append(chapters, f)
			}
		}
	}
	if len(chapters) == 0 {
		return "", errors.New("epub contains no readable chapters")
	}

	var sb strings.Builder
	for _, chapter := range chapters {
		text, err := stripHTML(chapter)
		if err != nil || text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

func spineChapters(files map[string]*zip.File) []*zip.File {
	container, ok := files["META-INF/container.xml"]
	if !ok {
		return nil
	}
	var cont epubContainer
	if err := decodeZipXML(container, &cont); err != nil || len(cont.Rootfiles) == 0 {
		return nil
	}

	opfPath := cont.Rootfiles[0].FullPath
	opfFile, ok := files[opfPath]
	if !ok {
		return nil
	}
	var pkg epubPackage
	if err := decodeZipXML(opfFile, &pkg); err != nil {
		return nil
	}

	hrefs := make(map[string]string, len(pkg.Manifest))
	for _, item := range pkg.Manifest {
		hrefs[item.ID] = item.Href
	}

	base := path.Dir(opfPath)
	var chapters []*zip.File
	for _, ref := range pkg.Spine {
		href, ok := hrefs[ref.IDRef]
		if !ok {
			continue
		}
		name := path.Clean(path.Join(base, href))
		if f, ok := files[name]; ok {
			chapters = append(chapters, f)
		}
	}
	return chapters
}

func decodeZipXML(f *zip.File, out interface{}) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(out)
}

// stripHTML renders a chapter's markup as plain text, keeping paragraph
// breaks on block boundaries and skipping script/style subtrees.
func stripHTML(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	doc, err := html.Parse(rc)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head":
				return
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6", "li", "tr":
				sb.WriteString("\n")
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	lines := strings.Split(sb.String(), "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		if t := strings.Join(strings.Fields(line), " "); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return strings.Join(cleaned, "\n"), nil
}

// extractTXT passes plain-text files through, dropping a UTF-8 BOM and
// normalizing line endings.
func extractTXT(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.TrimSpace(text), nil
}
