package citation

import (
	"fmt"
	"strings"

	"github.com/researchhub/core/internal/models"
)

// DefaultStyle is the rendering stored on the citation record itself.
const DefaultStyle = "apa"

// Styles maps style identifiers to pure render functions over the
// stored metadata. Rendering never mutates the record; any style can be
// produced on demand from the same metadata.
var Styles = map[string]func(models.CitationMeta) string{
	"apa":     renderAPA,
	"mla":     renderMLA,
	"chicago": renderChicago,
	"harvard": renderHarvard,
}

// StyleNames returns the supported identifiers in a stable order.
func StyleNames() []string {
	return []string{"apa", "mla", "chicago", "harvard"}
}

// Render produces the citation string for a style, falling back to the
// default style for unknown identifiers.
func Render(style string, meta models.CitationMeta) string {
	fn, ok := Styles[strings.ToLower(strings.TrimSpace(style))]
	if !ok {
		fn = Styles[DefaultStyle]
	}
	return fn(meta)
}

// renderAPA: Family, G., & Family, G. (Year). Title (2nd ed.). Publisher. https://doi.org/...
func renderAPA(m models.CitationMeta) string {
	var parts []string

	if authors := apaAuthors(m.Authors); authors != "" {
		parts = append(parts, authors)
	}
	if m.Year != "" {
		parts = append(parts, fmt.Sprintf("(%s).", m.Year))
	}

	title := m.Title
	if m.Edition != "" {
		title = fmt.Sprintf("%s (%s ed.)", title, m.Edition)
	}
	if title != "" {
		parts = append(parts, ensurePeriod(title))
	}
	if m.Publisher != "" {
		parts = append(parts, ensurePeriod(m.Publisher))
	}
	if link := preferDOI(m); link != "" {
		parts = append(parts, link)
	}
	return strings.Join(parts, " ")
}

// renderMLA: Family, Given, and Given Family. Title. 2nd ed., Publisher, Year.
func renderMLA(m models.CitationMeta) string {
	var parts []string

	if authors := mlaAuthors(m.Authors); authors != "" {
		parts = append(parts, ensurePeriod(authors))
	}
	if m.Title != "" {
		parts = append(parts, ensurePeriod(m.Title))
	}

	var tail []string
	if m.Edition != "" {
		tail = append(tail, m.Edition+" ed.")
	}
	if m.Publisher != "" {
		tail = append(tail, m.Publisher)
	}
	if m.Year != "" {
		tail = append(tail, m.Year)
	}
	if len(tail) > 0 {
		parts = append(parts, ensurePeriod(strings.Join(tail, ", ")))
	}
	return strings.Join(parts, " ")
}

// renderChicago: Family, Given. Title. 2nd ed. Publisher, Year.
func renderChicago(m models.CitationMeta) string {
	var parts []string

	if authors := chicagoAuthors(m.Authors); authors != "" {
		parts = append(parts, ensurePeriod(authors))
	}
	if m.Title != "" {
		parts = append(parts, ensurePeriod(m.Title))
	}
	if m.Edition != "" {
		parts = append(parts, ensurePeriod(m.Edition+" ed"))
	}

	var tail []string
	if m.Publisher != "" {
		tail = append(tail, m.Publisher)
	}
	if m.Year != "" {
		tail = append(tail, m.Year)
	}
	if len(tail) > 0 {
		parts = append(parts, ensurePeriod(strings.Join(tail, ", ")))
	}
	return strings.Join(parts, " ")
}

// renderHarvard: Family, G. (Year) Title. 2nd ed. Publisher.
func renderHarvard(m models.CitationMeta) string {
	var parts []string

	if authors := apaAuthors(m.Authors); authors != "" {
		parts = append(parts, authors)
	}
	if m.Year != "" {
		parts = append(parts, fmt.Sprintf("(%s)", m.Year))
	}
	if m.Title != "" {
		parts = append(parts, ensurePeriod(m.Title))
	}
	if m.Edition != "" {
		parts = append(parts, ensurePeriod(m.Edition+" ed"))
	}
	if m.Publisher != "" {
		parts = append(parts, ensurePeriod(m.Publisher))
	}
	return strings.Join(parts, " ")
}

// apaAuthors renders "Family, G. G., & Family, G." from names stored as
// "Family, Given".
func apaAuthors(authors []string) string {
	if len(authors) == 0 {
		return ""
	}

	formatted := make([]string, 0, len(authors))
	for _, a := range authors {
		family, given := splitName(a)
		if given == "" {
			formatted = append(formatted, family)
			continue
		}
		formatted = append(formatted, family+", "+initials(given))
	}

	switch len(formatted) {
	case 1:
		return ensurePeriod(formatted[0])
	default:
		return ensurePeriod(strings.Join(formatted[:len(formatted)-1], ", ") + ", & " + formatted[len(formatted)-1])
	}
}

// mlaAuthors keeps the first author inverted and restores natural order
// for the second; three or more collapse to "et al."
func mlaAuthors(authors []string) string {
	if len(authors) == 0 {
		return ""
	}

	first := authors[0]
	switch len(authors) {
	case 1:
		return first
	case 2:
		family, given := splitName(authors[1])
		second := strings.TrimSpace(given + " " + family)
		return first + ", and " + second
	default:
		return first + ", et al"
	}
}

func chicagoAuthors(authors []string) string {
	if len(authors) == 0 {
		return ""
	}
	if len(authors) == 1 {
		return authors[0]
	}
	return mlaAuthors(authors)
}

func splitName(name string) (family, given string) {
	parts := strings.SplitN(name, ",", 2)
	family = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		given = strings.TrimSpace(parts[1])
	}
	return family, given
}

func initials(given string) string {
	var sb strings.Builder
	for _, part := range strings.Fields(given) {
		r := []rune(part)
		if len(r) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(strings.ToUpper(string(r[0])))
		sb.WriteString(".")
	}
	return sb.String()
}

func preferDOI(m models.CitationMeta) string {
	if m.DOI != "" {
		if strings.HasPrefix(m.DOI, "http") {
			return m.DOI
		}
		return "https://doi.org/" + m.DOI
	}
	return m.URL
}

func ensurePeriod(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, "?") || strings.HasSuffix(s, "!") {
		return s
	}
	return s + "."
}
