package canonical

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// cleanText collapses whitespace, including non-breaking spaces.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// DescriptionText converts an HTML job description to plain text, one block
// per line. Greenhouse entity-encodes its HTML, so that is decoded first.
func DescriptionText(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "&lt;") {
		raw = html.UnescapeString(raw)
	}
	if !strings.ContainsAny(raw, "<&") {
		return cleanLines(raw)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return cleanLines(raw)
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").PrependHtml("- ")
	doc.Find("p, div, li, ul, ol, h1, h2, h3, h4, h5, h6, tr").AfterHtml("\n")
	return cleanLines(doc.Text())
}

func cleanLines(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = cleanText(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
