package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// blockElements get line breaks around their text, approximating innerText
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "footer": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "td": true, "th": true, "tr": true,
	"ul": true,
}

// innerText returns the visible text of the first node in sel
func innerText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	var sb strings.Builder
	writeText(&sb, sel.Get(0))
	return sb.String()
}

func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "template":
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		sb.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
	if block {
		sb.WriteByte('\n')
	}
}

// CollapseWhitespace replaces every whitespace run with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// NormalizeDescription collapses whitespace, removes boilerplate phrases
// (case-insensitively) and trims.
func NormalizeDescription(s string, boilerplate []string) string {
	return normalizeDescription(s, boilerplatePattern(boilerplate))
}

// boilerplatePattern compiles phrases into one case-insensitive
// alternation. Returns nil when there is nothing to strip.
func boilerplatePattern(phrases []string) *regexp.Regexp {
	quoted := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		if phrase != "" {
			quoted = append(quoted, regexp.QuoteMeta(phrase))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
}

func normalizeDescription(s string, boilerplate *regexp.Regexp) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	if boilerplate != nil {
		s = boilerplate.ReplaceAllString(s, "")
	}
	return CollapseWhitespace(s)
}
