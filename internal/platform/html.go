// Package platform contains the concrete content adapters, one per external
// platform. Each satisfies catalog.Adapter and produces NormalizedContent.
package platform

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/anatolykoptev/go-kit/strutil"
	"golang.org/x/net/html"

	"catalogsync/internal/engine"
)

// --- HTML tree helpers for scraping fallbacks ---

// getAttr returns the value of an attribute on a node, or "".
func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// findMeta finds the content of a <meta> tag matched by attribute key/value,
// e.g. findMeta(doc, "property", "og:title") or findMeta(doc, "itemprop", "duration").
func findMeta(n *html.Node, attrKey, attrVal string) string {
	if n.Type == html.ElementNode && n.Data == "meta" && getAttr(n, attrKey) == attrVal {
		return getAttr(n, "content")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findMeta(c, attrKey, attrVal); found != "" {
			return found
		}
	}
	return ""
}

// cleanDescription normalises a platform description for the catalog:
// HTML fragments are converted to markdown text, whitespace trimmed, and the
// result capped at the configured length on a rune boundary.
func cleanDescription(s string) string {
	if strings.Contains(s, "<") {
		if md, err := htmltomarkdown.ConvertString(s); err == nil {
			s = md
		}
	}
	s = strings.TrimSpace(s)
	return strutil.TruncateWith(s, engine.Cfg.MaxDescriptionChars, "...")
}
