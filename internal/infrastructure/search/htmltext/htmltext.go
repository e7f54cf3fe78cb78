// Package htmltext turns search snippets that may contain markup into
// plain text suitable for a model prompt.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

var skippedTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "svg": true,
	"iframe": true, "head": true, "title": true, "meta": true, "link": true,
}

// Clean strips tags, comments and script-like elements, collapses
// whitespace and truncates to maxLen bytes (0 means unlimited). Input that
// fails to parse is returned whitespace-collapsed.
func Clean(raw string, maxLen int) string {
	if !strings.ContainsAny(raw, "<&") {
		return truncate(collapse(raw), maxLen)
	}

	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return truncate(collapse(raw), maxLen)
	}

	var sb strings.Builder
	collectText(doc, &sb)
	return truncate(collapse(sb.String()), maxLen)
}

func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.CommentNode:
		return
	case html.TextNode:
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
		return
	case html.ElementNode:
		if skippedTags[n.Data] {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	cut := maxLen
	// step back to a rune boundary
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
