package htmltext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// Render converts an HTML fragment to plain text, keeping hyperlink targets
// in parentheses after the link text.
func Render(fragment string) string {
	return convert(fragment, true)
}

// RenderText converts an HTML fragment to bare text. Hyperlink targets are
// dropped; only the link text survives.
func RenderText(fragment string) string {
	return convert(fragment, false)
}

func convert(fragment string, keepLinks bool) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		// The HTML5 parser recovers from malformed markup on its own; an
		// error here means the reader failed, which a string reader cannot.
		return strings.TrimSpace(fragment)
	}
	var b strings.Builder
	b.Grow(len(fragment))
	walk(doc, &b, keepLinks)
	return norm.NFC.String(tidy(b.String()))
}

func walk(n *html.Node, b *strings.Builder, keepLinks bool) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(collapseInline(n.Data))
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Head, atom.Title, atom.Template:
			return
		case atom.Br:
			b.WriteByte('\n')
			return
		case atom.A:
			writeLink(n, b, keepLinks)
			return
		}
	}

	block := isBlock(n)
	if block {
		b.WriteByte('\n')
		if n.DataAtom == atom.Li {
			b.WriteString("- ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, b, keepLinks)
	}
	if block {
		b.WriteByte('\n')
	}
}

func writeLink(n *html.Node, b *strings.Builder, keepLinks bool) {
	text := strings.TrimSpace(collapseInline(collectText(n)))
	href := strings.TrimSpace(attrValue(n, "href"))

	if text != "" {
		b.WriteString(text)
	}
	if !keepLinks || href == "" || href == text {
		return
	}
	if text == "" {
		b.WriteString(href)
		return
	}
	b.WriteString(" (")
	b.WriteString(href)
	b.WriteByte(')')
}

func collectText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(m *html.Node) {
		if m.Type == html.TextNode {
			b.WriteString(m.Data)
		}
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visit(c)
	}
	return b.String()
}

func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

func isBlock(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.P, atom.Div, atom.Section, atom.Article,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Ul, atom.Ol, atom.Li, atom.Blockquote,
		atom.Table, atom.Tr, atom.Figure, atom.Figcaption:
		return true
	}
	return false
}

var (
	inlineWhitespace = regexp.MustCompile(`\s+`)
	spaceAroundBreak = regexp.MustCompile(` *\n *`)
	breakRuns        = regexp.MustCompile(`\n{3,}`)
)

func collapseInline(s string) string {
	return inlineWhitespace.ReplaceAllString(s, " ")
}

func tidy(s string) string {
	s = spaceAroundBreak.ReplaceAllString(s, "\n")
	s = breakRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
