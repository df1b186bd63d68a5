package highlight

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render returns an HTML fragment showing the excerpt with the answer inside a
// <mark> element. Context text is escaped.
func Render(h Highlight) string {
	div := element(atom.Div, "answer-context")
	if !h.Found {
		div.Attr[0].Val = "answer-context not-found"
		div.AppendChild(textNode(NotFoundNotice))
		return renderNode(div)
	}

	if h.Before != "" {
		div.AppendChild(textNode(h.Before))
	}
	mark := element(atom.Mark, "answer")
	mark.AppendChild(textNode(h.Answer))
	div.AppendChild(mark)
	if h.After != "" {
		div.AppendChild(textNode(h.After))
	}
	return renderNode(div)
}

func element(a atom.Atom, class string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     []html.Attribute{{Key: "class", Val: class}},
	}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func renderNode(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}
