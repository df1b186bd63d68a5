package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

func docxText(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		paragraphs = append(paragraphs, docxParagraphText(para))
	}
	return strings.Join(paragraphs, "\n"), nil
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			writeRunText(&buf, c)
		case *docx.Hyperlink:
			writeRunText(&buf, &c.Run)
		}
	}
	return buf.String()
}

// writeRunText renders tabs as "\t" and line breaks as "\n". Page and column
// breaks produce nothing.
func writeRunText(buf *strings.Builder, run *docx.Run) {
	for _, rc := range run.Children {
		switch c := rc.(type) {
		case *docx.Text:
			buf.WriteString(c.Text)
		case *docx.Tab:
			buf.WriteByte('\t')
		case *docx.BarterRabbet:
			if c.Type == "" || c.Type == "textWrapping" {
				buf.WriteByte('\n')
			}
		}
	}
}
