package parser

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// pdfText tries the Go library first, then falls back to pdftotext if enabled.
func (x *Extractor) pdfText(data []byte) (string, error) {
	text, err := extractPDFText(data)
	if err != nil && x.FallbackPdftotext {
		if alt, altErr := extractPdftotext(data); altErr == nil {
			return alt, nil
		}
	}
	return text, err
}

func extractPDFText(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pt, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, pt)
	}
	return joinPages(pages), nil
}

func extractPdftotext(data []byte) (string, error) {
	// pdftotext only reads from a path.
	tmp, err := os.CreateTemp("", "docqa-pdf-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	cmd := exec.Command("pdftotext", "-layout", tmpPath, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return joinPages(splitFormFeeds(string(out))), nil
}

// splitFormFeeds splits pdftotext output into pages.
func splitFormFeeds(out string) []string {
	return strings.Split(strings.TrimRight(out, "\f"), "\f")
}

// joinPages puts exactly one newline between pages, after trimming the edge
// newlines each decoder leaves on page text.
func joinPages(pages []string) string {
	trimmed := make([]string, len(pages))
	for i, p := range pages {
		trimmed[i] = strings.Trim(p, "\r\n")
	}
	return strings.Join(trimmed, "\n")
}
