package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// UnsupportedFormatMessage is returned by Extract for any extension outside
// SupportedExtensions.
const UnsupportedFormatMessage = "Unsupported file format. Please upload PDF, DOCX, or TXT files."

// ErrUnsupportedFormat is returned by Decode for unknown extensions.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	"pdf":  true,
	"docx": true,
	"txt":  true,
}

// DecodeError reports malformed content for a supported format.
type DecodeError struct {
	Format string // "PDF", "DOCX" or "TXT"
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("Error reading %s: %s", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Extractor turns uploaded document bytes into plain text.
type Extractor struct {
	// FallbackPdftotext retries failed PDFs with the pdftotext binary.
	FallbackPdftotext bool
}

// Extract returns the plain text of data, or a human-readable message when the
// format is unsupported or the content cannot be decoded. It never fails.
func (x *Extractor) Extract(data []byte, ext string) string {
	text, err := x.Decode(data, ext)
	if err != nil {
		return ErrorMessage(err)
	}
	return text
}

// ErrorMessage converts a Decode failure into the text Extract returns for it.
func ErrorMessage(err error) string {
	if errors.Is(err, ErrUnsupportedFormat) {
		return UnsupportedFormatMessage
	}
	return err.Error()
}

// Decode is Extract with the failure reported as an error. Failures for
// supported formats are always *DecodeError.
func (x *Extractor) Decode(data []byte, ext string) (text string, err error) {
	ext = NormalizeExt(ext)
	format := strings.ToUpper(ext)

	defer func() {
		if r := recover(); r != nil {
			text, err = "", &DecodeError{Format: format, Err: fmt.Errorf("%v", r)}
		}
	}()

	switch ext {
	case "pdf":
		text, err = x.pdfText(data)
	case "docx":
		text, err = docxText(data)
	case "txt":
		text, err = plainText(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", &DecodeError{Format: format, Err: err}
	}
	return strings.TrimSpace(text), nil
}

// Extract uses an Extractor with default options.
func Extract(data []byte, ext string) string {
	var x Extractor
	return x.Extract(data, ext)
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// ExtFromFilename returns the normalized extension of an upload name.
func ExtFromFilename(filename string) string {
	return NormalizeExt(filepath.Ext(filename))
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[ExtFromFilename(filename)]
}
