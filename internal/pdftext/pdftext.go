// Package pdftext pulls plain text out of uploaded PDF resumes.
package pdftext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz" // Lightweight PDF renderer
)

// ErrNoText reports a PDF whose pages yielded no extractable text,
// typically a scanned document without a text layer.
var ErrNoText = errors.New("no extractable text in PDF")

// Extract concatenates the text of every page in order.
func Extract(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		b.WriteString(text)
	}

	out := b.String()
	if strings.TrimSpace(out) == "" {
		return "", ErrNoText
	}
	return out, nil
}
