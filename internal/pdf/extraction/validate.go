package extraction

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrEmptyDocument is returned for zero-length input.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrNotPDF is returned when the input lacks a PDF header.
	ErrNotPDF = errors.New("document is not a PDF")
)

// headerWindow is how far into the input the %PDF- marker may start.
// Readers tolerate leading junk before the header.
const headerWindow = 1024

var pdfHeader = []byte("%PDF-")

// ValidateDocument performs a quick check that document looks like a PDF
// before it is handed to the readers.
func ValidateDocument(document []byte) error {
	if len(document) == 0 {
		return ErrEmptyDocument
	}

	window := document
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	if !bytes.Contains(window, pdfHeader) {
		return fmt.Errorf("%w: missing %s header", ErrNotPDF, pdfHeader)
	}
	return nil
}
