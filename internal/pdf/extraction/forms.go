package extraction

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/a3tai/lease-form-extractor/internal/lease"
)

// FormFieldType represents the type of a form field
type FormFieldType string

const (
	FormFieldTypeText      FormFieldType = "text"
	FormFieldTypeCheckbox  FormFieldType = "checkbox"
	FormFieldTypeRadio     FormFieldType = "radio"
	FormFieldTypeSelect    FormFieldType = "select"
	FormFieldTypeButton    FormFieldType = "button"
	FormFieldTypeSignature FormFieldType = "signature"
	FormFieldTypeUnknown   FormFieldType = "unknown"
)

// maxFieldDepth bounds recursion through Kids arrays.
const maxFieldDepth = 32

// FormField represents an interactive form field in a PDF
type FormField struct {
	Name         string        `json:"name"`
	Type         FormFieldType `json:"type"`
	Value        interface{}   `json:"value,omitempty"`
	DefaultValue interface{}   `json:"default_value,omitempty"`
	Options      []string      `json:"options,omitempty"`
	Required     bool          `json:"required"`
	ReadOnly     bool          `json:"read_only"`
}

// FieldReader extracts the terminal form fields of a PDF document.
type FieldReader interface {
	ReadFields(reader io.ReadSeeker) ([]FormField, error)
	Name() string
}

// FallbackReader tries each reader in turn and returns the first success.
type FallbackReader struct {
	readers []FieldReader
}

// NewFallbackReader creates a reader chain. The first reader is preferred.
func NewFallbackReader(readers ...FieldReader) *FallbackReader {
	return &FallbackReader{readers: readers}
}

// NewDefaultReader returns pdfcpu with a ledongthuc fallback.
func NewDefaultReader(debugMode bool) *FallbackReader {
	return NewFallbackReader(
		NewPDFCPUFormExtractor(debugMode),
		NewLedongthucFormExtractor(debugMode),
	)
}

// Name lists the chained readers.
func (fr *FallbackReader) Name() string {
	names := make([]string, len(fr.readers))
	for i, r := range fr.readers {
		names[i] = r.Name()
	}
	return strings.Join(names, "+")
}

// ReadFields rewinds reader before each attempt.
func (fr *FallbackReader) ReadFields(reader io.ReadSeeker) ([]FormField, error) {
	if len(fr.readers) == 0 {
		return nil, errors.New("no form readers configured")
	}

	var errs []error
	for _, r := range fr.readers {
		if _, err := reader.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to rewind document: %w", err)
		}
		fields, err := r.ReadFields(reader)
		if err == nil {
			return fields, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
	}
	return nil, errors.Join(errs...)
}

// ToFieldSet converts extracted fields to the mapper's input, keeping
// document order. Fields without a value stay absent.
func ToFieldSet(fields []FormField) lease.FormFieldSet {
	set := make(lease.FormFieldSet, 0, len(fields))
	for _, f := range fields {
		field := lease.Field{Name: f.Name}
		if v, ok := valueString(f.Value); ok {
			field.Value = &v
		}
		set = append(set, field)
	}
	return set
}

func valueString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		if v {
			return "Yes", true
		}
		return "Off", true
	case []string:
		return strings.Join(v, ", "), true
	default:
		return fmt.Sprint(v), true
	}
}

// qualifiedName joins a partial field name onto its parent's name.
func qualifiedName(parent, partial string) string {
	switch {
	case parent == "":
		return partial
	case partial == "":
		return parent
	default:
		return parent + "." + partial
	}
}
