package extraction

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"github.com/ledongthuc/pdf"
)

// LedongthucFormExtractor walks the AcroForm tree with ledongthuc/pdf. It
// tolerates some damaged cross-reference tables that pdfcpu rejects.
type LedongthucFormExtractor struct {
	debugMode bool
}

// NewLedongthucFormExtractor creates a new form extractor using ledongthuc/pdf
func NewLedongthucFormExtractor(debugMode bool) *LedongthucFormExtractor {
	return &LedongthucFormExtractor{debugMode: debugMode}
}

// Name identifies the extractor in errors and logs.
func (fe *LedongthucFormExtractor) Name() string {
	return "ledongthuc"
}

// ReadFields extracts the terminal form fields from a PDF stream
func (fe *LedongthucFormExtractor) ReadFields(reader io.ReadSeeker) (fields []FormField, err error) {
	// The library panics on some malformed objects.
	defer func() {
		if r := recover(); r != nil {
			fields = nil
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	fields = []FormField{}
	acroForm := r.Trailer().Key("Root").Key("AcroForm")
	if acroForm.IsNull() {
		if fe.debugMode {
			log.Println("No AcroForm dictionary found in document")
		}
		return fields, nil
	}

	roots := acroForm.Key("Fields")
	if roots.Kind() != pdf.Array {
		return fields, nil
	}

	for i := 0; i < roots.Len(); i++ {
		fe.collectFields(roots.Index(i), "", i, 0, ledongthucInherited{}, &fields)
	}
	return fields, nil
}

// ledongthucInherited carries the inheritable entries down the field tree.
type ledongthucInherited struct {
	fieldType pdf.Value
	value     pdf.Value
	flags     int64
}

func (fe *LedongthucFormExtractor) collectFields(
	field pdf.Value, parentName string, index, depth int, inherited ledongthucInherited, forms *[]FormField,
) {
	if depth > maxFieldDepth || field.Kind() != pdf.Dict {
		return
	}

	name := qualifiedName(parentName, field.Key("T").Text())

	if ft := field.Key("FT"); !ft.IsNull() {
		inherited.fieldType = ft
	}
	if v := field.Key("V"); !v.IsNull() {
		inherited.value = v
	}
	if ff := field.Key("Ff"); ff.Kind() == pdf.Integer {
		inherited.flags = ff.Int64()
	}

	kids := field.Key("Kids")
	hasFieldKids := false
	if kids.Kind() == pdf.Array {
		for i := 0; i < kids.Len(); i++ {
			kid := kids.Index(i)
			if kid.Key("T").IsNull() {
				continue
			}
			hasFieldKids = true
			fe.collectFields(kid, name, i, depth+1, inherited, forms)
		}
	}
	if hasFieldKids {
		return
	}

	if name == "" {
		name = fmt.Sprintf("field_%d", index)
	}

	formField := FormField{
		Name:     name,
		Type:     ledongthucFieldType(inherited.fieldType.Name(), inherited.flags),
		ReadOnly: inherited.flags&1 != 0,
		Required: inherited.flags&2 != 0,
	}
	formField.Value = ledongthucFieldValue(inherited.value)

	if fe.debugMode {
		log.Printf("Extracted field: %s (type: %s)", formField.Name, formField.Type)
	}

	*forms = append(*forms, formField)
}

func ledongthucFieldType(ft string, flags int64) FormFieldType {
	switch ft {
	case "Btn":
		if flags&(1<<15) != 0 {
			return FormFieldTypeRadio
		} else if flags&(1<<16) != 0 {
			return FormFieldTypeButton
		}
		return FormFieldTypeCheckbox
	case "Tx":
		return FormFieldTypeText
	case "Ch":
		return FormFieldTypeSelect
	case "Sig":
		return FormFieldTypeSignature
	default:
		return FormFieldTypeUnknown
	}
}

func ledongthucFieldValue(v pdf.Value) interface{} {
	switch v.Kind() {
	case pdf.String:
		return v.Text()
	case pdf.Name:
		return v.Name()
	case pdf.Array:
		values := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			if item := v.Index(i); item.Kind() == pdf.String {
				values = append(values, item.Text())
			}
		}
		return values
	}
	return nil
}
