package extraction

import (
	"fmt"
	"io"
	"log"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PDFCPUFormExtractor implements form extraction using the pdfcpu library
type PDFCPUFormExtractor struct {
	debugMode bool
}

// NewPDFCPUFormExtractor creates a new form extractor using pdfcpu
func NewPDFCPUFormExtractor(debugMode bool) *PDFCPUFormExtractor {
	return &PDFCPUFormExtractor{
		debugMode: debugMode,
	}
}

// Name identifies the extractor in errors and logs.
func (fe *PDFCPUFormExtractor) Name() string {
	return "pdfcpu"
}

// ReadFields extracts the terminal form fields from a PDF stream
func (fe *PDFCPUFormExtractor) ReadFields(reader io.ReadSeeker) ([]FormField, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(reader, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	return fe.extractFormsFromContext(ctx)
}

// extractFormsFromContext walks the AcroForm field tree of a pdfcpu context
func (fe *PDFCPUFormExtractor) extractFormsFromContext(ctx *model.Context) ([]FormField, error) {
	forms := []FormField{}

	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		if fe.debugMode {
			log.Println("No AcroForm dictionary found in document")
		}
		return forms, nil
	}

	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return forms, nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		if fe.debugMode {
			log.Println("No Fields array found in AcroForm")
		}
		return forms, nil
	}

	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	for i, fieldRef := range fieldsArray {
		if err := fe.collectFields(ctx, fieldRef, "", i, 0, &forms); err != nil && fe.debugMode {
			log.Printf("Error processing field %d: %v", i, err)
		}
	}

	return forms, nil
}

// collectFields appends the terminal fields below fieldObj to forms
func (fe *PDFCPUFormExtractor) collectFields(
	ctx *model.Context, fieldObj types.Object, parentName string, index, depth int, forms *[]FormField,
) error {
	if depth > maxFieldDepth {
		return fmt.Errorf("field tree deeper than %d levels", maxFieldDepth)
	}

	fieldDict, err := ctx.DereferenceDict(fieldObj)
	if err != nil {
		return fmt.Errorf("failed to dereference field: %w", err)
	}
	if fieldDict == nil {
		return nil
	}

	partial := ""
	if nameObj, found := fieldDict.Find("T"); found {
		if name, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil {
			partial = name
		}
	}
	name := qualifiedName(parentName, partial)

	if kids := fe.childFields(ctx, fieldDict); len(kids) > 0 {
		for i, kid := range kids {
			if err := fe.collectFields(ctx, kid, name, i, depth+1, forms); err != nil && fe.debugMode {
				log.Printf("Error processing kid %d of %q: %v", i, name, err)
			}
		}
		return nil
	}

	if name == "" {
		name = fmt.Sprintf("field_%d", index)
	}
	field := fe.buildField(ctx, fieldDict, name)

	if fe.debugMode {
		log.Printf("Extracted field: %s (type: %s)", field.Name, field.Type)
	}

	*forms = append(*forms, field)
	return nil
}

// childFields returns the Kids that are fields rather than widget annotations
func (fe *PDFCPUFormExtractor) childFields(ctx *model.Context, fieldDict types.Dict) []types.Object {
	kidsObj, found := fieldDict.Find("Kids")
	if !found {
		return nil
	}

	kidsArray, err := ctx.DereferenceArray(kidsObj)
	if err != nil {
		return nil
	}

	var kids []types.Object
	for _, kid := range kidsArray {
		kidDict, err := ctx.DereferenceDict(kid)
		if err != nil || kidDict == nil {
			continue
		}
		if _, named := kidDict.Find("T"); named {
			kids = append(kids, kid)
		}
	}
	return kids
}

// buildField reads the properties of a terminal field
func (fe *PDFCPUFormExtractor) buildField(ctx *model.Context, fieldDict types.Dict, name string) FormField {
	field := FormField{Name: name}

	field.Type = fe.extractFieldType(ctx, fieldDict)

	if valueObj, found := fe.inheritable(ctx, fieldDict, "V"); found {
		field.Value = fe.extractFieldValue(ctx, valueObj, field.Type)
	}

	if defaultObj, found := fe.inheritable(ctx, fieldDict, "DV"); found {
		field.DefaultValue = fe.extractFieldValue(ctx, defaultObj, field.Type)
	}

	flags := fe.fieldFlags(ctx, fieldDict)
	field.ReadOnly = (flags & 1) != 0 // Bit 1
	field.Required = (flags & 2) != 0 // Bit 2

	if field.Type == FormFieldTypeSelect || field.Type == FormFieldTypeRadio {
		field.Options = fe.extractFieldOptions(ctx, fieldDict)
	}

	return field
}

// inheritable looks key up on the field and then on its ancestors
func (fe *PDFCPUFormExtractor) inheritable(ctx *model.Context, fieldDict types.Dict, key string) (types.Object, bool) {
	dict := fieldDict
	for depth := 0; dict != nil && depth <= maxFieldDepth; depth++ {
		if obj, found := dict.Find(key); found {
			return obj, true
		}
		parentObj, found := dict.Find("Parent")
		if !found {
			return nil, false
		}
		parentDict, err := ctx.DereferenceDict(parentObj)
		if err != nil {
			return nil, false
		}
		dict = parentDict
	}
	return nil, false
}

// fieldFlags returns the (possibly inherited) Ff entry
func (fe *PDFCPUFormExtractor) fieldFlags(ctx *model.Context, fieldDict types.Dict) int {
	flagsObj, found := fe.inheritable(ctx, fieldDict, "Ff")
	if !found {
		return 0
	}
	flags, err := ctx.DereferenceInteger(flagsObj)
	if err != nil || flags == nil {
		return 0
	}
	return int(*flags)
}

// extractFieldType determines the field type from the FT entry
func (fe *PDFCPUFormExtractor) extractFieldType(ctx *model.Context, fieldDict types.Dict) FormFieldType {
	ftObj, found := fe.inheritable(ctx, fieldDict, "FT")
	if !found {
		return FormFieldTypeUnknown
	}

	ftName, err := ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return FormFieldTypeUnknown
	}

	switch ftName {
	case "Btn":
		flags := fe.fieldFlags(ctx, fieldDict)
		if (flags & (1 << 15)) != 0 { // Bit 16: Radio
			return FormFieldTypeRadio
		} else if (flags & (1 << 16)) != 0 { // Bit 17: Pushbutton
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

// extractFieldValue extracts the value based on field type
func (fe *PDFCPUFormExtractor) extractFieldValue(ctx *model.Context, valueObj types.Object, fieldType FormFieldType) interface{} {
	switch fieldType {
	case FormFieldTypeText, FormFieldTypeUnknown:
		if val, err := ctx.DereferenceStringOrHexLiteral(valueObj, model.V10, nil); err == nil {
			return val
		}
	case FormFieldTypeCheckbox, FormFieldTypeRadio:
		// Checked boxes carry their export name, which need not be Yes.
		if name, err := ctx.DereferenceName(valueObj, model.V10, nil); err == nil {
			return string(name)
		}
	case FormFieldTypeSelect:
		// Can be string or array of strings
		if val, err := ctx.DereferenceStringOrHexLiteral(valueObj, model.V10, nil); err == nil {
			return val
		}
		if arr, err := ctx.DereferenceArray(valueObj); err == nil {
			var values []string
			for _, item := range arr {
				if str, err := ctx.DereferenceStringOrHexLiteral(item, model.V10, nil); err == nil {
					values = append(values, str)
				}
			}
			return values
		}
	}
	return nil
}

// extractFieldOptions extracts options for choice fields
func (fe *PDFCPUFormExtractor) extractFieldOptions(ctx *model.Context, fieldDict types.Dict) []string {
	var options []string

	optObj, found := fe.inheritable(ctx, fieldDict, "Opt")
	if !found {
		return options
	}

	optArray, err := ctx.DereferenceArray(optObj)
	if err != nil {
		return options
	}

	for _, opt := range optArray {
		// Options can be strings or arrays of [export_value, display_value]
		if str, err := ctx.DereferenceStringOrHexLiteral(opt, model.V10, nil); err == nil {
			options = append(options, str)
		} else if arr, err := ctx.DereferenceArray(opt); err == nil && len(arr) >= 2 {
			if displayVal, err := ctx.DereferenceStringOrHexLiteral(arr[1], model.V10, nil); err == nil {
				options = append(options, displayVal)
			}
		}
	}

	return options
}
