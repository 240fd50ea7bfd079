// Package pdftest builds small fillable PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Field describes one AcroForm field. Fields with Kids become non-terminal
// parents; their Type is inherited by the kids.
type Field struct {
	Name  string
	Type  string // Tx, Btn, Ch; defaults to Tx
	Value string // written as a string, or as a name for Btn fields
	Empty bool   // omit the V entry
	Kids  []Field
}

// Text returns a filled text field.
func Text(name, value string) Field {
	return Field{Name: name, Type: "Tx", Value: value}
}

// FormPDF returns a one-page PDF whose AcroForm holds fields, with a
// correct cross-reference table.
func FormPDF(fields ...Field) []byte {
	b := &builder{}

	// 1: catalog, 2: pages, 3: acroform, 4: page
	b.reserve(4)

	var roots []int
	for _, f := range fields {
		roots = append(roots, b.addField(f, 0))
	}

	b.set(1, "<< /Type /Catalog /Pages 2 0 R /AcroForm 3 0 R >>")
	b.set(2, "<< /Type /Pages /Kids [4 0 R] /Count 1 >>")
	b.set(3, fmt.Sprintf("<< /Fields [%s] >>", refs(roots)))
	b.set(4, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")

	return b.bytes()
}

// PlainPDF returns a one-page PDF without an AcroForm.
func PlainPDF() []byte {
	b := &builder{}
	b.reserve(3)
	b.set(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.set(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	b.set(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	return b.bytes()
}

type builder struct {
	objects []string
}

func (b *builder) reserve(n int) {
	for i := 0; i < n; i++ {
		b.objects = append(b.objects, "")
	}
}

func (b *builder) set(num int, body string) {
	b.objects[num-1] = body
}

func (b *builder) add(body string) int {
	b.objects = append(b.objects, body)
	return len(b.objects)
}

func (b *builder) addField(f Field, parent int) int {
	num := b.add("")

	var entries []string
	entries = append(entries, "/T "+literal(f.Name))
	if parent > 0 {
		entries = append(entries, fmt.Sprintf("/Parent %d 0 R", parent))
	}
	fieldType := f.Type
	if fieldType == "" && parent == 0 {
		fieldType = "Tx"
	}
	if fieldType != "" {
		entries = append(entries, "/FT /"+fieldType)
	}

	if len(f.Kids) > 0 {
		var kids []int
		for _, kid := range f.Kids {
			kids = append(kids, b.addField(kid, num))
		}
		entries = append(entries, fmt.Sprintf("/Kids [%s]", refs(kids)))
	} else {
		if !f.Empty {
			if fieldType == "Btn" {
				entries = append(entries, "/V /"+f.Value)
			} else {
				entries = append(entries, "/V "+literal(f.Value))
			}
		}
		entries = append(entries, "/Type /Annot /Subtype /Widget /Rect [0 0 100 20] /P 4 0 R")
	}

	b.set(num, "<< "+strings.Join(entries, " ")+" >>")
	return num
}

func (b *builder) bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")

	offsets := make([]int, len(b.objects))
	for i, body := range b.objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(b.objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(b.objects)+1, xref)

	return buf.Bytes()
}

func refs(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d 0 R", n)
	}
	return strings.Join(parts, " ")
}

func literal(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return "(" + r.Replace(s) + ")"
}
