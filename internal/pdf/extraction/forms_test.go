package extraction

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/lease-form-extractor/internal/pdf/pdftest"
)

func leaseFormPDF() []byte {
	return pdftest.FormPDF(
		pdftest.Text("Last name", "Smith"),
		pdftest.Text("First and middle names", "Jane"),
		pdftest.Field{Name: "undefined_2", Type: "Tx", Empty: true},
		pdftest.Field{Name: "Pets", Type: "Btn", Value: "Yes"},
		pdftest.Field{Name: "Smoking", Type: "Btn", Value: "Off"},
		pdftest.Field{Name: "Parking", Type: "Btn", Value: "Checked"},
		pdftest.Field{
			Name: "Tenant",
			Type: "Tx",
			Kids: []pdftest.Field{
				{Name: "City1", Value: "Springfield"},
				{Name: "Unit #", Value: "4"},
			},
		},
	)
}

func TestFormReaders(t *testing.T) {
	readers := []FieldReader{
		NewPDFCPUFormExtractor(false),
		NewLedongthucFormExtractor(false),
	}

	for _, reader := range readers {
		t.Run(reader.Name(), func(t *testing.T) {
			fields, err := reader.ReadFields(bytes.NewReader(leaseFormPDF()))
			require.NoError(t, err)
			require.Len(t, fields, 8)

			byName := map[string]FormField{}
			var order []string
			for _, f := range fields {
				byName[f.Name] = f
				order = append(order, f.Name)
			}

			assert.Equal(t, []string{
				"Last name",
				"First and middle names",
				"undefined_2",
				"Pets",
				"Smoking",
				"Parking",
				"Tenant.City1",
				"Tenant.Unit #",
			}, order, "fields come back in document order")

			assert.Equal(t, FormFieldTypeText, byName["Last name"].Type)
			assert.Equal(t, "Smith", byName["Last name"].Value)
			assert.Nil(t, byName["undefined_2"].Value)

			assert.Equal(t, FormFieldTypeCheckbox, byName["Pets"].Type)
			assert.Equal(t, "Yes", byName["Pets"].Value)
			assert.Equal(t, "Off", byName["Smoking"].Value)
			assert.Equal(t, FormFieldTypeCheckbox, byName["Parking"].Type)
			assert.Equal(t, "Checked", byName["Parking"].Value, "export name is kept as is")

			assert.Equal(t, FormFieldTypeText, byName["Tenant.City1"].Type, "type inherited from parent")
			assert.Equal(t, "Springfield", byName["Tenant.City1"].Value)
		})
	}
}

func TestFormReaders_NoAcroForm(t *testing.T) {
	for _, reader := range []FieldReader{NewPDFCPUFormExtractor(false), NewLedongthucFormExtractor(false)} {
		t.Run(reader.Name(), func(t *testing.T) {
			fields, err := reader.ReadFields(bytes.NewReader(pdftest.PlainPDF()))
			require.NoError(t, err)
			assert.Empty(t, fields)
		})
	}
}

func TestFormReaders_InvalidDocument(t *testing.T) {
	for _, reader := range []FieldReader{NewPDFCPUFormExtractor(false), NewLedongthucFormExtractor(false)} {
		t.Run(reader.Name(), func(t *testing.T) {
			_, err := reader.ReadFields(bytes.NewReader([]byte("not a pdf")))
			assert.Error(t, err)
		})
	}
}

type stubReader struct {
	name   string
	fields []FormField
	err    error
	calls  int
}

func (s *stubReader) Name() string { return s.name }

func (s *stubReader) ReadFields(r io.ReadSeeker) ([]FormField, error) {
	s.calls++
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	return s.fields, s.err
}

func TestFallbackReader(t *testing.T) {
	t.Run("first success wins", func(t *testing.T) {
		first := &stubReader{name: "a", fields: []FormField{{Name: "x"}}}
		second := &stubReader{name: "b"}

		fields, err := NewFallbackReader(first, second).ReadFields(bytes.NewReader([]byte("doc")))
		require.NoError(t, err)
		assert.Len(t, fields, 1)
		assert.Zero(t, second.calls)
	})

	t.Run("falls back after failure", func(t *testing.T) {
		first := &stubReader{name: "a", err: errors.New("broken xref")}
		second := &stubReader{name: "b", fields: []FormField{{Name: "y"}}}

		fields, err := NewFallbackReader(first, second).ReadFields(bytes.NewReader([]byte("doc")))
		require.NoError(t, err)
		assert.Equal(t, "y", fields[0].Name)
		assert.Equal(t, 1, second.calls)
	})

	t.Run("all failures joined", func(t *testing.T) {
		first := &stubReader{name: "a", err: errors.New("one")}
		second := &stubReader{name: "b", err: errors.New("two")}

		_, err := NewFallbackReader(first, second).ReadFields(bytes.NewReader([]byte("doc")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "a: one")
		assert.Contains(t, err.Error(), "b: two")
	})

	t.Run("no readers", func(t *testing.T) {
		_, err := NewFallbackReader().ReadFields(bytes.NewReader(nil))
		assert.Error(t, err)
	})

	assert.Equal(t, "pdfcpu+ledongthuc", NewDefaultReader(false).Name())
}

func TestToFieldSet(t *testing.T) {
	set := ToFieldSet([]FormField{
		{Name: "text", Value: "Smith"},
		{Name: "absent"},
		{Name: "checked", Value: true},
		{Name: "unchecked", Value: false},
		{Name: "multi", Value: []string{"a", "b"}},
	})

	require.Equal(t, 5, set.Len())

	f, ok := set.Lookup("text")
	require.True(t, ok)
	assert.Equal(t, "Smith", f.Text())

	f, ok = set.Lookup("absent")
	require.True(t, ok)
	assert.Nil(t, f.Value)

	f, _ = set.Lookup("checked")
	assert.Equal(t, "Yes", f.Text())
	f, _ = set.Lookup("unchecked")
	assert.Equal(t, "Off", f.Text())
	f, _ = set.Lookup("multi")
	assert.Equal(t, "a, b", f.Text())
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, "a", qualifiedName("", "a"))
	assert.Equal(t, "p", qualifiedName("p", ""))
	assert.Equal(t, "p.a", qualifiedName("p", "a"))
}
