package lease

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormFieldSet_Lookup(t *testing.T) {
	fields := FormFieldSet{}.
		With("  City1 ", "Springfield").
		With("city1", "Shelbyville")

	f, ok := fields.Lookup("CITY1")
	assert.True(t, ok)
	assert.Equal(t, "Springfield", f.Text(), "first field in order wins")

	_, ok = fields.Lookup("city")
	assert.False(t, ok)
}

func TestFormFieldSet_Match(t *testing.T) {
	fields := FormFieldSet{}.
		With("Tenant day_2", "20").
		With("Tenant day", "10")

	f, ok := fields.Match("day")
	assert.True(t, ok)
	assert.Equal(t, "20", f.Text())

	_, ok = fields.Match("month")
	assert.False(t, ok)
}

func TestField_Text(t *testing.T) {
	assert.Empty(t, Field{Name: "x"}.Text())

	v := "  padded\t"
	assert.Equal(t, "padded", Field{Name: "x", Value: &v}.Text())
}
