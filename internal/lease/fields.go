package lease

import "strings"

// Field is a single named form field. A nil Value means the field carried
// no value in the document.
type Field struct {
	Name  string
	Value *string
}

// FormFieldSet holds the fields of one document in reader traversal order.
// Names may repeat; lookups are case-insensitive and the first match wins.
type FormFieldSet []Field

// With returns the set extended by a field holding value.
func (s FormFieldSet) With(name, value string) FormFieldSet {
	v := value
	return append(s, Field{Name: name, Value: &v})
}

// Len returns the number of fields in the set.
func (s FormFieldSet) Len() int {
	return len(s)
}

// Lookup returns the first field whose normalized name equals key.
func (s FormFieldSet) Lookup(key string) (Field, bool) {
	key = normalize(key)
	for _, f := range s {
		if normalize(f.Name) == key {
			return f, true
		}
	}
	return Field{}, false
}

// Match returns the field for key, preferring an exact name match and
// falling back to the first field whose name contains key. Several fields
// containing the same key resolve to whichever the reader produced first.
func (s FormFieldSet) Match(key string) (Field, bool) {
	if f, ok := s.Lookup(key); ok {
		return f, true
	}
	key = normalize(key)
	for _, f := range s {
		if strings.Contains(normalize(f.Name), key) {
			return f, true
		}
	}
	return Field{}, false
}

// Text returns the trimmed value of the field, or "" when absent.
func (f Field) Text() string {
	if f.Value == nil {
		return ""
	}
	return strings.TrimSpace(*f.Value)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
