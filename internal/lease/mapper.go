// Package lease maps the form fields of a residential lease agreement onto
// the fixed tenant CSV record.
package lease

import "strings"

// Mapping binds a source field key to an output column.
type Mapping struct {
	SourceKey string
	Column    string
}

// FieldMappingTable lists the one-to-one field mappings. Keys are lowercase.
var FieldMappingTable = []Mapping{
	{SourceKey: "last name", Column: ColumnLandlord1LastName},
	{SourceKey: "first and middle names", Column: ColumnLandlord1FirstName},
	{SourceKey: "last name_2", Column: ColumnLandlord2LastName},
	{SourceKey: "first and middle names_2", Column: ColumnLandlord2FirstName},
	{SourceKey: "last name_3", Column: ColumnTenant1LastName},
	{SourceKey: "first and middle names_3", Column: ColumnTenant1FirstName},
	{SourceKey: "last name_4", Column: ColumnTenant2LastName},
	{SourceKey: "first and middle names_4", Column: ColumnTenant2FirstName},
	{SourceKey: "undefined_2", Column: ColumnPhoneNumber},
}

// Address parts, in output order.
var addressKeys = []string{
	"unit #",
	"street number and street name1",
	"city1",
	"province1",
	"postalcode1",
}

// DateKeys names the fields that make up one date.
type DateKeys struct {
	DaySubstring string
	Month        string
	Year         string
}

var (
	LeaseStartKeys  = DateKeys{DaySubstring: "day", Month: "month1", Year: "year1"}
	LeaseExpiryKeys = DateKeys{DaySubstring: "day_2", Month: "month2", Year: "year2"}
)

const rentKey = "the tenant will pay the rent of"

// Map builds the output record for one document. It never fails: missing
// or empty fields leave their column blank.
func Map(fields FormFieldSet) *OutputRecord {
	record := mapSimpleFields(fields)
	record.Address = buildAddress(fields)
	record.LeaseStartDate = buildDate(fields, LeaseStartKeys)
	record.LeaseExpiryDate = buildDate(fields, LeaseExpiryKeys)
	record.MonthlyRent = extractRent(fields)
	return record
}

func mapSimpleFields(fields FormFieldSet) *OutputRecord {
	record := &OutputRecord{}
	for _, m := range FieldMappingTable {
		f, ok := fields.Match(m.SourceKey)
		if !ok {
			continue
		}
		if v := f.Text(); v != "" {
			record.Set(m.Column, v)
		}
	}
	return record
}

func buildAddress(fields FormFieldSet) string {
	var parts []string
	for _, key := range addressKeys {
		f, ok := fields.Match(key)
		if !ok {
			continue
		}
		if v := f.Text(); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func buildDate(fields FormFieldSet, keys DateKeys) string {
	var parts []string
	if f, ok := fields.Match(keys.DaySubstring); ok {
		parts = appendText(parts, f)
	}
	if f, ok := fields.Lookup(keys.Month); ok {
		parts = appendText(parts, f)
	}
	if f, ok := fields.Lookup(keys.Year); ok {
		parts = appendText(parts, f)
	}
	return strings.Join(parts, " ")
}

func extractRent(fields FormFieldSet) string {
	f, ok := fields.Match(rentKey)
	if !ok {
		return ""
	}
	return f.Text()
}

func appendText(parts []string, f Field) []string {
	if v := f.Text(); v != "" {
		return append(parts, v)
	}
	return parts
}
