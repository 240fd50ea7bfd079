package descriptions

// Tool descriptions with examples and use cases

const (
	LeaseListFieldsDescription = `List the raw form fields of a fillable lease PDF.

**When to use:** Checking what a lease form actually contains before mapping it, or finding out why a column came out empty.

**Examples:**
• Inspect a new template: "List the fields of rent_agreement.pdf"
• Debug a missing date: "Which day/month/year fields does lease-2024.pdf have?"

**Output:** One line per field in document order, as name = value. Fields without a value are shown as (empty).`

	LeaseExtractRecordDescription = `Map a fillable lease PDF to a tenant record without writing anything.

**When to use:** Previewing the CSV row a lease would produce.

**Examples:**
• Preview: "What tenant record does rent_agreement.pdf produce?"

**Output:** The 13 record columns (landlords, tenants, phone, address, lease start and expiry dates, monthly rent) as JSON. Columns with no matching form field are empty strings.`

	LeaseAppendRecordDescription = `Map a fillable lease PDF and append the record to the tenant CSV.

**When to use:** Recording a completed lease in the tenant data file.

**Behavior:** The header row is written once, when the CSV is new or empty. Existing rows are never changed. A PDF with no form fields writes nothing.

**Examples:**
• Record a lease: "Append rent_agreement.pdf to the tenant data"`
)
