package lease

// Output column labels, in CSV order.
const (
	ColumnLandlord1FirstName = "Landlord 1 First Name"
	ColumnLandlord1LastName  = "Landlord 1 Last Name"
	ColumnLandlord2FirstName = "Landlord 2 First Name"
	ColumnLandlord2LastName  = "Landlord 2 Last Name"
	ColumnTenant1FirstName   = "Tenant 1 First Name"
	ColumnTenant1LastName    = "Tenant 1 Last Name"
	ColumnTenant2FirstName   = "Tenant 2 First Name"
	ColumnTenant2LastName    = "Tenant 2 Last Name"
	ColumnPhoneNumber        = "Phone Number"
	ColumnAddress            = "Address"
	ColumnLeaseStartDate     = "Lease Start Date"
	ColumnLeaseExpiryDate    = "Lease Expiry Date"
	ColumnMonthlyRent        = "Monthly Rent"
)

// Columns lists the output header in order.
var Columns = []string{
	ColumnLandlord1FirstName,
	ColumnLandlord1LastName,
	ColumnLandlord2FirstName,
	ColumnLandlord2LastName,
	ColumnTenant1FirstName,
	ColumnTenant1LastName,
	ColumnTenant2FirstName,
	ColumnTenant2LastName,
	ColumnPhoneNumber,
	ColumnAddress,
	ColumnLeaseStartDate,
	ColumnLeaseExpiryDate,
	ColumnMonthlyRent,
}

// OutputRecord is one row of the tenant CSV. Field order matches Columns;
// the csv tags are the header labels.
type OutputRecord struct {
	Landlord1FirstName string `csv:"Landlord 1 First Name" json:"landlord_1_first_name"`
	Landlord1LastName  string `csv:"Landlord 1 Last Name" json:"landlord_1_last_name"`
	Landlord2FirstName string `csv:"Landlord 2 First Name" json:"landlord_2_first_name"`
	Landlord2LastName  string `csv:"Landlord 2 Last Name" json:"landlord_2_last_name"`
	Tenant1FirstName   string `csv:"Tenant 1 First Name" json:"tenant_1_first_name"`
	Tenant1LastName    string `csv:"Tenant 1 Last Name" json:"tenant_1_last_name"`
	Tenant2FirstName   string `csv:"Tenant 2 First Name" json:"tenant_2_first_name"`
	Tenant2LastName    string `csv:"Tenant 2 Last Name" json:"tenant_2_last_name"`
	PhoneNumber        string `csv:"Phone Number" json:"phone_number"`
	Address            string `csv:"Address" json:"address"`
	LeaseStartDate     string `csv:"Lease Start Date" json:"lease_start_date"`
	LeaseExpiryDate    string `csv:"Lease Expiry Date" json:"lease_expiry_date"`
	MonthlyRent        string `csv:"Monthly Rent" json:"monthly_rent"`
}

// Set assigns value to the named column. Unknown columns are ignored.
func (r *OutputRecord) Set(column, value string) {
	if p := r.column(column); p != nil {
		*p = value
	}
}

// Get returns the value of the named column, or "" for unknown columns.
func (r *OutputRecord) Get(column string) string {
	if p := r.column(column); p != nil {
		return *p
	}
	return ""
}

// Values returns the row in Columns order.
func (r *OutputRecord) Values() []string {
	values := make([]string, len(Columns))
	for i, column := range Columns {
		values[i] = r.Get(column)
	}
	return values
}

// IsEmpty reports whether every column is empty.
func (r *OutputRecord) IsEmpty() bool {
	for _, v := range r.Values() {
		if v != "" {
			return false
		}
	}
	return true
}

func (r *OutputRecord) column(name string) *string {
	switch name {
	case ColumnLandlord1FirstName:
		return &r.Landlord1FirstName
	case ColumnLandlord1LastName:
		return &r.Landlord1LastName
	case ColumnLandlord2FirstName:
		return &r.Landlord2FirstName
	case ColumnLandlord2LastName:
		return &r.Landlord2LastName
	case ColumnTenant1FirstName:
		return &r.Tenant1FirstName
	case ColumnTenant1LastName:
		return &r.Tenant1LastName
	case ColumnTenant2FirstName:
		return &r.Tenant2FirstName
	case ColumnTenant2LastName:
		return &r.Tenant2LastName
	case ColumnPhoneNumber:
		return &r.PhoneNumber
	case ColumnAddress:
		return &r.Address
	case ColumnLeaseStartDate:
		return &r.LeaseStartDate
	case ColumnLeaseExpiryDate:
		return &r.LeaseExpiryDate
	case ColumnMonthlyRent:
		return &r.MonthlyRent
	}
	return nil
}
