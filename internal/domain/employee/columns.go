package employee

// Field identifiers used in JSON, sort parameters and error reports.
const (
	FieldID            = "id"
	FieldPayrollNumber = "payrollNumber"
	FieldForenames     = "forenames"
	FieldSurname       = "surname"
	FieldDateOfBirth   = "dateOfBirth"
	FieldTelephone     = "telephone"
	FieldMobile        = "mobile"
	FieldAddress       = "address"
	FieldAddress2      = "address2"
	FieldPostcode      = "postcode"
	FieldEmailHome     = "emailHome"
	FieldStartDate     = "startDate"
)

type columnMapping struct {
	header string
	field  string
}

// importColumns is the external personnel-system layout, in export order.
var importColumns = []columnMapping{
	{header: "Personnel_Records.Payroll_Number", field: FieldPayrollNumber},
	{header: "Personnel_Records.Forenames", field: FieldForenames},
	{header: "Personnel_Records.Surname", field: FieldSurname},
	{header: "Personnel_Records.Date_of_Birth", field: FieldDateOfBirth},
	{header: "Personnel_Records.Telephone", field: FieldTelephone},
	{header: "Personnel_Records.Mobile", field: FieldMobile},
	{header: "Personnel_Records.Address", field: FieldAddress},
	{header: "Personnel_Records.Address_2", field: FieldAddress2},
	{header: "Personnel_Records.Postcode", field: FieldPostcode},
	{header: "Personnel_Records.EMail_Home", field: FieldEmailHome},
	{header: "Personnel_Records.Start_Date", field: FieldStartDate},
}

var (
	fieldByHeader = make(map[string]string, len(importColumns))
	headerByField = make(map[string]string, len(importColumns))
)

func init() {
	for _, c := range importColumns {
		fieldByHeader[c.header] = c.field
		headerByField[c.field] = c.header
	}
}

// FieldForHeader maps an external import header to a field identifier.
// Matching is exact and case-sensitive.
func FieldForHeader(header string) (string, bool) {
	field, ok := fieldByHeader[header]
	return field, ok
}

// HeaderForField maps a field identifier back to its external header.
func HeaderForField(field string) (string, bool) {
	header, ok := headerByField[field]
	return header, ok
}

// ImportHeaders returns the 11 external headers in layout order.
func ImportHeaders() []string {
	out := make([]string, len(importColumns))
	for i, c := range importColumns {
		out[i] = c.header
	}
	return out
}

// fieldValue returns the text form of a field, dates as YYYY-MM-DD.
func fieldValue(e Employee, field string) string {
	switch field {
	case FieldPayrollNumber:
		return e.PayrollNumber
	case FieldForenames:
		return e.Forenames
	case FieldSurname:
		return e.Surname
	case FieldDateOfBirth:
		return FormatDate(e.DateOfBirth)
	case FieldTelephone:
		return e.Telephone
	case FieldMobile:
		return e.Mobile
	case FieldAddress:
		return e.Address
	case FieldAddress2:
		return e.Address2
	case FieldPostcode:
		return e.Postcode
	case FieldEmailHome:
		return e.EmailHome
	case FieldStartDate:
		return FormatDate(e.StartDate)
	}
	return ""
}

// setField assigns raw text to a field. Dates go through ParseDate; other
// fields are stored verbatim.
func setField(e *Employee, field, raw string) error {
	switch field {
	case FieldPayrollNumber:
		e.PayrollNumber = raw
	case FieldForenames:
		e.Forenames = raw
	case FieldSurname:
		e.Surname = raw
	case FieldDateOfBirth:
		t, err := ParseDate(raw)
		if err != nil {
			return err
		}
		e.DateOfBirth = t
	case FieldTelephone:
		e.Telephone = raw
	case FieldMobile:
		e.Mobile = raw
	case FieldAddress:
		e.Address = raw
	case FieldAddress2:
		e.Address2 = raw
	case FieldPostcode:
		e.Postcode = raw
	case FieldEmailHome:
		e.EmailHome = raw
	case FieldStartDate:
		t, err := ParseDate(raw)
		if err != nil {
			return err
		}
		e.StartDate = t
	}
	return nil
}
