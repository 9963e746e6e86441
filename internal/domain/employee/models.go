package employee

import (
	"encoding/json"
	"time"
)

// Employee is the single record type managed by the service. ID is assigned
// by the store and is zero until the record has been created.
type Employee struct {
	ID            int64     `json:"id"`
	PayrollNumber string    `json:"payrollNumber" validate:"notblank"`
	Forenames     string    `json:"forenames"`
	Surname       string    `json:"surname"`
	DateOfBirth   time.Time `json:"dateOfBirth"`
	Telephone     string    `json:"telephone"`
	Mobile        string    `json:"mobile"`
	Address       string    `json:"address"`
	Address2      string    `json:"address2"`
	Postcode      string    `json:"postcode"`
	EmailHome     string    `json:"emailHome"`
	StartDate     time.Time `json:"startDate"`
}

type employeeJSON struct {
	ID            int64  `json:"id"`
	PayrollNumber string `json:"payrollNumber"`
	Forenames     string `json:"forenames"`
	Surname       string `json:"surname"`
	DateOfBirth   string `json:"dateOfBirth"`
	Telephone     string `json:"telephone"`
	Mobile        string `json:"mobile"`
	Address       string `json:"address"`
	Address2      string `json:"address2"`
	Postcode      string `json:"postcode"`
	EmailHome     string `json:"emailHome"`
	StartDate     string `json:"startDate"`
}

// MarshalJSON renders both dates as YYYY-MM-DD, or "" for the zero date.
func (e Employee) MarshalJSON() ([]byte, error) {
	return json.Marshal(employeeJSON{
		ID:            e.ID,
		PayrollNumber: e.PayrollNumber,
		Forenames:     e.Forenames,
		Surname:       e.Surname,
		DateOfBirth:   FormatDate(e.DateOfBirth),
		Telephone:     e.Telephone,
		Mobile:        e.Mobile,
		Address:       e.Address,
		Address2:      e.Address2,
		Postcode:      e.Postcode,
		EmailHome:     e.EmailHome,
		StartDate:     FormatDate(e.StartDate),
	})
}

// UnmarshalJSON accepts any of the date layouts understood by ParseDate.
func (e *Employee) UnmarshalJSON(data []byte) error {
	var raw employeeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	dob, err := ParseDate(raw.DateOfBirth)
	if err != nil {
		return withColumn(err, FieldDateOfBirth)
	}
	start, err := ParseDate(raw.StartDate)
	if err != nil {
		return withColumn(err, FieldStartDate)
	}
	*e = Employee{
		ID:            raw.ID,
		PayrollNumber: raw.PayrollNumber,
		Forenames:     raw.Forenames,
		Surname:       raw.Surname,
		DateOfBirth:   dob,
		Telephone:     raw.Telephone,
		Mobile:        raw.Mobile,
		Address:       raw.Address,
		Address2:      raw.Address2,
		Postcode:      raw.Postcode,
		EmailHome:     raw.EmailHome,
		StartDate:     start,
	}
	return nil
}

// PagedResult is one page of a filtered, ordered employee listing.
type PagedResult struct {
	Items      []Employee `json:"items"`
	TotalCount int        `json:"totalCount"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
	Search     string     `json:"search,omitempty"`
	SortColumn string     `json:"sortColumn,omitempty"`
	SortOrder  string     `json:"sortOrder,omitempty"`
}

// TotalPagesFor returns ceil(total/pageSize); zero for a non-positive page size.
func TotalPagesFor(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total-1)/pageSize + 1
}
