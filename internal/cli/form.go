package cli

import (
	"fmt"
	"strings"

	"go-directory/internal/employee"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Form is the flat field state of an employee form, keyed by the JSON field
// name.
type Form map[string]string

type formField struct {
	flag  string
	key   string
	usage string
}

var formFields = []formField{
	{"first-name", "firstName", "first name"},
	{"last-name", "lastName", "last name"},
	{"email", "email", "email address"},
	{"phone", "phoneNumber", "phone number"},
	{"id-card", "idCardNumber", "identity card number"},
	{"position", "position", "job position"},
	{"department", "department", "department"},
	{"salary", "salary", "salary, e.g. 90000 or 1234.50"},
	{"status", "status", "active, inactive or terminated"},
	{"notes", "notes", "free text notes"},
	{"photo-url", "photoUrl", "photo URL"},
	{"hired-at", "hiredAt", "hire date (YYYY-MM-DD)"},
}

func addFormFlags(cmd *cobra.Command) {
	for _, f := range formFields {
		cmd.Flags().String(f.flag, "", f.usage)
	}
}

// formFromFlags collects only the flags the user actually set, so an empty
// value can be told apart from an absent one.
func formFromFlags(flags *pflag.FlagSet) Form {
	byFlag := make(map[string]string, len(formFields))
	for _, f := range formFields {
		byFlag[f.flag] = f.key
	}

	form := Form{}
	flags.Visit(func(fl *pflag.Flag) {
		if key, ok := byFlag[fl.Name]; ok {
			form[key] = fl.Value.String()
		}
	})
	return form
}

func (f Form) salary() (*decimal.Decimal, error) {
	raw, ok := f["salary"]
	if !ok {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("salary %q is not a number", raw)
	}
	return &d, nil
}

// CreateRequest converts the form into a create payload. Required fields
// are checked by the API.
func (f Form) CreateRequest() (employee.CreateEmployeeRequest, error) {
	salary, err := f.salary()
	if err != nil {
		return employee.CreateEmployeeRequest{}, err
	}
	return employee.CreateEmployeeRequest{
		FirstName:    f["firstName"],
		LastName:     f["lastName"],
		Email:        f["email"],
		PhoneNumber:  f["phoneNumber"],
		IDCardNumber: f["idCardNumber"],
		Position:     f["position"],
		Department:   f["department"],
		Salary:       salary,
		Status:       f["status"],
		Notes:        f["notes"],
		PhotoURL:     f["photoUrl"],
		HiredAt:      f["hiredAt"],
	}, nil
}

// UpdateRequest converts the form into a partial update carrying only the
// fields present in the form.
func (f Form) UpdateRequest() (employee.UpdateEmployeeRequest, error) {
	salary, err := f.salary()
	if err != nil {
		return employee.UpdateEmployeeRequest{}, err
	}
	return employee.UpdateEmployeeRequest{
		FirstName:    f.ptr("firstName"),
		LastName:     f.ptr("lastName"),
		Email:        f.ptr("email"),
		PhoneNumber:  f.ptr("phoneNumber"),
		IDCardNumber: f.ptr("idCardNumber"),
		Position:     f.ptr("position"),
		Department:   f.ptr("department"),
		Salary:       salary,
		Status:       f.ptr("status"),
		Notes:        f.ptr("notes"),
		PhotoURL:     f.ptr("photoUrl"),
		HiredAt:      f.ptr("hiredAt"),
	}, nil
}

func (f Form) ptr(key string) *string {
	v, ok := f[key]
	if !ok {
		return nil
	}
	return &v
}
