package employee

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const minSalary = 20000

// NullableString distinguishes a JSON key that was omitted from one that was
// sent as null or empty. UnmarshalJSON only runs when the key is present, so
// Set reports key presence and Value holds the decoded string (empty for an
// explicit null).
type NullableString struct {
	Set   bool
	Value string
}

func (n *NullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = ""
		return nil
	}
	return json.Unmarshal(b, &n.Value)
}

// CreateInput is the request shape for creating an employee.
type CreateInput struct {
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Department   string  `json:"department"`
	Title        string  `json:"title"`
	Location     string  `json:"location"`
	Salary       float64 `json:"salary"`
	Manager      string  `json:"manager"`
	CustomAvatar string  `json:"customAvatar"`
}

// Validate rejects malformed input at the boundary. The allowed department
// set is configuration data, not hardcoded branching.
func (in CreateInput) Validate(allowedDepartments []string) error {
	if err := validateName("firstName", in.FirstName); err != nil {
		return err
	}
	if err := validateName("lastName", in.LastName); err != nil {
		return err
	}
	if !emailPattern.MatchString(in.Email) {
		return invalid("email", "must be a valid email address")
	}
	if in.Phone == "" {
		return invalid("phone", "must not be empty")
	}
	if !slices.Contains(allowedDepartments, in.Department) {
		return invalid("department", "must be one of the allowed values")
	}
	if l := len(in.Title); l < 2 || l > 100 {
		return invalid("title", "must be between 2 and 100 characters")
	}
	if l := len(in.Location); l < 2 || l > 255 {
		return invalid("location", "must be between 2 and 255 characters")
	}
	if in.Salary < minSalary {
		return invalid("salary", fmt.Sprintf("must be at least %d", minSalary))
	}
	if len(in.Manager) > 100 {
		return invalid("manager", "must be at most 100 characters")
	}
	return nil
}

// UpdateInput is the partial request shape for updating an employee. Nil
// pointers mean "leave unchanged"; CustomAvatar tracks key presence
// explicitly because omission and clearing are different operations.
type UpdateInput struct {
	FirstName    *string        `json:"firstName"`
	LastName     *string        `json:"lastName"`
	Email        *string        `json:"email"`
	Phone        *string        `json:"phone"`
	Department   *string        `json:"department"`
	Title        *string        `json:"title"`
	Location     *string        `json:"location"`
	Salary       *float64       `json:"salary"`
	Manager      *string        `json:"manager"`
	IsActive     *bool          `json:"isActive"`
	CustomAvatar NullableString `json:"customAvatar"`
}

// Validate applies the create-time rules to whichever fields are present.
func (in UpdateInput) Validate(allowedDepartments []string) error {
	if in.FirstName != nil {
		if err := validateName("firstName", *in.FirstName); err != nil {
			return err
		}
	}
	if in.LastName != nil {
		if err := validateName("lastName", *in.LastName); err != nil {
			return err
		}
	}
	if in.Email != nil && !emailPattern.MatchString(*in.Email) {
		return invalid("email", "must be a valid email address")
	}
	if in.Phone != nil && *in.Phone == "" {
		return invalid("phone", "must not be empty")
	}
	if in.Department != nil && !slices.Contains(allowedDepartments, *in.Department) {
		return invalid("department", "must be one of the allowed values")
	}
	if in.Title != nil {
		if l := len(*in.Title); l < 2 || l > 100 {
			return invalid("title", "must be between 2 and 100 characters")
		}
	}
	if in.Location != nil {
		if l := len(*in.Location); l < 2 || l > 255 {
			return invalid("location", "must be between 2 and 255 characters")
		}
	}
	if in.Salary != nil && *in.Salary < minSalary {
		return invalid("salary", fmt.Sprintf("must be at least %d", minSalary))
	}
	if in.Manager != nil && len(*in.Manager) > 100 {
		return invalid("manager", "must be at most 100 characters")
	}
	return nil
}

func validateName(field, value string) error {
	if l := len(value); l < 2 || l > 50 {
		return invalid(field, "must be between 2 and 50 characters")
	}
	if !namePattern.MatchString(value) {
		return invalid(field, "must contain only letters and spaces")
	}
	return nil
}
