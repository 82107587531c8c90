package employee

import (
	"os"
	"slices"
	"strings"
)

var defaultDepartments = []string{
	"Engineering",
	"Marketing",
	"Sales",
	"HR",
	"Finance",
	"Operations",
	"Design",
	"Product",
}

// DepartmentsFromEnv returns the allowed department set. ALLOWED_DEPARTMENTS
// is a comma-separated override; the default list matches the seeded data.
func DepartmentsFromEnv() []string {
	raw := os.Getenv("ALLOWED_DEPARTMENTS")
	if raw == "" {
		return slices.Clone(defaultDepartments)
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return slices.Clone(defaultDepartments)
	}
	return out
}
