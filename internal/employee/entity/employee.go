package entity

import "time"

// Employee is a single directory record. It is plain data: derived values
// such as the display name are computed by free functions, not methods that
// carry behavior into the row type.
type Employee struct {
	ID           string    `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	Department   string    `db:"department" json:"department"`
	Title        string    `db:"title" json:"title"`
	Location     string    `db:"location" json:"location"`
	Avatar       string    `db:"avatar" json:"avatar"`
	CustomAvatar *string   `db:"custom_avatar" json:"customAvatar"`
	HireDate     time.Time `db:"hire_date" json:"hireDate"`
	Salary       float64   `db:"salary" json:"salary"`
	Manager      *string   `db:"manager" json:"manager,omitempty"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// FullName joins first and last name for display.
func FullName(e *Employee) string {
	return e.FirstName + " " + e.LastName
}
