package directory

import "github.com/uptrace/bun"

// Employee is a directory record.
type Employee struct {
	bun.BaseModel `bun:"table:employees" json:"-"`

	ID         string `bun:"id,pk" json:"id"`
	Name       string `bun:"name,notnull" json:"name"`
	Role       string `bun:"role,notnull" json:"role"`
	Email      string `bun:"email,notnull" json:"email"`
	Phone      string `bun:"phone" json:"phone,omitempty"`
	Department string `bun:"department" json:"department,omitempty"`
}

// EmployeeInput carries the mutable fields for create and update requests.
type EmployeeInput struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
}

// DeleteResult is the response body for a successful delete.
type DeleteResult struct {
	Success   bool   `json:"success"`
	DeletedID string `json:"deletedId"`
}

type errorResponse struct {
	Error string `json:"error"`
}
