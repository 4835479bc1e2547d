package employee

import "time"

// Employee entity
type Employee struct {
	ID           string
	UserID       string
	EmployeeCode string
	FirstName    string
	LastName     string
	Department   *string
	Position     *string
	PhoneNumber  *string
	HireDate     time.Time
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined for responses
	Email *string
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
