package holiday

import "time"

// Holiday entity. Recurring holidays repeat yearly on the same month/day.
type Holiday struct {
	ID          string
	Date        time.Time
	Name        string
	Description *string
	IsRecurring bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
