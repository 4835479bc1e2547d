package holiday

import (
	"time"

	"github.com/leavehq/leave-backend-go/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Date        string  `json:"date"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsRecurring *bool   `json:"is_recurring,omitempty"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (r *CreateHolidayRequest) ToEntity() Holiday {
	date, _ := validator.IsValidDate(r.Date)
	h := Holiday{
		Date:        date,
		Name:        r.Name,
		Description: r.Description,
		IsRecurring: true,
		IsActive:    true,
	}
	if r.IsRecurring != nil {
		h.IsRecurring = *r.IsRecurring
	}
	return h
}

type UpdateHolidayRequest struct {
	ID          string  `json:"-"`
	Date        *string `json:"date,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsRecurring *bool   `json:"is_recurring,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r *UpdateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HolidayResponse struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsRecurring bool      `json:"is_recurring"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewHolidayResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:          h.ID,
		Date:        h.Date.Format("2006-01-02"),
		Name:        h.Name,
		Description: h.Description,
		IsRecurring: h.IsRecurring,
		IsActive:    h.IsActive,
		CreatedAt:   h.CreatedAt,
	}
}
