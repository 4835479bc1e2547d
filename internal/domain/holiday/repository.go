package holiday

import (
	"context"
	"time"
)

// HolidayRepository - interface for holidays table
type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	GetByDate(ctx context.Context, date time.Time) (Holiday, error)
	List(ctx context.Context, activeOnly bool) ([]Holiday, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]Holiday, error)
	Update(ctx context.Context, req UpdateHolidayRequest) error
	Delete(ctx context.Context, id string) error
}
