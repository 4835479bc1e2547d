package holiday

import "context"

type HolidayService interface {
	CreateHoliday(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	UpdateHoliday(ctx context.Context, req UpdateHolidayRequest) error
	GetHoliday(ctx context.Context, id string) (HolidayResponse, error)
	ListHolidays(ctx context.Context, activeOnly bool) ([]HolidayResponse, error)
	DeleteHoliday(ctx context.Context, id string) error
}
