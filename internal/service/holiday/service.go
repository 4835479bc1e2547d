package holiday

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/leavehq/leave-backend-go/internal/domain/holiday"
	"github.com/leavehq/leave-backend-go/internal/pkg/validator"
)

type HolidayServiceImpl struct {
	holiday.HolidayRepository
}

func NewHolidayService(holidayRepository holiday.HolidayRepository) holiday.HolidayService {
	return &HolidayServiceImpl{HolidayRepository: holidayRepository}
}

// CreateHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) CreateHoliday(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	_, err := s.HolidayRepository.GetByDate(ctx, date)
	if err == nil {
		return holiday.HolidayResponse{}, holiday.ErrHolidayDateExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to check holiday date: %w", err)
	}

	created, err := s.HolidayRepository.Create(ctx, req.ToEntity())
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return holiday.NewHolidayResponse(created), nil
}

// UpdateHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) UpdateHoliday(ctx context.Context, req holiday.UpdateHolidayRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	existing, err := s.HolidayRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.ErrHolidayNotFound
		}
		return fmt.Errorf("failed to get holiday: %w", err)
	}

	if req.Date != nil {
		date, _ := validator.IsValidDate(*req.Date)
		if !date.Equal(existing.Date) {
			_, err := s.HolidayRepository.GetByDate(ctx, date)
			if err == nil {
				return holiday.ErrHolidayDateExists
			}
			if !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("failed to check holiday date: %w", err)
			}
		}
	}

	if err := s.HolidayRepository.Update(ctx, req); err != nil {
		return fmt.Errorf("failed to update holiday: %w", err)
	}
	return nil
}

// GetHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) GetHoliday(ctx context.Context, id string) (holiday.HolidayResponse, error) {
	h, err := s.HolidayRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.HolidayResponse{}, holiday.ErrHolidayNotFound
		}
		return holiday.HolidayResponse{}, fmt.Errorf("failed to get holiday: %w", err)
	}
	return holiday.NewHolidayResponse(h), nil
}

// ListHolidays implements holiday.HolidayService.
func (s *HolidayServiceImpl) ListHolidays(ctx context.Context, activeOnly bool) ([]holiday.HolidayResponse, error) {
	holidays, err := s.HolidayRepository.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, holiday.NewHolidayResponse(h))
	}
	return responses, nil
}

// DeleteHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) DeleteHoliday(ctx context.Context, id string) error {
	_, err := s.HolidayRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.ErrHolidayNotFound
		}
		return fmt.Errorf("failed to get holiday: %w", err)
	}

	if err := s.HolidayRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}
