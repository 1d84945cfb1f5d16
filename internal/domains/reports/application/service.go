package application

import (
	"context"
	"time"

	"github.com/cafepos/cafe-api-server/internal/domains/reports/domain"
	"github.com/cafepos/cafe-api-server/internal/domains/reports/ports"
)

// TopProductsLimit caps the product ranking in a report.
const TopProductsLimit = 10

// Service builds sales reports from the reporting read model.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// DailyReport covers one calendar day in the location's timezone.
func (s *Service) DailyReport(ctx context.Context, day time.Time) (*domain.Report, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return s.report(ctx, from, from.AddDate(0, 0, 1))
}

// MonthlyReport covers one calendar month.
func (s *Service) MonthlyReport(ctx context.Context, year int, month time.Month, loc *time.Location) (*domain.Report, error) {
	if loc == nil {
		loc = time.Local
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return s.report(ctx, from, from.AddDate(0, 1, 0))
}

func (s *Service) report(ctx context.Context, from, to time.Time) (*domain.Report, error) {
	summary, err := s.repo.Summarize(ctx, from, to)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopProducts(ctx, from, to, TopProductsLimit)
	if err != nil {
		return nil, err
	}
	return &domain.Report{From: from, To: to, Summary: summary, TopProducts: top}, nil
}
