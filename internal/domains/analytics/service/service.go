package service

import (
	"context"
	"strconv"
	"time"

	alertmodel "inventory-backend/internal/domains/alert/model"
	"inventory-backend/internal/domains/analytics/model"
	"inventory-backend/internal/domains/analytics/repository"
	"inventory-backend/internal/shared/apperr"

	"github.com/shopspring/decimal"
)

const (
	deadStockDefaultDays = 90
	deadStockMinDays     = 1
	deadStockMaxDays     = 365
	topProductsLimit     = 10
)

// ServiceInterface is the analytics read-model contract.
type ServiceInterface interface {
	LowStock(ctx context.Context) ([]model.LowStockItem, *model.LowStockSummary, error)
	DeadStock(ctx context.Context, days int) ([]model.DeadStockItem, *model.DeadStockSummary, error)
	Dashboard(ctx context.Context, year, month int, week *int) (*model.Dashboard, error)
	MonthlySales(ctx context.Context, year, month int) (*model.MonthlySales, error)

	// ExportMonthlySales renders the monthly report as an xlsx workbook.
	ExportMonthlySales(ctx context.Context, year, month int) ([]byte, string, error)
}

type analyticsService struct {
	repo         repository.RepositoryInterface
	currencyCode string
}

// NewAnalyticsService creates the analytics service.
func NewAnalyticsService(repo repository.RepositoryInterface, currencyCode string) ServiceInterface {
	return &analyticsService{repo: repo, currencyCode: currencyCode}
}

func urgencyRank(u alertmodel.Urgency) int {
	switch u {
	case alertmodel.UrgencyCritical:
		return 0
	case alertmodel.UrgencyHigh:
		return 1
	default:
		return 2
	}
}

func (s *analyticsService) LowStock(ctx context.Context) ([]model.LowStockItem, *model.LowStockSummary, error) {
	rows, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, nil, err
	}

	summary := &model.LowStockSummary{TotalEstimatedCost: decimal.Zero}
	items := make([]model.LowStockItem, 0, len(rows))
	for _, row := range rows {
		item := row.Item
		item.Urgency = alertmodel.ClassifyUrgency(item.TotalOnHand, item.ReorderLevel)
		item.UnitsNeeded = item.ReorderLevel - item.TotalOnHand
		if item.UnitsNeeded < 0 {
			item.UnitsNeeded = 0
		}
		item.SuggestedOrderQuantity = 2 * item.ReorderLevel
		item.EstimatedRestockCost = row.CostPrice.Mul(decimal.NewFromInt(item.SuggestedOrderQuantity))

		switch item.Urgency {
		case alertmodel.UrgencyCritical:
			summary.Critical++
		case alertmodel.UrgencyHigh:
			summary.High++
		default:
			summary.Medium++
		}
		summary.TotalEstimatedCost = summary.TotalEstimatedCost.Add(item.EstimatedRestockCost)
		items = append(items, item)
	}
	summary.Total = len(items)

	// The repository orders by on_hand ascending; a stable pass by urgency
	// keeps that as the tiebreak.
	sortByUrgency(items)
	return items, summary, nil
}

func sortByUrgency(items []model.LowStockItem) {
	// Insertion sort keeps the on_hand ordering stable within each bucket.
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && urgencyRank(items[j].Urgency) < urgencyRank(items[j-1].Urgency); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

func (s *analyticsService) DeadStock(ctx context.Context, days int) ([]model.DeadStockItem, *model.DeadStockSummary, error) {
	if days == 0 {
		days = deadStockDefaultDays
	}
	if days < deadStockMinDays || days > deadStockMaxDays {
		return nil, nil, apperr.Validation("days", "must be between 1 and 365")
	}

	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -days)
	items, err := s.repo.DeadStock(ctx, cutoff)
	if err != nil {
		return nil, nil, err
	}

	summary := &model.DeadStockSummary{Days: days, TotalValue: decimal.Zero}
	for i := range items {
		item := &items[i]
		item.DeadStockValue = item.CostPrice.Mul(decimal.NewFromInt(item.TotalOnHand))
		summary.TotalValue = summary.TotalValue.Add(item.DeadStockValue)

		if item.LastSaleAt == nil {
			item.DaysSinceLastSale = model.NeverSold
			item.Recommendation = model.RecommendClearance
			continue
		}
		age := int(now.Sub(*item.LastSaleAt).Hours() / 24)
		item.DaysSinceLastSale = strconv.Itoa(age)
		switch {
		case age < 120:
			item.Recommendation = model.RecommendMonitor
		case age < 180:
			item.Recommendation = model.RecommendPromote
		default:
			item.Recommendation = model.RecommendClearance
		}
	}
	summary.Total = len(items)
	return items, summary, nil
}

func monthRange(year, month int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func yearRange(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

// isoWeekRange returns the Monday-to-Monday range of the given ISO week.
// January 4 always falls in ISO week 1.
func isoWeekRange(year, week int) (time.Time, time.Time) {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := jan4.AddDate(0, 0, 1-weekday)
	from := monday.AddDate(0, 0, (week-1)*7)
	return from, from.AddDate(0, 0, 7)
}

func validateYearMonth(year, month int) error {
	if year < 2000 || year > 2100 {
		return apperr.Validation("year", "must be between 2000 and 2100")
	}
	if month < 1 || month > 12 {
		return apperr.Validation("month", "must be between 1 and 12")
	}
	return nil
}

func (s *analyticsService) Dashboard(ctx context.Context, year, month int, week *int) (*model.Dashboard, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}

	mFrom, mTo := monthRange(year, month)
	monthStats, err := s.repo.PeriodStats(ctx, mFrom, mTo)
	if err != nil {
		return nil, err
	}

	yFrom, yTo := yearRange(year)
	yearStats, err := s.repo.PeriodStats(ctx, yFrom, yTo)
	if err != nil {
		return nil, err
	}

	dashboard := &model.Dashboard{
		Month:        *monthStats,
		Year:         *yearStats,
		CurrencyCode: s.currencyCode,
	}

	if week != nil {
		if *week < 1 || *week > 53 {
			return nil, apperr.Validation("week", "must be between 1 and 53")
		}
		wFrom, wTo := isoWeekRange(year, *week)
		weekStats, err := s.repo.PeriodStats(ctx, wFrom, wTo)
		if err != nil {
			return nil, err
		}
		dashboard.Week = weekStats
	}

	value, err := s.repo.InventoryValue(ctx)
	if err != nil {
		return nil, err
	}
	dashboard.InventoryValue = value
	return dashboard, nil
}

func (s *analyticsService) MonthlySales(ctx context.Context, year, month int) (*model.MonthlySales, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}
	from, to := monthRange(year, month)

	summary, err := s.repo.PeriodStats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopProducts(ctx, from, to, topProductsLimit)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.CategoryPerformance(ctx, from, to)
	if err != nil {
		return nil, err
	}
	trend, err := s.repo.DailyTrend(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &model.MonthlySales{
		Year:         year,
		Month:        month,
		Summary:      *summary,
		TopProducts:  top,
		Categories:   categories,
		DailyTrend:   trend,
		CurrencyCode: s.currencyCode,
	}, nil
}
