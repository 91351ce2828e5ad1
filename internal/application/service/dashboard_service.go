package service

import (
	"context"
	"time"

	"github.com/sabaidee/pos-api/internal/domain/entity"
	"github.com/sabaidee/pos-api/internal/domain/enum"
	"github.com/sabaidee/pos-api/internal/domain/repository"
)

// DashboardService provides sales statistics for the back office
type DashboardService struct {
	txRepo      repository.TransactionRepository
	productRepo repository.ProductRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(txRepo repository.TransactionRepository, productRepo repository.ProductRepository) *DashboardService {
	return &DashboardService{
		txRepo:      txRepo,
		productRepo: productRepo,
	}
}

// DashboardStats represents dashboard statistics. Revenue and profit are in
// kip.
type DashboardStats struct {
	TotalProducts  int64             `json:"total_products"`
	TodaySales     int64             `json:"today_sales"`
	TodayRevenue   int64             `json:"today_revenue"`
	TodayProfit    int64             `json:"today_profit"`
	CashRevenue    int64             `json:"cash_revenue"`
	QRRevenue      int64             `json:"qr_revenue"`
	DailySalesData []DailySalesPoint `json:"daily_sales_data"`
	TopProducts    []TopProductPoint `json:"top_products"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
	Profit  int64  `json:"profit"`
}

// TopProductPoint represents a best-selling product
type TopProductPoint struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

// GetDashboardStats aggregates the last seven days of sales.
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	productCount, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalProducts = productCount

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := todayStart.AddDate(0, 0, -6)

	txns, err := s.txRepo.ListBetween(ctx, weekStart, todayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	daily := make(map[string]*DailySalesPoint)
	for d := 0; d < 7; d++ {
		date := weekStart.AddDate(0, 0, d).Format("2006-01-02")
		daily[date] = &DailySalesPoint{Date: date}
	}

	sold := make(map[string]*TopProductPoint)

	for _, txn := range txns {
		profit := txnProfit(&txn)
		date := txn.PaidAt.Format("2006-01-02")
		if point, ok := daily[date]; ok {
			point.Revenue += txn.Total
			point.Profit += profit
		}

		if !txn.PaidAt.Before(todayStart) {
			stats.TodaySales++
			stats.TodayRevenue += txn.Total
			stats.TodayProfit += profit
			switch txn.Method {
			case enum.PaymentMethodCash:
				stats.CashRevenue += txn.Total
			case enum.PaymentMethodQR:
				stats.QRRevenue += txn.Total
			}
		}

		for _, item := range txn.Items {
			point, ok := sold[item.Name]
			if !ok {
				point = &TopProductPoint{Name: item.Name}
				sold[item.Name] = point
			}
			point.Quantity += item.Quantity
			point.Revenue += item.Total
		}
	}

	for d := 0; d < 7; d++ {
		date := weekStart.AddDate(0, 0, d).Format("2006-01-02")
		stats.DailySalesData = append(stats.DailySalesData, *daily[date])
	}

	// Top five products by quantity
	for len(stats.TopProducts) < 5 && len(sold) > 0 {
		var best *TopProductPoint
		for _, point := range sold {
			if best == nil || point.Quantity > best.Quantity {
				best = point
			}
		}
		stats.TopProducts = append(stats.TopProducts, *best)
		delete(sold, best.Name)
	}

	return stats, nil
}

func txnProfit(txn *entity.Transaction) int64 {
	var profit int64
	for _, item := range txn.Items {
		profit += (item.Price - item.Cost) * int64(item.Quantity)
	}
	return profit
}
