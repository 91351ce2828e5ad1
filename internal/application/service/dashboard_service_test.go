package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sabaidee/pos-api/internal/domain/entity"
	"github.com/sabaidee/pos-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordSale(t *testing.T, txns *fakeTransactionRepo, paidAt time.Time, method enum.PaymentMethod, items ...entity.TransactionItem) {
	t.Helper()
	var total int64
	for _, item := range items {
		total += item.Total
	}
	require.NoError(t, txns.Create(context.Background(), &entity.Transaction{
		ID:     uuid.New(),
		PaidAt: paidAt,
		Method: method,
		Total:  total,
		Items:  items,
	}))
}

func TestDashboardService_GetDashboardStats(t *testing.T) {
	txns := &fakeTransactionRepo{}
	products := newFakeProductRepo()
	seedProduct(t, products, "ເຝີ", 25000, 10000)
	seedProduct(t, products, "ເບຍລາວ", 15000, 9000)

	now := time.Now()

	// Two sales today: one cash, one QR
	recordSale(t, txns, now, enum.PaymentMethodCash,
		entity.TransactionItem{Name: "ເຝີ", Price: 25000, Cost: 10000, Quantity: 2, Total: 50000})
	recordSale(t, txns, now, enum.PaymentMethodQR,
		entity.TransactionItem{Name: "ເບຍລາວ", Price: 15000, Cost: 9000, Quantity: 1, Total: 15000})

	// One sale three days ago: inside the weekly chart, outside today's totals
	recordSale(t, txns, now.AddDate(0, 0, -3), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "ເຝີ", Price: 25000, Cost: 10000, Quantity: 1, Total: 25000})

	// One sale last month: outside the window entirely
	recordSale(t, txns, now.AddDate(0, -1, 0), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "ເຝີ", Price: 25000, Cost: 10000, Quantity: 9, Total: 225000})

	svc := NewDashboardService(txns, products)
	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.TodaySales)
	assert.Equal(t, int64(65000), stats.TodayRevenue)
	// (25000-10000)*2 + (15000-9000)*1
	assert.Equal(t, int64(36000), stats.TodayProfit)
	assert.Equal(t, int64(50000), stats.CashRevenue)
	assert.Equal(t, int64(15000), stats.QRRevenue)

	require.Len(t, stats.DailySalesData, 7)
	today := stats.DailySalesData[6]
	assert.Equal(t, now.Format("2006-01-02"), today.Date)
	assert.Equal(t, int64(65000), today.Revenue)

	var weekRevenue int64
	for _, point := range stats.DailySalesData {
		weekRevenue += point.Revenue
	}
	assert.Equal(t, int64(90000), weekRevenue, "last month's sale stays out of the chart")

	require.NotEmpty(t, stats.TopProducts)
	assert.Equal(t, "ເຝີ", stats.TopProducts[0].Name)
	assert.Equal(t, 3, stats.TopProducts[0].Quantity)
}

func TestDashboardService_EmptyHistory(t *testing.T) {
	svc := NewDashboardService(&fakeTransactionRepo{}, newFakeProductRepo())

	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TodaySales)
	assert.Len(t, stats.DailySalesData, 7)
	assert.Empty(t, stats.TopProducts)
}
