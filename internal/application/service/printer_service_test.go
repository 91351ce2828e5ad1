package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sabaidee/pos-api/internal/domain/entity"
	"github.com/sabaidee/pos-api/internal/domain/enum"
	"github.com/sabaidee/pos-api/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReceipt(t *testing.T) {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: "Sabaidee POS",
			Address:   "Vientiane Capital, Laos",
			Phone:     "020-5555-8888",
		},
		TransactionNo: "a1b2c3d4",
		Date:          "2026-08-29 14:30",
		PaymentMethod: "cash",
		Items: []entity.ReceiptItem{
			{Name: "ເຝີ", Quantity: 2, UnitPrice: 25000, Total: 50000},
			{Name: "ເບຍລາວ", Quantity: 1, UnitPrice: 15000, Total: 15000},
		},
		Total:        65000,
		CashReceived: 70000,
		Change:       5000,
		Footer:       "Thank you, see you again!",
	}

	data := FormatReceipt(receipt, 32)
	out := string(data)

	assert.Contains(t, out, "Sabaidee POS")
	assert.Contains(t, out, "020-5555-8888")
	assert.Contains(t, out, "a1b2c3d4")
	assert.Contains(t, out, "65,000 LAK")
	assert.Contains(t, out, "70,000")
	assert.Contains(t, out, "5,000")
	assert.Contains(t, out, "Thank you, see you again!")
	// Ends with a paper cut command
	assert.Equal(t, byte('V'), data[len(data)-2])
}

func TestFormatReceipt_NoCashLinesForQRSale(t *testing.T) {
	receipt := &entity.Receipt{
		Header:        entity.ReceiptHeader{StoreName: "Sabaidee POS"},
		TransactionNo: "deadbeef",
		Date:          "2026-08-29 14:30",
		PaymentMethod: "qr",
		Items: []entity.ReceiptItem{
			{Name: "ກາເຟ", Quantity: 1, UnitPrice: 12000, Total: 12000},
		},
		Total: 12000,
	}

	out := string(FormatReceipt(receipt, 48))
	assert.Contains(t, out, "12,000 LAK")
	assert.NotContains(t, out, "Change:")
}

func TestFormatReceipt_WidePaperShowsUnitPrices(t *testing.T) {
	receipt := &entity.Receipt{
		Header:        entity.ReceiptHeader{StoreName: "Sabaidee POS"},
		TransactionNo: "a1b2c3d4",
		Date:          "2026-08-29 14:30",
		PaymentMethod: "cash",
		Items: []entity.ReceiptItem{
			{Name: "ເຝີ", Quantity: 2, UnitPrice: 25000, Total: 50000},
		},
		Total: 50000,
	}

	assert.Contains(t, string(FormatReceipt(receipt, 48)), "2 x 25,000")
	assert.NotContains(t, string(FormatReceipt(receipt, 32)), "2 x 25,000", "narrow paper skips the detail line")
}

func TestFormatPaymentSlip(t *testing.T) {
	data := FormatPaymentSlip("Sabaidee POS", 65000, "BCEL_OnePay_65000_DEMO", 32)
	out := string(data)

	assert.Contains(t, out, "Sabaidee POS")
	assert.Contains(t, out, "Scan to pay")
	assert.Contains(t, out, "65,000 LAK")
	assert.Contains(t, out, "BCEL_OnePay_65000_DEMO")
	// Native QR print command sequence
	assert.True(t, bytes.Contains(data, []byte{0x1D, '(', 'k'}))
}

func TestPrinterService_PrintPaymentSlip(t *testing.T) {
	svc := NewPrinterService(printer.NewNullPrinter(), &fakeTransactionRepo{}, NewSettingsService(&fakeSettingsRepo{}), "none")

	require.NoError(t, svc.PrintPaymentSlip(context.Background(), 65000, "BCEL_OnePay_65000_DEMO"))
	assert.Error(t, svc.PrintPaymentSlip(context.Background(), 65000, ""), "no code, nothing to print")
}

func TestPrinterService_PrintTransactionReceipt(t *testing.T) {
	txns := &fakeTransactionRepo{}
	settingsRepo := &fakeSettingsRepo{}
	settingsSvc := NewSettingsService(settingsRepo)
	svc := NewPrinterService(printer.NewNullPrinter(), txns, settingsSvc, "none")
	ctx := context.Background()

	txn := &entity.Transaction{
		ID:           uuid.New(),
		PaidAt:       time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC),
		Method:       enum.PaymentMethodCash,
		Total:        65000,
		CashReceived: 70000,
		Change:       5000,
		Items: []entity.TransactionItem{
			{Name: "ເຝີ", Price: 25000, Quantity: 2, Total: 50000},
			{Name: "ເບຍລາວ", Price: 15000, Quantity: 1, Total: 15000},
		},
	}
	require.NoError(t, txns.Create(ctx, txn))

	receipt, err := svc.PrintTransactionReceipt(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, txn.ID.String()[:8], receipt.TransactionNo)
	assert.Equal(t, int64(65000), receipt.Total)
	assert.Len(t, receipt.Items, 2)
	assert.Equal(t, "Sabaidee POS", receipt.Header.StoreName, "settings are created with defaults on first read")
}

func TestPrinterService_PrintUnknownTransaction(t *testing.T) {
	svc := NewPrinterService(printer.NewNullPrinter(), &fakeTransactionRepo{}, NewSettingsService(&fakeSettingsRepo{}), "none")

	receipt, err := svc.PrintTransactionReceipt(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.Nil(t, receipt)
}

func TestPrinterService_Status(t *testing.T) {
	svc := NewPrinterService(printer.NewNullPrinter(), &fakeTransactionRepo{}, NewSettingsService(&fakeSettingsRepo{}), "none")

	status := svc.GetStatus()
	assert.False(t, status.Configured)
	assert.False(t, status.Connected)
	assert.Equal(t, "none", status.Type)
}
