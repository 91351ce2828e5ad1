package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/sabaidee/pos-api/internal/domain/entity"
	"github.com/sabaidee/pos-api/internal/domain/repository"
	"github.com/sabaidee/pos-api/pkg/apperror"
	"github.com/sabaidee/pos-api/pkg/printer"
	"github.com/sabaidee/pos-api/pkg/utils"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	txRepo      repository.TransactionRepository
	settingsSvc *SettingsService
	printerType string
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	txRepo repository.TransactionRepository,
	settingsSvc *SettingsService,
	printerType string,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		txRepo:      txRepo,
		settingsSvc: settingsSvc,
		printerType: printerType,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	settings, err := s.settingsSvc.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: "PRINTER TEST",
			Address:   settings.Address,
			Phone:     settings.Phone,
		},
		TransactionNo: "TEST-001",
		Date:          "Test Date",
		Cashier:       "System",
		PaymentMethod: "cash",
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: 10000, Total: 10000},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: 5000, Total: 10000},
		},
		Total:        20000,
		CashReceived: 20000,
	}

	data := FormatReceipt(receipt, paperWidth(settings))
	if err := s.printer.Print(data); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}

	return receipt, nil
}

// PrintTransactionReceipt fetches a recorded sale and prints its receipt.
func (s *PrinterService) PrintTransactionReceipt(ctx context.Context, txnID uuid.UUID) (*entity.Receipt, error) {
	txn, err := s.txRepo.GetByID(ctx, txnID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}

	settings, err := s.settingsSvc.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: settings.StoreName,
			Address:   settings.Address,
			Phone:     settings.Phone,
			Extra:     settings.ReceiptHeader,
		},
		TransactionNo: txn.ID.String()[:8],
		Date:          txn.PaidAt.Format("2006-01-02 15:04"),
		PaymentMethod: string(txn.Method),
		Total:         txn.Total,
		CashReceived:  txn.CashReceived,
		Change:        txn.Change,
		Footer:        settings.ReceiptFooter,
	}

	for _, item := range txn.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Total:     item.Total,
		})
	}

	data := FormatReceipt(receipt, paperWidth(settings))
	if err := s.printer.Print(data); err != nil {
		log.Printf("Printer error (transaction %s): %v", txnID, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// PrintPaymentSlip prints the active QR payment code so a customer can scan
// from paper when the terminal screen is not facing them.
func (s *PrinterService) PrintPaymentSlip(ctx context.Context, total int64, payload string) error {
	if payload == "" {
		return apperror.NewBadRequestError("No payment code to print")
	}

	settings, err := s.settingsSvc.GetSettings(ctx)
	if err != nil {
		return err
	}

	data := FormatPaymentSlip(settings.StoreName, total, payload, paperWidth(settings))
	if err := s.printer.Print(data); err != nil {
		return fmt.Errorf("failed to print payment slip: %w", err)
	}
	return nil
}

func paperWidth(settings *entity.StoreSettings) int {
	if settings.PrinterPaperSize == "80mm" {
		return 48
	}
	return 32
}

// FormatReceipt converts a Receipt into ESC/POS bytes. Width is the character
// width of the paper (32 for 58mm, 48 for 80mm). Amounts print in kip.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.Extra != "" {
		doc.Text(r.Header.Extra)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Sale info
	doc.KeyValue("Receipt:", r.TransactionNo).
		KeyValue("Date:", r.Date)

	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.PaymentMethod != "" {
		doc.KeyValue("Payment:", r.PaymentMethod)
	}

	doc.Separator('-')

	// Items. Wide paper has room for a unit-price detail line.
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, utils.FormatKip(item.Total))
		if doc.Width() >= 48 && item.Quantity > 1 {
			doc.TextF("   %d x %s", item.Quantity, utils.FormatKip(item.UnitPrice))
		}
	}

	doc.Separator('-')

	doc.SetBold(true).
		KeyValue("TOTAL", utils.FormatKip(r.Total)+" LAK").
		SetBold(false)

	if r.CashReceived > 0 {
		doc.KeyValue("Cash:", utils.FormatKip(r.CashReceived)).
			KeyValue("Change:", utils.FormatKip(r.Change))
	}

	if r.Footer != "" {
		doc.LineFeed().
			SetAlign(printer.AlignCenter).
			Text(r.Footer)
	}

	doc.FeedLines(3).Cut()
	return doc.Bytes()
}

// FormatPaymentSlip renders the QR payment code and amount as ESC/POS bytes,
// using the printer's native QR commands.
func FormatPaymentSlip(storeName string, total int64, payload string, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text(storeName).
		SetBold(false).
		Text("Scan to pay").
		LineFeed()

	doc.QRCode(payload).LineFeed()

	doc.SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(utils.FormatKip(total) + " LAK").
		SetFontSize(printer.FontNormal).
		SetBold(false)

	doc.FeedLines(3).Cut()
	return doc.Bytes()
}
