package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Extra     string `json:"extra,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
}

// Receipt is a value object representing a printable receipt.
// It is NOT a database entity — it is composed from transaction data at print time.
// All amounts are in kip.
type Receipt struct {
	Header        ReceiptHeader `json:"header"`
	TransactionNo string        `json:"transaction_no"`
	Date          string        `json:"date"`
	Cashier       string        `json:"cashier,omitempty"`
	PaymentMethod string        `json:"payment_method"`
	Items         []ReceiptItem `json:"items"`
	Total         int64         `json:"total"`
	CashReceived  int64         `json:"cash_received,omitempty"`
	Change        int64         `json:"change,omitempty"`
	Footer        string        `json:"footer,omitempty"`
}
