package enum

// PaymentState is the state of an open payment session.
//
// A session opens in CashEntry (cash is always the preselected method) and
// moves to QRWaiting when the cashier switches method. Processing and Success
// are shared terminal-path states for both methods; once a session reaches
// Processing, further confirmations are ignored.
type PaymentState string

const (
	PaymentStateCashEntry  PaymentState = "cash-entry"
	PaymentStateQRWaiting  PaymentState = "qr-waiting"
	PaymentStateProcessing PaymentState = "processing"
	PaymentStateSuccess    PaymentState = "success"
)

// Terminal reports whether the session has already entered a completion path.
func (s PaymentState) Terminal() bool {
	return s == PaymentStateProcessing || s == PaymentStateSuccess
}
