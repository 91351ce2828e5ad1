package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sabaidee/pos-api/internal/config"
	"github.com/sabaidee/pos-api/internal/domain/entity"
	"github.com/sabaidee/pos-api/internal/domain/enum"
	"github.com/sabaidee/pos-api/internal/domain/repository"
	"github.com/sabaidee/pos-api/internal/infrastructure/gateway"
	"github.com/sabaidee/pos-api/pkg/apperror"
)

// maxEnteredDigits caps numpad entry so a held-down key cannot overflow the
// parsed amount.
const maxEnteredDigits = 13

// PaymentSessionView is the externally visible snapshot of the active payment
// session.
type PaymentSessionView struct {
	ID             uuid.UUID          `json:"id"`
	Method         enum.PaymentMethod `json:"method"`
	State          enum.PaymentState  `json:"state"`
	Total          int64              `json:"total"`
	EnteredAmount  string             `json:"entered_amount"`
	ReceivedAmount int64              `json:"received_amount"`
	Change         int64              `json:"change"`
	CanConfirm     bool               `json:"can_confirm"`

	QRPayload string         `json:"qr_payload,omitempty"`
	QRDemo    bool           `json:"qr_demo"`
	QRLoading bool           `json:"qr_loading"`
	QRError   *gateway.Error `json:"qr_error,omitempty"`

	ChannelState   enum.ChannelState `json:"channel_state"`
	ChannelMessage string            `json:"channel_message,omitempty"`
	ChannelDetail  string            `json:"channel_detail,omitempty"`

	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
}

// session is the internal state of one open payment modal. It is ephemeral:
// created on open, destroyed on close or completion, never persisted.
type session struct {
	id            uuid.UUID
	method        enum.PaymentMethod
	state         enum.PaymentState
	total         int64
	entered       string
	qr            *gateway.QRCode
	qrLoading     bool
	qrErr         *gateway.Error
	qrGen         uint64 // bumped on every (re)generation so stale results are dropped
	channel       gateway.Channel
	channelState  enum.ChannelState
	channelMsg    string
	channelDetail string
	transactionID *uuid.UUID

	ctx    context.Context
	cancel context.CancelFunc
}

// PaymentService orchestrates the checkout flow: method selection, cash
// entry, QR generation, the realtime confirmation channel, and exactly-once
// transaction recording. A POS terminal runs one payment session at a time.
type PaymentService struct {
	mu   sync.Mutex
	sess *session

	cartSvc        *CartService
	settingsSvc    *SettingsService
	txRepo         repository.TransactionRepository
	generator      gateway.CodeGenerator
	channelFactory gateway.ChannelFactory
	cfg            config.GatewayConfig
}

// NewPaymentService creates the payment orchestrator.
func NewPaymentService(
	cartSvc *CartService,
	settingsSvc *SettingsService,
	txRepo repository.TransactionRepository,
	generator gateway.CodeGenerator,
	channelFactory gateway.ChannelFactory,
	cfg config.GatewayConfig,
) *PaymentService {
	return &PaymentService{
		cartSvc:        cartSvc,
		settingsSvc:    settingsSvc,
		txRepo:         txRepo,
		generator:      generator,
		channelFactory: channelFactory,
		cfg:            cfg,
	}
}

// Open starts a payment session for the current cart. Any previous session is
// torn down first; the new session always starts on the cash method with all
// prior state cleared.
func (s *PaymentService) Open(ctx context.Context) (*PaymentSessionView, error) {
	total := s.cartSvc.Total()
	if total <= 0 {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.teardownLocked()

	sessCtx, cancel := context.WithCancel(context.Background())
	s.sess = &session{
		id:           uuid.New(),
		method:       enum.PaymentMethodCash,
		state:        enum.PaymentStateCashEntry,
		total:        total,
		channelState: enum.ChannelStateIdle,
		ctx:          sessCtx,
		cancel:       cancel,
	}

	log.Info().Str("session", s.sess.id.String()).Int64("total", total).Msg("payment session opened")
	return s.viewLocked(), nil
}

// Close abandons the active session: pending timers are cancelled and the
// confirmation channel is torn down. Closing with no session is a no-op.
func (s *PaymentService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
}

// Session returns the current session state, or a not-found error when no
// session is open.
func (s *PaymentService) Session() (*PaymentSessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil, apperror.NewNotFoundError("Payment session")
	}
	return s.viewLocked(), nil
}

// SelectMethod switches between cash and QR. Switching away from QR fully
// releases the channel and drops any generated code; switching to QR starts
// code generation and, when a credential is configured, opens the channel.
func (s *PaymentService) SelectMethod(ctx context.Context, method enum.PaymentMethod) (*PaymentSessionView, error) {
	if !method.Valid() {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.activeLocked()
	if err != nil {
		return nil, err
	}
	if sess.method == method {
		return s.viewLocked(), nil
	}

	s.releaseQRLocked(sess)

	switch method {
	case enum.PaymentMethodCash:
		sess.method = method
		sess.state = enum.PaymentStateCashEntry
	case enum.PaymentMethodQR:
		// The method is committed only once the settings fetch succeeds, so a
		// failed switch leaves the session where it was.
		settings, err := s.settingsSvc.GetSettings(ctx)
		if err != nil {
			return nil, err
		}
		if !settings.EnablePhaJay {
			return nil, apperror.NewBadRequestError("QR payments are disabled in settings")
		}
		sess.method = method
		sess.state = enum.PaymentStateQRWaiting
		s.startQRLocked(sess, settings)
	}

	return s.viewLocked(), nil
}

// PressDigit appends a numpad digit ("0"-"9" or "00") to the entered amount.
// Entry beyond the length cap is silently ignored, matching a physical
// terminal numpad.
func (s *PaymentService) PressDigit(digit string) (*PaymentSessionView, error) {
	switch digit {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "00":
	default:
		return nil, apperror.NewBadRequestError("Invalid digit")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.activeCashLocked()
	if err != nil {
		return nil, err
	}
	if len(sess.entered) <= maxEnteredDigits-1 {
		sess.entered += digit
	}
	return s.viewLocked(), nil
}

// Backspace removes the last entered digit.
func (s *PaymentService) Backspace() (*PaymentSessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.activeCashLocked()
	if err != nil {
		return nil, err
	}
	if len(sess.entered) > 0 {
		sess.entered = sess.entered[:len(sess.entered)-1]
	}
	return s.viewLocked(), nil
}

// ClearAmount resets the entered amount to empty.
func (s *PaymentService) ClearAmount() (*PaymentSessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.activeCashLocked()
	if err != nil {
		return nil, err
	}
	sess.entered = ""
	return s.viewLocked(), nil
}

// AddShortcut adds a banknote shortcut amount (e.g. 50000) to the entered
// amount.
func (s *PaymentService) AddShortcut(amount int64) (*PaymentSessionView, error) {
	if amount <= 0 {
		return nil, apperror.NewBadRequestError("Shortcut amount must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.activeCashLocked()
	if err != nil {
		return nil, err
	}
	current, _ := strconv.ParseInt(sess.entered, 10, 64)
	sess.entered = strconv.FormatInt(current+amount, 10)
	return s.viewLocked(), nil
}

// Confirm is the manual confirmation path. Cash requires the received amount
// to cover the total. On the QR method it is the offline fallback: permitted
// only while the channel is not connected, since a connected channel confirms
// automatically.
func (s *PaymentService) Confirm(ctx context.Context) (*PaymentSessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.activeLocked()
	if err != nil {
		return nil, err
	}
	if sess.state.Terminal() {
		// Duplicate confirm while settling: report current state, record
		// nothing twice.
		return s.viewLocked(), nil
	}

	switch sess.method {
	case enum.PaymentMethodCash:
		if received(sess) < sess.total {
			return nil, apperror.NewBadRequestError("Received amount is less than the total")
		}
	case enum.PaymentMethodQR:
		if sess.channelState == enum.ChannelStateConnected {
			return nil, apperror.NewConflictError("Payment is confirmed automatically while the realtime channel is connected")
		}
	}

	s.beginSettlementLocked(sess)
	return s.viewLocked(), nil
}

// RetryQR regenerates the payment code, resetting loading and error state
// first. Only one generation is outstanding at a time; a result from a
// superseded attempt is dropped.
func (s *PaymentService) RetryQR(ctx context.Context) (*PaymentSessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.activeQRLocked()
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsSvc.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	s.startQRLocked(sess, settings)
	return s.viewLocked(), nil
}

// UseDemoCode explicitly switches the session to the demonstration code after
// a gateway failure, abandoning the real gateway for this session.
func (s *PaymentService) UseDemoCode(ctx context.Context) (*PaymentSessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.activeQRLocked()
	if err != nil {
		return nil, err
	}

	sess.qrGen++
	sess.qrErr = nil
	sess.qrLoading = false

	code, err := s.generator.DemoCode(sess.total)
	if err != nil {
		return nil, err
	}
	sess.qr = code
	if sess.channel != nil {
		sess.channel.Close()
		sess.channel = nil
	}
	sess.channelState = enum.ChannelStateIdle
	sess.channelMsg = ""
	sess.channelDetail = ""
	return s.viewLocked(), nil
}

// RetryChannel closes any existing connection, resets channel state, and
// re-opens after a brief delay to avoid a tight reconnect loop.
func (s *PaymentService) RetryChannel(ctx context.Context) (*PaymentSessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.activeQRLocked()
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsSvc.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	credential := settings.PhaJaySecretKey
	if credential == "" || credential == gateway.PlaceholderSecretKey {
		return nil, apperror.NewBadRequestError("No gateway credential configured")
	}

	if sess.channel != nil {
		sess.channel.Close()
		sess.channel = nil
	}
	sess.channelState = enum.ChannelStateIdle
	sess.channelMsg = ""
	sess.channelDetail = ""

	s.after(sess, s.cfg.RetryDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.sess != sess || sess.state.Terminal() {
			return
		}
		s.openChannelLocked(sess, credential)
	})
	return s.viewLocked(), nil
}

// --- internals ---

func (s *PaymentService) activeLocked() (*session, error) {
	if s.sess == nil {
		return nil, apperror.NewNotFoundError("Payment session")
	}
	return s.sess, nil
}

func (s *PaymentService) activeCashLocked() (*session, error) {
	sess, err := s.activeLocked()
	if err != nil {
		return nil, err
	}
	if sess.state.Terminal() {
		return nil, apperror.NewConflictError("Payment is already being processed")
	}
	if sess.method != enum.PaymentMethodCash {
		return nil, apperror.NewBadRequestError("Cash entry is only available on the cash method")
	}
	return sess, nil
}

func (s *PaymentService) activeQRLocked() (*session, error) {
	sess, err := s.activeLocked()
	if err != nil {
		return nil, err
	}
	if sess.state.Terminal() {
		return nil, apperror.NewConflictError("Payment is already being processed")
	}
	if sess.method != enum.PaymentMethodQR {
		return nil, apperror.NewBadRequestError("Not on the QR method")
	}
	return sess, nil
}

func received(sess *session) int64 {
	v, _ := strconv.ParseInt(sess.entered, 10, 64)
	return v
}

func change(sess *session) int64 {
	c := received(sess) - sess.total
	if c < 0 {
		return 0
	}
	return c
}

// startQRLocked kicks off code generation for the session. The demo path
// simulates a short loading delay without any network call and leaves the
// channel idle; the real path issues the gateway request and opens the
// confirmation channel.
func (s *PaymentService) startQRLocked(sess *session, settings *entity.StoreSettings) {
	sess.qrGen++
	gen := sess.qrGen
	sess.qr = nil
	sess.qrErr = nil
	sess.qrLoading = true

	req := gateway.GenerateRequest{
		Amount:      sess.total,
		Description: "POS Order Payment - " + settings.StoreName,
		SecretKey:   settings.PhaJaySecretKey,
		Tag:         settings.PhaJayTag,
	}

	if req.DemoMode() {
		s.after(sess, s.cfg.DemoDelay, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.sess != sess || sess.qrGen != gen {
				return
			}
			code, err := s.generator.DemoCode(sess.total)
			sess.qrLoading = false
			if err != nil {
				sess.qrErr = gateway.AsError(err)
				return
			}
			sess.qr = code
		})
		return
	}

	go func() {
		code, err := s.generator.Generate(sess.ctx, req)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.sess != sess || sess.qrGen != gen {
			return
		}
		sess.qrLoading = false
		if err != nil {
			sess.qrErr = gateway.AsError(err)
			return
		}
		sess.qr = code
	}()

	s.openChannelLocked(sess, settings.PhaJaySecretKey)
}

// openChannelLocked creates a fresh channel for the session and dials it on a
// background goroutine. Callbacks check both the session and the channel are
// still current before touching state, so a signal from a channel that was
// already detached (method switch, retry, demo fallback) is a no-op.
func (s *PaymentService) openChannelLocked(sess *session, credential string) {
	sess.channelState = enum.ChannelStateConnecting
	sess.channelMsg = ""
	sess.channelDetail = ""

	var ch gateway.Channel
	ch = s.channelFactory(gateway.ChannelHandlers{
		OnStateChange: func(state enum.ChannelState, message, detail string) {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.sess != sess || sess.channel != ch {
				return
			}
			sess.channelState = state
			sess.channelMsg = message
			sess.channelDetail = detail
		},
		OnPaymentCompleted: func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.sess != sess || sess.channel != ch || sess.state.Terminal() {
				return
			}
			log.Info().Str("session", sess.id.String()).Msg("channel confirmed payment")
			s.beginSettlementLocked(sess)
		},
	})
	sess.channel = ch

	go func() {
		// Open blocks on the dial; errors surface via OnStateChange.
		_ = ch.Open(credential)
	}()
}

// beginSettlementLocked moves the session to processing and schedules the
// success transition and final recording. The Terminal guard in the callers
// means the first path to reach here wins; any later confirm attempt is a
// no-op.
func (s *PaymentService) beginSettlementLocked(sess *session) {
	sess.state = enum.PaymentStateProcessing

	s.after(sess, s.cfg.SettlementDelay, func() {
		s.mu.Lock()
		if s.sess != sess {
			s.mu.Unlock()
			return
		}
		sess.state = enum.PaymentStateSuccess
		s.mu.Unlock()

		s.after(sess, s.cfg.SuccessDelay, func() {
			s.finalize(sess)
		})
	})
}

// finalize records the transaction exactly once, clears the cart, and ends
// the session.
func (s *PaymentService) finalize(sess *session) {
	s.mu.Lock()
	if s.sess != sess || sess.state != enum.PaymentStateSuccess {
		s.mu.Unlock()
		return
	}

	txn := &entity.Transaction{
		ID:     uuid.New(),
		PaidAt: time.Now(),
		Method: sess.method,
		Total:  sess.total,
		Items:  entity.NewTransactionItems(s.cartSvc.Items()),
	}
	if sess.method == enum.PaymentMethodCash {
		txn.CashReceived = received(sess)
		txn.Change = change(sess)
	}
	sess.transactionID = &txn.ID
	s.mu.Unlock()

	ctx := context.Background()
	if err := s.txRepo.Create(ctx, txn); err != nil {
		log.Error().Err(err).Str("session", sess.id.String()).Msg("failed to record transaction")
		return
	}
	if err := s.cartSvc.Clear(ctx); err != nil {
		log.Error().Err(err).Msg("failed to clear cart after sale")
	}

	log.Info().
		Str("transaction", txn.ID.String()).
		Str("method", string(txn.Method)).
		Int64("total", txn.Total).
		Msg("sale recorded")

	s.mu.Lock()
	if s.sess == sess {
		s.teardownLocked()
	}
	s.mu.Unlock()
}

// releaseQRLocked drops generated code, error state, and the channel. Used
// when switching away from the QR method.
func (s *PaymentService) releaseQRLocked(sess *session) {
	sess.qrGen++
	sess.qr = nil
	sess.qrErr = nil
	sess.qrLoading = false
	if sess.channel != nil {
		sess.channel.Close()
		sess.channel = nil
	}
	sess.channelState = enum.ChannelStateIdle
	sess.channelMsg = ""
	sess.channelDetail = ""
}

func (s *PaymentService) teardownLocked() {
	if s.sess == nil {
		return
	}
	s.sess.cancel()
	if s.sess.channel != nil {
		s.sess.channel.Close()
	}
	s.sess = nil
}

// after runs fn once d has elapsed, unless the session is cancelled first.
func (s *PaymentService) after(sess *session, d time.Duration, fn func()) {
	go func() {
		select {
		case <-time.After(d):
		case <-sess.ctx.Done():
			return
		}
		fn()
	}()
}

func (s *PaymentService) viewLocked() *PaymentSessionView {
	sess := s.sess
	if sess == nil {
		return nil
	}

	view := &PaymentSessionView{
		ID:             sess.id,
		Method:         sess.method,
		State:          sess.state,
		Total:          sess.total,
		EnteredAmount:  sess.entered,
		ReceivedAmount: received(sess),
		Change:         change(sess),
		QRLoading:      sess.qrLoading,
		QRError:        sess.qrErr,
		ChannelState:   sess.channelState,
		ChannelMessage: sess.channelMsg,
		ChannelDetail:  sess.channelDetail,
		TransactionID:  sess.transactionID,
	}
	if sess.qr != nil {
		view.QRPayload = sess.qr.Payload
		view.QRDemo = sess.qr.Demo
	}

	switch sess.method {
	case enum.PaymentMethodCash:
		view.CanConfirm = !sess.state.Terminal() && received(sess) >= sess.total
	case enum.PaymentMethodQR:
		view.CanConfirm = !sess.state.Terminal() && sess.channelState != enum.ChannelStateConnected
	}
	return view
}

// QRImage returns the PNG bytes of the current session's code.
func (s *PaymentService) QRImage() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.activeLocked()
	if err != nil {
		return nil, err
	}
	if sess.qr == nil {
		return nil, apperror.NewNotFoundError("QR code")
	}
	return sess.qr.PNG, nil
}
