package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sabaidee/pos-api/internal/domain/entity"
	"github.com/sabaidee/pos-api/internal/domain/enum"
	"github.com/sabaidee/pos-api/internal/domain/repository"
	"github.com/sabaidee/pos-api/internal/infrastructure/gateway"
)

// In-memory fakes for the repository interfaces. They are concurrency-safe
// because the payment service touches them from timer goroutines.

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) CreateBatch(ctx context.Context, products []entity.Product) error {
	for i := range products {
		if err := r.Create(ctx, &products[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

type fakeCartRepo struct {
	mu    sync.Mutex
	lines []entity.CartLine
}

func (r *fakeCartRepo) Load(ctx context.Context) ([]entity.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.CartLine, len(r.lines))
	copy(out, r.lines)
	return out, nil
}

func (r *fakeCartRepo) Replace(ctx context.Context, lines []entity.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = make([]entity.CartLine, len(lines))
	copy(r.lines, lines)
	return nil
}

type fakeHeldBillRepo struct {
	mu    sync.Mutex
	bills []*entity.HeldBill
}

func (r *fakeHeldBillRepo) Create(ctx context.Context, bill *entity.HeldBill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *bill
	r.bills = append(r.bills, &cp)
	return nil
}

func (r *fakeHeldBillRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.HeldBill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bills {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeHeldBillRepo) List(ctx context.Context) ([]entity.HeldBill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.HeldBill, 0, len(r.bills))
	for _, b := range r.bills {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeHeldBillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.bills {
		if b.ID == id {
			r.bills = append(r.bills[:i], r.bills[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeHeldBillRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.bills)), nil
}

type fakeTransactionRepo struct {
	mu   sync.Mutex
	txns []*entity.Transaction
}

func (r *fakeTransactionRepo) Create(ctx context.Context, txn *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *txn
	r.txns = append(r.txns, &cp)
	return nil
}

func (r *fakeTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.txns {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepo) List(ctx context.Context, params *repository.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Transaction, 0, len(r.txns))
	for _, t := range r.txns {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTransactionRepo) ListBetween(ctx context.Context, from, to time.Time) ([]entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Transaction, 0, len(r.txns))
	for _, t := range r.txns {
		if !t.PaidAt.Before(from) && t.PaidAt.Before(to) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.txns)
}

func (r *fakeTransactionRepo) last() *entity.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.txns) == 0 {
		return nil
	}
	cp := *r.txns[len(r.txns)-1]
	return &cp
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings *entity.StoreSettings
	getErr   error
}

func (r *fakeSettingsRepo) Get(ctx context.Context) (*entity.StoreSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.settings == nil {
		return nil, nil
	}
	cp := *r.settings
	return &cp, nil
}

func (r *fakeSettingsRepo) failReads(err error) {
	r.mu.Lock()
	r.getErr = err
	r.mu.Unlock()
}

func (r *fakeSettingsRepo) Create(ctx context.Context, settings *entity.StoreSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *settings
	r.settings = &cp
	return nil
}

func (r *fakeSettingsRepo) Update(ctx context.Context, settings *entity.StoreSettings) error {
	return r.Create(ctx, settings)
}

// fakeGenerator produces deterministic codes without hitting a gateway.
type fakeGenerator struct {
	mu            sync.Mutex
	generateCalls int
	demoCalls     int
	generateErr   error
}

func (g *fakeGenerator) Generate(ctx context.Context, req gateway.GenerateRequest) (*gateway.QRCode, error) {
	g.mu.Lock()
	g.generateCalls++
	err := g.generateErr
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &gateway.QRCode{
		Payload:        "BCEL_REAL_CODE",
		PNG:            []byte{0x89, 0x50},
		TransactionRef: "ref-1",
	}, nil
}

func (g *fakeGenerator) DemoCode(amount int64) (*gateway.QRCode, error) {
	g.mu.Lock()
	g.demoCalls++
	g.mu.Unlock()
	return &gateway.QRCode{
		Payload:        "BCEL_OnePay_DEMO",
		PNG:            []byte{0x89, 0x50},
		TransactionRef: "demo",
		Demo:           true,
	}, nil
}

func (g *fakeGenerator) generated() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generateCalls
}

func (g *fakeGenerator) demoed() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.demoCalls
}

// fakeChannel records lifecycle calls and lets tests drive the handlers.
type fakeChannel struct {
	mu         sync.Mutex
	handlers   gateway.ChannelHandlers
	credential string
	opened     bool
	closed     int
}

func (c *fakeChannel) Open(credential string) error {
	c.mu.Lock()
	c.credential = credential
	c.opened = true
	c.mu.Unlock()
	c.handlers.OnStateChange(enum.ChannelStateConnected, "", "")
	return nil
}

func (c *fakeChannel) Close() {
	c.mu.Lock()
	c.closed++
	c.mu.Unlock()
}

func (c *fakeChannel) State() enum.ChannelState {
	return enum.ChannelStateIdle
}

func (c *fakeChannel) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeChannel) wasOpened() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened
}

// fakeChannelFactory hands out fake channels and remembers the last one so the
// test can drive its handlers.
type fakeChannelFactory struct {
	mu   sync.Mutex
	last *fakeChannel
}

func (f *fakeChannelFactory) factory() gateway.ChannelFactory {
	return func(handlers gateway.ChannelHandlers) gateway.Channel {
		ch := &fakeChannel{handlers: handlers}
		f.mu.Lock()
		f.last = ch
		f.mu.Unlock()
		return ch
	}
}

func (f *fakeChannelFactory) lastChannel() *fakeChannel {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}
