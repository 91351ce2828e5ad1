package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sabaidee/pos-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCartService(t *testing.T) (*CartService, *fakeProductRepo, *fakeHeldBillRepo, *fakeCartRepo) {
	t.Helper()
	productRepo := newFakeProductRepo()
	cartRepo := &fakeCartRepo{}
	billRepo := &fakeHeldBillRepo{}

	svc, err := NewCartService(cartRepo, billRepo, productRepo)
	require.NoError(t, err)
	return svc, productRepo, billRepo, cartRepo
}

func seedProduct(t *testing.T, repo *fakeProductRepo, name string, price, cost int64) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:     uuid.New(),
		Name:   name,
		Price:  price,
		Cost:   cost,
		Active: true,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestCartService_AddItemIncrementsExistingLine(t *testing.T) {
	svc, products, _, _ := newTestCartService(t)
	ctx := context.Background()

	noodles := seedProduct(t, products, "ເຝີ", 25000, 10000)

	items, err := svc.AddItem(ctx, noodles.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)

	items, err = svc.AddItem(ctx, noodles.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(50000), svc.Total())
}

func TestCartService_AddItemRejectsInactiveProduct(t *testing.T) {
	svc, products, _, _ := newTestCartService(t)
	ctx := context.Background()

	p := seedProduct(t, products, "ເຂົ້າປຽກ", 20000, 8000)
	p.Active = false
	require.NoError(t, products.Update(ctx, p))

	_, err := svc.AddItem(ctx, p.ID)
	assert.Error(t, err)
	assert.Empty(t, svc.Items())
}

func TestCartService_AddItemUnknownProduct(t *testing.T) {
	svc, _, _, _ := newTestCartService(t)

	_, err := svc.AddItem(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestCartService_SetQuantityClampsToOne(t *testing.T) {
	svc, products, _, _ := newTestCartService(t)
	ctx := context.Background()

	p := seedProduct(t, products, "ຕຳໝາກຫຸ່ງ", 30000, 12000)
	_, err := svc.AddItem(ctx, p.ID)
	require.NoError(t, err)

	items, err := svc.SetQuantity(ctx, p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, items[0].Quantity)

	// Decrementing past zero keeps the line at quantity 1
	items, err = svc.SetQuantity(ctx, p.ID, -10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestCartService_RemoveItemDropsWholeLine(t *testing.T) {
	svc, products, _, _ := newTestCartService(t)
	ctx := context.Background()

	p := seedProduct(t, products, "ປີ້ງໄກ່", 35000, 15000)
	_, err := svc.AddItem(ctx, p.ID)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, p.ID)
	require.NoError(t, err)

	items, err := svc.RemoveItem(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(0), svc.Total())
}

func TestCartService_HoldEmptyCartIsNoOp(t *testing.T) {
	svc, _, bills, _ := newTestCartService(t)

	bill, err := svc.Hold(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, bill)

	count, err := bills.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestCartService_HoldAndRecallRoundTrip(t *testing.T) {
	svc, products, _, _ := newTestCartService(t)
	ctx := context.Background()

	p := seedProduct(t, products, "ເບຍລາວ", 15000, 9000)
	_, err := svc.AddItem(ctx, p.ID)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, p.ID)
	require.NoError(t, err)

	bill, err := svc.Hold(ctx)
	require.NoError(t, err)
	require.NotNil(t, bill)
	assert.Equal(t, "Bill #1", bill.Note)
	assert.Equal(t, int64(30000), bill.Total)
	assert.Empty(t, svc.Items(), "holding must clear the active cart")

	// Price changes after the hold must not affect the frozen bill total
	p.Price = 99000
	require.NoError(t, products.Update(ctx, p))

	held, err := svc.HeldBills(ctx)
	require.NoError(t, err)
	require.Len(t, held, 1)
	assert.Equal(t, int64(30000), held[0].Total)

	items, err := svc.Recall(ctx, bill.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(15000), items[0].Price, "recalled lines keep the price captured at add time")

	held, err = svc.HeldBills(ctx)
	require.NoError(t, err)
	assert.Empty(t, held, "recall removes the bill")
}

func TestCartService_RecallDiscardsCurrentCart(t *testing.T) {
	svc, products, _, _ := newTestCartService(t)
	ctx := context.Background()

	first := seedProduct(t, products, "ເຝີ", 25000, 10000)
	second := seedProduct(t, products, "ກາເຟ", 12000, 4000)

	_, err := svc.AddItem(ctx, first.ID)
	require.NoError(t, err)
	bill, err := svc.Hold(ctx)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, second.ID)
	require.NoError(t, err)

	items, err := svc.Recall(ctx, bill.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, first.ID, items[0].ProductID)
}

func TestCartService_RecallUnknownBill(t *testing.T) {
	svc, _, _, _ := newTestCartService(t)

	_, err := svc.Recall(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestCartService_DiscardRemovesBillWithoutRestoring(t *testing.T) {
	svc, products, _, _ := newTestCartService(t)
	ctx := context.Background()

	p := seedProduct(t, products, "ເຂົ້າໜຽວ", 5000, 2000)
	_, err := svc.AddItem(ctx, p.ID)
	require.NoError(t, err)
	bill, err := svc.Hold(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Discard(ctx, bill.ID))

	held, err := svc.HeldBills(ctx)
	require.NoError(t, err)
	assert.Empty(t, held)
	assert.Empty(t, svc.Items())
}

func TestCartService_SurvivesRestart(t *testing.T) {
	productRepo := newFakeProductRepo()
	cartRepo := &fakeCartRepo{}
	billRepo := &fakeHeldBillRepo{}
	ctx := context.Background()

	svc, err := NewCartService(cartRepo, billRepo, productRepo)
	require.NoError(t, err)

	p := seedProduct(t, productRepo, "ໝູປີ້ງ", 10000, 5000)
	_, err = svc.AddItem(ctx, p.ID)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, p.ID)
	require.NoError(t, err)

	// A fresh service over the same repository picks up the persisted cart
	restarted, err := NewCartService(cartRepo, billRepo, productRepo)
	require.NoError(t, err)
	items := restarted.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(20000), restarted.Total())
}
