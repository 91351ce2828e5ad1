package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sabaidee/pos-api/internal/domain/entity"
	domainRepo "github.com/sabaidee/pos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *gorm.DB) domainRepo.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Load(ctx context.Context) ([]entity.CartLine, error) {
	var lines []entity.CartLine
	err := r.db.WithContext(ctx).Order("position ASC").Find(&lines).Error
	return lines, err
}

// Replace swaps the persisted cart wholesale. Deleting and reinserting inside
// one database transaction keeps the stored cart consistent with memory even
// if the process dies mid-write.
func (r *cartRepository) Replace(ctx context.Context, lines []entity.CartLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entity.CartLine{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}

type heldBillRepository struct {
	db *gorm.DB
}

// NewHeldBillRepository creates a new held bill repository
func NewHeldBillRepository(db *gorm.DB) domainRepo.HeldBillRepository {
	return &heldBillRepository{db: db}
}

func (r *heldBillRepository) Create(ctx context.Context, bill *entity.HeldBill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *heldBillRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.HeldBill, error) {
	var bill entity.HeldBill
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *heldBillRepository) List(ctx context.Context) ([]entity.HeldBill, error) {
	var bills []entity.HeldBill
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at ASC").
		Find(&bills).Error
	return bills, err
}

func (r *heldBillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("held_bill_id = ?", id).Delete(&entity.HeldBillItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.HeldBill{}, "id = ?", id).Error
	})
}

func (r *heldBillRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.HeldBill{}).Count(&count).Error
	return count, err
}
