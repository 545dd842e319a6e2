package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artmarket/internal/domain/artwork"
	"artmarket/internal/domain/order"
	"artmarket/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Place(ctx context.Context, o *order.Order) error {
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	if o.Status == "" {
		o.Status = order.StatusPaid
	}

	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ArtworkModel{}).
			Where("id = ? AND status = ? AND stock >= ?", o.ArtworkID, string(artwork.StatusPublished), o.Quantity).
			Updates(map[string]interface{}{
				"stock":      gorm.Expr("stock - ?", o.Quantity),
				"updated_at": o.CreatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to reserve stock: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return order.ErrOutOfStock
		}

		if err := tx.Create(toOrderModel(o)).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	var dbModel models.OrderModel
	err := r.db.DB.WithContext(ctx).Where("id = ?", orderID).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return toOrderEntity(&dbModel), nil
}

func (r *OrderRepository) List(ctx context.Context, filter *order.Filter) ([]*order.Order, int64, error) {
	var dbModels []models.OrderModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.OrderModel{})

	if filter.BuyerID != nil {
		db = db.Where("buyer_id = ?", *filter.BuyerID)
	}
	if filter.ArtistID != nil {
		db = db.Where("artist_id = ?", *filter.ArtistID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := db.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]*order.Order, len(dbModels))
	for i := range dbModels {
		orders[i] = toOrderEntity(&dbModels[i])
	}

	return orders, total, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to order.Status, restock bool) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dbModel models.OrderModel
		err := tx.Where("id = ?", orderID).First(&dbModel).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}

		now := time.Now()
		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND status = ?", orderID, string(from)).
			Updates(map[string]interface{}{
				"status":     string(to),
				"updated_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update order status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return order.ErrInvalidStatusTransition
		}

		if !restock {
			return nil
		}

		result = tx.Model(&models.ArtworkModel{}).
			Where("id = ?", dbModel.ArtworkID).
			Updates(map[string]interface{}{
				"stock":      gorm.Expr("stock + ?", dbModel.Quantity),
				"updated_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to restock artwork: %w", result.Error)
		}

		return nil
	})
}

func toOrderModel(o *order.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:         o.ID,
		BuyerID:    o.BuyerID,
		ArtistID:   o.ArtistID,
		ArtworkID:  o.ArtworkID,
		Quantity:   o.Quantity,
		UnitPrice:  o.UnitPrice,
		Total:      o.Total,
		Status:     string(o.Status),
		PaymentRef: o.PaymentRef,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

func toOrderEntity(m *models.OrderModel) *order.Order {
	return &order.Order{
		ID:         m.ID,
		BuyerID:    m.BuyerID,
		ArtistID:   m.ArtistID,
		ArtworkID:  m.ArtworkID,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
		Total:      m.Total,
		Status:     order.Status(m.Status),
		PaymentRef: m.PaymentRef,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
