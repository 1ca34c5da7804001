package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderLineGormRepository struct {
	db *gorm.DB
}

func NewOrderLineGormRepository(db *gorm.DB) *OrderLineGormRepository {
	return &OrderLineGormRepository{db: db}
}

// 注文の明細を一覧取得
func (r *OrderLineGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	var lines []model.OrderLine

	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&lines).Error; err != nil {
		return []model.OrderLine{}, err
	}

	return lines, nil
}

func (r *OrderLineGormRepository) FindByID(ctx context.Context, lineID int64) (model.OrderLine, error) {
	var line model.OrderLine

	err := r.db.WithContext(ctx).
		Where("id = ?", lineID).
		First(&line).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OrderLine{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OrderLine{}, err
	}
	return line, nil
}

// 同一注文×同一商品の明細を取得
func (r *OrderLineGormRepository) FindByOrderAndProduct(ctx context.Context, orderID int64, productID int64) (model.OrderLine, error) {
	var line model.OrderLine

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		First(&line).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OrderLine{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OrderLine{}, err
	}
	return line, nil
}

func (r *OrderLineGormRepository) Create(ctx context.Context, line model.OrderLine) (model.OrderLine, error) {
	if err := r.db.WithContext(ctx).Create(&line).Error; err != nil {
		return model.OrderLine{}, err
	}
	return line, nil
}

// スナップショット退避などのフィールド更新
func (r *OrderLineGormRepository) Save(ctx context.Context, line model.OrderLine) error {
	if line.ID == 0 {
		return repo.ErrNotFound
	}
	return r.db.WithContext(ctx).Save(&line).Error
}

// 明細の数量を更新
func (r *OrderLineGormRepository) UpdateQuantity(ctx context.Context, lineID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.OrderLine{}).
		Where("id = ?", lineID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *OrderLineGormRepository) DeleteByID(ctx context.Context, lineID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.OrderLine{}, lineID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderLineGormRepository) DeleteByIDs(ctx context.Context, lineIDs []int64) error {
	if len(lineIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", lineIDs).
		Delete(&model.OrderLine{}).Error
}

// IN_CARTの注文に入っている該当商品の明細を全削除（放置カートの掃除）
func (r *OrderLineGormRepository) DeleteCartLinesByProduct(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Where("order_id IN (?)",
			r.db.Model(&model.Order{}).Select("id").Where("status = ?", model.OrderStatusInCart)).
		Delete(&model.OrderLine{}).Error
}

// IN_CART以外（＝履歴）に入っている該当商品の明細
func (r *OrderLineGormRepository) ListHistoricalByProduct(ctx context.Context, productID int64) ([]model.OrderLine, error) {
	var lines []model.OrderLine

	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Where("order_id IN (?)",
			r.db.Model(&model.Order{}).Select("id").Where("status <> ?", model.OrderStatusInCart)).
		Order("id asc").
		Find(&lines).Error

	if err != nil {
		return []model.OrderLine{}, err
	}
	return lines, nil
}

// 該当商品の明細からproduct_idを外す
func (r *OrderLineGormRepository) DetachProduct(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.OrderLine{}).
		Where("product_id = ?", productID).
		Update("product_id", nil).Error
}

// 注文の合計数量
func (r *OrderLineGormRepository) SumQuantityByOrderID(ctx context.Context, orderID int64) (int64, error) {
	var total int64

	err := r.db.WithContext(ctx).
		Model(&model.OrderLine{}).
		Where("order_id = ?", orderID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error

	if err != nil {
		return 0, err
	}
	return total, nil
}
