package repository

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

// 登録ユーザーのIN_CARTを取得
func (r *OrderGormRepository) FindInCartByUserID(ctx context.Context, userID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Where("registered_user_id = ? AND status = ?", userID, model.OrderStatusInCart).
		Order("id desc").
		First(&o).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

// 匿名トークンのIN_CARTを取得
func (r *OrderGormRepository) FindInCartByAnonToken(ctx context.Context, token string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Where("anonymous_token = ? AND status = ?", token, model.OrderStatusInCart).
		Order("id desc").
		First(&o).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

// ユーザーのIN_CARTを取得し、無ければ作成
func (r *OrderGormRepository) GetOrCreateInCartByUserID(ctx context.Context, userID int64) (model.Order, error) {
	return r.getOrCreateInCart(ctx,
		"registered_user_id = ? AND status = ?", userID,
		model.Order{
			Status:           model.OrderStatusInCart,
			RegisteredUserID: &userID,
		},
	)
}

// 匿名トークンのIN_CARTを取得し、無ければ作成
func (r *OrderGormRepository) GetOrCreateInCartByAnonToken(ctx context.Context, token string) (model.Order, error) {
	return r.getOrCreateInCart(ctx,
		"anonymous_token = ? AND status = ?", token,
		model.Order{
			Status:         model.OrderStatusInCart,
			AnonymousToken: &token,
		},
	)
}

// トランザクションで探す→無ければ作る。
// 部分uniqueインデックスと同時作成で衝突したら作り直さずに取り直す。
func (r *OrderGormRepository) getOrCreateInCart(ctx context.Context, cond string, key interface{}, blank model.Order) (model.Order, error) {
	var order model.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(cond, key, model.OrderStatusInCart).
			Order("id desc").
			First(&order).Error

		if findErr == nil {
			return nil
		}

		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		// 無ければ作る
		newOrder := blank
		if err := tx.Create(&newOrder).Error; err != nil {
			retryErr := tx.
				Where(cond, key, model.OrderStatusInCart).
				Order("id desc").
				First(&order).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		order = newOrder
		return nil
	})

	if err != nil {
		return model.Order{}, err
	}
	return order, nil
}

func (r *OrderGormRepository) Save(ctx context.Context, order model.Order) error {
	if order.ID == 0 {
		return repo.ErrNotFound
	}
	return r.db.WithContext(ctx).Save(&order).Error
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 注文を明細ごと削除
func (r *OrderGormRepository) Delete(ctx context.Context, orderID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderLine{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Order{}, orderID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

func (r *OrderGormRepository) ExistsByOrderNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("order_number = ?", number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ユーザー自身の注文一覧。IN_CARTは出さない
func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, f repo.OrderListFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("registered_user_id = ?", userID).
		Where("status <> ?", model.OrderStatusInCart)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	return listOrders(q, f)
}

// 管理者用の注文一覧。status絞り込み＋solicitant_name検索
func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status <> ?", model.OrderStatusInCart)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if strings.TrimSpace(f.Q) != "" {
		q = q.Where("solicitant_name ILIKE ?", "%"+strings.TrimSpace(f.Q)+"%")
	}

	return listOrders(q, f)
}

func listOrders(q *gorm.DB, f repo.OrderListFilter) ([]model.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PerPage <= 0 || f.PerPage > 100 {
		f.PerPage = 10
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (f.Page - 1) * f.PerPage
	if err := q.Order("created_at desc").Order("id desc").
		Limit(f.PerPage).Offset(offset).
		Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}
