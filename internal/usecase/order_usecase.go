package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// 注文一覧の1ページあたり件数。選択式で、対象外は10に丸める
var allowedPerPage = map[int]bool{5: true, 10: true, 25: true, 50: true}

const defaultPerPage = 10

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type OrderLineView struct {
	ID        int64           `json:"id"`
	ProductID *int64          `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderView struct {
	ID                int64           `json:"id"`
	OrderNumber       *string         `json:"order_number"`
	Status            string          `json:"status"`
	IsPaid            bool            `json:"is_paid"`
	SolicitantName    string          `json:"solicitant_name"`
	SolicitantContact string          `json:"solicitant_contact"`
	SolicitantAddress string          `json:"solicitant_address"`
	CreatedAt         time.Time       `json:"created_at"`
	Items             []OrderLineView `json:"items"`
	Total             decimal.Decimal `json:"total"`
}

// 一覧用の軽いDTO（明細は数と合計だけ）
type OrderSummary struct {
	ID             int64           `json:"id"`
	OrderNumber    *string         `json:"order_number"`
	Status         string          `json:"status"`
	IsPaid         bool            `json:"is_paid"`
	SolicitantName string          `json:"solicitant_name"`
	CreatedAt      time.Time       `json:"created_at"`
	TotalQuantity  int64           `json:"total_quantity"`
	TotalPrice     decimal.Decimal `json:"total_price"`
}

type OrderListOutput struct {
	Items   []OrderSummary `json:"items"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

type ListOrdersInput struct {
	Page    int
	PerPage int
	Status  string
	Q       string
}

// ListMyOrders は自分の注文一覧（IN_CARTは含まない）。
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, in ListOrdersInput) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Status != "" && !model.IsValidOrderStatus(model.OrderStatus(in.Status)) {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	f := normalizeListFilter(in)

	var out OrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListByUserID(ctx, userID, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = buildOrderListOutput(ctx, r, orders, total, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

// ListAdminOrders は全注文の一覧。statusと申込者名で絞り込める。
func (u *OrderUsecase) ListAdminOrders(ctx context.Context, in ListOrdersInput) (OrderListOutput, error) {
	if in.Status != "" && !model.IsValidOrderStatus(model.OrderStatus(in.Status)) {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	f := normalizeListFilter(in)

	var out OrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = buildOrderListOutput(ctx, r, orders, total, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

// GetOrderDetail は注文詳細。所有者か管理者だけが見られる。
// 他人の注文は「存在しない扱い」にする。
func (u *OrderUsecase) GetOrderDetail(ctx context.Context, userID int64, isAdmin bool, orderID int64) (OrderView, error) {
	if userID <= 0 {
		return OrderView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderView{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderView

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if !isAdmin {
			if o.RegisteredUserID == nil || *o.RegisteredUserID != userID {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
		}

		out, err = buildOrderView(ctx, r, o)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return OrderView{}, err
	}
	return out, nil
}

// UpdateOrderStatus は管理者のステータス変更。監査ログも同時に残す。
func (u *OrderUsecase) UpdateOrderStatus(ctx context.Context, adminUserID int64, orderID int64, status string) (OrderView, error) {
	if orderID <= 0 {
		return OrderView{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !model.IsValidOrderStatus(model.OrderStatus(status)) {
		return OrderView{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out OrderView

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatus(status)); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before, _ := json.Marshal(map[string]string{"status": string(o.Status)})
		after, _ := json.Marshal(map[string]string{"status": status})
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   string(before),
			AfterJSON:    string(after),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.Status = model.OrderStatus(status)
		out, err = buildOrderView(ctx, r, o)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return OrderView{}, err
	}
	return out, nil
}

// DeleteOrder は管理者の注文削除（明細ごと消える）。
func (u *OrderUsecase) DeleteOrder(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().Delete(ctx, orderID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

func normalizeListFilter(in ListOrdersInput) repo.OrderListFilter {
	page := in.Page
	if page < 1 {
		page = 1
	}
	perPage := in.PerPage
	if !allowedPerPage[perPage] {
		perPage = defaultPerPage
	}

	return repo.OrderListFilter{
		Page:    page,
		PerPage: perPage,
		Status:  in.Status,
		Q:       in.Q,
	}
}

func buildOrderListOutput(ctx context.Context, r repo.TxRepos, orders []model.Order, total int64, f repo.OrderListFilter) (OrderListOutput, error) {
	items := make([]OrderSummary, 0, len(orders))

	for _, o := range orders {
		qty, err := r.OrderLines().SumQuantityByOrderID(ctx, o.ID)
		if err != nil {
			return OrderListOutput{}, err
		}

		view, err := buildOrderView(ctx, r, o)
		if err != nil {
			return OrderListOutput{}, err
		}

		items = append(items, OrderSummary{
			ID:             o.ID,
			OrderNumber:    o.OrderNumber,
			Status:         string(o.Status),
			IsPaid:         o.IsPaid,
			SolicitantName: o.SolicitantName,
			CreatedAt:      o.CreatedAt,
			TotalQuantity:  qty,
			TotalPrice:     view.Total,
		})
	}

	return OrderListOutput{
		Items:   items,
		Total:   total,
		Page:    f.Page,
		PerPage: f.PerPage,
	}, nil
}

// 注文と明細からOrderViewを作る。小計・合計は小数2桁へ四捨五入
func buildOrderView(ctx context.Context, r repo.TxRepos, o model.Order) (OrderView, error) {
	lines, err := r.OrderLines().ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderView{}, err
	}

	items := make([]OrderLineView, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		subtotal := line.PriceAtOrder.Mul(decimal.NewFromInt(line.Quantity)).Round(2)

		items = append(items, OrderLineView{
			ID:        line.ID,
			ProductID: line.ProductID,
			Name:      line.ProductName,
			Image:     line.ProductImage,
			Quantity:  line.Quantity,
			UnitPrice: line.PriceAtOrder,
			Subtotal:  subtotal,
		})

		total = total.Add(subtotal)
	}

	return OrderView{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		Status:            string(o.Status),
		IsPaid:            o.IsPaid,
		SolicitantName:    o.SolicitantName,
		SolicitantContact: o.SolicitantContact,
		SolicitantAddress: o.SolicitantAddress,
		CreatedAt:         o.CreatedAt,
		Items:             items,
		Total:             total,
	}, nil
}
