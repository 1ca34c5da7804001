package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// 誰のカートかを表す。ログイン済みならUserID、未ログインならcookieのトークン。
type CartIdentity struct {
	UserID    int64
	AnonToken string
}

func (id CartIdentity) authenticated() bool {
	return id.UserID > 0
}

// CartUsecase はカート（IN_CARTのOrder）の業務ロジックです。
type CartUsecase struct {
	tx repo.TransactionManager
}

func NewCartUsecase(tx repo.TransactionManager) *CartUsecase {
	return &CartUsecase{tx: tx}
}

type CartLineView struct {
	ID        int64           `json:"id"`
	ProductID *int64          `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	OrderID int64           `json:"order_id"`
	Items   []CartLineView  `json:"items"`
	Total   decimal.Decimal `json:"total"`
}

type AddToCartInput struct {
	ProductID int64
	Quantity  int64
}

// GetCart はカート取得。まだカートが無ければ空で返す（作らない）。
func (u *CartUsecase) GetCart(ctx context.Context, id CartIdentity) (CartView, error) {
	var view CartView

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := findCart(ctx, r, id)
		if err == repo.ErrNotFound {
			view = CartView{Items: []CartLineView{}, Total: decimal.Zero}
			return nil
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		view, err = buildCartView(ctx, r, order.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return CartView{}, err
	}
	return view, nil
}

// AddToCart はカートに追加。
// 既存明細は min(希望数, 在庫-現在数) だけ加算し、在庫を超えない。
// 新規明細は min(希望数, 在庫)。在庫0なら明細を作らない。
// 未ログインでトークンが無ければ発行し、第2戻り値で返す（cookie保存用）。
func (u *CartUsecase) AddToCart(ctx context.Context, id CartIdentity, in AddToCartInput) (CartView, string, error) {
	if in.ProductID <= 0 {
		return CartView{}, "", NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	// 解釈できない数量は1として扱う
	requested := in.Quantity
	if requested < 1 {
		requested = 1
	}

	mintedToken := ""
	if !id.authenticated() && strings.TrimSpace(id.AnonToken) == "" {
		mintedToken = newAnonToken()
		id.AnonToken = mintedToken
	}

	var view CartView

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order, err := getOrCreateCart(ctx, r, id)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		line, err := r.OrderLines().FindByOrderAndProduct(ctx, order.ID, p.ID)
		switch {
		case err == nil:
			// 既存明細：在庫を超えない分だけ加算
			maxAddable := p.Stock - line.Quantity
			if maxAddable < 0 {
				maxAddable = 0
			}
			toAdd := requested
			if toAdd > maxAddable {
				toAdd = maxAddable
			}
			if toAdd > 0 {
				if err := r.OrderLines().UpdateQuantity(ctx, line.ID, line.Quantity+toAdd); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}

		case err == repo.ErrNotFound:
			// 新規明細：在庫0なら作らない
			toAdd := requested
			if toAdd > p.Stock {
				toAdd = p.Stock
			}
			if toAdd > 0 {
				_, err := r.OrderLines().Create(ctx, model.OrderLine{
					OrderID:      order.ID,
					ProductID:    &p.ID,
					Quantity:     toAdd,
					PriceAtOrder: p.Price,
					ProductName:  p.Name,
					ProductImage: p.Image,
				})
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}

		default:
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		view, err = buildCartView(ctx, r, order.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return CartView{}, "", err
	}
	return view, mintedToken, nil
}

// RemoveFromCart はカートからの削除／減算。
// itemIDが自分のIN_CART明細なら、数量1で明細削除・2以上で1減算。
// itemIDが自分のIN_CARTのOrder自体なら、注文ごと削除。
// どちらでもなければnot found（確定済みの注文は触れない）。
func (u *CartUsecase) RemoveFromCart(ctx context.Context, id CartIdentity, itemID int64) (CartView, error) {
	if itemID <= 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var view CartView

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := findCart(ctx, r, id)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		line, err := r.OrderLines().FindByID(ctx, itemID)
		if err == nil && line.OrderID == order.ID {
			if line.Quantity <= 1 {
				if err := r.OrderLines().DeleteByID(ctx, line.ID); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			} else {
				if err := r.OrderLines().UpdateQuantity(ctx, line.ID, line.Quantity-1); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}

			view, err = buildCartView(ctx, r, order.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			return nil
		}
		if err != nil && err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 明細ではなくカート自体のID
		if itemID == order.ID {
			if err := r.Orders().Delete(ctx, order.ID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			view = CartView{Items: []CartLineView{}, Total: decimal.Zero}
			return nil
		}

		return NewHTTPError(http.StatusNotFound, "not found")
	})

	if err != nil {
		return CartView{}, err
	}
	return view, nil
}

func newAnonToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func findCart(ctx context.Context, r repo.TxRepos, id CartIdentity) (model.Order, error) {
	if id.authenticated() {
		return r.Orders().FindInCartByUserID(ctx, id.UserID)
	}
	if strings.TrimSpace(id.AnonToken) == "" {
		return model.Order{}, repo.ErrNotFound
	}
	return r.Orders().FindInCartByAnonToken(ctx, id.AnonToken)
}

func getOrCreateCart(ctx context.Context, r repo.TxRepos, id CartIdentity) (model.Order, error) {
	if id.authenticated() {
		return r.Orders().GetOrCreateInCartByUserID(ctx, id.UserID)
	}
	return r.Orders().GetOrCreateInCartByAnonToken(ctx, id.AnonToken)
}

// orderIDの明細をまとめてCartViewを作る。
// 小計は単価×数量を小数2桁へ四捨五入。
func buildCartView(ctx context.Context, r repo.TxRepos, orderID int64) (CartView, error) {
	lines, err := r.OrderLines().ListByOrderID(ctx, orderID)
	if err != nil {
		return CartView{}, err
	}

	items := make([]CartLineView, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		subtotal := line.PriceAtOrder.Mul(decimal.NewFromInt(line.Quantity)).Round(2)

		items = append(items, CartLineView{
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

	return CartView{OrderID: orderID, Items: items, Total: total}, nil
}
