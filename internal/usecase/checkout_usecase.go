package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

// 注文番号の候補生成を諦めるまでの試行回数
const orderNumberAttempts = 10

// 配送は未対応。入力値にかかわらず住所欄はこの案内で固定する
const pickupNoticeAddress = "Los envíos a domicilio no están disponibles aún. Recogida en tienda disponible en la oficina de Natursur."

// 在庫不足でカートから外した明細
type RemovedLine struct {
	LineID      int64  `json:"line_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
}

// 確定時に在庫が足りなかったことを表す。
// 該当明細は削除済みで、注文はIN_CARTに戻っている。
type InsufficientStockError struct {
	Removed []RemovedLine
}

func (e *InsufficientStockError) Error() string {
	return "insufficient stock"
}

func AsInsufficientStockError(err error) (*InsufficientStockError, bool) {
	var ise *InsufficientStockError
	ok := errors.As(err, &ise)
	return ise, ok
}

// 申込者フォームの検証の約束
type CheckoutValidator interface {
	ValidateSolicitant(in FinalizeOrderInput) map[string]string
}

type FinalizeOrderInput struct {
	SolicitantName    string
	SolicitantContact string
	SolicitantAddress string
}

// CheckoutUsecase はカートを注文に確定する。
type CheckoutUsecase struct {
	tx        repo.TransactionManager
	validator CheckoutValidator
	clock     Clock
}

func NewCheckoutUsecase(tx repo.TransactionManager, validator CheckoutValidator, clock Clock) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx, validator: validator, clock: clock}
}

// FinalizeOrder はカートを確定する。
//  1. 申込者フォームを検証（失敗なら状態は変えない）
//  2. IN_CART → SOLICITED
//  3. 全明細の在庫を取り直して再チェック。不足があれば該当明細を削除して
//     IN_CARTに戻し、何を外したかを返す（他の明細と在庫は触らない）
//  4. 全部足りれば注文番号を採番し、在庫を引いて支払済みにする
//
// 3と4は同一トランザクション。カート作成から確定までの間に在庫が
// 減っているレースは、ロックではなく確定時の再検証で拾う。
func (u *CheckoutUsecase) FinalizeOrder(ctx context.Context, id CartIdentity, in FinalizeOrderInput) (OrderView, error) {
	if fields := u.validator.ValidateSolicitant(in); len(fields) > 0 {
		return OrderView{}, NewValidationError(fields)
	}

	var (
		out      OrderView
		shortage *InsufficientStockError
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := findCart(ctx, r, id)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "no cart to finalize")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		lines, err := r.OrderLines().ListByOrderID(ctx, order.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(lines) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		order.SolicitantName = strings.TrimSpace(in.SolicitantName)
		order.SolicitantContact = strings.TrimSpace(in.SolicitantContact)
		order.SolicitantAddress = pickupNoticeAddress
		order.Status = model.OrderStatusSolicited
		if err := r.Orders().Save(ctx, order); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 在庫の再検証
		removed := []RemovedLine{}
		removedIDs := []int64{}
		for _, line := range lines {
			available := int64(0)
			name := line.ProductName

			if line.ProductID != nil {
				p, err := r.Products().FindByID(ctx, *line.ProductID)
				if err == nil {
					available = p.Stock
					if name == "" {
						name = p.Name
					}
				} else if err != repo.ErrNotFound {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}

			if line.Quantity > available {
				removed = append(removed, RemovedLine{
					LineID:      line.ID,
					ProductName: name,
					Quantity:    line.Quantity,
				})
				removedIDs = append(removedIDs, line.ID)
			}
		}

		if len(removed) > 0 {
			//不足分の明細を消してカートに戻す。この変更はcommitする
			if err := r.OrderLines().DeleteByIDs(ctx, removedIDs); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			order.Status = model.OrderStatusInCart
			if err := r.Orders().Save(ctx, order); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			shortage = &InsufficientStockError{Removed: removed}
			return nil
		}

		// 注文番号の採番
		if order.OrderNumber == nil {
			number, err := u.mintOrderNumber(ctx, r)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			order.OrderNumber = &number
		}

		// 在庫を引く（0未満にはしない）
		for _, line := range lines {
			if line.ProductID == nil || line.Quantity <= 0 {
				continue
			}
			if err := r.Inventory().DecreaseStockFloored(ctx, *line.ProductID, line.Quantity); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		order.IsPaid = true
		if err := r.Orders().Save(ctx, order); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = buildOrderView(ctx, r, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return OrderView{}, err
	}
	if shortage != nil {
		return OrderView{}, shortage
	}
	return out, nil
}

// ランダム候補を作って重複チェック、だめなら時刻ベースにフォールバック
func (u *CheckoutUsecase) mintOrderNumber(ctx context.Context, r repo.TxRepos) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		candidate := fmt.Sprintf("ORD-%s", randomHex(12))

		exists, err := r.Orders().ExistsByOrderNumber(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return fmt.Sprintf("ORD-%d-%s", u.clock.Now().UTC().Unix(), randomHex(6)), nil
}

func randomHex(n int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(hex) {
		n = len(hex)
	}
	return strings.ToUpper(hex[:n])
}

// Clock はテストで時刻を固定するための約束
type Clock interface {
	Now() time.Time
}
