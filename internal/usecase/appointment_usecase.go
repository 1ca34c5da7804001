package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type AppointmentUsecase struct {
	appointmentRepo repo.AppointmentRepository
	clock           Clock
}

func NewAppointmentUsecase(ar repo.AppointmentRepository, clock Clock) *AppointmentUsecase {
	return &AppointmentUsecase{appointmentRepo: ar, clock: clock}
}

type AppointmentView struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	Price          decimal.Decimal  `json:"price"`
	Duration       int64            `json:"duration"`
	Description    string           `json:"description"`
	Premium        bool             `json:"premium"`
	Discount       decimal.Decimal  `json:"discount"`
	DiscountEndsAt *time.Time       `json:"discount_ends_at"`
	DiscountActive bool             `json:"discount_active"`
	TotalMoneySave *decimal.Decimal `json:"total_money_save"`
}

type AppointmentInput struct {
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Duration       int64           `json:"duration"`
	Description    string          `json:"description"`
	Premium        bool            `json:"premium"`
	Discount       decimal.Decimal `json:"discount"`
	DiscountEndsAt *time.Time      `json:"discount_ends_at"`
}

func (u *AppointmentUsecase) List(ctx context.Context) ([]AppointmentView, error) {
	list, err := u.appointmentRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	views := make([]AppointmentView, 0, len(list))
	for _, a := range list {
		views = append(views, u.buildView(a))
	}
	return views, nil
}

func (u *AppointmentUsecase) Get(ctx context.Context, id int64) (AppointmentView, error) {
	a, err := u.appointmentRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return AppointmentView{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return AppointmentView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildView(a), nil
}

func (u *AppointmentUsecase) Create(ctx context.Context, in AppointmentInput) (AppointmentView, error) {
	if verr := validateAppointmentInput(in); verr != nil {
		return AppointmentView{}, verr
	}

	created, err := u.appointmentRepo.Create(ctx, model.Appointment{
		Name:           in.Name,
		Price:          in.Price,
		Duration:       in.Duration,
		Description:    in.Description,
		Premium:        in.Premium,
		Discount:       in.Discount,
		DiscountEndsAt: in.DiscountEndsAt,
	})
	if err != nil {
		return AppointmentView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildView(created), nil
}

func (u *AppointmentUsecase) Update(ctx context.Context, id int64, in AppointmentInput) (AppointmentView, error) {
	if verr := validateAppointmentInput(in); verr != nil {
		return AppointmentView{}, verr
	}

	a, err := u.appointmentRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return AppointmentView{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return AppointmentView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	a.Name = in.Name
	a.Price = in.Price
	a.Duration = in.Duration
	a.Description = in.Description
	a.Premium = in.Premium
	a.Discount = in.Discount
	a.DiscountEndsAt = in.DiscountEndsAt

	if err := u.appointmentRepo.Save(ctx, a); err != nil {
		return AppointmentView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildView(a), nil
}

// SetDiscount は割引額と終了日だけを更新する。価格未満の制約はここでも効く。
func (u *AppointmentUsecase) SetDiscount(ctx context.Context, id int64, discount decimal.Decimal, endsAt *time.Time) (AppointmentView, error) {
	a, err := u.appointmentRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return AppointmentView{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return AppointmentView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if discount.IsNegative() {
		return AppointmentView{}, NewValidationError(map[string]string{"discount": "discount must not be negative"})
	}
	if discount.GreaterThanOrEqual(a.Price) {
		return AppointmentView{}, NewValidationError(map[string]string{"discount": "discount must be lower than the price"})
	}

	a.Discount = discount
	a.DiscountEndsAt = endsAt

	if err := u.appointmentRepo.Save(ctx, a); err != nil {
		return AppointmentView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildView(a), nil
}

func (u *AppointmentUsecase) Delete(ctx context.Context, id int64) error {
	if err := u.appointmentRepo.Delete(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AppointmentUsecase) buildView(a model.Appointment) AppointmentView {
	v := AppointmentView{
		ID:             a.ID,
		Name:           a.Name,
		Price:          a.Price,
		Duration:       a.Duration,
		Description:    a.Description,
		Premium:        a.Premium,
		Discount:       a.Discount,
		DiscountEndsAt: a.DiscountEndsAt,
		DiscountActive: a.DiscountActive(u.clock.Now()),
	}

	//割引中だけ節約額を出す
	if v.DiscountActive {
		save := a.TotalMoneySave()
		v.TotalMoneySave = &save
	}
	return v
}

func validateAppointmentInput(in AppointmentInput) error {
	fields := map[string]string{}

	if in.Name == "" {
		fields["name"] = "name is required"
	}
	if in.Price.IsNegative() {
		fields["price"] = "price must not be negative"
	}
	if in.Duration <= 0 {
		fields["duration"] = "duration must be positive"
	}
	if in.Discount.IsNegative() {
		fields["discount"] = "discount must not be negative"
	} else if in.Discount.GreaterThanOrEqual(in.Price) {
		fields["discount"] = "discount must be lower than the price"
	}

	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}
