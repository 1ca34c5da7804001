package validator

import (
	"strings"

	"app/internal/usecase"

	validate "github.com/go-playground/validator/v10"
)

// 申込フォームの検証ルール
type solicitantForm struct {
	Name    string `validate:"required,min=3"`
	Contact string `validate:"required"`
	Address string
}

type checkoutValidator struct {
	v *validate.Validate
}

func NewCheckoutValidator() usecase.CheckoutValidator {
	return &checkoutValidator{v: validate.New()}
}

// ValidateSolicitant は確定前のフォーム検証。field名→メッセージで返す。
func (cv *checkoutValidator) ValidateSolicitant(in usecase.FinalizeOrderInput) map[string]string {
	form := solicitantForm{
		Name:    strings.TrimSpace(in.SolicitantName),
		Contact: strings.TrimSpace(in.SolicitantContact),
		Address: strings.TrimSpace(in.SolicitantAddress),
	}

	err := cv.v.Struct(form)
	if err == nil {
		return nil
	}

	fields := map[string]string{}

	verrs, ok := err.(validate.ValidationErrors)
	if !ok {
		fields["form"] = "invalid input"
		return fields
	}

	for _, fe := range verrs {
		switch fe.Field() {
		case "Name":
			if fe.Tag() == "required" {
				fields["name"] = "name is required"
			} else {
				fields["name"] = "name must be at least 3 characters"
			}
		case "Contact":
			fields["contact"] = "contact is required"
		}
	}

	return fields
}
