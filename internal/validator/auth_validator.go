package validator

import (
	"strings"

	"app/internal/usecase"

	validate "github.com/go-playground/validator/v10"
)

type authValidator struct {
	v *validate.Validate
}

// Usecaseは interface を依存注入
func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{v: validate.New()}
}

// サインアップの入力を検証
func (av *authValidator) ValidateRegister(in usecase.RegisterInput) map[string]string {
	fields := map[string]string{}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		fields["email"] = "email is required"
	} else if av.v.Var(email, "email") != nil {
		fields["email"] = "email format is invalid"
	}

	if in.Password == "" {
		fields["password"] = "password is required"
	} else if len(in.Password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}

	return fields
}

// ログインの入力を検証
func (av *authValidator) ValidateLogin(in usecase.LoginInput) map[string]string {
	fields := map[string]string{}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		fields["email"] = "email is required"
	} else if av.v.Var(email, "email") != nil {
		fields["email"] = "email format is invalid"
	}

	if in.Password == "" {
		fields["password"] = "password is required"
	}

	return fields
}
