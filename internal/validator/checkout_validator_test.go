package validator_test

import (
	"testing"

	"app/internal/usecase"
	"app/internal/validator"

	"github.com/stretchr/testify/assert"
)

func TestCheckoutValidator_Valid(t *testing.T) {
	cv := validator.NewCheckoutValidator()

	fields := cv.ValidateSolicitant(usecase.FinalizeOrderInput{
		SolicitantName:    "Client User",
		SolicitantContact: "client@example.com",
	})
	assert.Empty(t, fields)
}

func TestCheckoutValidator_NameRequired(t *testing.T) {
	cv := validator.NewCheckoutValidator()

	fields := cv.ValidateSolicitant(usecase.FinalizeOrderInput{
		SolicitantName:    "   ",
		SolicitantContact: "client@example.com",
	})
	assert.Equal(t, "name is required", fields["name"])
}

func TestCheckoutValidator_NameTooShort(t *testing.T) {
	cv := validator.NewCheckoutValidator()

	fields := cv.ValidateSolicitant(usecase.FinalizeOrderInput{
		SolicitantName:    "ab",
		SolicitantContact: "client@example.com",
	})
	assert.Equal(t, "name must be at least 3 characters", fields["name"])
}

func TestCheckoutValidator_ContactRequired(t *testing.T) {
	cv := validator.NewCheckoutValidator()

	fields := cv.ValidateSolicitant(usecase.FinalizeOrderInput{
		SolicitantName: "Client User",
	})
	assert.Equal(t, "contact is required", fields["contact"])
}

// 住所は任意
func TestCheckoutValidator_AddressOptional(t *testing.T) {
	cv := validator.NewCheckoutValidator()

	fields := cv.ValidateSolicitant(usecase.FinalizeOrderInput{
		SolicitantName:    "Client User",
		SolicitantContact: "123456789",
		SolicitantAddress: "",
	})
	assert.Empty(t, fields)
}
