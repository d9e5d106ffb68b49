package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

type paymentForm struct {
	Name       string `json:"name" validate:"required"`
	CardNumber string `json:"card_number" validate:"required,cardnumber"`
	Expiry     string `json:"expiry" validate:"required,expiry"`
	CVC        string `json:"cvc" validate:"required,digits,min=3,max=4"`
}

func validForm() paymentForm {
	return paymentForm{Name: "Ana", CardNumber: "4242 4242 4242 4242", Expiry: "09/28", CVC: "123"}
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(validForm()))
}

func TestValidate_FieldsUseJSONNames(t *testing.T) {
	f := validForm()
	f.Name = ""
	f.Expiry = "13/28"

	err := Validate(f)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	fields := ve.Fields()
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "must be an expiry date in MM/YY form", fields["expiry"])
	assert.Contains(t, err.Error(), "field 'name' is required")
}

func TestValidate_CardNumber(t *testing.T) {
	tests := map[string]bool{
		"4242424242424242":    true,
		"4242-4242-4242-4242": true,
		"4242":                false,
		"4242 4242 abcd 4242": false,
	}
	for number, ok := range tests {
		f := validForm()
		f.CardNumber = number
		if ok {
			assert.NoError(t, Validate(f), number)
		} else {
			assert.Error(t, Validate(f), number)
		}
	}
}

func TestValidate_CVCDigits(t *testing.T) {
	f := validForm()
	f.CVC = "12a"
	var ve *ValidationError
	require.ErrorAs(t, Validate(f), &ve)
	assert.Equal(t, "must contain only digits", ve.Fields()["cvc"])
}

func TestDecodeAndValidate(t *testing.T) {
	body := `{"name":"Ana","card_number":"4242424242424242","expiry":"01/30","cvc":"999"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var f paymentForm
	require.NoError(t, DecodeAndValidate(req, &f))
	assert.Equal(t, "01/30", f.Expiry)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	var f paymentForm
	err := DecodeAndValidate(req, &f)
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "invalid request body")
}
