package domain

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutState is a step of the simulated payment flow:
// form -> processing -> success -> closed.
type CheckoutState string

const (
	CheckoutForm       CheckoutState = "form"
	CheckoutProcessing CheckoutState = "processing"
	CheckoutSuccess    CheckoutState = "success"
	CheckoutClosed     CheckoutState = "closed"
)

// PaymentForm is what the shopper types in. Nothing is charged.
type PaymentForm struct {
	Name       string `json:"name" validate:"required"`
	CardNumber string `json:"card_number" validate:"required,cardnumber"`
	Expiry     string `json:"expiry" validate:"required,expiry"`
	CVC        string `json:"cvc" validate:"required,digits,min=3,max=4"`
}

// CheckoutView is the externally visible state of a session's checkout.
type CheckoutView struct {
	State         CheckoutState   `json:"state"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	ItemsCount    int             `json:"items_count"`
}

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewTransactionID builds "TXN-<unix millis>-<9 base36 chars>". It is a
// display reference only; uniqueness rests on the timestamp and the random
// suffix.
func NewTransactionID(now time.Time) string {
	var b strings.Builder
	b.Grow(9)
	for range 9 {
		b.WriteByte(base36[rand.IntN(len(base36))]) // #nosec G404 -- not a secret
	}
	return fmt.Sprintf("TXN-%s-%s", strconv.FormatInt(now.UnixMilli(), 10), b.String())
}
