package checkout

import (
	"math/rand/v2"

	"camelia/internal/model"
)

// Payment method ids with special handling.
const (
	PaymentTransfer = "transferencia"

	// TransferFailureRate is the chance a bank transfer is declined.
	TransferFailureRate = 0.1
)

// Random is the source of uniform draws used for payment simulation and order ids.
// *rand.Rand satisfies it.
type Random interface {
	Float64() float64
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }
func (globalRandom) IntN(n int) int   { return rand.IntN(n) }

// DefaultRandom draws from the math/rand/v2 global source.
var DefaultRandom Random = globalRandom{}

// SimulatePayment charges method. Bank transfers fail with TransferFailureRate; every
// other method succeeds.
func SimulatePayment(method string, r Random) error {
	if method == PaymentTransfer && r.Float64() < TransferFailureRate {
		return model.ErrPaymentFailed
	}
	return nil
}

// NewOrderID returns a six digit order number.
func NewOrderID(r Random) int {
	return 100000 + r.IntN(900000)
}
