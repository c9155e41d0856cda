package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ToPaise converts a rupee amount to the gateway's minor unit. Amounts with
// fractional paise are rejected rather than rounded.
func ToPaise(amount decimal.Decimal) (int64, error) {
	paise := amount.Shift(2)
	if !paise.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than two decimal places", amount.String())
	}
	return paise.IntPart(), nil
}

// FromPaise converts a minor-unit amount to rupees.
func FromPaise(paise int64) decimal.Decimal {
	return decimal.New(paise, -2)
}
