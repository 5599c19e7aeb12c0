package types

import "github.com/shopspring/decimal"

// Money rounding policy for the whole codebase: two decimal places,
// half away from zero. Every monetary value leaving a computation goes
// through RoundMoney before it is stored or compared.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns base × percent/100, unrounded.
func Percent(base decimal.Decimal, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(decimal.NewFromInt(100))
}
