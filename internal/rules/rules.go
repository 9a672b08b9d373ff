// Package rules decides what to do with an observed flight price.
package rules

import "github.com/shopspring/decimal"

// Decision is the outcome of evaluating a price against a watch.
type Decision string

const (
	Auto    Decision = "AUTO"
	Confirm Decision = "CONFIRM"
	None    Decision = "NONE"
)

// GreatDealFactor scales the 25th percentile: prices at or below
// p25 * GreatDealFactor are booked without asking.
var GreatDealFactor = decimal.RequireFromString("0.98")

// Typical holds the market statistics the evaluator looks at.
type Typical struct {
	P25 decimal.NullDecimal
	P50 decimal.NullDecimal
}

// Evaluate returns Auto, Confirm or None for price.  Rules are checked in
// order and the first match wins:
//
//  1. price <= autoBook                   -> Auto
//  2. price <= p25 * GreatDealFactor      -> Auto
//  3. price <= p50                        -> Confirm
//  4. price <= confirm                    -> Confirm
//
// A percentile that is missing, zero or negative is ignored.  currency is
// informational; no conversion happens.
func Evaluate(price decimal.Decimal, currency string, autoBook, confirm decimal.NullDecimal, typical *Typical) Decision {
	if autoBook.Valid && price.LessThanOrEqual(autoBook.Decimal) {
		return Auto
	}
	if typical != nil {
		if usable(typical.P25) && price.LessThanOrEqual(typical.P25.Decimal.Mul(GreatDealFactor)) {
			return Auto
		}
		if usable(typical.P50) && price.LessThanOrEqual(typical.P50.Decimal) {
			return Confirm
		}
	}
	if confirm.Valid && price.LessThanOrEqual(confirm.Decimal) {
		return Confirm
	}
	return None
}

func usable(p decimal.NullDecimal) bool {
	return p.Valid && p.Decimal.IsPositive()
}
