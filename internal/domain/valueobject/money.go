package valueobject

import (
	"sort"

	"github.com/shopspring/decimal"
)

// centsExp is the scale money is distributed at.
const centsExp = 2

// Share returns part / whole, or zero when whole is not positive.
func Share(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole)
}

// PercentOf returns part / whole * 100 rounded to two places, or zero when whole is zero.
func PercentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(decimal.NewFromInt(100)).Div(whole).Round(2)
}

// DistributeProportionally splits total across weights at cent precision using the
// largest-remainder method. The returned shares always sum exactly to total rounded to cents.
// Non-positive weights receive nothing; if no weight is positive every share is zero.
func DistributeProportionally(total decimal.Decimal, weights []decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(weights))
	for i := range shares {
		shares[i] = decimal.Zero
	}

	sumWeights := decimal.Zero
	for _, w := range weights {
		if w.IsPositive() {
			sumWeights = sumWeights.Add(w)
		}
	}
	if sumWeights.IsZero() || total.IsZero() {
		return shares
	}

	negative := total.IsNegative()
	cents := total.Abs().Shift(centsExp).Round(0)

	type remainder struct {
		index int
		frac  decimal.Decimal
	}
	remainders := make([]remainder, 0, len(weights))
	assigned := decimal.Zero

	for i, w := range weights {
		if !w.IsPositive() {
			continue
		}
		exact := cents.Mul(w).Div(sumWeights)
		floor := exact.Floor()
		shares[i] = floor
		assigned = assigned.Add(floor)
		remainders = append(remainders, remainder{index: i, frac: exact.Sub(floor)})
	}

	// Largest fractional parts first, earlier index wins ties.
	sort.SliceStable(remainders, func(a, b int) bool {
		return remainders[a].frac.GreaterThan(remainders[b].frac)
	})

	leftover := cents.Sub(assigned).IntPart()
	for k := 0; k < int(leftover) && k < len(remainders); k++ {
		idx := remainders[k].index
		shares[idx] = shares[idx].Add(decimal.NewFromInt(1))
	}

	for i := range shares {
		shares[i] = shares[i].Shift(-centsExp)
		if negative {
			shares[i] = shares[i].Neg()
		}
	}
	return shares
}

// Sum adds a list of amounts.
func Sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
