// Package allocation apportions a shared delivery fee across order lines.
//
// Shares are whole guaraníes and always sum to the fee exactly. EVEN gives
// every line the same base amount and hands the leftover units to the first
// lines in input order. WEIGHTED uses the largest remainder (Hamilton) method
// over each line's proportional share of the subtotal sum.
package allocation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sumopedidos/sumo-backend/pkg/enums"
)

// SplitDelivery returns one share per subtotal, in the same order, summing to
// fee. A non-positive fee or an empty input yields all zeros. WEIGHTED falls
// back to EVEN when the subtotals sum to zero or less. Unknown strategies are
// treated as EVEN. Inputs are expected to be non-negative.
func SplitDelivery(fee int64, subtotals []int64, strategy enums.SplitStrategy) []int64 {
	shares := make([]int64, len(subtotals))
	if len(subtotals) == 0 || fee <= 0 {
		return shares
	}

	if strategy == enums.SplitStrategyWeighted {
		var sum int64
		for _, s := range subtotals {
			sum += s
		}
		if sum > 0 {
			return splitWeighted(fee, subtotals, sum)
		}
	}
	return splitEven(fee, len(subtotals))
}

func splitEven(fee int64, n int) []int64 {
	shares := make([]int64, n)
	base := fee / int64(n)
	remainder := fee - base*int64(n)
	for i := range shares {
		shares[i] = base
		if int64(i) < remainder {
			shares[i]++
		}
	}
	return shares
}

// splitWeighted computes floor(fee*s_i/sum) for each line and gives the
// shortfall to the lines with the largest remainder, ties broken by input
// order. Remainders share the denominator sum, so comparing the integer
// remainders of fee*s_i divided by sum orders the fractional parts exactly.
// decimal keeps fee*s_i from overflowing int64.
func splitWeighted(fee int64, subtotals []int64, sum int64) []int64 {
	feeD := decimal.NewFromInt(fee)
	sumD := decimal.NewFromInt(sum)

	shares := make([]int64, len(subtotals))
	remainders := make([]decimal.Decimal, len(subtotals))
	var allocated int64
	for i, s := range subtotals {
		q, r := feeD.Mul(decimal.NewFromInt(s)).QuoRem(sumD, 0)
		shares[i] = q.IntPart()
		remainders[i] = r
		allocated += shares[i]
	}

	shortfall := fee - allocated
	if shortfall <= 0 {
		return shares
	}

	order := make([]int, len(subtotals))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})
	for k := int64(0); k < shortfall; k++ {
		shares[order[k]]++
	}
	return shares
}
