package salary

// roundHalfUpBps applies a basis-point rate to an amount, rounding half-up.
// Each deduction line item goes through this independently before the items
// are summed; the aggregate is never rounded, which keeps the books from
// drifting across many small deductions.
func roundHalfUpBps(amount, bps int64) int64 {
	return (amount*bps + 5000) / 10000
}
