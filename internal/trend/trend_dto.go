package trend

type GetTrendQuery struct {
	Months int `form:"months"`
}

// TrendEntry is one month's aggregate over approved and paid snapshots.
type TrendEntry struct {
	MonthLabel    string `json:"month"`
	Count         int64  `json:"count"`
	GrossSum      int64  `json:"gross_sum"`
	DeductionsSum int64  `json:"deductions_sum"`
	NetSum        int64  `json:"net_sum"`
}
