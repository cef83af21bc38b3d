package rates

type GetActiveRatesRequest struct {
	EmploymentType string `form:"employment_type" binding:"required,oneof=DAILY_RATE HOURLY"`
	AsOf           string `form:"as_of"`
}

type RateSetResponse struct {
	ID                         string `json:"id"`
	EmploymentType             string `json:"employment_type"`
	Source                     string `json:"source"`
	IncomeTaxRateBps           int64  `json:"income_tax_rate_bps"`
	PensionRateBps             int64  `json:"pension_rate_bps"`
	HealthInsuranceRateBps     int64  `json:"health_insurance_rate_bps"`
	EmploymentInsuranceRateBps int64  `json:"employment_insurance_rate_bps"`
	EffectiveFrom              string `json:"effective_from"`
}

func mapToResponse(rs RateSet) RateSetResponse {
	return RateSetResponse{
		ID:                         rs.ID.String(),
		EmploymentType:             rs.EmploymentType,
		Source:                     rs.Source,
		IncomeTaxRateBps:           rs.IncomeTaxRateBps,
		PensionRateBps:             rs.PensionRateBps,
		HealthInsuranceRateBps:     rs.HealthInsuranceRateBps,
		EmploymentInsuranceRateBps: rs.EmploymentInsuranceRateBps,
		EffectiveFrom:              rs.EffectiveFrom.Format("2006-01-02"),
	}
}
