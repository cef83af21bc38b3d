package payprofile

type CreatePayProfileRequest struct {
	UserID             string `json:"user_id" binding:"required,uuid"`
	EmploymentType     string `json:"employment_type" binding:"required,oneof=DAILY_RATE HOURLY"`
	DailyRate          int64  `json:"daily_rate"`
	HourlyRate         int64  `json:"hourly_rate"`
	StandardDailyHours int64  `json:"standard_daily_hours"`
	MonthlyAllowance   int64  `json:"monthly_allowance"`
	EffectiveDate      string `json:"effective_date" binding:"required"`
}

type PayProfileResponse struct {
	ID                 string `json:"id"`
	UserID             string `json:"user_id"`
	EmploymentType     string `json:"employment_type"`
	DailyRate          int64  `json:"daily_rate"`
	HourlyRate         int64  `json:"hourly_rate"`
	StandardDailyHours int64  `json:"standard_daily_hours"`
	MonthlyAllowance   int64  `json:"monthly_allowance"`
	EffectiveDate      string `json:"effective_date"`
}

func mapToResponse(p PayProfile) PayProfileResponse {
	return PayProfileResponse{
		ID:                 p.ID.String(),
		UserID:             p.UserID.String(),
		EmploymentType:     p.EmploymentType,
		DailyRate:          p.DailyRate,
		HourlyRate:         p.HourlyRate,
		StandardDailyHours: p.StandardDailyHours,
		MonthlyAllowance:   p.MonthlyAllowance,
		EffectiveDate:      p.EffectiveDate.Format("2006-01-02"),
	}
}

func mapToListResponse(profiles []PayProfile) []PayProfileResponse {
	res := make([]PayProfileResponse, len(profiles))
	for i, p := range profiles {
		res[i] = mapToResponse(p)
	}
	return res
}
