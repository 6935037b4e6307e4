package models

// Requests for the swing point HTTP endpoints.

type TimeFrameSelectionRequest struct {
	Min15     bool `json:"min15"`
	Hour1     bool `json:"hour1"`
	Hour4     bool `json:"hour4"`
	DaySwings bool `json:"daySwings"`
	Day1      bool `json:"day1"`
}

// Selection maps the wire flags onto a TimeframeSelection; day1 is accepted as an alias of daySwings.
func (r TimeFrameSelectionRequest) Selection() TimeframeSelection {
	return TimeframeSelection{
		FifteenMin: r.Min15,
		OneHour:    r.Hour1,
		FourHour:   r.Hour4,
		OneDay:     r.DaySwings || r.Day1,
	}
}

type CalculateSwingPointsRequest struct {
	InstrumentKey      string                    `json:"instrumentKey" validate:"required"`
	CompanyName        string                    `json:"companyName" validate:"required"`
	FromDate           string                    `json:"fromDate"`
	Lookback           int                       `json:"lookback" default:"5" validate:"gte=1,lte=500"`
	TimeFrameSelection TimeFrameSelectionRequest `json:"timeFrameSelection"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

type WelcomeResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
