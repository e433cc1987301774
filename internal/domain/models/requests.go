package models

// Requests for forecast HTTP endpoints. Defined in domain for consistency and reuse.

type ForecastRequest struct {
	Persona  string `query:"persona" json:"persona" validate:"required,min=2,max=64"`
	Horizons string `query:"horizons" json:"horizons" default:"14d,30d"`
}

type AlertsRequest struct {
	Persona  string `query:"persona" json:"persona" validate:"required,min=2,max=64"`
	Horizons string `query:"horizons" json:"horizons" default:"14d"`
}
