package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PeriodRequest filtro de período (mes calendario) en query params.
type PeriodRequest struct {
	Year  int `query:"year"`
	Month int `query:"month"`
}

// Valid indica si el período es un mes calendario razonable.
func (p PeriodRequest) Valid() bool {
	return p.Year >= 2020 && p.Year <= 2100 && p.Month >= 1 && p.Month <= 12
}
