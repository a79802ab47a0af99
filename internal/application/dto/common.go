package dto

import "github.com/shopspring/decimal"

// Cantidades y montos viajan como números JSON; el front end opera sobre ellos (toFixed).
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout formato de fecha usado en la API (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ErrorResponse cuerpo de error HTTP. Error repite Message: el front end lee ese campo.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// NewErrorResponse construye el cuerpo de error.
func NewErrorResponse(code, msg string) *ErrorResponse {
	return &ErrorResponse{Code: code, Message: msg, Error: msg}
}
