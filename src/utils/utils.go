package utils

import (
	"encoding/json"
	"math"
	"net/http"
)

// JSONErrorResponse is the uniform error body returned by the API.
type JSONErrorResponse struct {
	Error string `json:"error"`
}

// SendJSONError writes a JSON error body with the given status code.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(JSONErrorResponse{Error: message})
}

// RoundFloat rounds a value to the given number of decimal places.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
