// internal/common/utils/response.go

package utils

import (
	"encoding/json"
	"net/http"
)

// Two response shapes coexist: the partner-profile endpoints wrap payloads
// in the Response envelope, the other handler families write the payload
// directly. Both are kept so clients see stable shapes per endpoint.

// Response is the envelope used by the wrapping endpoints.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SuccessResponse writes data inside the success envelope.
func SuccessResponse(w http.ResponseWriter, data interface{}, statusCode int) {
	writeEnvelope(w, statusCode, Response{Success: true, Data: data})
}

// ErrorResponse writes an error message inside the envelope.
func ErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	writeEnvelope(w, statusCode, Response{Success: false, Error: message})
}

func writeEnvelope(w http.ResponseWriter, statusCode int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// RespondWithJSON writes the payload directly, with no envelope.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Error marshaling JSON"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithError writes a bare {"error": ...} object.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}
