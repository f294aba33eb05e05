package handler

import "net/http"

func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"error": message}

	// Fall back to an empty 500 when the envelope cannot be encoded.
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(500)
	}
}

// failedValidationResponse returns 422 UnprocessableEntity status.
// The body was well-formed JSON but its fields did not pass validation.
func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	errorResponse(w, http.StatusUnprocessableEntity, errors)
}

// badRequestResponse returns 400 BadRequest status
func badRequestResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusBadRequest, message)
}

// internalErrorResponse returns 500 InternalServerError status
func internalErrorResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusInternalServerError, message)
}

// serviceErrorResponse maps a service error to its status. Internal errors
// are not echoed to the client.
func serviceErrorResponse(w http.ResponseWriter, err error) {
	code := GetCode(err)
	if code == http.StatusInternalServerError {
		internalErrorResponse(w, "the server encountered a problem and could not process your request")
		return
	}
	errorResponse(w, code, err.Error())
}
