package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nikolayk812/checkout-core/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var kindStatus = map[string]int{
	"product_not_found":            http.StatusNotFound,
	"item_not_found":               http.StatusNotFound,
	"order_not_found":              http.StatusNotFound,
	"customer_not_found":           http.StatusNotFound,
	"insufficient_stock":           http.StatusConflict,
	"invalid_transition":           http.StatusConflict,
	"cart_changed":                 http.StatusConflict,
	"product_exists":               http.StatusConflict,
	"empty_cart":                   http.StatusUnprocessableEntity,
	"currency_mismatch":            http.StatusUnprocessableEntity,
	"invalid_quantity":             http.StatusBadRequest,
	"invalid_price":                http.StatusBadRequest,
	"invalid_input":                http.StatusBadRequest,
	"persistence_failure":          http.StatusServiceUnavailable,
	"partial_cancellation_failure": http.StatusInternalServerError,
}

// statusFor maps err to an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	kind := domain.Kind(err)
	if status, ok := kindStatus[kind]; ok {
		return status, kind
	}

	var bad badRequestError
	if errors.As(err, &bad) {
		return http.StatusBadRequest, "invalid_request"
	}

	return http.StatusInternalServerError, "internal"
}

type badRequestError struct {
	err error
}

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return badRequestError{err: err}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
