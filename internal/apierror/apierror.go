// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Sentinel domain errors. Services wrap them with fmt.Errorf("%w", ...);
// handlers map them to HTTP status codes with errors.Is.
var (
	// ErrNotFound: a referenced record does not exist.
	ErrNotFound = errors.New("registro no encontrado")
	// ErrStockInsuficiente: an outbound movement would drive stock below zero.
	ErrStockInsuficiente = errors.New("stock insuficiente")
	// ErrEstadoInvalido: a lifecycle transition not allowed from the current state.
	ErrEstadoInvalido = errors.New("transicion de estado invalida")
)

// ItemFailure describes one failed line item of a multi-item stock operation.
type ItemFailure struct {
	ProductoID string `json:"producto_id"`
	Producto   string `json:"producto,omitempty"`
	Motivo     string `json:"motivo"`
}

// ItemsError aggregates per-item failures of a stock fan-out. The fan-out runs
// inside one transaction, so any failure aborts the whole operation; the list
// tells the caller exactly which items to fix.
type ItemsError struct {
	Op    string        `json:"op"`
	Items []ItemFailure `json:"items"`
}

func (e *ItemsError) Error() string {
	if len(e.Items) == 1 {
		return fmt.Sprintf("%s: %s", e.Op, e.Items[0].Motivo)
	}
	return fmt.Sprintf("%s: fallaron %d items", e.Op, len(e.Items))
}
