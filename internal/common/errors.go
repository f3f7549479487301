// Package common provides error handling utilities shared by the report
// engine's HTTP surface and its collaborators (envelope store, rule
// catalog, report store). Error constructors follow a fixed
// "<code> <reason>: <message>" string convention so that IsErr* classifiers
// can recover the HTTP status from a plain error without a custom type.
package common

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// ErrorHandler is the JSON envelope returned on every non-2xx API response.
type ErrorHandler struct {
	MessageType   string `json:"messageType"`
	Text          string `json:"text"`
	Code          string `json:"code,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
}

// NewErrorHandler builds an ErrorHandler from an error and request metadata.
func NewErrorHandler(messageType string, text error, code string, correlationID string) *ErrorHandler {
	return &ErrorHandler{
		MessageType:   messageType,
		Text:          text.Error(),
		Code:          code,
		CorrelationID: correlationID,
		Timestamp:     GetCurrentTimestamp(),
	}
}

// NewErrNotFound creates a standardized "404 Not Found" error.
func NewErrNotFound(elementID string) error {
	return errors.New("404 Not Found: " + elementID)
}

// NewErrBadRequest creates a standardized "400 Bad Request" error.
func NewErrBadRequest(message string) error {
	return errors.New("400 Bad Request: " + message)
}

// NewInternalServerError creates a standardized "500 Internal Server Error" error.
func NewInternalServerError(message string) error {
	return errors.New("500 Internal Server Error: " + message)
}

// NewErrConflict creates a standardized "409 Conflict" error.
func NewErrConflict(message string) error {
	return errors.New("409 Conflict: " + message)
}

// NewErrDenied creates a standardized "403 Denied" error.
func NewErrDenied(message string) error {
	return errors.New("403 Denied: " + message)
}

// IsErrNotFound reports whether err was produced by NewErrNotFound.
func IsErrNotFound(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "404 Not Found: ")
}

// IsErrBadRequest reports whether err was produced by NewErrBadRequest.
func IsErrBadRequest(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "400 Bad Request: ")
}

// IsInternalServerError reports whether err was produced by NewInternalServerError.
func IsInternalServerError(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "500 Internal Server Error: ")
}

// IsErrConflict reports whether err was produced by NewErrConflict.
func IsErrConflict(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "409 Conflict: ")
}

// IsErrDenied reports whether err was produced by NewErrDenied.
func IsErrDenied(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "403 Denied: ")
}

// StatusCodeFor maps a constructed error back to its HTTP status, defaulting
// to 500 for anything the API layer didn't wrap with one of the New* helpers.
func StatusCodeFor(err error) int {
	switch {
	case IsErrNotFound(err):
		return http.StatusNotFound
	case IsErrBadRequest(err):
		return http.StatusBadRequest
	case IsErrConflict(err):
		return http.StatusConflict
	case IsErrDenied(err):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorEnvelope builds the JSON body for a failed request, tagging it
// with a correlation ID for tracing across the envelope/catalog/store
// collaborators.
func NewErrorEnvelope(err error, correlationID string) ErrorHandler {
	code := StatusCodeFor(err)
	return *NewErrorHandler("Error", err, strconv.Itoa(code), correlationID)
}
