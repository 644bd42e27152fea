// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollbooth/middleware"
	"github.com/danielhkuo/pollbooth/models"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidID),
		errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrFormat),
		errors.Is(err, models.ErrEmptyOptions),
		errors.Is(err, models.ErrInvalidPollOption),
		errors.Is(err, models.ErrPollClosed),
		errors.Is(err, models.ErrAlreadyVoted):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInsert),
		errors.Is(err, models.ErrUpdate),
		errors.Is(err, models.ErrDeletion):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeAdminError answers an admin request that failed.
// Validation messages are passed through; storage failures are not.
func writeAdminError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	var msg string
	switch status {
	case http.StatusNotFound:
		msg = "Poll not found"
	case http.StatusBadRequest:
		msg = err.Error()
	case http.StatusUnprocessableEntity:
		slog.Warn("admin write failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "Operation failed"
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "Operation failed"
	}

	middleware.ErrorResponse(w, status, msg)
}

// clientIDFromPath reads and validates the {client_id} path value.
// It writes a 400 and returns false when the id is malformed.
func clientIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	clientID := models.NormalizeClientID(r.PathValue("client_id"))
	if !models.ValidClientID(clientID) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid client_id")
		return "", false
	}
	return clientID, true
}
