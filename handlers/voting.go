// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/danielhkuo/pollbooth/locale"
	"github.com/danielhkuo/pollbooth/middleware"
	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/voter"
	"github.com/danielhkuo/pollbooth/voting"
)

type VotingHandler struct {
	svc    *voting.Service
	bundle *locale.Bundle
}

func NewVotingHandler(svc *voting.Service, bundle *locale.Bundle) *VotingHandler {
	if bundle == nil {
		// English only; an empty directory cannot fail to load
		bundle, _ = locale.NewBundle("", nil)
	}
	return &VotingHandler{svc: svc, bundle: bundle}
}

// Vote handles POST /vote/{client_id}
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDFromPath(w, r)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	l := h.bundle.Localizer(r.Header.Get("Accept-Language"))
	v := voter.Resolve(r)

	receipt, err := h.svc.Vote(r.Context(), clientID, req.Options, v, l)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			slog.Error("vote failed", "client_id", clientID, "error", err)
		}
		middleware.ErrorResponse(w, status, h.voterMessage(l, err))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, receipt)
}

// voterMessage returns the localized text shown to a voter for err
func (h *VotingHandler) voterMessage(l *i18n.Localizer, err error) string {
	var closed *models.PollClosedError
	switch {
	case errors.As(err, &closed):
		return closed.Message
	case errors.Is(err, models.ErrNotFound):
		return h.bundle.Localize(l, locale.PollNotFound)
	case errors.Is(err, models.ErrEmptyOptions):
		return h.bundle.Localize(l, locale.EmptyOptions)
	case errors.Is(err, models.ErrInvalidPollOption):
		return h.bundle.Localize(l, locale.InvalidOption)
	case errors.Is(err, models.ErrAlreadyVoted):
		return h.bundle.Localize(l, locale.AlreadyVoted)
	default:
		return h.bundle.Localize(l, locale.OperationFailed)
	}
}
