// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollbooth/middleware"
	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/store"
)

type PollHandler struct {
	polls *store.PollStore
}

func NewPollHandler(polls *store.PollStore) *PollHandler {
	return &PollHandler{polls: polls}
}

// ListPolls handles GET /polls
// With count=true it returns only the number of matching polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := pollFilterFromQuery(q)

	if queryBool(q, "count") {
		n, err := h.polls.Count(r.Context(), filter)
		if err != nil {
			writeAdminError(w, r, err)
			return
		}
		middleware.JSONResponse(w, http.StatusOK, models.CountResponse{Count: n})
		return
	}

	polls, err := h.polls.All(r.Context(), filter)
	if err != nil {
		writeAdminError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListResponse[models.Poll]{
		Items: polls,
		Page:  pageOf(filter.Page),
	})
}

// GetPoll handles GET /polls/{client_id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDFromPath(w, r)
	if !ok {
		return
	}

	poll, err := h.polls.Get(r.Context(), clientID)
	if err != nil {
		writeAdminError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// CreatePoll handles POST /polls
// A missing client_id is generated; an existing one is updated in place
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.SavePollInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.ClientID = strings.TrimSpace(req.ClientID)
	status := http.StatusCreated
	if req.ClientID == "" {
		req.ClientID = uuid.NewString()
	} else if h.polls.Exist(r.Context(), req.ClientID) {
		status = http.StatusOK
	}

	poll, err := h.polls.Save(r.Context(), req)
	if err != nil {
		writeAdminError(w, r, err)
		return
	}

	slog.Info("poll saved", "client_id", poll.ClientID, "options", len(poll.Options))

	middleware.JSONResponse(w, status, poll)
}

// UpdatePoll handles PUT /polls/{client_id}
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDFromPath(w, r)
	if !ok {
		return
	}

	var req models.SavePollInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Client ids are immutable; the path wins over the body
	req.ClientID = clientID

	if !h.polls.Exist(r.Context(), clientID) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	poll, err := h.polls.Save(r.Context(), req)
	if err != nil {
		writeAdminError(w, r, err)
		return
	}

	slog.Info("poll updated", "client_id", clientID, "options", len(poll.Options))

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// DeletePoll handles DELETE /polls/{client_id}
// Votes of the poll are kept
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.polls.Delete(r.Context(), clientID); err != nil {
		writeAdminError(w, r, err)
		return
	}

	slog.Info("poll deleted", "client_id", clientID)

	w.WriteHeader(http.StatusNoContent)
}
