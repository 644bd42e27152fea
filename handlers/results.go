// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollbooth/cache"
	"github.com/danielhkuo/pollbooth/middleware"
	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/store"
)

type ResultsHandler struct {
	votes *store.VoteStore
	cache cache.Cache
}

func NewResultsHandler(votes *store.VoteStore, c cache.Cache) *ResultsHandler {
	return &ResultsHandler{votes: votes, cache: c}
}

// GetResults handles GET /polls/{client_id}/results
// Never fails for a well-formed id; an unknown poll has no options
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDFromPath(w, r)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.votes.Results(r.Context(), clientID))
}

// ListVotes handles GET /polls/{client_id}/votes
func (h *ResultsHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDFromPath(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := voteFilterFromQuery(clientID, q)

	if queryBool(q, "count") {
		n, err := h.votes.CountVotes(r.Context(), filter)
		if err != nil {
			writeAdminError(w, r, err)
			return
		}
		middleware.JSONResponse(w, http.StatusOK, models.CountResponse{Count: n})
		return
	}

	rows, err := h.votes.Votes(r.Context(), filter)
	if err != nil {
		writeAdminError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListResponse[models.VoteRow]{
		Items: rows,
		Page:  pageOf(filter.Page),
	})
}

// ListIPs handles GET /polls/{client_id}/ips
func (h *ResultsHandler) ListIPs(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDFromPath(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := voteFilterFromQuery(clientID, q)

	if queryBool(q, "count") {
		n, err := h.votes.CountIPs(r.Context(), filter)
		if err != nil {
			writeAdminError(w, r, err)
			return
		}
		middleware.JSONResponse(w, http.StatusOK, models.CountResponse{Count: n})
		return
	}

	rows, err := h.votes.IPVotes(r.Context(), filter)
	if err != nil {
		writeAdminError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListResponse[models.IPVotes]{
		Items: rows,
		Page:  pageOf(filter.Page),
	})
}

// ListLocations handles GET /polls/{client_id}/locations
func (h *ResultsHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDFromPath(w, r)
	if !ok {
		return
	}

	locations, err := h.votes.Locations(r.Context(), clientID)
	if err != nil {
		writeAdminError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, locations)
}

// ResetVotes handles DELETE /polls/{client_id}/votes
// Cached listings and results of every poll are dropped afterwards
func (h *ResultsHandler) ResetVotes(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDFromPath(w, r)
	if !ok {
		return
	}

	ok, err := h.votes.ResetResults(r.Context(), clientID)
	if err != nil {
		writeAdminError(w, r, err)
		return
	}

	h.cache.FlushGroup(r.Context(), cache.GroupPoll)
	h.cache.FlushGroup(r.Context(), cache.GroupVote)

	slog.Info("poll results reset", "client_id", clientID)

	middleware.JSONResponse(w, http.StatusOK, models.ResetResponse{Success: ok})
}
