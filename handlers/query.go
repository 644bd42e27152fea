// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/danielhkuo/pollbooth/models"
)

// Malformed numbers read as zero so the store applies its defaults.
func queryInt(q url.Values, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return 0
	}
	return n
}

func queryBool(q url.Values, key string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(q.Get(key)))
	return err == nil && b
}

func pollFilterFromQuery(q url.Values) models.PollFilter {
	return models.PollFilter{
		Status:  q.Get("status"),
		Type:    q.Get("type"),
		Search:  q.Get("search"),
		Page:    queryInt(q, "page"),
		PerPage: queryInt(q, "per_page"),
		OrderBy: q.Get("orderby"),
		Order:   q.Get("order"),
	}
}

func voteFilterFromQuery(clientID string, q url.Values) models.VoteFilter {
	userID, _ := strconv.ParseInt(q.Get("user_id"), 10, 64)
	return models.VoteFilter{
		ClientID: clientID,
		UserID:   userID,
		Location: q.Get("location"),
		IP:       q.Get("ip"),
		Option:   q.Get("option"),
		Search:   q.Get("search"),
		Page:     queryInt(q, "page"),
		PerPage:  queryInt(q, "per_page"),
		OrderBy:  q.Get("orderby"),
		Order:    q.Get("order"),
	}
}

func pageOf(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}
