// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voter

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/pollbooth/auth"
	"github.com/danielhkuo/pollbooth/middleware"
	"github.com/danielhkuo/pollbooth/models"
)

// Resolve derives the voter identity from a request. Country is left
// empty; it needs a network lookup, see GeoLocator.
func Resolve(r *http.Request) models.Voter {
	ip := sanitizeText(middleware.GetClientIP(r))
	if !IsLocalIP(ip) {
		ip = PublicIP(ip)
	}

	return models.Voter{
		UserID: auth.UserIDFromContext(r.Context()),
		IP:     ip,
		Agent:  sanitizeText(r.UserAgent()),
	}
}

// Fingerprints returns the duplicate-vote lock keys for v: one per known
// identity. An anonymous voter with no IP has none.
func Fingerprints(v models.Voter, salt string) []string {
	var out []string
	if v.UserID > 0 {
		out = append(out, "user:"+strconv.FormatInt(v.UserID, 10))
	}
	if v.IP != "" {
		out = append(out, "ip:"+auth.HashIP(v.IP, salt))
	}
	return out
}
