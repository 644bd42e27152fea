// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voter resolves who is casting a vote.

Resolve reads the request: the signed-in user id from the auth context,
the client address from middleware.GetClientIP and the user agent.
Loopback and private addresses are kept as-is so local installs still
record something; any other address must be a routable public one or the
IP is left empty.

	v := voter.Resolve(r)
	v.Country = geo.Country(ctx, v.IP)

GeoLocator queries a geoplugin-compatible endpoint and never fails: a
timeout, bad status or bad body yields an empty country.

Fingerprints turns a voter into the lock keys used for duplicate-vote
detection, user:<id> and ip:<hmac>. Raw addresses never appear in a key.
*/
package voter
