// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"regexp"
	"strings"
	"time"
)

// Poll status constants
const (
	StatusPublish  = "publish"
	StatusDraft    = "draft"
	StatusSchedule = "schedule"
	StatusTrash    = "trash"
)

// Filter value that disables the status or type filter in listings
const FilterAll = "all"

const TypePoll = "poll"

// Option type constants
const (
	OptionText  = "text"
	OptionImage = "image"
)

// Confirmation message types
const (
	ConfirmMessage    = "message"
	ConfirmViewResult = "view-result"
)

var clientIDPattern = regexp.MustCompile(`(?i)^[a-f\d]{8}(-[a-f\d]{4}){4}[a-f\d]{8}$`)

// ValidClientID reports whether id has the 8-4-4-4-12 hex shape.
func ValidClientID(id string) bool {
	return clientIDPattern.MatchString(id)
}

// NormalizeClientID returns the canonical stored form of a client id.
// Ids compare case-insensitively, so they are kept in lower case.
func NormalizeClientID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// ValidStatus reports whether status is one of the four poll states.
func ValidStatus(status string) bool {
	switch status {
	case StatusPublish, StatusDraft, StatusSchedule, StatusTrash:
		return true
	}
	return false
}

// Domain types

type Poll struct {
	ID          int64     `json:"id"`
	ClientID    string    `json:"client_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Reference   string    `json:"reference"`
	Settings    Settings  `json:"settings"`
	Options     []Option  `json:"options"`
	Response    int64     `json:"response,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsClosed reports whether the poll refuses votes at now.
// A scheduled poll without an end date stays open.
func (p Poll) IsClosed(now time.Time) bool {
	switch p.Status {
	case StatusPublish:
		return false
	case StatusSchedule:
		end, ok := p.Settings.EndTime()
		return ok && now.After(end)
	default:
		return true
	}
}

// ClosedMessage returns the configured closing message, or fallback when unset.
func (p Poll) ClosedMessage(fallback string) string {
	if p.Settings.ClosePollMessage != "" {
		return p.Settings.ClosePollMessage
	}
	return fallback
}

// HasOptions reports whether every id names an option of this poll.
func (p Poll) HasOptions(optionIDs []string) bool {
	known := make(map[string]struct{}, len(p.Options))
	for _, o := range p.Options {
		known[o.OptionID] = struct{}{}
	}
	for _, id := range optionIDs {
		if _, ok := known[id]; !ok {
			return false
		}
	}
	return true
}

type Option struct {
	ID       int64  `json:"id" db:"id"`
	PollID   int64  `json:"poll_id" db:"poll_id"`
	OptionID string `json:"option_id" db:"option_id"`
	Type     string `json:"type" db:"type"`
	Option   string `json:"option" db:"option"`
}

// Voter is the identity of whoever is casting a ballot. Never persisted on its own.
type Voter struct {
	UserID  int64  `json:"user_id"`
	IP      string `json:"ip"`
	Agent   string `json:"agent"`
	Country string `json:"country"`
}

// Ballot is one accepted vote. It spans one vote row per selected option.
type Ballot struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	OptionIDs []string  `json:"option_ids"`
	Voter     *Voter    `json:"voter,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WithoutVoter returns a copy of b with identity fields removed.
func (b Ballot) WithoutVoter() Ballot {
	b.Voter = nil
	return b
}

// VoteRow is a stored vote joined with the text of the option it selected.
type VoteRow struct {
	ID           int64     `json:"id" db:"id"`
	BallotID     string    `json:"ballot_id" db:"ballot_id"`
	ClientID     string    `json:"client_id" db:"client_id"`
	OptionID     string    `json:"option_id" db:"option_id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	UserIP       string    `json:"user_ip" db:"user_ip"`
	UserLocation string    `json:"user_location" db:"user_location"`
	UserAgent    string    `json:"user_agent" db:"user_agent"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	Option       string    `json:"option" db:"option"`
	OptionType   string    `json:"option_type" db:"option_type"`
}

type IPVotes struct {
	IP       string `json:"ip" db:"ip"`
	Location string `json:"location" db:"location"`
	Votes    int64  `json:"votes" db:"votes"`
}

type OptionResult struct {
	ID         int64   `json:"id"`
	OptionID   string  `json:"option_id"`
	Type       string  `json:"type"`
	Option     string  `json:"option"`
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
}

type Results struct {
	TotalVotes  int64          `json:"total_votes"`
	VoterCounts int            `json:"voter_counts"`
	Options     []OptionResult `json:"options"`
}

// Query types

type PollFilter struct {
	Status  string `json:"status"`
	Type    string `json:"type"`
	Search  string `json:"search"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	OrderBy string `json:"orderby"`
	Order   string `json:"order"`
}

type VoteFilter struct {
	ClientID string `json:"client_id"`
	UserID   int64  `json:"user_id"`
	Location string `json:"location"`
	IP       string `json:"ip"`
	Option   string `json:"option"`
	Search   string `json:"search"`
	Page     int    `json:"page"`
	PerPage  int    `json:"per_page"`
	OrderBy  string `json:"orderby"`
	Order    string `json:"order"`
}

// SavePollInput is the full desired state of a poll.
type SavePollInput struct {
	ClientID    string   `json:"client_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	Reference   string   `json:"reference"`
	Settings    Settings `json:"settings"`
	Options     []Option `json:"options"`
}

// VoteRequest is what the vote repository persists.
// Fingerprints become duplicate-vote locks when non-empty.
type VoteRequest struct {
	ClientID     string
	OptionIDs    []string
	Voter        Voter
	Fingerprints []string
}

// Request types

type CastVoteRequest struct {
	Options []string `json:"options"`
}

// Response types

type VoteReceipt struct {
	Success    bool     `json:"success"`
	Data       Ballot   `json:"data"`
	Settings   Settings `json:"settings"`
	Result     *Results `json:"result,omitempty"`
	ResultText string   `json:"result_text,omitempty"`
}

type ListResponse[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type ResetResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
