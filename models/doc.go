// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, query, request, and response types for the API.

# Domain Types

  - Poll: poll metadata, typed settings, and its options
  - Option: a choice within a poll, addressed by OptionID
  - Voter: identity of the person casting a ballot (user id, IP, agent, country)
  - Ballot: an accepted vote spanning one row per selected option
  - VoteRow: a stored vote joined with its option text
  - IPVotes: votes grouped by IP address
  - Results, OptionResult: aggregated tallies with percentages

# Status Rules

A poll accepts votes according to its status:

	publish   open
	draft     closed
	schedule  open until settings.endDate, closed after
	trash     closed

Poll.IsClosed implements these rules. A scheduled poll without an end date
stays open.

# Settings

Settings replaces the loose settings document with named fields. The JSON
names match the editor block attributes (endDate, closePollmessage,
allowedPerComputerResponse, confirmationMessageType, and so on). Call
WithDefaults before storing and Validate to reject unknown enumerations
or an unparsable end date.

# Errors

Sentinel errors (ErrNotFound, ErrAlreadyVoted, ...) are matched with
errors.Is. PollClosedError carries the message shown to the voter and
matches ErrPollClosed. StorageError wraps a driver failure with the kind
of write that failed (ErrInsert, ErrUpdate, ErrDeletion).

# Constants

Poll status:

  - StatusPublish, StatusDraft, StatusSchedule, StatusTrash

Confirmation type:

  - ConfirmMessage, ConfirmViewResult
*/
package models
