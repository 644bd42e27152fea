// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package locale

import "github.com/nicksnyder/go-i18n/v2/i18n"

var (
	PollClosed = &i18n.Message{
		ID:    "vote.pollClosed",
		Other: "This poll is closed",
	}
	AlreadyVoted = &i18n.Message{
		ID:    "vote.alreadyVoted",
		Other: "You have already voted on this poll",
	}
	EmptyOptions = &i18n.Message{
		ID:    "vote.emptyOptions",
		Other: "Please select at least one option",
	}
	InvalidOption = &i18n.Message{
		ID:    "vote.invalidOption",
		Other: "Invalid poll option",
	}
	PollNotFound = &i18n.Message{
		ID:    "poll.notFound",
		Other: "Poll not found",
	}
	OperationFailed = &i18n.Message{
		ID:    "error.operationFailed",
		Other: "Operation failed, please try again",
	}

	VotesCount = &i18n.Message{
		ID:    "results.votesCount",
		One:   "{{.Votes}} vote",
		Other: "{{.Votes}} votes",
	}
	TotalVotes = &i18n.Message{
		ID:    "results.totalVotes",
		Other: "Total votes {{.Total}}",
	}
	NoResults = &i18n.Message{
		ID:    "results.noResults",
		Other: "No results found for this poll",
	}
)
