// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"
	"time"
)

// Layouts accepted for Settings.EndDate, tried in order.
var endDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Settings is the per-poll configuration written by the editor block.
// JSON names follow the block attributes.
type Settings struct {
	EndDate                    string `json:"endDate,omitempty"`
	ClosePollState             string `json:"closePollState,omitempty"`
	ClosePollMessage           string `json:"closePollmessage,omitempty"`
	AllowedPerComputerResponse bool   `json:"allowedPerComputerResponse"`
	ConfirmationMessageType    string `json:"confirmationMessageType"`
	ConfirmationMessage        string `json:"confirmationMessage"`
	OptionType                 string `json:"optionType"`
	Style
}

// Style carries presentation-only attributes. Stored and returned untouched.
type Style struct {
	SubmitButtonLabel      string `json:"submitButtonLabel,omitempty"`
	SubmitButtonBgColor    string `json:"submitButtonBgColor,omitempty"`
	SubmitButtonTextColor  string `json:"submitButtonTextColor,omitempty"`
	SubmitButtonWidth      string `json:"submitButtonWidth,omitempty"`
	SubmitButtonAlign      string `json:"submitButtonAlign,omitempty"`
	ClosingBanner          bool   `json:"closingBanner,omitempty"`
	ClosingBannerBgColor   string `json:"closingBannerBgColor,omitempty"`
	ClosingBannerTextColor string `json:"closingBannerTextColor,omitempty"`
}

// WithDefaults fills unset fields.
func (s Settings) WithDefaults() Settings {
	if s.ConfirmationMessageType == "" {
		s.ConfirmationMessageType = ConfirmMessage
	}
	if s.ConfirmationMessage == "" {
		s.ConfirmationMessage = "Thank you for voting!"
	}
	if s.OptionType == "" {
		s.OptionType = OptionText
	}
	if s.SubmitButtonLabel == "" {
		s.SubmitButtonLabel = "Vote"
	}
	return s
}

// Validate checks enumerated fields and the end date.
func (s Settings) Validate() error {
	switch s.ConfirmationMessageType {
	case "", ConfirmMessage, ConfirmViewResult:
	default:
		return fmt.Errorf("%w: unknown confirmationMessageType %q", ErrValidation, s.ConfirmationMessageType)
	}
	switch s.OptionType {
	case "", OptionText, OptionImage:
	default:
		return fmt.Errorf("%w: unknown optionType %q", ErrValidation, s.OptionType)
	}
	if s.EndDate != "" {
		if _, ok := s.EndTime(); !ok {
			return fmt.Errorf("%w: unparsable endDate %q", ErrValidation, s.EndDate)
		}
	}
	return nil
}

// EndTime parses EndDate. Dates without a zone are read as UTC.
func (s Settings) EndTime() (time.Time, bool) {
	if s.EndDate == "" {
		return time.Time{}, false
	}
	for _, layout := range endDateLayouts {
		if t, err := time.Parse(layout, s.EndDate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
