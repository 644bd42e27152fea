// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting decides whether a vote is admitted.

Service.Vote runs the checks in a fixed order and stops at the first
failure:

 1. the poll exists (models.ErrNotFound)
 2. at least one option was selected (models.ErrEmptyOptions)
 3. the poll is open (*models.PollClosedError)
 4. with allowedPerComputerResponse on, the voter has not voted yet
    (models.ErrAlreadyVoted)

The country is then resolved and the ballot written. With the
per-computer policy on, the write also takes a lock per voter
fingerprint, so two concurrent first votes cannot both succeed.

The receipt never carries the voter identity. When the poll's
confirmation type is view-result it includes the fresh results and a
plain-text rendering from RenderResults.
*/
package voting
