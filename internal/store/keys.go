// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package store

import (
	"fmt"
	"strings"
	"time"
)

// Key prefixes for BadgerDB storage
const (
	interactionKeyPrefix   = "interaction:"
	interactionTimePrefix  = "interaction_ts:"
	summaryKeyPrefix       = "summary:"
	timestampPaddingDigits = 20
)

// userIDEscaper percent-encodes the bytes that carry structure in our keys.
// Without it a user ID containing ":" would land inside another user's key
// prefix and leak into that user's reads.
var userIDEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

// interactionKey builds the primary key for an interaction record.
// Zero-padded nanosecond timestamps keep lexicographic order chronological.
func interactionKey(userID string, ts time.Time, id string) []byte {
	return fmt.Appendf(nil, "%s%s:%0*d:%s",
		interactionKeyPrefix, userIDEscaper.Replace(userID),
		timestampPaddingDigits, ts.UTC().UnixNano(), id)
}

// interactionUserPrefix is the prefix covering all of one user's records.
func interactionUserPrefix(userID string) []byte {
	return []byte(interactionKeyPrefix + userIDEscaper.Replace(userID) + ":")
}

// interactionTimeKey builds the retention index key. The value stored under
// it is the primary key, so a retention pass can delete both in one step.
func interactionTimeKey(ts time.Time, userID, id string) []byte {
	return fmt.Appendf(nil, "%s%0*d:%s:%s",
		interactionTimePrefix, timestampPaddingDigits, ts.UTC().UnixNano(),
		userIDEscaper.Replace(userID), id)
}

// interactionTimeCutoff is the exclusive upper bound key for records strictly
// older than the cutoff time.
func interactionTimeCutoff(cutoff time.Time) []byte {
	return fmt.Appendf(nil, "%s%0*d",
		interactionTimePrefix, timestampPaddingDigits, cutoff.UTC().UnixNano())
}

// summaryKey builds the key for a user's summary document. The same escape
// rule applies so interaction and summary keys agree on user identity.
func summaryKey(userID string) []byte {
	return []byte(summaryKeyPrefix + userIDEscaper.Replace(userID))
}
