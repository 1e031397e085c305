// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package tracking

import "github.com/tomtom215/flickpulse/internal/models"

// WeightTable maps interaction types to the score added to each genre
// attached to a record of that type. Negative weights model disinterest;
// genres whose accumulated score is not strictly positive are dropped from
// the preference list.
type WeightTable map[models.InteractionType]float64

// DefaultWeightTable returns the production scoring weights.
//
// Explicit positive signals (likes, watchlist adds) outweigh passive views;
// hides are the strongest negative signal so a hidden title's genres fall
// out of the preference list quickly. Searches carry a small weight since a
// query shows intent but no commitment to the result set's genres.
func DefaultWeightTable() WeightTable {
	return WeightTable{
		models.InteractionView:            1.0,
		models.InteractionWatchlistAdd:    2.5,
		models.InteractionWatchlistRemove: -1.5,
		models.InteractionLike:            3.0,
		models.InteractionUnlike:          -3.0,
		models.InteractionTrailerPlay:     1.5,
		models.InteractionHide:            -5.0,
		models.InteractionUnhide:          0.5,
		models.InteractionSearch:          0.5,
		models.InteractionVoiceSearch:     0.5,
	}
}

// For returns the weight for an interaction type. Unknown types score zero
// so a record with a type added after this build still counts toward totals
// without skewing preferences.
func (w WeightTable) For(t models.InteractionType) float64 {
	return w[t]
}
