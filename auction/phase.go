// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

// Phase is the state of a listing at a point in time. Only Unlisted and
// Settled are stored; the others are derived from the schedule.
type Phase uint8

const (
	PhaseUnlisted Phase = iota
	PhaseScheduled
	PhaseOpen
	PhaseEnded
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseScheduled:
		return "scheduled"
	case PhaseOpen:
		return "open"
	case PhaseEnded:
		return "ended"
	case PhaseSettled:
		return "settled"
	default:
		return "unlisted"
	}
}

// PhaseAt returns the phase of l at time now. A nil listing is unlisted.
func PhaseAt(l *Listing, now uint64) Phase {
	switch {
	case l == nil:
		return PhaseUnlisted
	case l.Settled:
		return PhaseSettled
	case now < l.StartTime:
		return PhaseScheduled
	case now < l.EndTime:
		return PhaseOpen
	default:
		return PhaseEnded
	}
}

func checkListPhase(p Phase) error {
	if p == PhaseUnlisted || p == PhaseSettled {
		return nil
	}
	return errAlreadyListed
}

func checkBidPhase(p Phase) error {
	switch p {
	case PhaseUnlisted:
		return errNonListedAsset
	case PhaseSettled:
		return errAssetNotListed
	case PhaseScheduled:
		return errYetToStart
	case PhaseEnded:
		return errAuctionEnded
	}
	return nil
}

func checkFinishPhase(p Phase) error {
	switch p {
	case PhaseUnlisted:
		return errNonListedAsset
	case PhaseSettled:
		return errAssetNotListed
	case PhaseScheduled, PhaseOpen:
		return errInProgress
	}
	return nil
}
