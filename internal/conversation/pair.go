// Package conversation derives two-party conversations from flat sender/receiver message rows.
//
// There is no stored conversation entity: two messages belong to the same conversation
// iff they share a Pair, and every ordering decision goes through Compare so the
// conversation view and the inbox view can never disagree on what "latest" means.
package conversation

// Pair is the unordered pair of participant ids of a message, stored low/high.
type Pair struct {
	Low  int64
	High int64
}

// PairOf returns the pair key for two participants, independent of direction.
func PairOf(a, b int64) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{Low: a, High: b}
}

// Includes reports whether userID is one of the participants.
func (p Pair) Includes(userID int64) bool {
	return p.Low == userID || p.High == userID
}

// Counterpart returns the participant that is not userID.
// For a degenerate pair (Low == High) it returns userID itself.
func (p Pair) Counterpart(userID int64) int64 {
	if p.Low == userID {
		return p.High
	}
	return p.Low
}
